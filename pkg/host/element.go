package host

import (
	stderrors "errors"

	"github.com/go-drift/hookscope/pkg/errors"
	"github.com/go-drift/hookscope/pkg/hooks"
)

// Component is a function component: it reads hooks through rc and returns
// its output for the given props.
type Component[P any] func(rc *hooks.RenderContext, props P) any

// Element hosts one mounted component.
type Element struct {
	owner   *Owner
	id      int
	inst    *hooks.Instance
	build   func(rc *hooks.RenderContext) any
	output  any
	err     error
	mounted bool
	renders int
}

// Instance returns the hook instance of the element.
func (e *Element) Instance() *hooks.Instance { return e.inst }

// Output returns the output of the last committed render.
func (e *Element) Output() any { return e.output }

// Err returns the error of the last render, or nil if it committed.
func (e *Element) Err() error { return e.err }

// Renders returns how many renders of this element committed.
func (e *Element) Renders() int { return e.renders }

// IsMounted reports whether the element is still mounted.
func (e *Element) IsMounted() bool { return e.mounted }

// MarkNeedsBuild schedules a render of the element.
func (e *Element) MarkNeedsBuild() {
	e.owner.ScheduleBuild(e)
}

// Unmount disposes the element's hook state and removes it from its owner.
func (e *Element) Unmount() {
	if !e.mounted {
		return
	}
	e.mounted = false
	e.inst.Dispose()
	e.owner.remove(e)
}

// rebuild renders the component. A failed render keeps the previous output,
// records the error and reports it to the global error handler.
func (e *Element) rebuild() {
	out, err := hooks.Render(e.inst, e.build)
	if err != nil {
		e.err = err
		var re *errors.RenderError
		if stderrors.As(err, &re) {
			errors.ReportRenderError(re)
		}
		return
	}
	e.err = nil
	e.output = out
	e.renders++
}

// Mounted is an element together with its typed component and props.
type Mounted[P any] struct {
	*Element
	component Component[P]
	props     P
}

// Mount attaches component to the owner with the given props and schedules
// its first render.
func Mount[P any](o *Owner, name string, component Component[P], props P) *Mounted[P] {
	o.nextID++
	m := &Mounted[P]{
		Element:   &Element{owner: o, id: o.nextID, mounted: true},
		component: component,
		props:     props,
	}
	m.inst = hooks.NewInstance(name, o.instanceOptions(m.Element)...)
	m.build = func(rc *hooks.RenderContext) any {
		return m.component(rc, m.props)
	}
	o.elements = append(o.elements, m.Element)
	o.ScheduleBuild(m.Element)
	return m
}

// Props returns the current props.
func (m *Mounted[P]) Props() P { return m.props }

// SetProps replaces the props and schedules a render, even when the new
// props equal the old ones.
func (m *Mounted[P]) SetProps(props P) {
	m.props = props
	m.MarkNeedsBuild()
}

// Span is the leaf output used by simple components: a single text prop.
type Span struct {
	Prop string
}

// Text returns a Span carrying text.
func Text(text string) Span {
	return Span{Prop: text}
}
