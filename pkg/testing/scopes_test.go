package testing

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/go-drift/hookscope/pkg/errors"
	"github.com/go-drift/hookscope/pkg/hooks"
	"github.com/go-drift/hookscope/pkg/host"
	"github.com/go-drift/hookscope/pkg/observability"
)

func expectTexts(t *testing.T, tester *Tester, want ...string) {
	t.Helper()
	got := tester.Texts()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

type counterHandle struct {
	updateCount func(int)
}

type counterProps struct {
	ref *hooks.Ref[counterHandle]
}

func scopedCounter(rc *hooks.RenderContext, props counterProps) any {
	return hooks.InScope(rc, func() any {
		count, setCount := hooks.UseState(rc, 0)
		hooks.UseImperativeHandle(rc, props.ref, func() counterHandle {
			return counterHandle{updateCount: setCount.Set}
		}, nil)
		return host.Text("Count: " + strconv.Itoa(count))
	})
}

func TestInScope_MountAndUpdate(t *testing.T) {
	tester := NewTesterWithT(t)
	ref := hooks.NewRef(counterHandle{})

	Mount(tester, "Counter", scopedCounter, counterProps{ref: ref})
	tester.Flush()
	expectTexts(t, tester, "Count: 0")

	ref.Current.updateCount(1)
	tester.Flush()
	expectTexts(t, tester, "Count: 1")
}

type scrollProps struct {
	row int
}

// scrollView derives internal state from a prop during render. The outer ref
// counts host renders, the scoped ref counts scope executions including
// replays.
func scrollView(rc *hooks.RenderContext, props scrollProps) any {
	external := hooks.UseRef(rc, 0)
	external.Current++

	var internal *hooks.Ref[int]
	hooks.RunInScope(rc, func() {
		internal = hooks.UseRef(rc, 0)
		internal.Current++
		row, setRow := hooks.UseState(rc, 1)
		if row != props.row {
			setRow.Set(props.row)
		}
	})

	return host.Text(fmt.Sprintf("Counters: %d %d", external.Current, internal.Current))
}

func TestRenderPhaseUpdate_ReplaysScope(t *testing.T) {
	tester := NewTesterWithT(t)

	view := Mount(tester, "ScrollView", scrollView, scrollProps{row: 1})
	tester.Flush()
	expectTexts(t, tester, "Counters: 1 1")

	steps := []struct {
		row  int
		want string
	}{
		{5, "Counters: 2 3"},
		{5, "Counters: 3 4"},
		{10, "Counters: 4 6"},
		{10, "Counters: 5 7"},
	}
	for _, step := range steps {
		view.SetProps(scrollProps{row: step.row})
		tester.Flush()
		expectTexts(t, tester, step.want)
	}

	if got := tester.Events().Count(observability.EventRenderRestart); got != 2 {
		t.Errorf("Expected 2 restarts, got %d", got)
	}
	if got := view.Renders(); got != 5 {
		t.Errorf("Expected 5 committed renders, got %d", got)
	}
}

type listHandle struct {
	setList func([]int)
}

type listProps struct {
	ref *hooks.Ref[listHandle]
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// newList returns a list component whose memoized values depend on a factor
// read from outside the declared deps.
func newList(factor *int) host.Component[listProps] {
	return func(rc *hooks.RenderContext, props listProps) any {
		items, setList := hooks.UseState(rc, []int{1})
		hooks.UseImperativeHandle(rc, props.ref, func() listHandle {
			return listHandle{setList: setList.Set}
		}, nil)

		multiplied := hooks.InNamedScopes(rc, func(ns *hooks.NamedScopes) []int {
			out := make([]int, 0, len(items))
			for _, item := range items {
				out = append(out, hooks.InNamedScope(ns, item, func() int {
					return hooks.UseMemo(rc, func() int { return item * *factor }, hooks.Deps(item))
				}))
			}
			return out
		})
		return host.Text("List: " + joinInts(multiplied))
	}
}

func TestInNamedScopes_MountAndUpdate(t *testing.T) {
	tester := NewTesterWithT(t)
	factor := 2
	ref := hooks.NewRef(listHandle{})

	Mount(tester, "List", newList(&factor), listProps{ref: ref})
	tester.Flush()
	expectTexts(t, tester, "List: 2")

	ref.Current.setList([]int{1, 2})
	tester.Flush()
	expectTexts(t, tester, "List: 2,4")

	ref.Current.setList([]int{1, 3, 2})
	tester.Flush()
	expectTexts(t, tester, "List: 2,6,4")

	// Existing keys keep their memoized values: the factor is not a dep.
	factor = 5
	ref.Current.setList([]int{1, 4, 3, 2})
	tester.Flush()
	expectTexts(t, tester, "List: 2,20,6,4")
}

func TestInNamedScopes_RemovedKeyStartsFresh(t *testing.T) {
	tester := NewTesterWithT(t)
	factor := 2
	ref := hooks.NewRef(listHandle{})

	list := Mount(tester, "List", newList(&factor), listProps{ref: ref})
	tester.Flush()
	ref.Current.setList([]int{1, 2})
	tester.Flush()
	expectTexts(t, tester, "List: 2,4")

	ref.Current.setList([]int{2})
	tester.Flush()
	expectTexts(t, tester, "List: 4")

	factor = 5
	ref.Current.setList([]int{1, 2})
	tester.Flush()
	expectTexts(t, tester, "List: 5,4")

	if got := tester.Events().Count(observability.EventScopeDiscarded); got != 1 {
		t.Errorf("Expected 1 discarded scope, got %d", got)
	}
	site := list.Instance().Inspect().Sites[0]
	if len(site.Keys) != 2 || site.Keys[0] != 2 || site.Keys[1] != 1 {
		t.Errorf("Expected keys [2 1] in insertion order, got %v", site.Keys)
	}
}

func TestInConditionalScope_Mount(t *testing.T) {
	tester := NewTesterWithT(t)

	component := func(rc *hooks.RenderContext, _ struct{}) any {
		return hooks.InConditionalScope(rc, true, func() any {
			return host.Text("Text")
		})
	}
	Mount(tester, "Component", component, struct{}{})
	tester.Flush()
	expectTexts(t, tester, "Text")
}

func TestCancelledFlush_LeavesNoState(t *testing.T) {
	tester := NewTesterWithT(t)
	ref := hooks.NewRef(counterHandle{})

	counter := Mount(tester, "Counter", scopedCounter, counterProps{ref: ref})
	tester.Owner().Cancel()

	if ran := tester.Flush(); ran != 0 {
		t.Errorf("Expected cancelled flush not to run, ran %d", ran)
	}
	if len(tester.Children()) != 0 {
		t.Errorf("Expected no output, got %v", tester.Children())
	}
	if info := counter.Instance().Inspect(); len(info.Slots) != 0 || len(info.Sites) != 0 {
		t.Errorf("Expected untouched hook state, got:\n%s", info)
	}

	// The element is still dirty and renders on the next explicit flush.
	tester.Owner().FlushBuild()
	expectTexts(t, tester, "Count: 0")
}

type recordingHandler struct {
	errors.LogHandler
	renderErrors []*errors.RenderError
}

func (h *recordingHandler) HandleRenderError(err *errors.RenderError) {
	h.renderErrors = append(h.renderErrors, err)
}

func TestHookOrderChange_KeepsPreviousOutput(t *testing.T) {
	handler := &recordingHandler{}
	errors.SetHandler(handler)
	defer errors.SetHandler(nil)

	tester := NewTesterWithT(t)
	component := func(rc *hooks.RenderContext, useRef bool) any {
		if useRef {
			hooks.UseRef(rc, 0)
		} else {
			hooks.UseState(rc, 0)
		}
		return host.Text("ok")
	}
	el := Mount(tester, "Flaky", component, false)
	tester.Flush()
	expectTexts(t, tester, "ok")

	el.SetProps(true)
	tester.Flush()
	expectTexts(t, tester, "ok")

	var order *errors.HookOrderError
	if !stderrors.As(el.Err(), &order) {
		t.Fatalf("Expected HookOrderError, got %v", el.Err())
	}
	if len(handler.renderErrors) != 1 || handler.renderErrors[0].Kind != errors.KindHookOrder {
		t.Errorf("Expected one hook-order report, got %+v", handler.renderErrors)
	}
	if got := tester.Events().Count(observability.EventRenderFailed); got != 1 {
		t.Errorf("Expected 1 failed render event, got %d", got)
	}
}

func TestUnmount_DropsUpdates(t *testing.T) {
	tester := NewTesterWithT(t)
	ref := hooks.NewRef(counterHandle{})

	counter := Mount(tester, "Counter", scopedCounter, counterProps{ref: ref})
	tester.Flush()
	counter.Unmount()

	ref.Current.updateCount(3)
	if ran := tester.Flush(); ran != 0 {
		t.Errorf("Expected no render after unmount, ran %d", ran)
	}
	if len(tester.Children()) != 0 {
		t.Errorf("Expected no children after unmount, got %v", tester.Children())
	}
}
