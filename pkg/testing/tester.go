package testing

import (
	"testing"

	"github.com/go-drift/hookscope/pkg/config"
	"github.com/go-drift/hookscope/pkg/host"
	"github.com/go-drift/hookscope/pkg/observability"
	"github.com/go-drift/hookscope/pkg/scheduler"
)

// Tester drives a host with a manual scheduler. Every event emitted by the
// host and its instances is recorded.
type Tester struct {
	queue  *scheduler.Queue
	owner  *host.Owner
	events *observability.Recorder
}

// NewTester creates a tester with the default configuration.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	return NewTesterWithConfig(config.Default())
}

// NewTesterWithConfig creates a tester whose host uses cfg.
func NewTesterWithConfig(cfg *config.Config) *Tester {
	q := scheduler.NewQueue()
	events := &observability.Recorder{}
	return &Tester{
		queue:  q,
		owner:  host.NewOwner(q, host.WithConfig(cfg), host.WithObserver(events)),
		events: events,
	}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts every mounted component.
func (t *Tester) Cleanup() {
	for _, e := range t.owner.Elements() {
		e.Unmount()
	}
}

// Owner returns the host owner.
func (t *Tester) Owner() *host.Owner { return t.owner }

// Scheduler returns the manual scheduler.
func (t *Tester) Scheduler() *scheduler.Queue { return t.queue }

// Events returns the recorded events.
func (t *Tester) Events() *observability.Recorder { return t.events }

// Flush runs all scheduled callbacks and returns how many ran.
func (t *Tester) Flush() int {
	return t.queue.Flush()
}

// Children returns the committed output of every mounted component.
func (t *Tester) Children() []any {
	return t.owner.Children()
}

// Texts returns the Prop of every host.Span output, in mount order.
func (t *Tester) Texts() []string {
	var out []string
	for _, child := range t.owner.Children() {
		if span, ok := child.(host.Span); ok {
			out = append(out, span.Prop)
		}
	}
	return out
}

// Mount mounts component on the tester's host. The first render happens on
// the next Flush.
func Mount[P any](t *Tester, name string, component host.Component[P], props P) *host.Mounted[P] {
	return host.Mount(t.owner, name, component, props)
}
