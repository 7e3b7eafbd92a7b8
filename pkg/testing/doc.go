// Package testing provides a test harness for hook components.
//
// # Quick Start
//
// Mount a component, flush the scheduler, and assert on the output:
//
//	func TestCounter(t *testing.T) {
//	    tester := hookstest.NewTesterWithT(t)
//	    hookstest.Mount(tester, "Counter", Counter, CounterProps{})
//	    tester.Flush()
//
//	    if got := tester.Texts(); len(got) != 1 || got[0] != "Count: 0" {
//	        t.Errorf("unexpected output %v", got)
//	    }
//	}
//
// Renders only happen when Flush is called, so tests control exactly when
// scheduled work runs, including cancelling it with tester.Owner().Cancel().
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import hookstest "github.com/go-drift/hookscope/pkg/testing"
package testing
