// Package hooks implements hook state for function components: ordered,
// per-call persistent state that survives re-renders, plus nested scopes that
// give sub-regions of a render their own hook sequences.
//
// # Rendering
//
// A host creates one Instance per mounted component and renders it with
// Render, which hands the component body an explicit *RenderContext:
//
//	inst := hooks.NewInstance("Counter")
//	out, err := hooks.Render(inst, func(rc *hooks.RenderContext) string {
//	    count, setCount := hooks.UseState(rc, 0)
//	    _ = setCount
//	    return fmt.Sprintf("Count: %d", count)
//	})
//
// Hooks are identified by call order within their scope. Calling them in a
// different order (or with a different type) on a later render is reported as
// *errors.HookOrderError.
//
// # Scopes
//
// InScope and InConditionalScope give a region its own hook sequence,
// identified by the position of the scope call. InNamedScopes identifies
// nested sequences by key instead, so per-item state follows the item when a
// list is reordered:
//
//	doubled := hooks.InNamedScopes(rc, func(ns *hooks.NamedScopes) []int {
//	    out := make([]int, 0, len(items))
//	    for _, item := range items {
//	        out = append(out, hooks.InNamedScope(ns, item, func() int {
//	            return hooks.UseMemo(rc, func() int { return item * 2 }, hooks.Deps(item))
//	        }))
//	    }
//	    return out
//	})
//
// # Render-phase updates
//
// A setter called while its own instance is rendering queues the update and
// replays the scope that owns the state once the scope function returns. The
// replay reads the state with all queued updates applied in order. Replays
// are bounded (config.DefaultMaxRestarts by default); exceeding the bound
// fails the render with *errors.RenderDivergenceError and commits nothing.
package hooks
