package hooks

import "testing"

func TestInspect_Layout(t *testing.T) {
	h := newHarness()
	render(t, h.inst, func(rc *RenderContext) int {
		UseState(rc, 0)
		RunInScope(rc, func() {
			UseRef(rc, "")
		})
		InConditionalScope(rc, false, func() int { return 0 })
		return InNamedScopes(rc, func(ns *NamedScopes) int {
			return InNamedScope(ns, 7, func() int {
				return UseMemo(rc, func() int { return 7 }, Deps())
			})
		})
	})

	info := h.inst.Inspect()
	want := "root [UseState[int]]\n" +
		"  root/scope[0] [UseRef[string]]\n" +
		"  root/if[1]\n" +
		"  root/named[2][7] [UseMemo[int]]\n"
	if got := info.String(); got != want {
		t.Errorf("Unexpected layout:\n%s\nwant:\n%s", got, want)
	}

	kinds := []Kind{KindScope, KindConditionalScope, KindNamedScopes}
	for i, site := range info.Sites {
		if site.Kind != kinds[i] {
			t.Errorf("Site %d: expected %s, got %s", i, kinds[i], site.Kind)
		}
	}

	if _, ok := info.Lookup("root/named[2][7]"); !ok {
		t.Error("Expected to find keyed scope")
	}
	if _, ok := info.Lookup("root/scope[9]"); ok {
		t.Error("Unexpected match for missing scope")
	}
}

func TestInstance_Label(t *testing.T) {
	inst := NewInstance("Counter")
	label := inst.Label()
	if len(label) != len("Counter#")+12 || label[:8] != "Counter#" {
		t.Errorf("Unexpected label %q", label)
	}
	if inst.Name() != "Counter" || inst.ID().Version() != 7 {
		t.Errorf("Unexpected identity %s %s", inst.Name(), inst.ID())
	}
	if NewInstance("Counter").ID() == inst.ID() {
		t.Error("Instance ids should be unique")
	}
}
