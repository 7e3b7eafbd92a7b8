package hooks

import "strings"

// SlotInfo describes the committed layout of one slot sequence.
type SlotInfo struct {
	// Path identifies the scope, e.g. "root/scope[0]" or "root/named[0][3]".
	Path string
	// Slots names each hook slot in call order, e.g. "UseState[int]".
	Slots []string
	// Sites lists the scope call sites in call order.
	Sites []SiteInfo
}

// SiteInfo describes one scope call site. For KindScope and
// KindConditionalScope, Scopes holds the single nested sequence. For
// KindNamedScopes, Keys and Scopes are aligned and in insertion order.
type SiteInfo struct {
	Kind   Kind
	Keys   []any
	Scopes []SlotInfo
}

// Inspect returns the slot layout of the instance. It must not be called
// while the instance is rendering.
func (i *Instance) Inspect() SlotInfo {
	return inspectSequence(i.root)
}

func inspectSequence(seq *slotSequence) SlotInfo {
	info := SlotInfo{Path: seq.path}
	for _, r := range seq.records {
		info.Slots = append(info.Slots, r.describe())
	}
	for _, site := range seq.sites {
		si := SiteInfo{Kind: site.kind}
		switch {
		case site.seq != nil:
			si.Scopes = []SlotInfo{inspectSequence(site.seq)}
		case site.table != nil:
			for _, key := range site.table.order {
				si.Keys = append(si.Keys, key)
				si.Scopes = append(si.Scopes, inspectSequence(site.table.entries[key]))
			}
		}
		info.Sites = append(info.Sites, si)
	}
	return info
}

// Lookup finds the sequence with the given path below (or at) info.
func (info SlotInfo) Lookup(path string) (SlotInfo, bool) {
	if info.Path == path {
		return info, true
	}
	if !strings.HasPrefix(path, info.Path) {
		return SlotInfo{}, false
	}
	for _, site := range info.Sites {
		for _, child := range site.Scopes {
			if found, ok := child.Lookup(path); ok {
				return found, true
			}
		}
	}
	return SlotInfo{}, false
}

// String renders the layout as an indented tree.
func (info SlotInfo) String() string {
	var sb strings.Builder
	info.write(&sb, 0)
	return sb.String()
}

func (info SlotInfo) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString(info.Path)
	if len(info.Slots) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(info.Slots, ", "))
		sb.WriteString("]")
	}
	sb.WriteByte('\n')
	for _, site := range info.Sites {
		for _, child := range site.Scopes {
			child.write(sb, depth+1)
		}
	}
}
