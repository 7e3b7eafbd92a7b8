package hooks

import (
	"reflect"

	"github.com/go-drift/hookscope/pkg/errors"
)

// Kind identifies what a scope call site was created by.
type Kind int

const (
	KindScope Kind = iota + 1
	KindConditionalScope
	KindNamedScopes
)

func (k Kind) String() string {
	switch k {
	case KindScope:
		return "InScope"
	case KindConditionalScope:
		return "InConditionalScope"
	case KindNamedScopes:
		return "InNamedScopes"
	default:
		return "unknown"
	}
}

// record is one hook slot. describe names the hook and its Go type so that
// order violations can say what moved.
type record interface {
	describe() string
}

// releaser is implemented by records that hand out callbacks which must stop
// working once the slot is discarded.
type releaser interface {
	release()
}

// slotSequence is the ordered hook storage owned by one scope identity.
// Hook records and scope call sites are addressed by two independent cursors
// so that adding a hook never shifts the identity of a nested scope.
type slotSequence struct {
	parent *slotSequence
	path   string

	records    []record
	cursor     int
	sites      []*scopeSite
	siteCursor int

	active bool
	replay bool

	// Per-attempt bookkeeping, reset at commit or rollback.
	touched     bool
	snapRecords int
	snapSites   int
	usedRecords int
	usedSites   int
}

type scopeSite struct {
	kind  Kind
	seq   *slotSequence
	table *namedTable
}

func newSequence(parent *slotSequence, path string) *slotSequence {
	return &slotSequence{parent: parent, path: path}
}

// nextSlot services the hook at the cursor of the active sequence. An existing
// record is returned when its type matches R; on first visit create builds
// one. The cursor always advances.
func nextSlot[R record](rc *RenderContext, hook string, create func(seq *slotSequence) R) R {
	seq := rc.top(hook)
	idx := seq.cursor
	seq.cursor++
	if idx < len(seq.records) {
		existing := seq.records[idx]
		rec, ok := existing.(R)
		if !ok {
			var want R
			panic(&errors.HookOrderError{
				Scope:    seq.path,
				Index:    idx,
				Expected: existing.describe(),
				Found:    want.describe(),
			})
		}
		return rec
	}
	rec := create(seq)
	seq.records = append(seq.records, rec)
	return rec
}

// nextSite is nextSlot for scope call sites.
func nextSite(rc *RenderContext, hook string, kind Kind, create func(parent *slotSequence, idx int) *scopeSite) *scopeSite {
	seq := rc.top(hook)
	idx := seq.siteCursor
	seq.siteCursor++
	if idx < len(seq.sites) {
		site := seq.sites[idx]
		if site.kind != kind {
			panic(&errors.HookOrderError{
				Scope:    seq.path + " scopes",
				Index:    idx,
				Expected: site.kind.String(),
				Found:    kind.String(),
			})
		}
		return site
	}
	site := create(seq, idx)
	site.kind = kind
	seq.sites = append(seq.sites, site)
	return site
}

// within reports whether s is scope or nested below it.
func (s *slotSequence) within(scope *slotSequence) bool {
	for p := s; p != nil; p = p.parent {
		if p == scope {
			return true
		}
	}
	return false
}

// truncate drops records and sites beyond the given lengths and returns how
// many entries were removed.
func (s *slotSequence) truncate(records, sites int) int {
	removed := 0
	if records < len(s.records) {
		for _, r := range s.records[records:] {
			releaseRecord(r)
		}
		removed += len(s.records) - records
		clear(s.records[records:])
		s.records = s.records[:records]
	}
	if sites < len(s.sites) {
		for _, site := range s.sites[sites:] {
			site.release()
		}
		removed += len(s.sites) - sites
		clear(s.sites[sites:])
		s.sites = s.sites[:sites]
	}
	return removed
}

// release detaches every record reachable from the sequence.
func (s *slotSequence) release() {
	for _, r := range s.records {
		releaseRecord(r)
	}
	for _, site := range s.sites {
		site.release()
	}
	s.records = nil
	s.sites = nil
}

func (site *scopeSite) release() {
	if site.seq != nil {
		site.seq.release()
	}
	if site.table != nil {
		site.table.release()
	}
}

func releaseRecord(r record) {
	if rel, ok := r.(releaser); ok {
		rel.release()
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
