package wxr

import (
	"wxr-importer/internal/entity"
	"wxr-importer/internal/record"
	"wxr-importer/primitive"
)

// TermKind identifies which top-level list a term entry belongs to.
type TermKind int

const (
	TermCategory TermKind = iota // category
	TermTag                      // tag
	TermGeneric                  // term
)

// legacyTermFields are dropped from categories and tags.
var legacyTermFields = []string{"taxonomy", "term_description"}

// termKindOf maps an entity type to its term kind.
func termKindOf(typ entity.Type) (TermKind, bool) {
	switch typ {
	case entity.TypeCategory:
		return TermCategory, true
	case entity.TypeTag:
		return TermTag, true
	case entity.TypeTerm:
		return TermGeneric, true
	default:
		return 0, false
	}
}

// stripsLegacyFields reports whether entries of this kind use the legacy shape.
func (k TermKind) stripsLegacyFields() bool {
	switch k {
	default:
		return false
	case TermCategory, TermTag:
		return true
	}
}

// newTerm shapes an entity payload into a term entry of the given kind.
// data must be owned by the caller.
func newTerm(kind TermKind, data record.Record) *Term {
	if v, ok := data.Get("term_id"); ok && v != nil {
		data.Set("term_id", primitive.ToInt(v))
	}

	if kind.stripsLegacyFields() {
		data.Delete(legacyTermFields...)
	}

	return &Term{Kind: kind, Fields: data}
}
