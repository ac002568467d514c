package wxr

import (
	"slices"

	"wxr-importer/internal/record"
)

// finalize rewrites inline post terms that use the taxonomy encoding into
// the canonical {domain, slug, name} shape.
func (s *state) finalize() {
	for _, p := range s.posts {
		normalizePostTerms(p)
	}
}

// normalizePostTerms accepts typed and untyped term lists. Lists are copied
// since they may still be shared with the entity that produced them.
func normalizePostTerms(p *Post) {
	v, ok := p.Fields.Get("terms")
	if !ok {
		return
	}

	switch list := v.(type) {
	case []record.Record:
		out := slices.Clone(list)
		for i, term := range out {
			out[i] = normalizePostTerm(term)
		}

		p.Fields.Set("terms", out)
	case []any:
		out := slices.Clone(list)
		for i, item := range out {
			if term, ok := item.(record.Record); ok {
				out[i] = normalizePostTerm(term)
			}
		}

		p.Fields.Set("terms", out)
	}
}

func normalizePostTerm(term record.Record) record.Record {
	if isSet(term, "domain") || !isSet(term, "taxonomy") {
		return term
	}

	return canonicalPostTerm(term)
}

func canonicalPostTerm(term record.Record) record.Record {
	taxonomy, _ := term.Get("taxonomy")

	return record.From(
		"domain", taxonomy,
		"slug", valueOr(term, "slug", ""),
		"name", valueOr(term, "description", ""),
	)
}

func valueOr(r record.Record, name string, fallback any) any {
	if v, ok := r.Get(name); ok && v != nil {
		return v
	}

	return fallback
}
