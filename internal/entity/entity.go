package entity

import (
	"io"

	"wxr-importer/internal/record"
)

// Type is the tag of an entity.
type Type string

// Entity types produced by export readers.
const (
	TypeWXRVersion  Type = "wxr_version"
	TypeSiteOption  Type = "site_option"
	TypeUser        Type = "user"
	TypePost        Type = "post"
	TypePostMeta    Type = "post_meta"
	TypeComment     Type = "comment"
	TypeCommentMeta Type = "comment_meta"
	TypeCategory    Type = "category"
	TypeTag         Type = "tag"
	TypeTerm        Type = "term"
	TypeTermMeta    Type = "termmeta"
	// TypeTermMetaAlt is the alternative spelling some readers use for term metadata.
	TypeTermMetaAlt Type = "term_meta"
)

// Entity is one record of the stream.
type Entity struct {
	// Type is the entity tag.
	Type Type
	// Data holds the named fields of the entity in document order.
	Data record.Record
	// Text holds a bare scalar payload for entities that carry no fields.
	Text string
}

// New creates an entity with fields given as alternating name/value pairs.
func New(typ Type, pairs ...any) Entity {
	return Entity{Type: typ, Data: record.From(pairs...)}
}

// Stream is a forward-only, non-restartable sequence of entities.
type Stream interface {
	// Next returns the next entity, or io.EOF once the stream is exhausted.
	Next() (Entity, error)
}

// SliceStream serves entities from memory.
type SliceStream struct {
	entities []Entity
	pos      int
}

// FromSlice creates a stream over the given entities.
func FromSlice(entities ...Entity) *SliceStream {
	return &SliceStream{entities: entities}
}

// Next implements Stream.
func (s *SliceStream) Next() (Entity, error) {
	if s.pos >= len(s.entities) {
		return Entity{}, io.EOF
	}

	e := s.entities[s.pos]
	s.pos++

	return e, nil
}

// Collect drains a stream into a slice.
func Collect(s Stream) ([]Entity, error) {
	var out []Entity

	for {
		e, err := s.Next()
		if err == io.EOF {
			return out, nil
		}

		if err != nil {
			return out, err
		}

		out = append(out, e)
	}
}
