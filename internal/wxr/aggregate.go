package wxr

import (
	"encoding/json"
	"iter"

	"wxr-importer/internal/record"
)

// Aggregate is the assembled content of one export document.
type Aggregate struct {
	Authors     *Authors `json:"authors" yaml:"authors"`
	Posts       []*Post  `json:"posts" yaml:"posts"`
	Categories  []*Term  `json:"categories" yaml:"categories"`
	Tags        []*Term  `json:"tags" yaml:"tags"`
	Terms       []*Term  `json:"terms" yaml:"terms"`
	BaseURL     string   `json:"base_url" yaml:"base_url"`
	BaseBlogURL string   `json:"base_blog_url" yaml:"base_blog_url"`
	Version     string   `json:"version" yaml:"version"`
}

// Post is a content item with the metadata and comments that followed it.
type Post struct {
	Fields record.Record
	// PostMeta is nil until the first meta entry arrives.
	PostMeta []record.Record
	// Comments is nil until the first comment arrives.
	Comments []*Comment
}

// Comment belongs to the post it followed.
type Comment struct {
	Fields      record.Record
	CommentMeta []record.Record
}

// Term is a category, tag or generic term entry.
type Term struct {
	Kind   TermKind
	Fields record.Record
	// TermMeta is nil until the first meta entry arrives.
	TermMeta []record.Record
}

// Record flattens the post into a single field mapping with
// postmeta and comments appended when present.
func (p *Post) Record() record.Record {
	r := p.Fields.Clone()
	if p.PostMeta != nil {
		r.Set("postmeta", p.PostMeta)
	}

	if p.Comments != nil {
		comments := make([]record.Record, len(p.Comments))
		for i, c := range p.Comments {
			comments[i] = c.Record()
		}

		r.Set("comments", comments)
	}

	return r
}

func (p *Post) MarshalJSON() ([]byte, error) { return json.Marshal(p.Record()) }

func (p *Post) MarshalYAML() (any, error) { return p.Record(), nil }

// Record flattens the comment with its commentmeta list.
func (c *Comment) Record() record.Record {
	r := c.Fields.Clone()
	r.Set("commentmeta", c.CommentMeta)

	return r
}

func (c *Comment) MarshalJSON() ([]byte, error) { return json.Marshal(c.Record()) }

func (c *Comment) MarshalYAML() (any, error) { return c.Record(), nil }

// Record flattens the term with its termmeta list when present.
func (t *Term) Record() record.Record {
	r := t.Fields.Clone()
	if t.TermMeta != nil {
		r.Set("termmeta", t.TermMeta)
	}

	return r
}

func (t *Term) MarshalJSON() ([]byte, error) { return json.Marshal(t.Record()) }

func (t *Term) MarshalYAML() (any, error) { return t.Record(), nil }

// Authors is a keyed collection that iterates in insertion order.
type Authors struct {
	keys  []string
	byKey map[string]record.Record
}

func newAuthors() *Authors {
	return &Authors{byKey: make(map[string]record.Record)}
}

// Len returns the number of authors.
func (a *Authors) Len() int {
	return len(a.keys)
}

// Get returns the author stored under key.
func (a *Authors) Get(key string) (record.Record, bool) {
	r, ok := a.byKey[key]
	return r, ok
}

// Keys returns the author keys in insertion order.
func (a *Authors) Keys() []string {
	return append([]string(nil), a.keys...)
}

// All iterates authors in insertion order.
func (a *Authors) All() iter.Seq2[string, record.Record] {
	return func(yield func(string, record.Record) bool) {
		for _, k := range a.keys {
			if !yield(k, a.byKey[k]) {
				return
			}
		}
	}
}

// put inserts or replaces the author under key. A replaced author keeps its position.
func (a *Authors) put(key string, r record.Record) {
	if _, ok := a.byKey[key]; !ok {
		a.keys = append(a.keys, key)
	}

	a.byKey[key] = r
}

// Record returns the authors as a field mapping keyed by author key.
func (a *Authors) Record() record.Record {
	var r record.Record
	for k, author := range a.All() {
		r.Set(k, author)
	}

	return r
}

func (a *Authors) MarshalJSON() ([]byte, error) { return json.Marshal(a.Record()) }

func (a *Authors) MarshalYAML() (any, error) { return a.Record(), nil }
