package wxrxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"wxr-importer/internal/entity"
	"wxr-importer/internal/record"
)

// wpNamespacePrefix is shared by every WXR version namespace
// (http://wordpress.org/export/1.0/ ... /1.2/).
const wpNamespacePrefix = "http://wordpress.org/export/"

// bodyFields keep their surrounding whitespace.
var bodyFields = map[string]bool{
	"post_content":    true,
	"post_excerpt":    true,
	"comment_content": true,
	"value":           true,
}

// Reader is an entity.Stream over a WXR document.
type Reader struct {
	dec   *xml.Decoder
	queue []entity.Entity
	done  bool
}

// NewReader creates a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	return &Reader{dec: dec}
}

// Next implements entity.Stream. Malformed markup is reported as an error
// and ends the stream.
func (r *Reader) Next() (entity.Entity, error) {
	for len(r.queue) == 0 {
		if r.done {
			return entity.Entity{}, io.EOF
		}

		if err := r.advance(); err != nil {
			r.done = true
			r.queue = nil

			return entity.Entity{}, err
		}
	}

	e := r.queue[0]
	r.queue = r.queue[1:]

	return e, nil
}

func (r *Reader) emit(entities ...entity.Entity) {
	r.queue = append(r.queue, entities...)
}

// advance consumes tokens up to and including the next channel-level record.
func (r *Reader) advance() error {
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		r.done = true
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read WXR document: %w", err)
	}

	start, ok := tok.(xml.StartElement)
	if !ok {
		return nil
	}

	switch start.Name.Local {
	case "wxr_version":
		text, err := r.readText(start)
		if err != nil {
			return err
		}

		r.emit(entity.Entity{Type: entity.TypeWXRVersion, Text: strings.TrimSpace(text)})
	case "base_site_url", "base_blog_url":
		text, err := r.readText(start)
		if err != nil {
			return err
		}

		name := "siteurl"
		if start.Name.Local == "base_blog_url" {
			name = "home"
		}

		r.emit(entity.New(entity.TypeSiteOption, "option_name", name, "option_value", strings.TrimSpace(text)))
	case "author":
		data, err := r.readFlat(start, nil)
		if err != nil {
			return err
		}

		r.emit(entity.Entity{Type: entity.TypeUser, Data: data})
	case "category", "tag", "term":
		if !isWP(start.Name) {
			return nil
		}

		return r.readTerm(start)
	case "item":
		return r.readItem(start)
	}

	return nil
}

// readTerm emits a category, tag or term followed by its term meta.
func (r *Reader) readTerm(start xml.StartElement) error {
	var metas []entity.Entity

	data, err := r.readFlat(start, func(child xml.StartElement) (bool, error) {
		if child.Name.Local != "termmeta" {
			return false, nil
		}

		meta, err := r.readMeta(child)
		if err != nil {
			return true, err
		}

		metas = append(metas, entity.Entity{Type: entity.TypeTermMetaAlt, Data: meta})

		return true, nil
	})
	if err != nil {
		return err
	}

	typ := entity.TypeTerm
	switch start.Name.Local {
	case "category":
		typ = entity.TypeCategory
		data.Set("taxonomy", "category")
	case "tag":
		typ = entity.TypeTag
		data.Set("taxonomy", "post_tag")
	}

	r.emit(entity.Entity{Type: typ, Data: data})
	r.emit(metas...)

	return nil
}

// readItem emits a post followed by its post meta, comments and comment meta.
func (r *Reader) readItem(start xml.StartElement) error {
	var (
		post     record.Record
		terms    []record.Record
		children []entity.Entity
	)

	err := r.eachChild(func(child xml.StartElement) error {
		switch {
		case child.Name.Local == "postmeta":
			meta, err := r.readMeta(child)
			if err != nil {
				return err
			}

			children = append(children, entity.Entity{Type: entity.TypePostMeta, Data: meta})
		case child.Name.Local == "comment" && isWP(child.Name):
			comment, err := r.readComment(child)
			if err != nil {
				return err
			}

			children = append(children, comment...)
		case child.Name.Local == "category" && !isWP(child.Name):
			name, err := r.readText(child)
			if err != nil {
				return err
			}

			terms = append(terms, record.From(
				"domain", attr(child, "domain"),
				"slug", attr(child, "nicename"),
				"name", strings.TrimSpace(name),
			))
		default:
			text, err := r.readText(child)
			if err != nil {
				return err
			}

			setField(&post, itemFieldName(child.Name), text)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if terms != nil {
		post.Set("terms", terms)
	}

	r.emit(entity.Entity{Type: entity.TypePost, Data: post})
	r.emit(children...)

	return nil
}

// readComment returns the comment entity followed by its comment meta.
func (r *Reader) readComment(start xml.StartElement) ([]entity.Entity, error) {
	var metas []entity.Entity

	data, err := r.readFlat(start, func(child xml.StartElement) (bool, error) {
		if child.Name.Local != "commentmeta" {
			return false, nil
		}

		meta, err := r.readMeta(child)
		if err != nil {
			return true, err
		}

		metas = append(metas, entity.Entity{Type: entity.TypeCommentMeta, Data: meta})

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return append([]entity.Entity{{Type: entity.TypeComment, Data: data}}, metas...), nil
}

// readMeta reads a meta_key/meta_value pair as key/value.
func (r *Reader) readMeta(start xml.StartElement) (record.Record, error) {
	return r.readFlat(start, nil)
}

// readFlat collects the text of every child element into a record.
// nested may claim a child element and consume it itself.
func (r *Reader) readFlat(start xml.StartElement, nested func(xml.StartElement) (bool, error)) (record.Record, error) {
	var data record.Record

	err := r.eachChild(func(child xml.StartElement) error {
		if nested != nil {
			handled, err := nested(child)
			if err != nil || handled {
				return err
			}
		}

		text, err := r.readText(child)
		if err != nil {
			return err
		}

		setField(&data, metaFieldName(child.Name.Local), text)

		return nil
	})

	return data, err
}

// eachChild calls fn for every direct child element of the element whose
// start tag was just consumed. fn must consume the child entirely.
func (r *Reader) eachChild(fn func(xml.StartElement) error) error {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read WXR document: %w", io.ErrUnexpectedEOF)
		}

		if err != nil {
			return fmt.Errorf("failed to read WXR document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (r *Reader) readText(start xml.StartElement) (string, error) {
	var text string
	if err := r.dec.DecodeElement(&text, &start); err != nil {
		return "", fmt.Errorf("failed to read <%s>: %w", start.Name.Local, err)
	}

	return text, nil
}

func setField(r *record.Record, name, text string) {
	if !bodyFields[name] {
		text = strings.TrimSpace(text)
	}

	r.Set(name, text)
}

func itemFieldName(n xml.Name) string {
	switch {
	case n.Local == "title":
		return "post_title"
	case n.Local == "creator":
		return "post_author"
	case n.Local == "encoded" && strings.HasSuffix(n.Space, "/excerpt/"):
		return "post_excerpt"
	case n.Local == "encoded":
		return "post_content"
	}

	return n.Local
}

func metaFieldName(local string) string {
	switch local {
	case "meta_key":
		return "key"
	case "meta_value":
		return "value"
	}

	return local
}

func isWP(n xml.Name) bool {
	return strings.HasPrefix(n.Space, wpNamespacePrefix) && !strings.HasSuffix(n.Space, "/excerpt/")
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}
