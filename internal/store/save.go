package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wxr-importer/internal/wxr"
	"wxr-importer/primitive"
)

// Save writes agg as one import and returns its id. Either the whole
// aggregate is stored or nothing is.
func Save(ctx context.Context, db *sql.DB, source string, agg *wxr.Aggregate) (string, error) {
	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	w := writer{ctx: ctx, tx: tx, importID: id}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, version, base_url, base_blog_url, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, source, agg.Version, agg.BaseURL, agg.BaseBlogURL, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("insert import: %w", err)
	}

	if err := w.authors(agg.Authors); err != nil {
		return "", err
	}

	if err := w.posts(agg.Posts); err != nil {
		return "", err
	}

	for _, group := range [][]*wxr.Term{agg.Categories, agg.Tags, agg.Terms} {
		if err := w.terms(group); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}

	return id, nil
}

type writer struct {
	ctx      context.Context
	tx       *sql.Tx
	importID string
}

func (w writer) exec(what, query string, args ...any) error {
	if _, err := w.tx.ExecContext(w.ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func (w writer) authors(authors *wxr.Authors) error {
	pos := 0
	for key, author := range authors.All() {
		data, err := json.Marshal(author)
		if err != nil {
			return fmt.Errorf("encode author %q: %w", key, err)
		}

		if err := w.exec("author", `
			INSERT INTO authors (import_id, position, author_key, data) VALUES (?, ?, ?, ?)
		`, w.importID, pos, key, string(data)); err != nil {
			return err
		}
		pos++
	}
	return nil
}

func (w writer) posts(posts []*wxr.Post) error {
	for i, p := range posts {
		data, err := json.Marshal(p.Fields)
		if err != nil {
			return fmt.Errorf("encode post %d: %w", i, err)
		}

		if err := w.exec("post", `
			INSERT INTO posts (import_id, position, data) VALUES (?, ?, ?)
		`, w.importID, i, string(data)); err != nil {
			return err
		}

		for j, meta := range p.PostMeta {
			data, err := json.Marshal(meta)
			if err != nil {
				return fmt.Errorf("encode post %d meta %d: %w", i, j, err)
			}

			if err := w.exec("post meta", `
				INSERT INTO post_meta (import_id, post_position, position, data) VALUES (?, ?, ?, ?)
			`, w.importID, i, j, string(data)); err != nil {
				return err
			}
		}

		for j, c := range p.Comments {
			if err := w.comment(i, j, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w writer) comment(post, pos int, c *wxr.Comment) error {
	data, err := json.Marshal(c.Fields)
	if err != nil {
		return fmt.Errorf("encode post %d comment %d: %w", post, pos, err)
	}

	if err := w.exec("comment", `
		INSERT INTO comments (import_id, post_position, position, data) VALUES (?, ?, ?, ?)
	`, w.importID, post, pos, string(data)); err != nil {
		return err
	}

	for k, meta := range c.CommentMeta {
		data, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode post %d comment %d meta %d: %w", post, pos, k, err)
		}

		if err := w.exec("comment meta", `
			INSERT INTO comment_meta (import_id, post_position, comment_position, position, data)
			VALUES (?, ?, ?, ?, ?)
		`, w.importID, post, pos, k, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func (w writer) terms(terms []*wxr.Term) error {
	for i, t := range terms {
		data, err := json.Marshal(t.Fields)
		if err != nil {
			return fmt.Errorf("encode %s %d: %w", t.Kind, i, err)
		}

		var termID sql.NullInt64
		if v, ok := t.Fields.Get("term_id"); ok {
			termID = sql.NullInt64{Int64: int64(primitive.ToInt(v)), Valid: true}
		}

		if err := w.exec(t.Kind.String(), `
			INSERT INTO terms (import_id, kind, position, term_id, data) VALUES (?, ?, ?, ?, ?)
		`, w.importID, t.Kind.String(), i, termID, string(data)); err != nil {
			return err
		}

		for j, meta := range t.TermMeta {
			data, err := json.Marshal(meta)
			if err != nil {
				return fmt.Errorf("encode %s %d meta %d: %w", t.Kind, i, j, err)
			}

			if err := w.exec("term meta", `
				INSERT INTO term_meta (import_id, kind, term_position, position, data) VALUES (?, ?, ?, ?, ?)
			`, w.importID, t.Kind.String(), i, j, string(data)); err != nil {
				return err
			}
		}
	}
	return nil
}
