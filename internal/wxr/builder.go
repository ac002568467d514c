package wxr

import (
	"errors"
	"io"
	"strconv"

	"wxr-importer/internal/common"
	"wxr-importer/internal/diagnostic"
	"wxr-importer/internal/entity"
	"wxr-importer/internal/logger"
	"wxr-importer/internal/record"
	"wxr-importer/primitive"
)

// Config controls a Builder.
type Config struct {
	// Logger receives a debug line per ignored entity and a summary per build.
	Logger *logger.Logger
}

// DefaultConfig returns a configuration that logs nothing.
func DefaultConfig() Config {
	return Config{Logger: logger.Nop()}
}

// Builder turns entity streams into aggregates.
// A Builder is not safe for concurrent use; every Build starts from empty state.
type Builder struct {
	cfg   Config
	diags diagnostic.Diagnostics
}

// NewBuilder creates a Builder.
func NewBuilder(cfg Config) *Builder {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Builder{cfg: cfg}
}

// Build is a shorthand for NewBuilder(DefaultConfig()).Build(s).
func Build(s entity.Stream) (*Aggregate, error) {
	return NewBuilder(DefaultConfig()).Build(s)
}

// Diagnostics returns what the last Build ignored.
func (b *Builder) Diagnostics() diagnostic.Diagnostics {
	return b.diags
}

// Build drains s and assembles the aggregate. It returns a *ParseError when
// the stream fails or when the document carries no valid version marker.
func (b *Builder) Build(s entity.Stream) (*Aggregate, error) {
	st := newState(b.cfg.Logger)
	b.diags = diagnostic.Diagnostics{}

	for {
		e, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			b.diags = st.diags
			b.cfg.Logger.Error("entity stream failed", "position", st.pos, "error", err)

			return nil, newStreamError(err)
		}

		st.route(e)
		st.pos++
	}

	st.finalize()
	b.diags = st.diags

	for _, d := range st.diags.Warnings {
		b.cfg.Logger.Debug("ignored entity", "type", d.EntityType, "position", d.Position, "code", d.Code)
	}

	if err := validateVersion(st.version); err != nil {
		b.cfg.Logger.Warn("rejected export", "version", st.version, "entities", st.pos)
		return nil, err
	}

	agg := st.aggregate()
	b.cfg.Logger.Info("export assembled",
		"version", agg.Version,
		"entities", st.pos,
		"authors", agg.Authors.Len(),
		"posts", len(agg.Posts),
		"categories", len(agg.Categories),
		"tags", len(agg.Tags),
		"terms", len(agg.Terms),
		"ignored", st.diags.Len(),
	)

	return agg, nil
}

// state is the per-build context. It is discarded after every Build.
type state struct {
	authors    *Authors
	posts      []*Post
	categories []*Term
	tags       []*Term
	terms      []*Term

	version     string
	baseURL     string
	baseBlogURL string

	// post is the most recently appended post.
	post *Post
	// term is the most recently appended category, tag or term.
	term *Term

	pos   int
	diags diagnostic.Diagnostics
	log   *logger.Logger
}

func newState(log *logger.Logger) *state {
	return &state{
		log:        log,
		authors:    newAuthors(),
		posts:      []*Post{},
		categories: []*Term{},
		tags:       []*Term{},
		terms:      []*Term{},
	}
}

func (s *state) aggregate() *Aggregate {
	return &Aggregate{
		Authors:     s.authors,
		Posts:       s.posts,
		Categories:  s.categories,
		Tags:        s.tags,
		Terms:       s.terms,
		BaseURL:     s.baseURL,
		BaseBlogURL: s.baseBlogURL,
		Version:     s.version,
	}
}

func (s *state) route(e entity.Entity) {
	data := e.Data.Clone()

	switch e.Type {
	case entity.TypeWXRVersion:
		s.onVersion(data, e.Text)
	case entity.TypeSiteOption:
		s.onSiteOption(e.Type, data)
	case entity.TypeUser:
		s.onUser(data)
	case entity.TypePost:
		s.onPost(data)
	case entity.TypePostMeta:
		s.onPostMeta(e.Type, data)
	case entity.TypeComment:
		s.onComment(e.Type, data)
	case entity.TypeCommentMeta:
		s.onCommentMeta(e.Type, data)
	case entity.TypeCategory, entity.TypeTag, entity.TypeTerm:
		kind, _ := termKindOf(e.Type)
		s.onTerm(kind, data)
	case entity.TypeTermMeta, entity.TypeTermMetaAlt:
		s.onTermMeta(e.Type, data)
	default:
		s.diags.AddInfo(diagnostic.CodeUnknownEntity, "entity type is not recognized", string(e.Type), s.pos)
		s.log.Debug("unknown entity", "type", e.Type, "position", s.pos, "fields", data)
	}
}

func (s *state) onVersion(data record.Record, text string) {
	if v, ok := data.Get("wxr_version"); ok {
		s.version = primitive.ToString(v)
		return
	}

	s.version = text
}

func (s *state) onSiteOption(typ entity.Type, data record.Record) {
	if !isSet(data, "option_name") || !isSet(data, "option_value") {
		s.diags.AddInfo(diagnostic.CodeIncompleteOption, "site option without name or value", string(typ), s.pos)
		s.log.Debug("incomplete site option", "position", s.pos, "fields", data)
		return
	}

	name, _ := data.Get("option_name")
	value, _ := data.Get("option_value")

	switch primitive.ToString(name) {
	case "wxr_version":
		s.version = primitive.ToString(value)
	case "siteurl":
		s.baseURL = primitive.ToString(value)
	case "home":
		s.baseBlogURL = primitive.ToString(value)
	}
}

// onUser logs the author record itself; the logger masks its email and login.
func (s *state) onUser(data record.Record) {
	s.authors.put(s.authorKey(data), data)
	s.log.Debug("author added", "position", s.pos, "fields", data)
}

// authorKey picks the first identifying field present, falling back to
// the author's insertion index.
func (s *state) authorKey(data record.Record) string {
	for _, name := range []string{"author_login", "author_email", "author_id"} {
		if v, ok := data.Get(name); ok && v != nil {
			return primitive.ToString(v)
		}
	}

	return strconv.Itoa(s.authors.Len())
}

func (s *state) onPost(data record.Record) {
	p := &Post{Fields: data}
	s.posts = append(s.posts, p)
	s.post = p
}

func (s *state) onPostMeta(typ entity.Type, data record.Record) {
	if s.post == nil {
		s.diags.AddWarning(diagnostic.CodeOrphanPostMeta, "post meta precedes every post", string(typ), s.pos)
		return
	}

	data.Delete("post_id")
	s.post.PostMeta = append(s.post.PostMeta, data)
}

func (s *state) onComment(typ entity.Type, data record.Record) {
	if s.post == nil {
		s.diags.AddWarning(diagnostic.CodeOrphanComment, "comment precedes every post", string(typ), s.pos)
		return
	}

	s.post.Comments = append(s.post.Comments, &Comment{
		Fields:      data,
		CommentMeta: []record.Record{},
	})
}

func (s *state) onCommentMeta(typ entity.Type, data record.Record) {
	if s.post == nil {
		s.diags.AddWarning(diagnostic.CodeOrphanCommentMeta, "comment meta precedes every post", string(typ), s.pos)
		return
	}

	c, ok := common.Last(s.post.Comments)
	if !ok {
		s.diags.AddWarning(diagnostic.CodeOrphanCommentMeta, "comment meta on a post without comments", string(typ), s.pos)
		return
	}

	data.Delete("comment_id")
	c.CommentMeta = append(c.CommentMeta, data)
}

func (s *state) onTerm(kind TermKind, data record.Record) {
	t := newTerm(kind, data)

	switch kind {
	case TermCategory:
		s.categories = append(s.categories, t)
	case TermTag:
		s.tags = append(s.tags, t)
	case TermGeneric:
		s.terms = append(s.terms, t)
	}

	s.term = t
}

func (s *state) onTermMeta(typ entity.Type, data record.Record) {
	if s.term == nil {
		s.diags.AddWarning(diagnostic.CodeOrphanTermMeta, "term meta precedes every term", string(typ), s.pos)
		return
	}

	s.term.TermMeta = append(s.term.TermMeta, data)
}

// isSet reports whether the field is present with a non-nil value.
func isSet(r record.Record, name string) bool {
	v, ok := r.Get(name)
	return ok && v != nil
}
