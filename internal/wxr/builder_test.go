package wxr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxr-importer/internal/diagnostic"
	"wxr-importer/internal/entity"
	"wxr-importer/internal/record"
)

func version(v string) entity.Entity {
	return entity.New(entity.TypeWXRVersion, "wxr_version", v)
}

func buildAll(t *testing.T, entities ...entity.Entity) *Aggregate {
	t.Helper()

	agg, err := Build(entity.FromSlice(entities...))
	require.NoError(t, err)
	require.NotNil(t, agg)

	return agg
}

// brokenStream serves its entities and then fails.
type brokenStream struct {
	inner *entity.SliceStream
}

func (b *brokenStream) Next() (entity.Entity, error) {
	e, err := b.inner.Next()
	if errors.Is(err, io.EOF) {
		return entity.Entity{}, errors.New("XML syntax error on line 12: unexpected EOF")
	}

	return e, err
}

func TestBuild_EndToEnd(t *testing.T) {
	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypeUser, "author_login", "jane"),
		entity.New(entity.TypeCategory, "term_id", "3", "taxonomy", "category", "term_description", "d"),
		entity.New(entity.TypePost, "post_title", "Hi"),
		entity.New(entity.TypePostMeta, "key", "k", "value", "v"),
		entity.New(entity.TypeComment, "comment_author", "bob"),
		entity.New(entity.TypeCommentMeta, "key", "ck", "value", "cv"),
	)

	assert.Equal(t, "1.1", agg.Version)

	require.Equal(t, 1, agg.Authors.Len())
	jane, ok := agg.Authors.Get("jane")
	require.True(t, ok)
	assert.Equal(t, record.From("author_login", "jane"), jane)

	require.Len(t, agg.Categories, 1)
	assert.Equal(t, record.From("term_id", 3), agg.Categories[0].Fields)
	assert.Nil(t, agg.Categories[0].TermMeta)

	require.Len(t, agg.Posts, 1)
	post := agg.Posts[0]
	assert.Equal(t, record.From("post_title", "Hi"), post.Fields)
	assert.Equal(t, []record.Record{record.From("key", "k", "value", "v")}, post.PostMeta)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, record.From("comment_author", "bob"), post.Comments[0].Fields)
	assert.Equal(t, []record.Record{record.From("key", "ck", "value", "cv")}, post.Comments[0].CommentMeta)

	assert.Empty(t, agg.Tags)
	assert.Empty(t, agg.Terms)
}

func TestBuild_VersionSources(t *testing.T) {
	tests := []struct {
		name     string
		entities []entity.Entity
		want     string
	}{
		{
			name:     "version entity with field",
			entities: []entity.Entity{version("1.2")},
			want:     "1.2",
		},
		{
			name:     "version entity with bare payload",
			entities: []entity.Entity{{Type: entity.TypeWXRVersion, Text: "10.0"}},
			want:     "10.0",
		},
		{
			name: "site option",
			entities: []entity.Entity{
				entity.New(entity.TypeSiteOption, "option_name", "wxr_version", "option_value", "1.0"),
			},
			want: "1.0",
		},
		{
			name: "site option overrides version entity",
			entities: []entity.Entity{
				version("1.1"),
				entity.New(entity.TypePost, "post_title", "A"),
				entity.New(entity.TypeSiteOption, "option_name", "wxr_version", "option_value", "1.2"),
			},
			want: "1.2",
		},
		{
			name: "last version entity wins",
			entities: []entity.Entity{
				entity.New(entity.TypeSiteOption, "option_name", "wxr_version", "option_value", "abc"),
				version("1.3"),
			},
			want: "1.3",
		},
		{
			name: "unrelated entities around version",
			entities: []entity.Entity{
				entity.New(entity.TypeTag, "term_id", "1"),
				version("2.5"),
				entity.New("widget", "x", "y"),
			},
			want: "2.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := buildAll(t, tt.entities...)
			assert.Equal(t, tt.want, agg.Version)
		})
	}
}

func TestBuild_VersionRejected(t *testing.T) {
	populated := []entity.Entity{
		entity.New(entity.TypeUser, "author_login", "jane"),
		entity.New(entity.TypeCategory, "term_id", "3"),
		entity.New(entity.TypeTerm, "term_id", "4", "taxonomy", "genre"),
		entity.New(entity.TypePost, "post_title", "Hi"),
		entity.New(entity.TypePostMeta, "key", "k", "value", "v"),
	}

	tests := []struct {
		name     string
		entities []entity.Entity
	}{
		{name: "no version", entities: populated},
		{name: "non numeric", entities: append([]entity.Entity{version("abc")}, populated...)},
		{name: "empty", entities: append([]entity.Entity{version("")}, populated...)},
		{name: "missing minor", entities: []entity.Entity{version("1.")}},
		{name: "three parts", entities: []entity.Entity{version("1.2.3")}},
		{name: "surrounding space", entities: []entity.Entity{version(" 1.2")}},
		{name: "trailing newline", entities: []entity.Entity{version("1.2\n")}},
		{
			name: "valid version overwritten by invalid option",
			entities: []entity.Entity{
				version("1.2"),
				entity.New(entity.TypeSiteOption, "option_name", "wxr_version", "option_value", "x"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := Build(entity.FromSlice(tt.entities...))
			require.Error(t, err)
			assert.Nil(t, agg)
			assert.ErrorIs(t, err, ErrInvalidVersion)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, ErrorVersion, perr.Kind)
			assert.Equal(t, ErrorCode, perr.Code())
			assert.Equal(t, invalidVersionMessage, perr.Error())
		})
	}
}

func TestBuild_StreamFailure(t *testing.T) {
	s := &brokenStream{inner: entity.FromSlice(
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "Hi"),
	)}

	agg, err := Build(s)
	require.Error(t, err)
	assert.Nil(t, agg)
	assert.NotErrorIs(t, err, ErrInvalidVersion)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorStream, perr.Kind)
	assert.Equal(t, "XML syntax error on line 12: unexpected EOF", perr.Error())
	assert.Equal(t, ErrorCode, perr.Code())
	require.Error(t, perr.Unwrap())
}

func TestBuild_MetaAttachesToNearestPost(t *testing.T) {
	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "A"),
		entity.New(entity.TypePostMeta, "post_id", "1", "key", "k1", "value", "v1"),
		entity.New(entity.TypePost, "post_title", "B"),
		entity.New(entity.TypePostMeta, "post_id", "1", "key", "k2", "value", "v2"),
	)

	require.Len(t, agg.Posts, 2)
	assert.Equal(t, []record.Record{record.From("key", "k1", "value", "v1")}, agg.Posts[0].PostMeta)
	assert.Equal(t, []record.Record{record.From("key", "k2", "value", "v2")}, agg.Posts[1].PostMeta)
}

func TestBuild_CommentsAndCommentMeta(t *testing.T) {
	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "A"),
		entity.New(entity.TypeComment, "comment_id", "7", "comment_author", "bob"),
		entity.New(entity.TypeCommentMeta, "comment_id", "7", "key", "a", "value", "1"),
		entity.New(entity.TypeComment, "comment_id", "8", "comment_author", "amy"),
		entity.New(entity.TypeCommentMeta, "comment_id", "7", "key", "b", "value", "2"),
		entity.New(entity.TypePost, "post_title", "B"),
		entity.New(entity.TypeComment, "comment_author", "cat"),
	)

	require.Len(t, agg.Posts, 2)

	first := agg.Posts[0].Comments
	require.Len(t, first, 2)
	assert.Equal(t, record.From("comment_id", "7", "comment_author", "bob"), first[0].Fields)
	assert.Equal(t, []record.Record{record.From("key", "a", "value", "1")}, first[0].CommentMeta)
	// attached to the latest comment despite its comment_id
	assert.Equal(t, []record.Record{record.From("key", "b", "value", "2")}, first[1].CommentMeta)

	second := agg.Posts[1].Comments
	require.Len(t, second, 1)
	assert.Equal(t, []record.Record{}, second[0].CommentMeta)
	assert.Nil(t, agg.Posts[1].PostMeta)
}

func TestBuild_OrphansAreDropped(t *testing.T) {
	b := NewBuilder(DefaultConfig())

	agg, err := b.Build(entity.FromSlice(
		version("1.1"),
		entity.New(entity.TypePostMeta, "key", "k", "value", "v"),
		entity.New(entity.TypeComment, "comment_author", "bob"),
		entity.New(entity.TypeCommentMeta, "key", "ck", "value", "cv"),
		entity.New(entity.TypeTermMeta, "meta_key", "color", "meta_value", "red"),
		entity.New(entity.TypePost, "post_title", "A"),
		entity.New(entity.TypeCommentMeta, "key", "ck", "value", "cv"),
	))
	require.NoError(t, err)

	require.Len(t, agg.Posts, 1)
	assert.Nil(t, agg.Posts[0].PostMeta)
	assert.Nil(t, agg.Posts[0].Comments)

	diags := b.Diagnostics()
	assert.Equal(t, []string{
		diagnostic.CodeOrphanPostMeta,
		diagnostic.CodeOrphanComment,
		diagnostic.CodeOrphanCommentMeta,
		diagnostic.CodeOrphanTermMeta,
		diagnostic.CodeOrphanCommentMeta,
	}, diags.Codes())
	assert.Equal(t, 1, diags.Warnings[0].Position)
	assert.Equal(t, 6, diags.Warnings[4].Position)
}

func TestBuild_UnknownTypesAreNoOps(t *testing.T) {
	base := []entity.Entity{
		version("1.1"),
		entity.New(entity.TypeUser, "author_login", "jane"),
		entity.New(entity.TypeTerm, "term_id", "9", "taxonomy", "genre"),
		entity.New(entity.TypePost, "post_title", "A"),
		entity.New(entity.TypePostMeta, "key", "k", "value", "v"),
		entity.New(entity.TypeComment, "comment_author", "bob"),
		entity.New(entity.TypeCommentMeta, "key", "ck", "value", "cv"),
		entity.New(entity.TypeTermMetaAlt, "key", "tk", "value", "tv"),
	}

	want := buildAll(t, base...)

	for i := 0; i <= len(base); i++ {
		withUnknown := append([]entity.Entity{}, base[:i]...)
		withUnknown = append(withUnknown, entity.New("nav_menu_item", "post_id", "1", "key", "x"))
		withUnknown = append(withUnknown, base[i:]...)

		b := NewBuilder(DefaultConfig())
		got, err := b.Build(entity.FromSlice(withUnknown...))
		require.NoError(t, err)
		assert.Equal(t, want, got, "unknown entity at position %d", i)
		assert.Equal(t, []string{diagnostic.CodeUnknownEntity}, b.Diagnostics().Codes())
	}
}

func TestBuild_AuthorKeys(t *testing.T) {
	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypeUser, "author_id", "10", "author_display_name", "Ten"),
		entity.New(entity.TypeUser, "author_id", "11", "author_display_name", "Eleven"),
		entity.New(entity.TypeUser, "author_email", "a@example.com", "author_id", "12"),
		entity.New(entity.TypeUser, "author_login", "jane", "author_email", "j@example.com"),
		entity.New(entity.TypeUser, "author_display_name", "Anonymous"),
	)

	assert.Equal(t, []string{"10", "11", "a@example.com", "jane", "4"}, agg.Authors.Keys())

	ten, ok := agg.Authors.Get("10")
	require.True(t, ok)
	assert.Equal(t, record.From("author_id", "10", "author_display_name", "Ten"), ten)

	eleven, ok := agg.Authors.Get("11")
	require.True(t, ok)
	assert.Equal(t, record.From("author_id", "11", "author_display_name", "Eleven"), eleven)
}

func TestBuild_AuthorUpsertKeepsPosition(t *testing.T) {
	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypeUser, "author_login", "jane", "author_display_name", "J"),
		entity.New(entity.TypeUser, "author_login", "bob"),
		entity.New(entity.TypeUser, "author_login", "jane", "author_display_name", "Jane"),
	)

	assert.Equal(t, []string{"jane", "bob"}, agg.Authors.Keys())

	jane, _ := agg.Authors.Get("jane")
	assert.Equal(t, record.From("author_login", "jane", "author_display_name", "Jane"), jane)

	var keys []string
	for k := range agg.Authors.All() {
		keys = append(keys, k)
	}

	assert.Equal(t, []string{"jane", "bob"}, keys)
}

func TestBuild_SiteOptions(t *testing.T) {
	b := NewBuilder(DefaultConfig())

	agg, err := b.Build(entity.FromSlice(
		version("1.1"),
		entity.New(entity.TypeSiteOption, "option_name", "siteurl", "option_value", "https://example.com"),
		entity.New(entity.TypeSiteOption, "option_name", "home", "option_value", "https://example.com/blog"),
		entity.New(entity.TypeSiteOption, "option_name", "blogname", "option_value", "Example"),
		entity.New(entity.TypeSiteOption, "option_name", "siteurl"),
		entity.New(entity.TypeSiteOption, "option_name", "home", "option_value", nil),
	))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", agg.BaseURL)
	assert.Equal(t, "https://example.com/blog", agg.BaseBlogURL)
	assert.Equal(t, []string{diagnostic.CodeIncompleteOption, diagnostic.CodeIncompleteOption}, b.Diagnostics().Codes())
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	meta := entity.New(entity.TypePostMeta, "post_id", "1", "key", "k", "value", "v")
	cat := entity.New(entity.TypeCategory, "term_id", "3", "taxonomy", "category")

	buildAll(t, version("1.1"), entity.New(entity.TypePost), meta, cat)

	assert.Equal(t, []string{"post_id", "key", "value"}, meta.Data.Keys())
	termID, _ := cat.Data.Get("term_id")
	assert.Equal(t, "3", termID)
}

func TestBuilder_FreshStatePerBuild(t *testing.T) {
	b := NewBuilder(Config{})

	first, err := b.Build(entity.FromSlice(
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "A"),
		entity.New(entity.TypeCategory, "term_id", "1"),
		entity.New("mystery"),
	))
	require.NoError(t, err)
	require.Len(t, first.Posts, 1)
	assert.Equal(t, 1, b.Diagnostics().Len())

	second, err := b.Build(entity.FromSlice(
		version("1.2"),
		entity.New(entity.TypePostMeta, "key", "k", "value", "v"),
		entity.New(entity.TypeTermMeta, "key", "k", "value", "v"),
	))
	require.NoError(t, err)
	assert.Empty(t, second.Posts)
	assert.Empty(t, second.Categories)
	assert.Nil(t, first.Categories[0].TermMeta)
	assert.Nil(t, first.Posts[0].PostMeta)
	assert.Equal(t, []string{diagnostic.CodeOrphanPostMeta, diagnostic.CodeOrphanTermMeta}, b.Diagnostics().Codes())
}
