package wxr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxr-importer/internal/entity"
	"wxr-importer/internal/record"
)

func TestBuild_NormalizesPostTerms(t *testing.T) {
	inline := []record.Record{
		record.From("domain", "category", "slug", "news", "name", "News"),
		record.From("taxonomy", "post_tag", "slug", "go", "description", "Go"),
		record.From("taxonomy", "genre"),
		record.From("slug", "orphan"),
	}

	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "A", "terms", inline),
		entity.New(entity.TypePost, "post_title", "B"),
		entity.New(entity.TypePost, "post_title", "C", "terms", "not a list"),
	)

	require.Len(t, agg.Posts, 3)

	terms, ok := agg.Posts[0].Fields.Get("terms")
	require.True(t, ok)
	assert.Equal(t, []record.Record{
		record.From("domain", "category", "slug", "news", "name", "News"),
		record.From("domain", "post_tag", "slug", "go", "name", "Go"),
		record.From("domain", "genre", "slug", "", "name", ""),
		record.From("slug", "orphan"),
	}, terms)

	// the entity's own list is left as it was
	assert.Equal(t, record.From("taxonomy", "post_tag", "slug", "go", "description", "Go"), inline[1])

	assert.False(t, agg.Posts[1].Fields.Has("terms"))

	raw, _ := agg.Posts[2].Fields.Get("terms")
	assert.Equal(t, "not a list", raw)
}

func TestBuild_NormalizesUntypedTermList(t *testing.T) {
	inline := []any{
		record.From("taxonomy", "category", "slug", "news", "description", "News"),
		"uncategorized",
	}

	agg := buildAll(t,
		version("1.1"),
		entity.New(entity.TypePost, "post_title", "A", "terms", inline),
	)

	require.Len(t, agg.Posts, 1)

	terms, ok := agg.Posts[0].Fields.Get("terms")
	require.True(t, ok)
	assert.Equal(t, []any{
		record.From("domain", "category", "slug", "news", "name", "News"),
		"uncategorized",
	}, terms)

	assert.Equal(t, record.From("taxonomy", "category", "slug", "news", "description", "News"), inline[0])
}

func TestCanonicalPostTerm_KeepsDomainFirst(t *testing.T) {
	got := canonicalPostTerm(record.From("description", "D", "slug", "s", "taxonomy", "category"))

	assert.Equal(t, []string{"domain", "slug", "name"}, got.Keys())
}
