//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindstash-io/mindstash/internal/domain"
	"github.com/mindstash-io/mindstash/internal/service"
	"github.com/mindstash-io/mindstash/internal/testutil"
)

func newItem(itemType domain.ItemType, title, content string, tags []string) *domain.KnowledgeItem {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.KnowledgeItem{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Summary:   "Summary of " + title,
		Type:      itemType,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestItemRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	item := newItem(domain.ItemTypeNote, "Raft consensus", "Leader election and log replication.", []string{"raft", "consensus"})
	item.SourceURL = "https://example.com/raft"
	require.NoError(t, repo.Create(ctx, item))

	items, err := repo.ListFiltered(ctx, service.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, item.Title, items[0].Title)
	assert.Equal(t, item.Summary, items[0].Summary)
	assert.Equal(t, item.Tags, items[0].Tags)
	assert.Equal(t, item.SourceURL, items[0].SourceURL)
}

func TestItemRepository_Create_NullableFields(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	item := newItem(domain.ItemTypeNote, "Bare note", "Just content.", []string{"bare"})
	item.Summary = ""
	item.SourceURL = ""
	require.NoError(t, repo.Create(ctx, item))

	items, err := repo.ListFiltered(ctx, service.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Summary)
	assert.Empty(t, items[0].SourceURL)
}

func TestItemRepository_ListFiltered_ByType(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "A note", "note content", []string{"a"})))
	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeLink, "A link", "link content", []string{"b"})))

	items, err := repo.ListFiltered(ctx, service.ItemFilter{Type: "link"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ItemTypeLink, items[0].Type)
}

func TestItemRepository_ListFiltered_ByTagOverlap(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "First", "content", []string{"go", "http"})))
	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "Second", "content", []string{"rust"})))

	// Overlap semantics: any shared tag matches.
	items, err := repo.ListFiltered(ctx, service.ItemFilter{Tags: []string{"http", "missing"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "First", items[0].Title)
}

func TestItemRepository_ListFiltered_Search(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "Postgres indexing", "GIN indexes accelerate containment queries.", []string{"postgres"})))
	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "Unrelated", "Nothing to see here.", []string{"misc"})))

	// Full-text match on content.
	items, err := repo.ListFiltered(ctx, service.ItemFilter{Search: "indexes"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Postgres indexing", items[0].Title)

	// Substring match catches partial words the text search misses.
	items, err = repo.ListFiltered(ctx, service.ItemFilter{Search: "ostgre"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = repo.ListFiltered(ctx, service.ItemFilter{Search: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_ListFiltered_SortAndLimit(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	older := newItem(domain.ItemTypeNote, "Bravo", "content", []string{"t"})
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newItem(domain.ItemTypeNote, "Alpha", "content", []string{"t"})))

	// Default: newest first.
	items, err := repo.ListFiltered(ctx, service.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Title)

	items, err = repo.ListFiltered(ctx, service.ItemFilter{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "Bravo", items[1].Title)

	// Unknown sort column falls back to created_at.
	items, err = repo.ListFiltered(ctx, service.ItemFilter{SortBy: "id; DROP TABLE knowledge_items"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = repo.ListFiltered(ctx, service.ItemFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewItemRepository(pool)

	item := newItem(domain.ItemTypeInsight, "Doomed", "content", []string{"t"})
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.Delete(ctx, item.ID))

	items, err := repo.ListFiltered(ctx, service.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	err = repo.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
