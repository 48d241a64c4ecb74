//go:build e2e

package e2e

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemPayload struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"`
	CreatedAt string   `json:"created_at"`
}

type dataEnvelope[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error"`
}

type listPayload struct {
	Items []itemPayload `json:"items"`
	Count int           `json:"count"`
}

type publicPayload struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []itemPayload `json:"data"`
	Error   string        `json:"error"`
}

func TestE2E_ItemLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	// Health check
	status := env.DoJSON(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, status)

	// Create an item without summary or tags: no AI provider is configured,
	// so the heuristics must fill both.
	content := strings.Repeat("distributed consensus raft quorum leader election ", 10)
	var created dataEnvelope[itemPayload]
	status = env.DoJSON(http.MethodPost, "/items", map[string]interface{}{
		"type":    "note",
		"title":   "Raft notes",
		"content": content,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.Data.ID)
	assert.NotEmpty(t, created.Data.Summary)
	assert.NotEmpty(t, created.Data.Tags)
	assert.LessOrEqual(t, len(created.Data.Tags), 3)

	// Create a second item with explicit metadata; it must pass through.
	var second dataEnvelope[itemPayload]
	status = env.DoJSON(http.MethodPost, "/items", map[string]interface{}{
		"type":       "link",
		"title":      "Raft paper",
		"content":    "The definitive consensus paper.",
		"summary":    "In Search of an Understandable Consensus Algorithm.",
		"tags":       []string{"raft", "paper"},
		"source_url": "https://raft.github.io/raft.pdf",
	}, &second)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "In Search of an Understandable Consensus Algorithm.", second.Data.Summary)
	assert.Equal(t, []string{"raft", "paper"}, second.Data.Tags)
	assert.Equal(t, "https://raft.github.io/raft.pdf", second.Data.SourceURL)

	// Both writes must have bumped the collection version.
	assert.Equal(t, uint64(2), env.Cache.Version())

	// List everything
	var listed dataEnvelope[listPayload]
	status = env.DoJSON(http.MethodGet, "/items", nil, &listed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, listed.Data.Count)

	// Filter by type
	status = env.DoJSON(http.MethodGet, "/items?type=link", nil, &listed)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, listed.Data.Count)
	assert.Equal(t, "Raft paper", listed.Data.Items[0].Title)

	// Public query surface
	var public publicPayload
	status = env.DoJSON(http.MethodGet, "/api/public/brain/query?q=consensus", nil, &public)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, public.Success)
	assert.Equal(t, 2, public.Count)

	// Missing q parameter
	status = env.DoJSON(http.MethodGet, "/api/public/brain/query", nil, &public)
	require.Equal(t, http.StatusBadRequest, status)
	assert.False(t, public.Success)
	assert.NotEmpty(t, public.Error)

	// Delete the first item
	status = env.DoJSON(http.MethodDelete, itemPath(created.Data.ID), nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(3), env.Cache.Version())

	// Deleting again reports not found
	status = env.DoJSON(http.MethodDelete, itemPath(created.Data.ID), nil, nil)
	require.Equal(t, http.StatusNotFound, status)

	status = env.DoJSON(http.MethodGet, "/items", nil, &listed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, listed.Data.Count)
}

func TestE2E_SearchMatchesTitleAndContent(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	var created dataEnvelope[itemPayload]
	status := env.DoJSON(http.MethodPost, "/items", map[string]interface{}{
		"type":    "insight",
		"title":   "Postgres GIN indexes",
		"content": "Containment queries over arrays get fast with inverted indexes.",
		"tags":    []string{"postgres"},
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var public publicPayload

	// Title word
	status = env.DoJSON(http.MethodGet, "/api/public/brain/query?q=postgres", nil, &public)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, public.Count)

	// Content word
	status = env.DoJSON(http.MethodGet, "/api/public/brain/query?q=containment", nil, &public)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, public.Count)

	// No match still succeeds with an empty result
	status = env.DoJSON(http.MethodGet, "/api/public/brain/query?q=kubernetes", nil, &public)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, public.Success)
	assert.Equal(t, 0, public.Count)
}
