package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mindstash-io/mindstash/internal/domain"
	"github.com/mindstash-io/mindstash/internal/telemetry"
)

// summaryTruncateLen is the cut-off applied to content when it stands in for
// a missing summary after AI enhancement failed.
const summaryTruncateLen = 200

// PublicSearchLimit caps results returned through the public read surface.
const PublicSearchLimit = 50

// ItemFilter describes an item listing query. All fields are optional and
// AND-combined.
type ItemFilter struct {
	Type      string
	Tags      []string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
}

// ItemRepositoryInterface defines the repository interface for item persistence
type ItemRepositoryInterface interface {
	Create(ctx context.Context, item *domain.KnowledgeItem) error
	ListFiltered(ctx context.Context, filter ItemFilter) ([]*domain.KnowledgeItem, error)
	Delete(ctx context.Context, id string) error
}

// Enhancer defines the AI enhancement capability consumed by item creation
type Enhancer interface {
	Enhance(ctx context.Context, title, content string) (Enhancement, error)
}

// Invalidator receives the cache invalidation signal after writes so the
// presentation layer can refresh its view of the collection.
type Invalidator interface {
	Invalidate()
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// ItemService handles business logic for knowledge items
type ItemService struct {
	repo        ItemRepositoryInterface
	enhancer    Enhancer
	invalidator Invalidator
	uuidGen     UUIDGenerator
}

// NewItemService creates a new ItemService instance
func NewItemService(repo ItemRepositoryInterface, enhancer Enhancer, invalidator Invalidator) *ItemService {
	return &ItemService{
		repo:        repo,
		enhancer:    enhancer,
		invalidator: invalidator,
		uuidGen:     &DefaultUUIDGenerator{},
	}
}

// NewItemServiceWithUUIDGen creates a new ItemService with a custom UUID generator (for testing)
func NewItemServiceWithUUIDGen(repo ItemRepositoryInterface, enhancer Enhancer, invalidator Invalidator, uuidGen UUIDGenerator) *ItemService {
	return &ItemService{
		repo:        repo,
		enhancer:    enhancer,
		invalidator: invalidator,
		uuidGen:     uuidGen,
	}
}

// CreateItemInput represents the input for creating a knowledge item
type CreateItemInput struct {
	Title     string
	Content   string
	Summary   string
	Type      domain.ItemType
	Tags      []string
	SourceURL string
}

// ListItemsInput represents the filters for listing knowledge items
type ListItemsInput struct {
	Type      string
	Tags      []string
	Search    string
	SortBy    string
	SortOrder string
}

// Create builds a knowledge item from the input, enhances missing metadata
// and persists it. AI enhancement fills gaps only: caller-supplied summary
// and tags are never replaced, and a provider failure degrades to local
// heuristics instead of failing the creation.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "ItemService.Create", telemetry.SpanAttributes{
		ItemType:  string(input.Type),
		Operation: "create",
	})
	defer span.End()

	summary := input.Summary
	tags := input.Tags

	if summary == "" || len(tags) == 0 {
		enhanced, err := s.enhancer.Enhance(ctx, input.Title, input.Content)
		if err == nil {
			if summary == "" {
				summary = enhanced.Summary
			}
			if len(tags) == 0 {
				tags = enhanced.Tags
			}
		} else {
			// Enhancement is best effort: degrade to local heuristics.
			log.Printf("AI enhancement failed, continuing without it: %v", err)
			telemetry.AddBreadcrumb(ctx, "enhancement", "degraded to heuristics: "+err.Error())
		}
	}

	if summary == "" {
		summary = truncateSummary(input.Content)
	}
	if len(tags) == 0 {
		tags = HeuristicTags(input.Title, input.Content, string(input.Type))
	}

	now := time.Now().UTC()
	item := domain.NewKnowledgeItem(
		s.uuidGen.NewString(),
		input.Type,
		input.Title,
		input.Content,
		summary,
		tags,
		input.SourceURL,
		now, now,
	)

	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		span.SetError(err)
		return nil, err
	}

	s.invalidator.Invalidate()

	return item, nil
}

// List retrieves knowledge items matching the given filters. The read path
// fails open: a repository error is logged and yields an empty result so the
// dashboard never breaks on a backend failure.
func (s *ItemService) List(ctx context.Context, input ListItemsInput) []*domain.KnowledgeItem {
	ctx, span := telemetry.StartSpan(ctx, "ItemService.List", telemetry.SpanAttributes{
		ItemType:  input.Type,
		Operation: "list",
	})
	defer span.End()

	items, err := s.repo.ListFiltered(ctx, ItemFilter{
		Type:      input.Type,
		Tags:      input.Tags,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		log.Printf("failed to list knowledge items: %v", err)
		telemetry.CaptureError(ctx, err)
		return []*domain.KnowledgeItem{}
	}

	return items
}

// Search serves the public read surface: free-text query, newest first,
// capped at PublicSearchLimit. Unlike List, errors propagate so the public
// endpoint can report them.
func (s *ItemService) Search(ctx context.Context, query string) ([]*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "ItemService.Search", telemetry.SpanAttributes{
		Operation: "search",
	})
	defer span.End()

	items, err := s.repo.ListFiltered(ctx, ItemFilter{
		Search:    query,
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     PublicSearchLimit,
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return items, nil
}

// Delete removes a knowledge item wholesale by id. Errors propagate to the
// caller; there is no retry.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "ItemService.Delete", telemetry.SpanAttributes{
		ItemID:    id,
		Operation: "delete",
	})
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.SetError(err)
		return err
	}

	s.invalidator.Invalidate()

	return nil
}

// truncateSummary derives a summary from raw content when no other source is
// available: the first 200 characters plus an ellipsis marker if cut. Counts
// runes, not bytes, so multibyte content is never split mid-character.
func truncateSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryTruncateLen {
		return content
	}
	return string(runes[:summaryTruncateLen]) + "..."
}
