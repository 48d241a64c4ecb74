// Package repository provides PostgreSQL persistence for knowledge items.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindstash-io/mindstash/internal/domain"
	"github.com/mindstash-io/mindstash/internal/service"
)

// dbtx abstracts over pgxpool.Pool and pgx.Tx so repository methods work in
// both pooled and transactional contexts.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ItemRepository handles database operations for knowledge items
type ItemRepository struct {
	db dbtx
}

// NewItemRepository creates a new ItemRepository instance
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: pool}
}

// NewItemRepositoryWithTx creates an ItemRepository bound to a transaction
func NewItemRepositoryWithTx(tx pgx.Tx) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Create inserts a new knowledge item
func (r *ItemRepository) Create(ctx context.Context, item *domain.KnowledgeItem) error {
	query := `
		INSERT INTO knowledge_items (id, title, content, summary, type, tags, source_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Content,
		nullableString(item.Summary),
		string(item.Type),
		item.Tags,
		nullableString(item.SourceURL),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create knowledge item: %w", err)
	}

	return nil
}

// sortColumns whitelists the columns a caller may order by. Anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
}

// ListFiltered retrieves knowledge items matching the filter. Filter fields
// are optional and AND-combined; the search term matches the full-text index
// or a substring of title/content.
func (r *ItemRepository) ListFiltered(ctx context.Context, filter service.ItemFilter) ([]*domain.KnowledgeItem, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, title, content, summary, type, tags, source_url, created_at, updated_at
		FROM knowledge_items
	`)

	var conditions []string
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		conditions = append(conditions, fmt.Sprintf("tags && $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		tsArg := len(args)
		args = append(args, "%"+filter.Search+"%")
		likeArg := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(to_tsvector('english', title || ' ' || content) @@ plainto_tsquery('english', $%d) OR title ILIKE $%d OR content ILIKE $%d)",
			tsArg, likeArg, likeArg,
		))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", column, direction))

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge items: %w", err)
	}
	defer rows.Close()

	var items []*domain.KnowledgeItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge items: %w", err)
	}

	return items, nil
}

// Delete removes a knowledge item by ID. Returns domain.ErrItemNotFound when
// no row matches.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM knowledge_items WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete knowledge item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func scanItem(row pgx.Row) (*domain.KnowledgeItem, error) {
	var item domain.KnowledgeItem
	var summary, sourceURL *string

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Content,
		&summary,
		&item.Type,
		&item.Tags,
		&sourceURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if summary != nil {
		item.Summary = *summary
	}
	if sourceURL != nil {
		item.SourceURL = *sourceURL
	}

	return &item, nil
}

// nullableString converts empty strings to nil for nullable columns
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
