package domain

import (
	"strings"
	"time"
)

// ItemType represents the type of a knowledge item
type ItemType string

const (
	ItemTypeNote    ItemType = "note"
	ItemTypeLink    ItemType = "link"
	ItemTypeInsight ItemType = "insight"
)

// MaxTags is the number of tags an item carries at most, from any source.
const MaxTags = 3

// KnowledgeItem represents one captured unit of content in the system
type KnowledgeItem struct {
	ID        string
	Title     string
	Content   string
	Summary   string
	Type      ItemType
	Tags      []string
	SourceURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewKnowledgeItem creates a new KnowledgeItem instance
func NewKnowledgeItem(
	id string,
	itemType ItemType,
	title, content, summary string,
	tags []string,
	sourceURL string,
	createdAt, updatedAt time.Time,
) *KnowledgeItem {
	return &KnowledgeItem{
		ID:        id,
		Title:     title,
		Content:   content,
		Summary:   summary,
		Type:      itemType,
		Tags:      tags,
		SourceURL: sourceURL,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(item *KnowledgeItem) error {
	if item == nil {
		return NewDomainError(ErrCodeValidation, "knowledge item cannot be nil")
	}

	if item.ID == "" {
		return NewDomainError(ErrCodeValidation, "knowledge item ID is required")
	}

	if item.Title == "" {
		return NewDomainError(ErrCodeValidation, "knowledge item Title is required")
	}

	if item.Content == "" {
		return NewDomainError(ErrCodeValidation, "knowledge item Content is required")
	}

	if !IsValidItemType(item.Type) {
		return ErrInvalidItemType
	}

	return nil
}

// IsValidItemType checks if an ItemType is one of the known types
func IsValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeNote, ItemTypeLink, ItemTypeInsight:
		return true
	}
	return false
}

// NormalizeTags lowercases tags, drops empty entries and caps the result at
// MaxTags. Order is preserved and duplicates are kept.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
