// Package handlers contains the HTTP handlers for the API server.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mindstash-io/mindstash/internal/api"
	"github.com/mindstash-io/mindstash/internal/domain"
	"github.com/mindstash-io/mindstash/internal/service"
)

type ItemService interface {
	Create(ctx context.Context, input service.CreateItemInput) (*domain.KnowledgeItem, error)
	List(ctx context.Context, input service.ListItemsInput) []*domain.KnowledgeItem
	Delete(ctx context.Context, id string) error
}

type ItemHandler struct {
	svc ItemService
}

func NewItemHandler(svc ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type CreateItemRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"`
}

type ItemResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func itemToResponse(item *domain.KnowledgeItem) *ItemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ItemResponse{
		ID:        item.ID,
		Title:     item.Title,
		Content:   item.Content,
		Summary:   item.Summary,
		Type:      string(item.Type),
		Tags:      tags,
		SourceURL: item.SourceURL,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Type == "" {
		api.Error(w, http.StatusBadRequest, "type is required")
		return
	}

	itemType := domain.ItemType(req.Type)
	if !domain.IsValidItemType(itemType) {
		api.Error(w, http.StatusBadRequest, "invalid item type")
		return
	}

	input := service.CreateItemInput{
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		Type:      itemType,
		Tags:      domain.NormalizeTags(req.Tags),
		SourceURL: req.SourceURL,
	}

	item, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, itemToResponse(item))
}

type ItemListResponse struct {
	Items []*ItemResponse `json:"items"`
	Count int             `json:"count"`
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var tags []string
	if raw := query.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	input := service.ListItemsInput{
		Type:      query.Get("type"),
		Tags:      tags,
		Search:    query.Get("search"),
		SortBy:    query.Get("sort_by"),
		SortOrder: query.Get("sort_order"),
	}

	items := h.svc.List(r.Context(), input)

	responses := make([]*ItemResponse, len(items))
	for i, item := range items {
		responses[i] = itemToResponse(item)
	}

	api.Success(w, http.StatusOK, ItemListResponse{
		Items: responses,
		Count: len(responses),
	})
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"id": id})
}
