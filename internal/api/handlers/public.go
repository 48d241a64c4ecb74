package handlers

import (
	"context"
	"net/http"

	"github.com/mindstash-io/mindstash/internal/api"
	"github.com/mindstash-io/mindstash/internal/domain"
)

type PublicSearchService interface {
	Search(ctx context.Context, query string) ([]*domain.KnowledgeItem, error)
}

// PublicHandler serves the unauthenticated read surface consumed by external
// agents. Its envelope differs from the internal API on purpose: clients key
// off the success flag rather than HTTP status alone.
type PublicHandler struct {
	svc PublicSearchService
}

func NewPublicHandler(svc PublicSearchService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

type PublicQueryResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []*ItemResponse `json:"data"`
}

type PublicErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *PublicHandler) Query(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		api.JSON(w, http.StatusBadRequest, PublicErrorResponse{
			Success: false,
			Error:   "query parameter 'q' is required",
		})
		return
	}

	items, err := h.svc.Search(r.Context(), query)
	if err != nil {
		api.JSON(w, http.StatusInternalServerError, PublicErrorResponse{
			Success: false,
			Error:   "failed to query knowledge base",
		})
		return
	}

	responses := make([]*ItemResponse, len(items))
	for i, item := range items {
		responses[i] = itemToResponse(item)
	}

	api.JSON(w, http.StatusOK, PublicQueryResponse{
		Success: true,
		Count:   len(responses),
		Data:    responses,
	})
}
