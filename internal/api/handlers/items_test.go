package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindstash-io/mindstash/internal/domain"
	"github.com/mindstash-io/mindstash/internal/service"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, input service.CreateItemInput) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, input service.ListItemsInput) []*domain.KnowledgeItem {
	args := m.Called(ctx, input)
	return args.Get(0).([]*domain.KnowledgeItem)
}

func (m *MockItemService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestItem() *domain.KnowledgeItem {
	now := time.Now().UTC()
	return &domain.KnowledgeItem{
		ID:        "item-123",
		Title:     "Raft consensus",
		Content:   "Leader election and log replication.",
		Summary:   "An overview of Raft.",
		Type:      domain.ItemTypeNote,
		Tags:      []string{"raft", "consensus"},
		SourceURL: "https://example.com/raft",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestItemToResponse_TimestampsNormalizedToUTC(t *testing.T) {
	item := newTestItem()
	cest := time.FixedZone("CEST", 2*60*60)
	item.CreatedAt = time.Date(2026, 3, 1, 14, 30, 0, 0, cest)
	item.UpdatedAt = item.CreatedAt

	resp := itemToResponse(item)

	assert.Equal(t, "2026-03-01T12:30:00Z", resp.CreatedAt)
	assert.Equal(t, "2026-03-01T12:30:00Z", resp.UpdatedAt)
}

func requestWithURLParam(method, url, key, value string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestItemHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	expectedItem := newTestItem()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateItemInput) bool {
		return input.Title == "Raft consensus" && input.Type == domain.ItemTypeNote
	})).Return(expectedItem, nil)

	body := `{"type":"note","title":"Raft consensus","content":"Leader election and log replication.","tags":["Raft","Consensus"]}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "item-123", data["id"])
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_Create_NormalizesTags(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateItemInput) bool {
		return assert.ObjectsAreEqual([]string{"a", "b", "c"}, input.Tags)
	})).Return(newTestItem(), nil)

	body := `{"type":"note","title":"T","content":"C","tags":[" A ","B","c","d","e"]}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing title", `{"type":"note","content":"C"}`},
		{"missing content", `{"type":"note","title":"T"}`},
		{"missing type", `{"title":"T","content":"C"}`},
		{"invalid type", `{"type":"bookmark","title":"T","content":"C"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockItemService)
			handler := NewItemHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockSvc.AssertNumberOfCalls(t, "Create", 0)
		})
	}
}

func TestItemHandler_Create_ServiceError(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateItemInput")).
		Return(nil, domain.NewDomainError(domain.ErrCodeInternalError, "persistence failure"))

	body := `{"type":"note","title":"T","content":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestItemHandler_List_MapsQueryParams(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("List", mock.Anything, service.ListItemsInput{
		Type:      "note",
		Tags:      []string{"go", "http"},
		Search:    "raft",
		SortBy:    "title",
		SortOrder: "asc",
	}).Return([]*domain.KnowledgeItem{newTestItem()})

	req := httptest.NewRequest(http.MethodGet, "/items?type=note&tags=go,%20http&search=raft&sort_by=title&sort_order=asc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_List_Empty(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("List", mock.Anything, service.ListItemsInput{}).
		Return([]*domain.KnowledgeItem{})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
}

func TestItemHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "item-123").Return(nil)

	req := requestWithURLParam(http.MethodDelete, "/items/item-123", "id", "item-123")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_Delete_NotFound(t *testing.T) {
	mockSvc := new(MockItemService)
	handler := NewItemHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "missing").Return(domain.ErrItemNotFound)

	req := requestWithURLParam(http.MethodDelete, "/items/missing", "id", "missing")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
