//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindstash-io/mindstash/internal/api/handlers"
	"github.com/mindstash-io/mindstash/internal/repository"
	"github.com/mindstash-io/mindstash/internal/server"
	"github.com/mindstash-io/mindstash/internal/service"
	"github.com/mindstash-io/mindstash/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	Server     *httptest.Server
	Cache      *server.DashboardCache
	HTTPClient *http.Client
}

// SetupE2EEnv creates a full test environment: a PostgreSQL container and an
// in-process HTTP server wired with real repositories. AI enhancement runs
// without a provider so creation exercises the heuristic path.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	itemRepo := repository.NewItemRepository(pool)
	enhancer := service.NewEnhancementService(nil)
	cache := server.NewDashboardCache()
	itemSvc := service.NewItemService(itemRepo, enhancer, cache)

	router := server.NewRouter(server.RouterConfig{
		ItemHandler:   handlers.NewItemHandler(itemSvc),
		PublicHandler: handlers.NewPublicHandler(itemSvc),
		Cache:         cache,
	})

	srv := httptest.NewServer(router)

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		Pool:       pool,
		Server:     srv,
		Cache:      cache,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// DoJSON performs an HTTP request with an optional JSON body and decodes the
// response into out (when out is non-nil). Returns the status code.
func (e *E2ETestEnv) DoJSON(method, path string, body interface{}, out interface{}) int {
	e.T.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.T.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reqBody)
	if err != nil {
		e.T.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		e.T.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			e.T.Fatalf("failed to decode response for %s %s: %v", method, path, err)
		}
	}

	return resp.StatusCode
}

// TruncateItems wipes the items table between test phases.
func (e *E2ETestEnv) TruncateItems() {
	e.T.Helper()
	if err := testutil.TruncateAll(e.Ctx, e.Pool); err != nil {
		e.T.Fatalf("failed to truncate tables: %v", err)
	}
}

func itemPath(id string) string {
	return fmt.Sprintf("/items/%s", id)
}
