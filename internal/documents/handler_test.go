package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, docs ...Document) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	for _, d := range docs {
		if err := repo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	r := gin.New()
	NewHandler(&Service{Repo: repo}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListReturnsCardsAndStats(t *testing.T) {
	now := time.Now().UTC()
	r := newTestRouter(t,
		Document{ID: "1", Title: "Contract", Status: StatusReady, FileSize: "0.10 MB", BriefSummary: "b", CreatedDate: now.Add(-time.Hour)},
		Document{ID: "2", Title: "Invoice", Status: StatusProcessing, CreatedDate: now},
	)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents?q=contract", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body DashboardResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Documents) != 1 || body.Documents[0].ID != "1" {
		t.Fatalf("unexpected documents %+v", body.Documents)
	}
	if body.Documents[0].StatusLabel != "Ready" {
		t.Fatalf("unexpected label %q", body.Documents[0].StatusLabel)
	}
	if body.Stats.Total != 2 || body.Stats.Processing != 1 {
		t.Fatalf("unexpected stats %+v", body.Stats)
	}
	if body.EmptyState != nil {
		t.Fatalf("expected no empty state")
	}
}

func TestListEmptyStates(t *testing.T) {
	r := newTestRouter(t, Document{ID: "1", Title: "Contract", Status: StatusReady, CreatedDate: time.Now()})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents?q=zzz", nil))
	var body DashboardResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.EmptyState == nil || body.EmptyState.Message != "No documents found" || !body.EmptyState.HasDocuments {
		t.Fatalf("unexpected empty state %+v", body.EmptyState)
	}

	empty := newTestRouter(t)
	resp = httptest.NewRecorder()
	empty.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	body = DashboardResponse{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.EmptyState == nil || body.EmptyState.Message != "No documents yet" {
		t.Fatalf("unexpected empty state %+v", body.EmptyState)
	}
	if body.Documents == nil {
		t.Fatalf("expected documents to be an empty array, not null")
	}
}

func TestGetDocument(t *testing.T) {
	r := newTestRouter(t, Document{ID: "abc", Title: "Thesis", Status: StatusReady, DetailedSummary: "Long text", CreatedDate: time.Now()})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/abc", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body DetailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Summaries.Detailed != "Long text" || body.Summaries.Brief != noBriefSummary {
		t.Fatalf("unexpected summaries %+v", body.Summaries)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
