package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"documind-backend/internal/shared/server/respond"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postMessage(r *gin.Engine, docID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandlerSendAndHistory(t *testing.T) {
	svc, _ := newService(t, &fakeLLM{reply: "Answer."}, readyDoc("d1", "Body text"))
	r := newRouter(svc)

	resp := postMessage(r, "d1", `{"content":"Question?"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var sent sendResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sent.User.Content != "Question?" || sent.Assistant == nil || sent.Assistant.Content != "Answer." {
		t.Fatalf("unexpected response %+v", sent)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/d1/messages", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var hist struct {
		Messages []MessageResponse `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Messages) != 2 || hist.Messages[0].Role != RoleUser {
		t.Fatalf("unexpected history %+v", hist.Messages)
	}
}

func TestHandlerErrorMapping(t *testing.T) {
	svc, _ := newService(t, &fakeLLM{err: errors.New("down")}, readyDoc("d1", "Body"), readyDoc("empty", ""))
	r := newRouter(svc)

	tests := []struct {
		name   string
		docID  string
		body   string
		status int
		code   string
	}{
		{name: "bad json", docID: "d1", body: `{`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "blank content", docID: "d1", body: `{"content":"  "}`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "missing doc", docID: "zzz", body: `{"content":"hi"}`, status: http.StatusNotFound, code: "not_found"},
		{name: "no text", docID: "empty", body: `{"content":"hi"}`, status: http.StatusUnprocessableEntity, code: "no_document_text"},
		{name: "llm failure", docID: "d1", body: `{"content":"hi"}`, status: http.StatusBadGateway, code: "assistant_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMessage(r, tt.docID, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			var body respond.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, body.Error.Code)
			}
		})
	}

	hist, _ := svc.Messages.ListByDocument(context.Background(), "d1")
	if len(hist) != 1 {
		t.Fatalf("expected the failed turn to leave 1 user message, got %d", len(hist))
	}
}
