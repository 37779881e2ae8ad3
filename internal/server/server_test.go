package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hybrid-rag/internal/chunker"
	"hybrid-rag/internal/embedding"
	"hybrid-rag/internal/llmservice"
	"hybrid-rag/internal/rag"
)

func TestWriteCoreErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty question", rag.ErrEmptyQuestion, http.StatusBadRequest},
		{"empty document", rag.ErrEmptyDocument, http.StatusBadRequest},
		{"empty chunks", chunker.ErrEmptyInput, http.StatusBadRequest},
		{"embedding down", embedding.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"generation down", llmservice.ErrServiceUnreachable, http.StatusServiceUnavailable},
		{"bad embedding payload", embedding.ErrInvalidResponse, http.StatusBadGateway},
		{"bad model payload", llmservice.ErrBadModelResponse, http.StatusBadGateway},
		{"all models failed", &llmservice.AllModelsFailedError{Models: []string{"a"}}, http.StatusBadGateway},
		{"unknown", assertionError("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeCoreError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

type assertionError string

func (e assertionError) Error() string { return string(e) }

func TestAskRejectsBadJSON(t *testing.T) {
	s := New(nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentRequiresFile(t *testing.T) {
	s := New(nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/document", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
