package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"hybrid-rag/internal/chunker"
	"hybrid-rag/internal/embedding"
	"hybrid-rag/internal/llmservice"
	"hybrid-rag/internal/rag"
)

const maxUploadBytes = 32 << 20

// Server is thin HTTP glue over the retrieval-and-answering core.
type Server struct {
	rag     *rag.RAG
	gateway *llmservice.Client
}

func New(r *rag.RAG, gateway *llmservice.Client) *Server {
	return &Server{rag: r, gateway: gateway}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/document", s.handleDocument)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return mux
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	question := r.FormValue("question")

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	tmp.Close()

	response, err := s.rag.AnswerFile(r.Context(), tmp.Name(), question)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	response, err := s.rag.AnswerDataset(r.Context(), body.Question)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	installed, err := s.gateway.InstalledModels(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"models": installed,
	})
}

// writeCoreError maps the core's error taxonomy onto HTTP status codes.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rag.ErrEmptyQuestion),
		errors.Is(err, rag.ErrEmptyDocument),
		errors.Is(err, chunker.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, embedding.ErrServiceUnavailable),
		errors.Is(err, llmservice.ErrServiceUnreachable):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, embedding.ErrInvalidResponse),
		errors.Is(err, llmservice.ErrBadModelResponse):
		writeError(w, http.StatusBadGateway, err)
	default:
		var allFailed *llmservice.AllModelsFailedError
		if errors.As(err, &allFailed) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Warn().Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Error encoding response")
	}
}
