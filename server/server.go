// Package server exposes the photo search pipeline over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/photosense/sentimentsearch/search"
	"github.com/photosense/sentimentsearch/store"
)

// maxUploadBytes bounds one multipart request body.
const maxUploadBytes = 32 << 20

// Server wires the HTTP handlers to the search pipeline and its side
// stores. Every field except Pipeline is optional; handlers whose
// dependency is missing respond with 503.
type Server struct {
	Pipeline    search.Pipeline
	Transcriber search.Transcriber
	Feedback    *search.FeedbackLog
	History     *store.History

	// LibraryDir backs the static /images/ routes so the frontend can
	// render results.
	LibraryDir string

	Log search.Logger
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/transcribe", s.handleTranscribe)
	r.Post("/feedback", s.handleFeedback)
	r.Get("/history", s.handleHistory)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if s.LibraryDir != "" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(s.LibraryDir)))
		r.Get("/images/*", fs.ServeHTTP)
	}

	return r
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// handleAnalyze accepts either a JSON body {"text": "..."} or a multipart
// form with a "text" field and optional "images" files, and responds with
// the ranked results.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	text, uploads, err := parseAnalyzeRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	resp := s.Pipeline.ProcessQuery(r.Context(), text, uploads)

	if s.History != nil {
		if _, err := s.History.RecordQuery(text, resp.Query, resp.Results); err != nil {
			s.logger().Warning("could not record query history: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func parseAnalyzeRequest(r *http.Request) (string, []search.UploadedImage, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", nil, fmt.Errorf("invalid request body")
		}
		return req.Text, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("invalid multipart form")
	}
	text := r.FormValue("text")

	var uploads []search.UploadedImage
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			// Uploaded names are untrusted; keep only the extension.
			name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
			uploads = append(uploads, search.UploadedImage{Name: name, Data: data})
		}
	}
	return text, uploads, nil
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// handleTranscribe accepts a multipart form with an "audio" file and
// responds with the recognized text.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.Transcriber == nil {
		http.Error(w, "transcription is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "audio file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// The transcription client wants a file on disk.
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(header.Filename))
	tmp, err := os.Create(tmpPath)
	if err != nil {
		http.Error(w, "could not buffer audio", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		http.Error(w, "could not buffer audio", http.StatusInternalServerError)
		return
	}

	text, err := s.Transcriber.Transcribe(r.Context(), tmpPath)
	if err != nil {
		s.logger().Error("transcription failed: %v", err)
		http.Error(w, "transcription failed", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, transcribeResponse{Text: text})
}

// handleFeedback records one correction from the user.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.Feedback == nil {
		http.Error(w, "feedback is not configured", http.StatusServiceUnavailable)
		return
	}

	var rec search.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.Feedback.Append(rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// handleHistory returns recent queries, newest first. ?limit=N caps the
// result count.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		http.Error(w, "history is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.History.Recent(limit)
	if err != nil {
		s.logger().Error("could not read history: %v", err)
		http.Error(w, "could not read history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) logger() search.Logger {
	if s.Log != nil {
		return s.Log
	}
	return search.NopLogger()
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
