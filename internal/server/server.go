// Package server exposes the classification service over HTTP. This is
// the wire boundary between the classifier process and the client-side
// orchestrator; the response shape is stable, with every payload field
// present and null when unused.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"voxnav/internal/intent"
	"voxnav/internal/nav"
)

// maxAudioBytes bounds uploaded recordings.
const maxAudioBytes = 25 << 20

// Transcriber is the speech-to-text boundary consumed by the transcribe
// endpoint.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// Server wires the classifier and the transcription boundary into HTTP
// handlers.
type Server struct {
	log         *zap.Logger
	classifier  *intent.Classifier
	transcriber Transcriber
	registry    *prometheus.Registry
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(log *zap.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// WithTranscriber enables the transcribe endpoint.
func WithTranscriber(t Transcriber) ServerOption {
	return func(s *Server) { s.transcriber = t }
}

// WithMetricsRegistry serves the given registry on /metrics.
func WithMetricsRegistry(reg *prometheus.Registry) ServerOption {
	return func(s *Server) { s.registry = reg }
}

// New builds a Server around a classifier.
func New(classifier *intent.Classifier, opts ...ServerOption) *Server {
	s := &Server{
		log:        zap.NewNop(),
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/intent/analyze", s.handleAnalyze)
	r.Post("/api/speech/transcribe", s.handleTranscribe)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// analyzeRequest is the wire request: one utterance plus UI context.
type analyzeRequest struct {
	Text                 string            `json:"text"`
	Destinations         []nav.Destination `json:"destinations"`
	CurrentDestinationID string            `json:"currentDestinationId"`
}

// analyzeResponse is the stable wire shape. All payload fields are always
// present; unused ones are null.
type analyzeResponse struct {
	Success            bool                 `json:"success"`
	HasMatch           bool                 `json:"hasMatch"`
	IntentType         string               `json:"intentType"`
	MatchedDestination *nav.Destination     `json:"matchedDestination"`
	ListMutation       *intent.ListMutation `json:"listMutation"`
	FormMutation       *intent.FormMutation `json:"formMutation"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Destinations) == 0 {
		writeError(w, http.StatusBadRequest, "a non-empty destinations array is required")
		return
	}

	action := s.classifier.Classify(r.Context(), intent.Turn{
		Utterance:    req.Text,
		Destinations: req.Destinations,
		CurrentID:    req.CurrentDestinationID,
	})

	resp := analyzeResponse{
		Success:    true,
		IntentType: string(action.Kind),
	}
	switch action.Kind {
	case intent.KindNavigation:
		resp.HasMatch = true
		resp.MatchedDestination = action.Destination
	case intent.KindListMutation:
		resp.HasMatch = true
		resp.ListMutation = action.List
	case intent.KindFormMutation:
		resp.HasMatch = true
		resp.FormMutation = action.Form
	}

	writeJSON(w, http.StatusOK, resp)
}

type transcribeResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription not configured")
		return
	}

	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "no audio provided")
		return
	}

	transcript, err := s.transcriber.Transcribe(r.Context(), audio, r.Header.Get("Content-Type"))
	if err != nil {
		// Not retried here: the UI surfaces this as "try again".
		s.log.Warn("transcription failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, transcribeResponse{
			Success: false,
			Error:   "failed to transcribe audio",
		})
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Success:    true,
		Transcript: transcript,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
