package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/pkg/deeplink"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/rs/cors"
)

// Engine defines the operations the HTTP surface needs from the tds engine.
type Engine interface {
	Evaluate(ctx context.Context, answers domain.Answers, focus string) (*domain.Result, error)
	Hydrate(payload string, focus string) (*domain.Result, bool)
	Zone(code domain.ZoneCode) (domain.ZoneRecord, error)
	Zones() []domain.ZoneRecord
	Personas() []domain.FocusPersona
	Questions() []domain.Question
	Save(ctx context.Context, result *domain.Result) (*domain.Snapshot, error)
	Latest(ctx context.Context) (*domain.Snapshot, error)
	Result(ctx context.Context, id string) (*domain.Snapshot, error)
	Watch(ctx context.Context) (<-chan struct{}, error)
	SaveAnswers(ctx context.Context, key string, answers domain.Answers) error
	LoadAnswers(ctx context.Context, key string) (domain.Answers, error)
	ClearAnswers(ctx context.Context, key string) error
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Answers domain.Answers `json:"answers"`
	Focus   string         `json:"focus,omitempty"`
	Save    bool           `json:"save,omitempty"`
}

// EvaluateResponse is returned by POST /evaluate and GET /link.
type EvaluateResponse struct {
	ID     string         `json:"id,omitempty"`
	Result domain.Payload `json:"result"`
	Link   string         `json:"link"`
	Label  string         `json:"label"`
}

// AnswersRequest is the body of PATCH /sessions/{id}/answers.
// A null value removes that answer.
type AnswersRequest struct {
	Answers domain.Answers `json:"answers"`
}

// SessionResponse reports the progress of a draft answer set.
type SessionResponse struct {
	ID       string         `json:"id"`
	Answers  domain.Answers `json:"answers"`
	Missing  []string       `json:"missing"`
	Complete bool           `json:"complete"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// Server serves the tds HTTP API.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	Sessions *session.Manager
	Logger   *slog.Logger

	metrics     http.Handler
	corsOptions cors.Options
	sessionOpts []session.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithSessionOptions configures the draft session manager, for example with a
// distributed locker when several replicas share one store.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithAllowedOrigins restricts CORS to origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOptions.AllowedOrigins = origins
	}
}

// NewServer builds a Server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine: engine,
		Logger: slog.Default(),
		corsOptions: cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)
	s.Sessions = session.NewManager(engine, append([]session.Option{session.WithLogger(s.Logger)}, s.sessionOpts...)...)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/evaluate", s.Evaluate)
	r.Get("/questions", s.ListQuestions)
	r.Get("/zones", s.ListZones)
	r.Get("/zones/{code}", s.GetZone)
	r.Get("/personas", s.ListPersonas)
	r.Get("/link", s.HydrateLink)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Patch("/answers", s.UpdateSession)
		r.Delete("/", s.DeleteSession)
		r.Post("/evaluate", s.EvaluateSession)
	})
	r.Get("/results/latest", s.LatestResult)
	r.Get("/results/{id}", s.GetResult)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return cors.New(s.corsOptions).Handler(r)
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>TDS API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		s.Logger.Warn("Evaluate: Invalid request body", "error", err)
		return
	}
	if body.Answers == nil {
		s.writeError(w, http.StatusBadRequest, "answers is required", nil)
		return
	}

	result, err := s.Engine.Evaluate(r.Context(), body.Answers, body.Focus)
	if err != nil {
		var incomplete *domain.IncompleteAnswersError
		if errors.As(err, &incomplete) {
			s.writeError(w, http.StatusUnprocessableEntity, domain.ErrIncompleteAnswers.Error(), incomplete.Missing)
			return
		}
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Evaluate error: %v", err), nil)
		s.Logger.Error("Evaluate failed", "error", err)
		return
	}

	resp := response(result)
	if body.Save {
		id, err := s.save(r.Context(), result)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Save error: %v", err), nil)
			return
		}
		resp.ID = id
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) save(ctx context.Context, result *domain.Result) (string, error) {
	snap, err := s.Engine.Save(ctx, result)
	if err != nil {
		s.Logger.Error("Save failed", "error", err)
		return "", err
	}
	if bytes, err := json.Marshal(snap); err == nil {
		s.Streams.Broadcast(TopicResults, string(bytes))
	}
	return snap.ID, nil
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	answers, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
		s.Logger.Error("Session load failed", "session_id", id, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.progress(id, answers))
}

// UpdateSession handles the PATCH /sessions/{id}/answers request.
func (s *Server) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		s.Logger.Warn("UpdateSession: Invalid request body", "error", err)
		return
	}

	answers, err := s.Sessions.Merge(r.Context(), id, body.Answers)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
		s.Logger.Error("Session update failed", "session_id", id, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.progress(id, answers))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Clear(r.Context(), id); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateSession handles the POST /sessions/{id}/evaluate request. The draft is
// cleared once it evaluates successfully.
func (s *Server) EvaluateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body EvaluateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	var resp EvaluateResponse
	err := s.Sessions.Complete(r.Context(), id, func(ctx context.Context, answers domain.Answers) error {
		result, err := s.Engine.Evaluate(ctx, answers, body.Focus)
		if err != nil {
			return err
		}
		resp = response(result)
		if body.Save {
			resp.ID, err = s.save(ctx, result)
		}
		return err
	})
	if err != nil {
		var incomplete *domain.IncompleteAnswersError
		if errors.As(err, &incomplete) {
			s.writeError(w, http.StatusUnprocessableEntity, domain.ErrIncompleteAnswers.Error(), incomplete.Missing)
			return
		}
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Evaluate error: %v", err), nil)
		s.Logger.Error("Session evaluate failed", "session_id", id, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) progress(id string, answers domain.Answers) SessionResponse {
	missing := answers.Missing(s.Engine.Questions())
	if missing == nil {
		missing = []string{}
	}
	return SessionResponse{ID: id, Answers: answers, Missing: missing, Complete: len(missing) == 0}
}

// ListQuestions handles the GET /questions request.
func (s *Server) ListQuestions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"questions": s.Engine.Questions(),
		"scale":     domain.Scale,
	})
}

// ListZones handles the GET /zones request.
func (s *Server) ListZones(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Zones())
}

// GetZone handles the GET /zones/{code} request.
func (s *Server) GetZone(w http.ResponseWriter, r *http.Request) {
	code := domain.ZoneCode(strings.ToUpper(chi.URLParam(r, "code")))
	zone, err := s.Engine.Zone(code)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownZone) {
			s.writeError(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, zone)
}

// ListPersonas handles the GET /personas request.
func (s *Server) ListPersonas(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Personas())
}

// HydrateLink handles the GET /link request. The query string is the deep link payload.
func (s *Server) HydrateLink(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var (
		zone  string
		sc    float64
		rc    float64
		focus string
	)
	for _, p := range []struct {
		name     string
		required bool
		dest     any
	}{
		{"zone", true, &zone},
		{"S", true, &sc},
		{"R", true, &rc},
		{"focus", false, &focus},
	} {
		if err := runtime.BindQueryParameter("form", true, p.required, p.name, params, p.dest); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %v", p.name, err), nil)
			return
		}
	}

	result, ok := s.Engine.Hydrate(r.URL.RawQuery, focus)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "link carries no usable state", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, response(result))
}

// LatestResult handles the GET /results/latest request.
func (s *Server) LatestResult(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Latest(r.Context())
	s.writeSnapshot(w, snap, err)
}

// GetResult handles the GET /results/{id} request.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Result(r.Context(), chi.URLParam(r, "id"))
	s.writeSnapshot(w, snap, err)
}

func (s *Server) writeSnapshot(w http.ResponseWriter, snap *domain.Snapshot, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
		s.Logger.Error("Result lookup failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// SubscribeEvents handles the GET /events request (SSE).
// It streams "reload" events when a catalog changes and "result" events when a result is saved.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	reloads, err := s.Engine.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		return
	}
	results, cancel := s.Streams.Subscribe(TopicResults)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case _, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: catalog\n\n", TopicReload)
			flusher.Flush()
		case msg, ok := <-results:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: result\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tds-http",
		"version":     strings.TrimSpace(tds.Version),
		"api_version": apiVersion,
	})
}

// -- Helpers --

func response(result *domain.Result) EvaluateResponse {
	return EvaluateResponse{
		Result: result.Payload(),
		Link:   deeplink.EncodeResult(*result),
		Label:  result.Zone.Code.Label(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, missing []string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg, Missing: missing})
}
