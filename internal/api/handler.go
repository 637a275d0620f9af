package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/frontend-env/internal/environment"
	"github.com/eugenenazirov/frontend-env/internal/render"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// EnvironmentSource exposes the loaded environment record.
type EnvironmentSource interface {
	Snapshot() (environment.Snapshot, error)
}

// Handler serves the active environment record over HTTP.
type Handler struct {
	source EnvironmentSource
	logger *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHandlerLogger attaches a logger for render failures.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler reading from source.
func NewHandler(source EnvironmentSource, opts ...HandlerOption) *Handler {
	h := &Handler{
		source: source,
		logger: zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	if snap, err := h.source.Snapshot(); err == nil {
		resp.Environment = snap.Target.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	_ = r
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := environmentResponse{
		Target:      snap.Target.String(),
		LoadedAt:    snap.LoadedAt,
		Environment: snap.Config,
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetEnvironmentModule(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", render.ContentType(render.FormatTypeScript))
	w.Header().Set("Cache-Control", "no-store")
	if err := render.Render(w, render.FormatTypeScript, snap.Target, snap.Config); err != nil {
		h.logger.Error("render environment module failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
	}
}

func (h *Handler) handleGetLoginURL(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	callbackPath := r.URL.Query().Get("callbackPath")
	resp := loginURLResponse{
		Issuer: snap.Config.IssuerURL(),
		URL:    snap.Config.LoginURL(callbackPath),
	}
	writeJSON(w, http.StatusOK, resp)
}

// snapshot writes the error response itself when the record is unavailable.
func (h *Handler) snapshot(w http.ResponseWriter) (environment.Snapshot, bool) {
	snap, err := h.source.Snapshot()
	if err != nil {
		if errors.Is(err, environment.ErrConfigurationMissing) {
			writeError(w, http.StatusServiceUnavailable, "Configuration missing", err.Error(),
				"the service has not finished loading its environment")
			return environment.Snapshot{}, false
		}
		writeInternalError(w, err)
		return environment.Snapshot{}, false
	}
	return snap, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type environmentResponse struct {
	Target      string                        `json:"target"`
	LoadedAt    time.Time                     `json:"loadedAt"`
	Environment environment.EnvironmentConfig `json:"environment"`
}

type loginURLResponse struct {
	Issuer string `json:"issuer"`
	URL    string `json:"url"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
