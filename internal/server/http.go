// ABOUTME: HTTP routes for execute, query and health on the reference host
// ABOUTME: Maps admin errors to status codes and tags requests with an id

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/2389/multiadmin/internal/admin"
	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/host"
)

// RequestIDHeader carries the per-request id on responses.
const RequestIDHeader = "X-Request-Id"

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// Handler returns the HTTP routes of the host.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/execute", auth.Middleware(h.verifier)(http.HandlerFunc(h.handleExecute)))
	mux.HandleFunc("POST /v1/query", h.handleQuery)
	mux.HandleFunc("GET /health", h.handleHealth)
	return h.requestLogging(mux)
}

// handleExecute handles POST /v1/execute.
func (h *Host) handleExecute(w http.ResponseWriter, r *http.Request) {
	sender, ok := auth.SenderFromContext(r.Context())
	if !ok {
		h.sendJSONError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	var msg admin.HandleMsg
	if err := decodeBody(w, r, &msg); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.Execute(r.Context(), sender, msg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger(r.Context()).Info("executed", "sender", string(sender))
	writeJSON(w, http.StatusOK, resp)
}

// handleQuery handles POST /v1/query.
func (h *Host) handleQuery(w http.ResponseWriter, r *http.Request) {
	var msg admin.QueryMsg
	if err := decodeBody(w, r, &msg); err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := h.Query(r.Context(), msg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleHealth returns 200 OK if the server is alive.
func (h *Host) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		if errors.Is(err, admin.ErrUnknownMessage) {
			return err
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps an execution error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, admin.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, admin.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, admin.ErrUnknownMessage),
		errors.Is(err, host.ErrInvalidAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Host) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger(r.Context()).Error("request failed", "error", err)
		h.sendJSONError(w, r, status, "internal server error")
		return
	}

	logger(r.Context()).Debug("request rejected", "status", status, "error", err)
	h.sendJSONError(w, r, status, err.Error())
}

func (h *Host) sendJSONError(w http.ResponseWriter, _ *http.Request, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type loggerContextKey struct{}

// logger returns the request-scoped logger set by requestLogging.
func logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogging assigns a request id, exposes it on the response and logs
// one line per request.
func (h *Host) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set(RequestIDHeader, requestID)

		reqLogger := h.logger.With("request_id", requestID)
		ctx := context.WithValue(r.Context(), loggerContextKey{}, reqLogger)

		sw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		reqLogger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
