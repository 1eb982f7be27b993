package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/resolve"
)

// handler adapts the resolution engine to net/http. One resolution per
// request; the engine holds no per-request state, so the handler is safe
// for concurrent use.
type handler struct {
	resolver *resolve.Resolver
	log      *slog.Logger
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := uuid.NewString()

	resp, err := h.resolver.Resolve(resolve.Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  flattenQuery(r.URL.Query()),
	})
	if err != nil {
		h.writeError(w, r, reqID, err)
		return
	}

	// Honor the synthesized delay here, outside the engine, so a client
	// disconnect cancels the wait.
	if resp.Delay > 0 {
		if !sleep(r.Context(), resp.Delay) {
			h.log.Debug("request canceled during delay", "id", reqID, "path", r.URL.Path)
			return
		}
	}

	status := resp.Status
	body := resp.Body
	contentType := resp.ContentType
	if resp.Failure != nil {
		status = resp.Failure.Status
		body = resp.Failure.Body
		if body == nil {
			body = document.NewMapping(document.Entry{
				Key:   "error",
				Value: document.NewString(http.StatusText(status)),
			})
		}
		contentType = "application/json"
	}

	h.writeBody(w, status, contentType, body, reqID)

	h.log.Info("request resolved",
		"id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"route", resp.Route,
		"status", status,
		"flaky", resp.Failure != nil,
		"duration", time.Since(start),
	)
}

// writeBody serializes the body value tree. JSON bodies are marshaled with
// declaration order preserved; a plain string under a non-JSON content type
// is written verbatim.
func (h *handler) writeBody(w http.ResponseWriter, status int, contentType string, body *document.Value, reqID string) {
	if body == nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		return
	}

	if s, ok := body.AsString(); ok && !isJSON(contentType) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(s))
		return
	}

	data, err := json.Marshal(body)
	if err != nil {
		h.log.Error("failed to encode response body", "id", reqID, "error", err)
		http.Error(w, "failed to encode response body", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, reqID string, err error) {
	var notAllowed *resolve.MethodNotAllowedError

	switch {
	case errors.Is(err, resolve.ErrNoRoute):
		h.log.Debug("no route", "id", reqID, "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "No mock found for %s %s", r.Method, r.URL.Path)

	case errors.As(err, &notAllowed):
		h.log.Debug("method not allowed", "id", reqID, "method", r.Method, "path", r.URL.Path, "allow", notAllowed.Allow)
		w.Header().Set("Allow", strings.Join(notAllowed.Allow, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)

	default:
		// Schema generation failure or other resolution error.
		h.log.Error("resolution failed", "id", reqID, "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "mock resolution failed: "+err.Error(), http.StatusInternalServerError)
	}
}

// flattenQuery reduces multi-valued query parameters to one value each,
// last occurrence wins.
func flattenQuery(q url.Values) map[string]string {
	out := make(map[string]string, len(q))
	for name, vals := range q {
		if len(vals) > 0 {
			out[name] = vals[len(vals)-1]
		}
	}
	return out
}

// sleep waits for d or until the context is canceled. Returns false on
// cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}
