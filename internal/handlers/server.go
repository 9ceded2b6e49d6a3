// Package handlers contains the HTTP handler logic for the MatchDay API.
//
// All handler files share the same "handlers" package so they can call
// each other's helpers freely without exporting them. The files are
// split by domain (auth, events) purely for readability.
//
// The central type is Server. It holds the shared dependencies every
// handler needs. Putting them on a struct (instead of global
// variables) keeps the code easy to test — each test creates its own
// Server with its own in-memory database and no test pollutes another.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kmuriuki/matchday/internal/lifecycle"
	"github.com/kmuriuki/matchday/internal/models"
	"github.com/kmuriuki/matchday/internal/session"
	"github.com/kmuriuki/matchday/internal/store"
)

// Server holds shared dependencies for all handlers.
type Server struct {
	Users    *store.UserStore
	Events   *store.EventStore
	Engine   *lifecycle.Engine
	Sessions *session.Store
	// Secret is the HMAC key used to sign and verify session tokens.
	Secret string
}

// respond writes v as JSON with the given HTTP status code.
// Content-Type must be set before WriteHeader — once WriteHeader is
// called the headers are flushed and cannot be changed.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring the encode error: if the client disconnected mid-write
	// there is nothing useful we can do.
	_ = json.NewEncoder(w).Encode(body)
}

// respondError sends a JSON object with a single "error" key,
// e.g. {"error": "event not found"}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

// decode reads and parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// respondOutcome maps a lifecycle Outcome to an HTTP reply. Refused
// operations are 409s except for the two cases with better statuses.
func respondOutcome(w http.ResponseWriter, out lifecycle.Outcome) {
	if out.OK {
		respond(w, http.StatusOK, models.LifecycleResponse{OK: true, Status: out.Status})
		return
	}
	status := http.StatusConflict
	switch out.Reason {
	case lifecycle.ReasonEventNotFound:
		status = http.StatusNotFound
	case lifecycle.ReasonStorage:
		status = http.StatusInternalServerError
	}
	respond(w, status, models.LifecycleResponse{OK: false, Reason: out.Reason})
}
