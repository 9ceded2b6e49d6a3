package handlers

import (
	"net/http"
	"strings"

	"github.com/kmuriuki/matchday/internal/lifecycle"
	"github.com/kmuriuki/matchday/internal/middleware"
	"github.com/kmuriuki/matchday/internal/models"
)

// CreateEvent handles POST /api/events
// The authenticated caller becomes the host; hostedBy is a snapshot of
// their identity taken here and never rewritten afterwards.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetUserID(r.Context())
	hostName := middleware.GetUserName(r.Context())

	var req models.CreateEventRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "eventTitle is required")
		return
	}
	if req.DateTime.IsZero() {
		respondError(w, http.StatusBadRequest, "eventDateTime is required")
		return
	}
	if req.MaxPlayers <= 0 {
		respondError(w, http.StatusBadRequest, "maxPlayerLimit must be a positive integer")
		return
	}

	event := s.Events.Create(r.Context(), models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		MaxPlayers:  req.MaxPlayers,
		DateTime:    req.DateTime.UTC(),
		HostedBy:    models.HostRef{ID: hostID, Name: hostName},
	})
	if event == nil {
		respondError(w, http.StatusInternalServerError, "could not create event")
		return
	}

	respond(w, http.StatusCreated, event)
}

// ListEvents handles GET /api/events — all events, newest first.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.Events.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respond(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id}
//
// This is the dashboard read, so it goes through the lifecycle
// engine's HostView: when the caller hosts a past event with pending
// join requests, those entries are expired (and persisted) before the
// event is returned.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	viewerID := middleware.GetUserID(r.Context())

	event, err := s.Engine.HostView(r.Context(), id, viewerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}
	respond(w, http.StatusOK, event)
}

// UpdateEvent handles PATCH /api/events/{id}  (host only)
// Builds a partial update from only the fields present in the body; a
// body with no recognized fields reports "no changes made".
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, forbidden := s.hostedEvent(w, r, id)
	if event == nil || forbidden {
		return
	}

	var patch models.EventPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	// Participants move only through join/withdraw/decision.
	patch.Participants = nil

	res := s.Events.Update(r.Context(), id, patch)
	if res.Err != nil {
		respondError(w, http.StatusInternalServerError, "could not update event")
		return
	}
	if !res.Applied {
		respond(w, http.StatusOK, map[string]any{"updated": false, "message": res.Message})
		return
	}

	updated, err := s.Events.ByID(r.Context(), id)
	if err != nil || updated == nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respond(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/events/{id}  (host only)
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, forbidden := s.hostedEvent(w, r, id)
	if event == nil || forbidden {
		return
	}

	if !s.Events.Delete(r.Context(), id) {
		respondError(w, http.StatusInternalServerError, "could not delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinEvent handles POST /api/events/{id}/join
func (s *Server) JoinEvent(w http.ResponseWriter, r *http.Request) {
	out := s.Engine.RequestJoin(r.Context(), r.PathValue("id"),
		middleware.GetUserID(r.Context()), middleware.GetUserName(r.Context()))
	respondOutcome(w, out)
}

// WithdrawFromEvent handles POST /api/events/{id}/withdraw
func (s *Server) WithdrawFromEvent(w http.ResponseWriter, r *http.Request) {
	out := s.Engine.Withdraw(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	respondOutcome(w, out)
}

// DecideOnParticipant handles
// POST /api/events/{id}/participants/{user_id}/decision  (host only)
func (s *Server) DecideOnParticipant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, forbidden := s.hostedEvent(w, r, id)
	if event == nil || forbidden {
		return
	}

	var req models.DecisionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	var decision lifecycle.Decision
	switch req.Decision {
	case string(lifecycle.DecisionAccept):
		decision = lifecycle.DecisionAccept
	case string(lifecycle.DecisionReject):
		decision = lifecycle.DecisionReject
	default:
		respondError(w, http.StatusBadRequest, "decision must be 'accept' or 'reject'")
		return
	}

	out := s.Engine.Decide(r.Context(), id, r.PathValue("user_id"), decision)
	respondOutcome(w, out)
}

// hostedEvent loads the event and verifies the caller hosts it,
// writing the error response itself when not. Returns (nil, false) on
// missing/failed load and (event, true) when the caller is not the
// host.
func (s *Server) hostedEvent(w http.ResponseWriter, r *http.Request, id string) (*models.Event, bool) {
	event, err := s.Events.ByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return nil, false
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return nil, false
	}
	if event.HostedBy.ID != middleware.GetUserID(r.Context()) {
		respondError(w, http.StatusForbidden, "you are not the host of this event")
		return event, true
	}
	return event, false
}
