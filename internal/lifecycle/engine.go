// Package lifecycle implements the rules that move a participant
// between pending, confirmed, rejected and expired, and the event
// predicates that gate those transitions.
//
// Every operation is a read-latest-then-upsert-whole-array sequence
// over the event store, not an atomic column update. Validation runs
// before any write; a failed gate skips the write entirely and reports
// a user-facing reason. Storage failures never crash the caller — an
// operation always resolves to an Outcome.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/kmuriuki/matchday/internal/models"
	"github.com/kmuriuki/matchday/internal/store"
)

// User-facing reasons for a refused operation.
const (
	ReasonAlreadyRequested = "already requested"
	ReasonEventCompleted   = "event completed"
	ReasonEventFull        = "event full"
	ReasonNotJoined        = "not joined"
	ReasonEventNotFound    = "event not found"
	ReasonStorage          = "something went wrong"
)

// Decision is a host's verdict on a join request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Outcome is the uniform result of a lifecycle operation: whether it
// applied, the participant's status after it, and a human-readable
// reason when it did not.
type Outcome struct {
	OK     bool
	Status models.ParticipantStatus
	Reason string
}

func refused(reason string) Outcome {
	return Outcome{Reason: reason}
}

// Engine applies the participant state-transition rules on top of the
// event store.
type Engine struct {
	events *store.EventStore
	log    *slog.Logger
	now    func() time.Time
}

// New constructs an Engine. If log is nil, slog.Default() is used.
func New(events *store.EventStore, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{events: events, log: log, now: time.Now}
}

// RequestJoin records userID's interest in the event. The host's own
// request is auto-confirmed; everyone else starts pending. Gates, in
// order: event exists, event has not passed, requester not already a
// participant, event not at confirmed capacity. Any failed gate skips
// the write.
func (e *Engine) RequestJoin(ctx context.Context, eventID, userID, userName string) Outcome {
	ev, outcome := e.load(ctx, eventID)
	if ev == nil {
		return outcome
	}
	if ev.HasPassed(e.now()) {
		return refused(ReasonEventCompleted)
	}
	if ev.ParticipantByID(userID) != nil {
		return refused(ReasonAlreadyRequested)
	}
	if ev.IsFull() {
		return refused(ReasonEventFull)
	}

	status := models.StatusPending
	if userID == ev.HostedBy.ID {
		status = models.StatusConfirmed
	}

	res := e.events.AddParticipant(ctx, eventID, models.Participant{
		ID:     userID,
		Name:   userName,
		Status: status,
	})
	if !res.Applied {
		return e.writeRefused(res, "join", eventID, userID)
	}
	return Outcome{OK: true, Status: status}
}

// Withdraw removes userID's entry entirely — there is no "withdrawn"
// status. Refused once the event has passed, and a no-op with a "not
// joined" signal when the requester has no entry.
func (e *Engine) Withdraw(ctx context.Context, eventID, userID string) Outcome {
	ev, outcome := e.load(ctx, eventID)
	if ev == nil {
		return outcome
	}
	if ev.HasPassed(e.now()) {
		return refused(ReasonEventCompleted)
	}
	if ev.ParticipantByID(userID) == nil {
		return refused(ReasonNotJoined)
	}

	res := e.events.RemoveParticipant(ctx, eventID, userID)
	if !res.Applied {
		return e.writeRefused(res, "withdraw", eventID, userID)
	}
	return Outcome{OK: true}
}

// Decide applies the host's accept/reject verdict to the target
// participant, overwriting whatever status the entry currently has.
// Re-deciding an already-resolved entry is idempotent and allowed.
// Host-only by convention — the data layer does not enforce it.
//
// Capacity is enforced at the moment of acceptance: confirming a not-
// yet-confirmed entry into a full event is refused.
func (e *Engine) Decide(ctx context.Context, eventID, participantID string, decision Decision) Outcome {
	ev, outcome := e.load(ctx, eventID)
	if ev == nil {
		return outcome
	}
	target := ev.ParticipantByID(participantID)
	if target == nil {
		return refused(ReasonNotJoined)
	}

	status := models.StatusRejected
	if decision == DecisionAccept {
		if target.Status != models.StatusConfirmed && ev.IsFull() {
			return refused(ReasonEventFull)
		}
		status = models.StatusConfirmed
	}

	res := e.events.AddParticipant(ctx, eventID, models.Participant{
		ID:     target.ID,
		Name:   target.Name,
		Status: status,
	})
	if !res.Applied {
		return e.writeRefused(res, "decide", eventID, participantID)
	}
	return Outcome{OK: true, Status: status}
}

// HostView is the dashboard read for a single event. When the viewer
// hosts the event, the event has passed, and pending entries remain,
// it performs the one-time bulk pending→expired transition in a single
// batched update and returns the updated event. For everyone else it
// is a plain point lookup; read failures propagate.
func (e *Engine) HostView(ctx context.Context, eventID, viewerID string) (*models.Event, error) {
	ev, err := e.events.ByID(ctx, eventID)
	if err != nil || ev == nil {
		return ev, err
	}
	if viewerID != ev.HostedBy.ID || !ev.HasPassed(e.now()) || !ev.HasPending() {
		return ev, nil
	}

	next := make([]models.Participant, len(ev.Participants))
	copy(next, ev.Participants)
	for i := range next {
		if next[i].Status == models.StatusPending {
			next[i].Status = models.StatusExpired
		}
	}

	res := e.events.Update(ctx, eventID, models.EventPatch{Participants: &next})
	if !res.Applied {
		// Expiry failed to persist; the caller still sees the stored
		// state rather than a phantom transition.
		e.log.Warn("bulk expiry not applied", "event_id", eventID, "detail", res.Message)
		return ev, nil
	}
	ev.Participants = next
	return ev, nil
}

// load fetches the event, folding read failures and absence into a
// refused Outcome so callers never see a storage error.
func (e *Engine) load(ctx context.Context, eventID string) (*models.Event, Outcome) {
	ev, err := e.events.ByID(ctx, eventID)
	if err != nil {
		e.log.Error("load event", "event_id", eventID, "error", err)
		return nil, refused(ReasonStorage)
	}
	if ev == nil {
		return nil, refused(ReasonEventNotFound)
	}
	return ev, Outcome{}
}

// writeRefused converts a non-applied store Result into an Outcome,
// distinguishing a lost race (row vanished mid-operation) from a
// storage failure.
func (e *Engine) writeRefused(res store.Result, op, eventID, userID string) Outcome {
	if res.Err != nil {
		e.log.Error("lifecycle write failed", "op", op, "event_id", eventID, "user_id", userID, "error", res.Err)
		return refused(ReasonStorage)
	}
	if res.Message == "event not found" {
		return refused(ReasonEventNotFound)
	}
	return refused(res.Message)
}
