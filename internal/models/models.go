package models

import "time"

// ParticipantStatus is the lifecycle state of a participant's interest
// in an event. Values are stored verbatim in the participants column,
// so keep them stable.
type ParticipantStatus string

const (
	StatusPending   ParticipantStatus = "pending"
	StatusConfirmed ParticipantStatus = "confirmed"
	StatusRejected  ParticipantStatus = "rejected"
	StatusExpired   ParticipantStatus = "expired"
)

// User is an account created on registration. Immutable thereafter;
// removed only by a table clear.
//
// Password is stored and compared as plain text. Hardening
// authentication is out of scope for this app.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// HostRef is a denormalized snapshot of the creating user's identity,
// taken once at event creation. It is never updated afterwards and
// never touched by non-host mutations.
type HostRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Participant is one user's recorded interest in an event, embedded in
// the event's participants column. Keyed by ID (a user id): at most
// one entry per user per event.
type Participant struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Status ParticipantStatus `json:"status"`
}

// Event is a pickup game hosted by a user. Participants are mutated
// only by whole-array replacement: read the event, transform the
// slice, write the full array back.
type Event struct {
	ID           string        `json:"id"`
	Title        string        `json:"eventTitle"`
	Description  string        `json:"eventDescription"`
	Location     string        `json:"eventLocation"`
	MaxPlayers   int           `json:"maxPlayerLimit"`
	DateTime     time.Time     `json:"eventDateTime"`
	CreatedDate  time.Time     `json:"createdDate"`
	HostedBy     HostRef       `json:"hostedBy"`
	Participants []Participant `json:"participants"`
}

// ConfirmedCount is the number of confirmed participants. Only this
// count — not pending or rejected entries — counts against MaxPlayers.
func (e *Event) ConfirmedCount() int {
	n := 0
	for _, p := range e.Participants {
		if p.Status == StatusConfirmed {
			n++
		}
	}
	return n
}

// IsFull reports whether the event is at confirmed capacity. Checked
// only at join/accept time; it is not re-validated continuously.
func (e *Event) IsFull() bool {
	return e.MaxPlayers > 0 && e.ConfirmedCount() >= e.MaxPlayers
}

// HasPassed reports whether the event's scheduled time is strictly
// before now. Past events accept no new joins or withdrawals.
func (e *Event) HasPassed(now time.Time) bool {
	return e.DateTime.Before(now)
}

// ParticipantByID returns the entry for the given user id, or nil.
func (e *Event) ParticipantByID(userID string) *Participant {
	for i := range e.Participants {
		if e.Participants[i].ID == userID {
			return &e.Participants[i]
		}
	}
	return nil
}

// HasPending reports whether any entry is still pending.
func (e *Event) HasPending() bool {
	for _, p := range e.Participants {
		if p.Status == StatusPending {
			return true
		}
	}
	return false
}

// EventPatch is a partial update for an event. Only non-nil fields are
// written; a patch with no recognized fields is reported as "no
// changes made" rather than an error.
type EventPatch struct {
	Title        *string        `json:"eventTitle,omitempty"`
	Description  *string        `json:"eventDescription,omitempty"`
	Location     *string        `json:"eventLocation,omitempty"`
	MaxPlayers   *int           `json:"maxPlayerLimit,omitempty"`
	DateTime     *time.Time     `json:"eventDateTime,omitempty"`
	Participants *[]Participant `json:"participants,omitempty"`
}

// Empty reports whether the patch carries no recognized fields.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.MaxPlayers == nil && p.DateTime == nil && p.Participants == nil
}

// ---- Request / Response DTOs ----

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateEventRequest struct {
	Title       string    `json:"eventTitle"`
	Description string    `json:"eventDescription"`
	Location    string    `json:"eventLocation"`
	MaxPlayers  int       `json:"maxPlayerLimit"`
	DateTime    time.Time `json:"eventDateTime"`
}

// DecisionRequest carries a host's accept/reject verdict on a pending
// join request.
type DecisionRequest struct {
	Decision string `json:"decision"` // "accept" or "reject"
}

// LifecycleResponse is the uniform reply for join/withdraw/decision
// operations: whether the operation applied plus an optional
// user-facing reason when it did not.
type LifecycleResponse struct {
	OK     bool              `json:"ok"`
	Status ParticipantStatus `json:"status,omitempty"`
	Reason string            `json:"reason,omitempty"`
}
