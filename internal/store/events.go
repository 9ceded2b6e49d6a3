package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmuriuki/matchday/internal/models"
	"github.com/kmuriuki/matchday/internal/queue"
)

// EventStore persists events. The hostedBy and participants columns
// carry a JSON serialization of the nested structures; the row-to-
// struct mapping lives entirely in this file.
type EventStore struct {
	db    *sql.DB
	queue *queue.Queue
	log   *slog.Logger
}

// NewEventStore constructs an EventStore. All writes go through q.
func NewEventStore(db *sql.DB, q *queue.Queue, log *slog.Logger) *EventStore {
	if log == nil {
		log = slog.Default()
	}
	return &EventStore{db: db, queue: q, log: log}
}

// Create inserts ev as one row, assigning an id and creation timestamp
// if absent, and returns the stored event. A failed insert resolves to
// nil — never an error — with the cause logged.
func (s *EventStore) Create(ctx context.Context, ev models.Event) *models.Event {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedDate.IsZero() {
		ev.CreatedDate = time.Now().UTC()
	}
	if ev.Participants == nil {
		ev.Participants = []models.Participant{}
	}

	host, err := json.Marshal(ev.HostedBy)
	if err != nil {
		s.log.Error("encode hostedBy", "event_id", ev.ID, "error", err)
		return nil
	}
	parts, err := json.Marshal(ev.Participants)
	if err != nil {
		s.log.Error("encode participants", "event_id", ev.ID, "error", err)
		return nil
	}

	var rows int64
	done := s.queue.Enqueue("create event", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO events (id, eventTitle, eventDescription, eventLocation, maxPlayerLimit, eventDateTime, createdDate, hostedBy, participants)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.Title, ev.Description, ev.Location, ev.MaxPlayers,
			timeToMs(ev.DateTime), timeToMs(ev.CreatedDate), string(host), string(parts),
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		rows, _ = res.RowsAffected()
		return nil
	})
	if err := <-done; err != nil || rows == 0 {
		return nil
	}
	return &ev
}

// All returns every event ordered by creation time descending. Read
// failures are the caller's problem, per the layer's error taxonomy.
func (s *EventStore) All(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, eventTitle, eventDescription, eventLocation, maxPlayerLimit, eventDateTime, createdDate, hostedBy, participants
		 FROM events ORDER BY createdDate DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	// Empty slice, not nil, so JSON encodes as [] not null.
	events := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ByID is a point lookup. A missing event is (nil, nil), not an error.
func (s *EventStore) ByID(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, eventTitle, eventDescription, eventLocation, maxPlayerLimit, eventDateTime, createdDate, hostedBy, participants
		 FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ev, nil
}

// Update applies a partial update, building the column list from only
// the fields present in the patch. An empty patch is a no-op that
// reports "no changes made" rather than an error.
func (s *EventStore) Update(ctx context.Context, id string, patch models.EventPatch) Result {
	if patch.Empty() {
		return notApplied("no changes made")
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("eventTitle", *patch.Title)
	}
	if patch.Description != nil {
		add("eventDescription", *patch.Description)
	}
	if patch.Location != nil {
		add("eventLocation", *patch.Location)
	}
	if patch.MaxPlayers != nil {
		add("maxPlayerLimit", *patch.MaxPlayers)
	}
	if patch.DateTime != nil {
		add("eventDateTime", timeToMs(*patch.DateTime))
	}
	if patch.Participants != nil {
		encoded, err := json.Marshal(*patch.Participants)
		if err != nil {
			s.log.Error("encode participants", "event_id", id, "error", err)
			return failed("update failed", err)
		}
		add("participants", string(encoded))
	}
	args = append(args, id)

	var rows int64
	done := s.queue.Enqueue("update event", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE events SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return fmt.Errorf("update event %s: %w", id, err)
		}
		rows, _ = res.RowsAffected()
		return nil
	})
	if err := <-done; err != nil {
		return failed("update failed", err)
	}
	if rows == 0 {
		return notApplied("no changes made")
	}
	return applied()
}

// AddParticipant upserts p into the event's participant list, keyed by
// p.ID, and writes the whole array back.
//
// The read happens here, before the write is queued. Two overlapping
// calls can both observe the same array and the later write clobbers
// the earlier one — the documented behavior of this design.
func (s *EventStore) AddParticipant(ctx context.Context, eventID string, p models.Participant) Result {
	ev, err := s.ByID(ctx, eventID)
	if err != nil {
		return failed("could not load event", err)
	}
	if ev == nil {
		return notApplied("event not found")
	}

	replaced := false
	next := make([]models.Participant, 0, len(ev.Participants)+1)
	for _, existing := range ev.Participants {
		if existing.ID == p.ID {
			next = append(next, p)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, p)
	}

	return s.Update(ctx, eventID, models.EventPatch{Participants: &next})
}

// RemoveParticipant deletes the entry for userID, if present, and
// writes the whole array back.
func (s *EventStore) RemoveParticipant(ctx context.Context, eventID, userID string) Result {
	ev, err := s.ByID(ctx, eventID)
	if err != nil {
		return failed("could not load event", err)
	}
	if ev == nil {
		return notApplied("event not found")
	}

	next := make([]models.Participant, 0, len(ev.Participants))
	for _, existing := range ev.Participants {
		if existing.ID != userID {
			next = append(next, existing)
		}
	}
	if len(next) == len(ev.Participants) {
		return notApplied("not joined")
	}

	return s.Update(ctx, eventID, models.EventPatch{Participants: &next})
}

// Delete removes the event row. Reports success as a plain bool; a
// storage failure is logged and reads as false.
func (s *EventStore) Delete(ctx context.Context, id string) bool {
	var rows int64
	done := s.queue.Enqueue("delete event", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete event %s: %w", id, err)
		}
		rows, _ = res.RowsAffected()
		return nil
	})
	return <-done == nil && rows > 0
}

// Clear wipes the events table. Administrative/test operation.
func (s *EventStore) Clear(ctx context.Context) bool {
	done := s.queue.Enqueue("clear events", func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		return nil
	})
	return <-done == nil
}

// scanEvent maps one row onto an Event, decoding the JSON columns.
func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var ev models.Event
	var dateTime, created int64
	var host, parts string
	if err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Location,
		&ev.MaxPlayers, &dateTime, &created, &host, &parts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	ev.DateTime = msToTime(dateTime)
	ev.CreatedDate = msToTime(created)
	if host != "" {
		if err := json.Unmarshal([]byte(host), &ev.HostedBy); err != nil {
			return nil, fmt.Errorf("decode hostedBy for event %s: %w", ev.ID, err)
		}
	}
	ev.Participants = []models.Participant{}
	if parts != "" {
		if err := json.Unmarshal([]byte(parts), &ev.Participants); err != nil {
			return nil, fmt.Errorf("decode participants for event %s: %w", ev.ID, err)
		}
	}
	return &ev, nil
}

func timeToMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
