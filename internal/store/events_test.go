package store

import (
	"context"
	"testing"
	"time"

	"github.com/kmuriuki/matchday/internal/models"
)

func futureEvent(title string) models.Event {
	return models.Event{
		Title:       title,
		Description: "Casual kickabout",
		Location:    "City Park",
		MaxPlayers:  10,
		DateTime:    time.Now().Add(48 * time.Hour).UTC().Truncate(time.Millisecond),
		HostedBy:    models.HostRef{ID: "host-1", Name: "Host"},
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	in := futureEvent("Sunday Football")
	stored := events.Create(ctx, in)
	if stored == nil {
		t.Fatal("Create returned nil")
	}
	if stored.ID == "" {
		t.Error("expected a generated id")
	}
	if stored.CreatedDate.IsZero() {
		t.Error("expected a generated createdDate")
	}

	got, err := events.ByID(ctx, stored.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got == nil {
		t.Fatal("event not found after create")
	}
	if got.Title != in.Title || got.Location != in.Location || got.MaxPlayers != in.MaxPlayers {
		t.Errorf("stored event differs from input: %+v", got)
	}
	if !got.DateTime.Equal(in.DateTime) {
		t.Errorf("eventDateTime: got %v, want %v", got.DateTime, in.DateTime)
	}
	if got.HostedBy != in.HostedBy {
		t.Errorf("hostedBy: got %+v, want %+v", got.HostedBy, in.HostedBy)
	}
	if len(got.Participants) != 0 {
		t.Errorf("expected empty participants, got %v", got.Participants)
	}
}

func TestByIDMissingIsNilNotError(t *testing.T) {
	events, _ := newTestStores(t)

	got, err := events.ByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("expected nil error for missing event, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil event, got %+v", got)
	}
}

func TestUpdateEmptyPatchReportsNoChange(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	stored := events.Create(ctx, futureEvent("Hoops"))
	if stored == nil {
		t.Fatal("Create returned nil")
	}

	res := events.Update(ctx, stored.ID, models.EventPatch{})
	if res.Applied {
		t.Error("empty patch must not apply")
	}
	if res.Message != "no changes made" {
		t.Errorf("message: got %q", res.Message)
	}

	got, err := events.ByID(ctx, stored.ID)
	if err != nil || got == nil {
		t.Fatalf("ByID after no-op: %v %v", got, err)
	}
	if got.Title != "Hoops" {
		t.Errorf("no-op patch mutated stored state: %+v", got)
	}
}

func TestUpdateBuildsDynamicColumnList(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	stored := events.Create(ctx, futureEvent("Five-a-side"))
	if stored == nil {
		t.Fatal("Create returned nil")
	}

	title := "Six-a-side"
	limit := 12
	res := events.Update(ctx, stored.ID, models.EventPatch{Title: &title, MaxPlayers: &limit})
	if !res.Applied {
		t.Fatalf("update not applied: %+v", res)
	}

	got, _ := events.ByID(ctx, stored.ID)
	if got.Title != "Six-a-side" || got.MaxPlayers != 12 {
		t.Errorf("patched fields not stored: %+v", got)
	}
	if got.Location != "City Park" {
		t.Errorf("untouched field changed: %q", got.Location)
	}
}

func TestUpdateMissingEvent(t *testing.T) {
	events, _ := newTestStores(t)

	title := "whatever"
	res := events.Update(context.Background(), "no-such-id", models.EventPatch{Title: &title})
	if res.Applied {
		t.Error("update of a missing event must not apply")
	}
	if res.Err != nil {
		t.Errorf("missing row is not a storage failure: %v", res.Err)
	}
}

func TestAddParticipantUpsertsByID(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	stored := events.Create(ctx, futureEvent("Tennis"))

	res := events.AddParticipant(ctx, stored.ID, models.Participant{ID: "u1", Name: "Bea", Status: models.StatusPending})
	if !res.Applied {
		t.Fatalf("first add: %+v", res)
	}
	// Same id again with a different status: update in place, no duplicate.
	res = events.AddParticipant(ctx, stored.ID, models.Participant{ID: "u1", Name: "Bea", Status: models.StatusConfirmed})
	if !res.Applied {
		t.Fatalf("second add: %+v", res)
	}

	got, _ := events.ByID(ctx, stored.ID)
	if len(got.Participants) != 1 {
		t.Fatalf("expected exactly one entry, got %v", got.Participants)
	}
	if got.Participants[0].Status != models.StatusConfirmed {
		t.Errorf("status must follow the later request, got %s", got.Participants[0].Status)
	}
}

func TestRemoveParticipant(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	stored := events.Create(ctx, futureEvent("Padel"))
	events.AddParticipant(ctx, stored.ID, models.Participant{ID: "u1", Name: "Bea", Status: models.StatusConfirmed})

	res := events.RemoveParticipant(ctx, stored.ID, "u1")
	if !res.Applied {
		t.Fatalf("remove: %+v", res)
	}
	got, _ := events.ByID(ctx, stored.ID)
	if len(got.Participants) != 0 {
		t.Errorf("entry not removed: %v", got.Participants)
	}

	res = events.RemoveParticipant(ctx, stored.ID, "u1")
	if res.Applied || res.Message != "not joined" {
		t.Errorf("removing an absent entry: %+v", res)
	}
}

func TestAllOrdersByCreatedDateDescending(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	older := futureEvent("Older")
	older.CreatedDate = time.Now().Add(-2 * time.Hour).UTC()
	newer := futureEvent("Newer")
	newer.CreatedDate = time.Now().Add(-1 * time.Hour).UTC()

	events.Create(ctx, older)
	events.Create(ctx, newer)

	all, err := events.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}
	if all[0].Title != "Newer" || all[1].Title != "Older" {
		t.Errorf("wrong order: %s, %s", all[0].Title, all[1].Title)
	}
}

func TestDeleteAndClear(t *testing.T) {
	events, _ := newTestStores(t)
	ctx := context.Background()

	a := events.Create(ctx, futureEvent("A"))
	events.Create(ctx, futureEvent("B"))

	if !events.Delete(ctx, a.ID) {
		t.Error("delete of an existing event reported false")
	}
	if events.Delete(ctx, a.ID) {
		t.Error("second delete of the same event reported true")
	}

	if !events.Clear(ctx) {
		t.Error("clear reported false")
	}
	all, err := events.All(ctx)
	if err != nil {
		t.Fatalf("All after clear: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty table, got %d rows", len(all))
	}
}
