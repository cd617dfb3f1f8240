package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/rmehta/loan-advisor/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	turn := &Turn{
		SessionID:   "sess-1",
		UserID:      "user-1",
		UserMessage: "I need a loan",
		BotResponse: "May I know your name?",
		Intent:      IntentLoanInquiry,
		StateTag:    StateTagAwaitingName,
		Params:      Params{ParamLoanType: "home"},
		Context:     map[string]string{"summary": "looking for a home loan"},
		LoanType:    "home",
	}
	if err := store.Save(ctx, turn); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if turn.ID == "" {
		t.Fatal("Save did not assign an ID")
	}
	if turn.CreatedAt.IsZero() {
		t.Fatal("Save did not assign a timestamp")
	}

	got, err := store.GetByID(ctx, turn.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing turn")
	}
	if got.UserMessage != turn.UserMessage || got.Intent != turn.Intent {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Params[ParamLoanType] != "home" {
		t.Errorf("params not preserved: %v", got.Params)
	}
	if got.Context["summary"] != "looking for a home loan" {
		t.Errorf("context not preserved: %v", got.Context)
	}
}

func TestStoreGetByIDMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing turn, got %+v", got)
	}
}

func TestStoreLatestBySession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	latest, err := store.LatestBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LatestBySession: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for empty session, got %+v", latest)
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		turn := &Turn{
			SessionID:   "sess-1",
			UserID:      "user-1",
			UserMessage: msg,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, turn); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	latest, err = store.LatestBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LatestBySession: %v", err)
	}
	if latest == nil || latest.UserMessage != "third" {
		t.Errorf("latest = %+v", latest)
	}
}

func TestStoreHistoryBySessionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		turn := &Turn{
			SessionID:   "sess-1",
			UserID:      "user-1",
			UserMessage: msg,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, turn); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// Another session must not leak in.
	other := &Turn{SessionID: "sess-2", UserID: "user-2", UserMessage: "elsewhere"}
	if err := store.Save(ctx, other); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := store.HistoryBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("HistoryBySession: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d", len(history))
	}
	for i, want := range []string{"first", "second", "third"} {
		if history[i].UserMessage != want {
			t.Errorf("history[%d] = %q, want %q", i, history[i].UserMessage, want)
		}
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		turn := &Turn{
			SessionID:   "sess-1",
			UserID:      "user-1",
			UserMessage: "msg",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, turn); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	turns, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("List length = %d", len(turns))
	}
	if !turns[0].CreatedAt.After(turns[2].CreatedAt) {
		t.Error("List not ordered newest first")
	}
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	turn := &Turn{SessionID: "sess-1", UserID: "user-1", UserMessage: "hi"}
	if err := store.Save(ctx, turn); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, turn.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.GetByID(ctx, turn.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Error("turn still present after delete")
	}

	// Deleting a missing turn is not an error.
	if err := store.Delete(ctx, "no-such-id"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}
