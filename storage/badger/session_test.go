package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

func TestSessionBasics(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	session := &core.Session{
		Id:        "219-1",
		Era:       "219",
		Committee: "plenary",
		Date:      time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC),
		SourceURL: "https://assembly.example/219-1.pdf",
	}

	upserted, err := store.Sessions.UpsertSessions(ctx, session)
	if err != nil {
		t.Fatalf("Failed to upsert session: %v", err)
	}
	if len(upserted) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(upserted))
	}
	if upserted[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := store.Sessions.GetSession(ctx, "219-1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if retrieved.Committee != "plenary" {
		t.Fatalf("Expected 'plenary', got '%s'", retrieved.Committee)
	}
}

func TestSessionUpsertPreservesInsertedAt(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	first, err := store.Sessions.UpsertSessions(ctx, &core.Session{Id: "219-2"})
	if err != nil {
		t.Fatalf("Failed to upsert session: %v", err)
	}
	insertedAt := first[0].InsertedAt

	_, err = store.Sessions.UpsertSessions(ctx, &core.Session{
		Id:        "219-2",
		SourceURL: "https://assembly.example/219-2.pdf",
	})
	if err != nil {
		t.Fatalf("Failed to re-upsert session: %v", err)
	}

	retrieved, err := store.Sessions.GetSession(ctx, "219-2")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if !retrieved.InsertedAt.Equal(insertedAt) {
		t.Fatalf("Expected InsertedAt %v preserved, got %v", insertedAt, retrieved.InsertedAt)
	}
	if retrieved.SourceURL != "https://assembly.example/219-2.pdf" {
		t.Fatalf("Expected source URL refreshed, got '%s'", retrieved.SourceURL)
	}
}

func TestSessionNotFound(t *testing.T) {
	store := NewMemoryStore(t)

	_, err := store.Sessions.GetSession(context.Background(), "missing")
	if err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestTouchIngestAttempt(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	_, err := store.Sessions.UpsertSessions(ctx, &core.Session{Id: "219-3"})
	if err != nil {
		t.Fatalf("Failed to upsert session: %v", err)
	}

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	if err := store.Sessions.TouchIngestAttempt(ctx, "219-3", at); err != nil {
		t.Fatalf("Failed to touch attempt: %v", err)
	}

	retrieved, err := store.Sessions.GetSession(ctx, "219-3")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if !retrieved.LastAttemptAt.Equal(at) {
		t.Fatalf("Expected attempt timestamp %v, got %v", at, retrieved.LastAttemptAt)
	}

	if err := store.Sessions.TouchIngestAttempt(ctx, "missing", at); err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsOrdered(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	for _, id := range []string{"219-9", "219-1", "219-5"} {
		if _, err := store.Sessions.UpsertSessions(ctx, &core.Session{Id: id}); err != nil {
			t.Fatalf("Failed to upsert session %s: %v", id, err)
		}
	}

	sessions, err := store.Sessions.ListSessions(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	want := []string{"219-1", "219-5", "219-9"}
	for i, session := range sessions {
		if session.Id != want[i] {
			t.Fatalf("Expected session %s at position %d, got %s", want[i], i, session.Id)
		}
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	_, err := store.Sessions.UpsertSessions(ctx, &core.Session{Id: "219-4"})
	if err != nil {
		t.Fatalf("Failed to upsert session: %v", err)
	}

	bill := &core.Bill{
		Id:        "bill-1",
		SessionId: "219-4",
		Name:      "Clean Air Act Amendment",
	}
	if _, err := store.Bills.UpsertBills(ctx, bill); err != nil {
		t.Fatalf("Failed to upsert bill: %v", err)
	}

	statement := &core.Statement{
		SessionId: "219-4",
		SpeakerId: "spk-1",
		Text:      "I support this amendment.",
	}
	statement.Id = core.Fingerprint(statement.Text, statement.SpeakerId, statement.SessionId)
	if _, err := store.Statements.UpsertStatements(ctx, statement); err != nil {
		t.Fatalf("Failed to upsert statement: %v", err)
	}

	vote := &core.VotingRecord{BillId: "bill-1", SpeakerId: "spk-1", Result: core.VoteAgree}
	if _, err := store.Votes.UpsertVotes(ctx, vote); err != nil {
		t.Fatalf("Failed to upsert vote: %v", err)
	}

	if err := store.Sessions.DeleteSessions(ctx, "219-4"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	if _, err := store.Sessions.GetSession(ctx, "219-4"); err != storage.ErrNotFound {
		t.Fatalf("Expected session gone, got %v", err)
	}
	if _, err := store.Bills.GetBill(ctx, "bill-1"); err != storage.ErrNotFound {
		t.Fatalf("Expected bill gone, got %v", err)
	}
	if _, err := store.Statements.GetStatement(ctx, statement.Id); err != storage.ErrNotFound {
		t.Fatalf("Expected statement gone, got %v", err)
	}
	if _, err := store.Votes.GetVote(ctx, "bill-1", "spk-1"); err != storage.ErrNotFound {
		t.Fatalf("Expected vote gone, got %v", err)
	}
}
