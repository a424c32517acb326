package badger

import (
	"context"
	"testing"

	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

func newStatement(text, speakerID, sessionID string) *core.Statement {
	return &core.Statement{
		Id:        core.Fingerprint(text, speakerID, sessionID),
		SessionId: sessionID,
		SpeakerId: speakerID,
		Text:      text,
	}
}

func TestStatementBasics(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	statement := newStatement("The budget is inadequate.", "spk-1", "219-1")
	statement.Score = -0.6
	statement.ScoreValid = true
	statement.Reason = "criticizes the proposed allocation"

	upserted, err := store.Statements.UpsertStatements(ctx, statement)
	if err != nil {
		t.Fatalf("Failed to upsert statement: %v", err)
	}
	if upserted[0].Id == 0 {
		t.Fatal("Expected non-zero fingerprint")
	}

	retrieved, err := store.Statements.GetStatement(ctx, statement.Id)
	if err != nil {
		t.Fatalf("Failed to get statement: %v", err)
	}
	if retrieved.Score != -0.6 || !retrieved.ScoreValid {
		t.Fatalf("Expected score -0.6 valid, got %v valid=%v", retrieved.Score, retrieved.ScoreValid)
	}
}

func TestStatementIdempotentReingest(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	first := newStatement("Order, order.", "spk-2", "219-1")
	if _, err := store.Statements.UpsertStatements(ctx, first); err != nil {
		t.Fatalf("Failed to upsert statement: %v", err)
	}
	insertedAt := first.InsertedAt

	second := newStatement("Order, order.", "spk-2", "219-1")
	if _, err := store.Statements.UpsertStatements(ctx, second); err != nil {
		t.Fatalf("Failed to re-upsert statement: %v", err)
	}

	count, err := store.Statements.CountStatementsBySession(ctx, "219-1")
	if err != nil {
		t.Fatalf("Failed to count statements: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 statement after re-ingest, got %d", count)
	}
	if !second.InsertedAt.Equal(insertedAt) {
		t.Fatalf("Expected InsertedAt preserved, got %v vs %v", second.InsertedAt, insertedAt)
	}
}

func TestStatementFingerprintDistinguishesSpeakers(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	a := newStatement("I concur.", "spk-1", "219-1")
	b := newStatement("I concur.", "spk-2", "219-1")
	if _, err := store.Statements.UpsertStatements(ctx, a, b); err != nil {
		t.Fatalf("Failed to upsert statements: %v", err)
	}

	count, err := store.Statements.CountStatementsBySession(ctx, "219-1")
	if err != nil {
		t.Fatalf("Failed to count statements: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 statements, got %d", count)
	}
}

func TestGetStatementsBySession(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	s1 := newStatement("First point.", "spk-1", "219-1")
	s2 := newStatement("Second point.", "spk-1", "219-1")
	other := newStatement("Unrelated.", "spk-1", "219-2")
	if _, err := store.Statements.UpsertStatements(ctx, s1, s2, other); err != nil {
		t.Fatalf("Failed to upsert statements: %v", err)
	}

	statements, err := store.Statements.GetStatementsBySession(ctx, "219-1")
	if err != nil {
		t.Fatalf("Failed to list statements: %v", err)
	}
	if len(statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(statements))
	}
	for _, statement := range statements {
		if statement.SessionId != "219-1" {
			t.Fatalf("Expected session 219-1, got %s", statement.SessionId)
		}
	}
}

func TestStatementValidationRejectsBadFingerprint(t *testing.T) {
	store := NewMemoryStore(t)

	statement := newStatement("Tampered.", "spk-1", "219-1")
	statement.Id = statement.Id + 1

	_, err := store.Statements.UpsertStatements(context.Background(), statement)
	if err == nil {
		t.Fatal("Expected validation error for mismatched fingerprint")
	}
}

func TestDeleteStatements(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	statement := newStatement("To be removed.", "spk-1", "219-1")
	if _, err := store.Statements.UpsertStatements(ctx, statement); err != nil {
		t.Fatalf("Failed to upsert statement: %v", err)
	}

	if err := store.Statements.DeleteStatements(ctx, statement.Id); err != nil {
		t.Fatalf("Failed to delete statement: %v", err)
	}
	if _, err := store.Statements.GetStatement(ctx, statement.Id); err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	count, err := store.Statements.CountStatementsBySession(ctx, "219-1")
	if err != nil {
		t.Fatalf("Failed to count statements: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected session index cleared, got %d entries", count)
	}
}
