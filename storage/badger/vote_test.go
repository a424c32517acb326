package badger

import (
	"context"
	"testing"

	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

func TestVoteUniquePerBillAndSpeaker(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	first := &core.VotingRecord{BillId: "bill-1", SpeakerId: "reg-1", Result: core.VoteAgree}
	if _, err := store.Votes.UpsertVotes(ctx, first); err != nil {
		t.Fatalf("Failed to upsert vote: %v", err)
	}

	// A second record for the same pair overwrites the result.
	second := &core.VotingRecord{BillId: "bill-1", SpeakerId: "reg-1", Result: core.VoteOppose}
	if _, err := store.Votes.UpsertVotes(ctx, second); err != nil {
		t.Fatalf("Failed to re-upsert vote: %v", err)
	}

	retrieved, err := store.Votes.GetVote(ctx, "bill-1", "reg-1")
	if err != nil {
		t.Fatalf("Failed to get vote: %v", err)
	}
	if retrieved.Result != core.VoteOppose {
		t.Fatalf("Expected VoteOppose, got %v", retrieved.Result)
	}
	if !retrieved.InsertedAt.Equal(first.InsertedAt) {
		t.Fatalf("Expected InsertedAt preserved, got %v vs %v", retrieved.InsertedAt, first.InsertedAt)
	}

	votes, err := store.Votes.GetVotesByBill(ctx, "bill-1")
	if err != nil {
		t.Fatalf("Failed to list votes: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("Expected 1 vote, got %d", len(votes))
	}
}

func TestGetVotesByBill(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	votes := []*core.VotingRecord{
		{BillId: "bill-2", SpeakerId: "reg-1", Result: core.VoteAgree},
		{BillId: "bill-2", SpeakerId: "reg-2", Result: core.VoteAbsent},
		{BillId: "bill-3", SpeakerId: "reg-1", Result: core.VoteUnknown},
	}
	if _, err := store.Votes.UpsertVotes(ctx, votes...); err != nil {
		t.Fatalf("Failed to upsert votes: %v", err)
	}

	byBill, err := store.Votes.GetVotesByBill(ctx, "bill-2")
	if err != nil {
		t.Fatalf("Failed to list votes: %v", err)
	}
	if len(byBill) != 2 {
		t.Fatalf("Expected 2 votes, got %d", len(byBill))
	}
}

func TestVoteNotFound(t *testing.T) {
	store := NewMemoryStore(t)

	_, err := store.Votes.GetVote(context.Background(), "bill-x", "reg-x")
	if err != storage.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestVoteValidationRejectsBadResult(t *testing.T) {
	store := NewMemoryStore(t)

	bad := &core.VotingRecord{BillId: "bill-4", SpeakerId: "reg-1", Result: core.VoteResult(99)}
	_, err := store.Votes.UpsertVotes(context.Background(), bad)
	if err == nil {
		t.Fatal("Expected validation error for out-of-range result")
	}
}
