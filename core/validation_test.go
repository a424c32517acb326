package core

import (
	"errors"
	"testing"
)

func TestValidateSession(t *testing.T) {
	if err := ValidateSession(&Session{Id: "100-15"}); err != nil {
		t.Errorf("valid session rejected: %v", err)
	}
	if err := ValidateSession(&Session{}); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("session without id accepted")
	}
	if err := ValidateSession(nil); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("nil session accepted")
	}
}

func TestValidateBill(t *testing.T) {
	valid := &Bill{Id: "b-1", SessionId: "ses-1", Name: "Test Bill"}
	if err := ValidateBill(valid); err != nil {
		t.Errorf("valid bill rejected: %v", err)
	}

	tests := []struct {
		name string
		bill *Bill
	}{
		{name: "nil", bill: nil},
		{name: "missing id", bill: &Bill{SessionId: "ses-1", Name: "x"}},
		{name: "missing session", bill: &Bill{Id: "b-1", Name: "x"}},
		{name: "missing name", bill: &Bill{Id: "b-1", SessionId: "ses-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBill(tt.bill); !errors.Is(err, ErrInvalidBill) {
				t.Errorf("invalid bill accepted")
			}
		})
	}
}

func TestValidateSpeaker_CurrentParty(t *testing.T) {
	s := &Speaker{Id: "spk-1", Name: "Kim"}
	s.AppendAffiliation("PartyA")
	s.AppendAffiliation("PartyB")
	if err := ValidateSpeaker(s); err != nil {
		t.Errorf("valid speaker rejected: %v", err)
	}

	// Two current affiliations violate the invariant.
	twoCurrent := &Speaker{
		Id:   "spk-2",
		Name: "Lee",
		Affiliations: []PartyAffiliation{
			{Party: "PartyA", Ordinal: 0, IsCurrent: true},
			{Party: "PartyB", Ordinal: 1, IsCurrent: true},
		},
		CurrentParty: "PartyB",
	}
	if err := ValidateSpeaker(twoCurrent); !errors.Is(err, ErrMultipleCurrentParties) {
		t.Errorf("speaker with two current affiliations accepted")
	}

	// CurrentParty must track the current affiliation.
	mismatch := &Speaker{
		Id:   "spk-3",
		Name: "Park",
		Affiliations: []PartyAffiliation{
			{Party: "PartyA", Ordinal: 0, IsCurrent: true},
		},
		CurrentParty: "PartyB",
	}
	if err := ValidateSpeaker(mismatch); !errors.Is(err, ErrInvalidSpeaker) {
		t.Errorf("speaker with mismatched current party accepted")
	}
}

func TestValidateSpeaker_PlaceholderWithoutParty(t *testing.T) {
	s := &Speaker{
		Id:          PlaceholderSpeakerID("Kim"),
		Name:        "Kim",
		Placeholder: true,
	}
	if err := ValidateSpeaker(s); err != nil {
		t.Errorf("placeholder speaker rejected: %v", err)
	}
}

func TestValidateStatement(t *testing.T) {
	text := "I support this."
	valid := &Statement{
		Id:        Fingerprint(text, "spk-1", "ses-1"),
		SessionId: "ses-1",
		SpeakerId: "spk-1",
		Text:      text,
	}
	if err := ValidateStatement(valid); err != nil {
		t.Errorf("valid statement rejected: %v", err)
	}

	// Fingerprint mismatch.
	forged := *valid
	forged.Id = 42
	if err := ValidateStatement(&forged); !errors.Is(err, ErrInvalidStatement) {
		t.Errorf("statement with wrong fingerprint accepted")
	}

	// Score bounds only apply when ScoreValid.
	scored := *valid
	scored.Score = 1.5
	if err := ValidateStatement(&scored); err != nil {
		t.Errorf("absent score should not be range-checked: %v", err)
	}
	scored.ScoreValid = true
	if err := ValidateStatement(&scored); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("out-of-range score accepted")
	}
	scored.Score = -0.4
	if err := ValidateStatement(&scored); err != nil {
		t.Errorf("in-range score rejected: %v", err)
	}

	if err := ValidateStatement(&Statement{SessionId: "ses-1", SpeakerId: "spk-1"}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("statement without text accepted")
	}
}

func TestValidateVotingRecord(t *testing.T) {
	if err := ValidateVotingRecord(&VotingRecord{BillId: "b", SpeakerId: "s", Result: VoteAgree}); err != nil {
		t.Errorf("valid voting record rejected: %v", err)
	}
	if err := ValidateVotingRecord(&VotingRecord{BillId: "b", SpeakerId: "s", Result: 0}); !errors.Is(err, ErrInvalidVoteResult) {
		t.Errorf("voting record with zero result accepted")
	}
	if err := ValidateVotingRecord(&VotingRecord{Result: VoteAgree}); !errors.Is(err, ErrEmptyIdentifier) {
		t.Errorf("voting record without identifiers accepted")
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory(&Category{Kind: CategoryKindMain, Name: "economy"}); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
	if err := ValidateCategory(&Category{Kind: "other", Name: "economy"}); !errors.Is(err, ErrInvalidCategoryKind) {
		t.Errorf("category with unknown kind accepted")
	}
	if err := ValidateCategory(&Category{Kind: CategoryKindMain}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("category without name accepted")
	}
}
