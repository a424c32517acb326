// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateSession validates a Session according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//
// NOT validated:
//   - SourceURL (may be attached after first observation)
//   - LastAttemptAt (zero until the first ingestion attempt)
func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}
	if session.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptyIdentifier)
	}
	return nil
}

// ValidateBill validates a Bill according to domain rules.
func ValidateBill(bill *Bill) error {
	if bill == nil {
		return fmt.Errorf("%w: bill is nil", ErrInvalidBill)
	}
	if bill.Id == "" || bill.SessionId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBill, ErrEmptyIdentifier)
	}
	if bill.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidBill)
	}
	return nil
}

// ValidateSpeaker validates a Speaker according to domain rules.
//
// Validation rules:
//   - Id and Name must not be empty
//   - at most one affiliation may be marked current
//   - CurrentParty must match the current affiliation when one exists
func ValidateSpeaker(speaker *Speaker) error {
	if speaker == nil {
		return fmt.Errorf("%w: speaker is nil", ErrInvalidSpeaker)
	}
	if speaker.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSpeaker, ErrEmptyIdentifier)
	}
	if speaker.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidSpeaker)
	}

	current := ""
	count := 0
	for _, a := range speaker.Affiliations {
		if a.IsCurrent {
			count++
			current = a.Party
		}
	}
	if count > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSpeaker, ErrMultipleCurrentParties)
	}
	if count == 1 && speaker.CurrentParty != current {
		return fmt.Errorf("%w: current party %q does not match current affiliation %q",
			ErrInvalidSpeaker, speaker.CurrentParty, current)
	}
	return nil
}

// ValidateStatement validates a Statement according to domain rules.
//
// Validation rules:
//   - Id must equal the fingerprint of (Text, SpeakerId, SessionId)
//   - Text, SessionId and SpeakerId must not be empty
//   - Score must lie within [-1, 1] when ScoreValid
//
// NOT validated:
//   - BillId (statements may be unattached to a bill)
//   - Reason and PolicyTags (may be empty)
func ValidateStatement(statement *Statement) error {
	if statement == nil {
		return fmt.Errorf("%w: statement is nil", ErrInvalidStatement)
	}
	if statement.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStatement, ErrEmptyText)
	}
	if statement.SessionId == "" || statement.SpeakerId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStatement, ErrEmptyIdentifier)
	}
	if want := Fingerprint(statement.Text, statement.SpeakerId, statement.SessionId); statement.Id != want {
		return fmt.Errorf("%w: id %d does not match content fingerprint %d",
			ErrInvalidStatement, statement.Id, want)
	}
	if statement.ScoreValid && (statement.Score < -1 || statement.Score > 1) {
		return fmt.Errorf("%w: %w: %v", ErrInvalidStatement, ErrScoreOutOfRange, statement.Score)
	}
	return nil
}

// ValidateVotingRecord validates a VotingRecord according to domain rules.
func ValidateVotingRecord(vote *VotingRecord) error {
	if vote == nil {
		return fmt.Errorf("%w: voting record is nil", ErrInvalidVotingRecord)
	}
	if vote.BillId == "" || vote.SpeakerId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVotingRecord, ErrEmptyIdentifier)
	}
	if vote.Result < VoteAgree || vote.Result > VoteUnknown {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidVotingRecord, ErrInvalidVoteResult, vote.Result)
	}
	return nil
}

// ValidateCategory validates a Category according to domain rules.
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}
	if category.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCategory)
	}
	if category.Kind != CategoryKindMain && category.Kind != CategoryKindSub {
		return fmt.Errorf("%w: %w: %q", ErrInvalidCategory, ErrInvalidCategoryKind, category.Kind)
	}
	return nil
}
