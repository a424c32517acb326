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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSession indicates a Session failed validation.
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidBill indicates a Bill failed validation.
	ErrInvalidBill = errors.New("invalid bill")

	// ErrInvalidSpeaker indicates a Speaker failed validation.
	ErrInvalidSpeaker = errors.New("invalid speaker")

	// ErrInvalidStatement indicates a Statement failed validation.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrInvalidVotingRecord indicates a VotingRecord failed validation.
	ErrInvalidVotingRecord = errors.New("invalid voting record")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyIdentifier indicates a required natural identifier is empty.
	ErrEmptyIdentifier = errors.New("identifier cannot be empty")

	// ErrEmptyText indicates the statement text is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrScoreOutOfRange indicates a sentiment score outside [-1, 1].
	ErrScoreOutOfRange = errors.New("sentiment score must be within [-1, 1]")

	// ErrMultipleCurrentParties indicates more than one current affiliation.
	ErrMultipleCurrentParties = errors.New("at most one party affiliation may be current")

	// ErrInvalidVoteResult indicates an invalid VoteResult value.
	ErrInvalidVoteResult = errors.New("invalid vote result")

	// ErrInvalidCategoryKind indicates an unknown category kind.
	ErrInvalidCategoryKind = errors.New("invalid category kind")
)
