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


package storage

import (
	"github.com/poiesic/hansard/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalSession serializes a Session to bytes.
func MarshalSession(session *core.Session) []byte {
	buf := make([]byte, core.SessionMUS.Size(*session))
	core.SessionMUS.Marshal(*session, buf)
	return buf
}

// UnmarshalSession deserializes a Session from bytes.
func UnmarshalSession(data []byte) (*core.Session, error) {
	session, _, err := core.SessionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarshalBill serializes a Bill to bytes.
func MarshalBill(bill *core.Bill) []byte {
	buf := make([]byte, core.BillMUS.Size(*bill))
	core.BillMUS.Marshal(*bill, buf)
	return buf
}

// UnmarshalBill deserializes a Bill from bytes.
func UnmarshalBill(data []byte) (*core.Bill, error) {
	bill, _, err := core.BillMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// MarshalSpeaker serializes a Speaker to bytes.
func MarshalSpeaker(speaker *core.Speaker) []byte {
	buf := make([]byte, core.SpeakerMUS.Size(*speaker))
	core.SpeakerMUS.Marshal(*speaker, buf)
	return buf
}

// UnmarshalSpeaker deserializes a Speaker from bytes.
func UnmarshalSpeaker(data []byte) (*core.Speaker, error) {
	speaker, _, err := core.SpeakerMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &speaker, nil
}

// MarshalStatement serializes a Statement to bytes.
func MarshalStatement(statement *core.Statement) []byte {
	buf := make([]byte, core.StatementMUS.Size(*statement))
	core.StatementMUS.Marshal(*statement, buf)
	return buf
}

// UnmarshalStatement deserializes a Statement from bytes.
func UnmarshalStatement(data []byte) (*core.Statement, error) {
	statement, _, err := core.StatementMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// MarshalVotingRecord serializes a VotingRecord to bytes.
func MarshalVotingRecord(vote *core.VotingRecord) []byte {
	buf := make([]byte, core.VotingRecordMUS.Size(*vote))
	core.VotingRecordMUS.Marshal(*vote, buf)
	return buf
}

// UnmarshalVotingRecord deserializes a VotingRecord from bytes.
func UnmarshalVotingRecord(data []byte) (*core.VotingRecord, error) {
	vote, _, err := core.VotingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// MarshalCategory serializes a Category to bytes.
func MarshalCategory(category *core.Category) []byte {
	buf := make([]byte, core.CategoryMUS.Size(*category))
	core.CategoryMUS.Marshal(*category, buf)
	return buf
}

// UnmarshalCategory deserializes a Category from bytes.
func UnmarshalCategory(data []byte) (*core.Category, error) {
	category, _, err := core.CategoryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
