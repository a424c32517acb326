package badger

import (
	"fmt"

	"github.com/poiesic/hansard/core"
)

// Key prefixes for different record families
const (
	sessionPrefix          = "ses"
	billPrefix             = "bil"
	billSessionPrefix      = "bilses"
	speakerPrefix          = "spk"
	speakerNamePrefix      = "spkname"
	statementPrefix        = "stm"
	statementSessionPrefix = "stmses"
	statementSpeakerPrefix = "stmspk"
	votePrefix             = "vot"
	voteSpeakerPrefix      = "votspk"
	categoryPrefix         = "cat"
	categoryTuplePrefix    = "cattup"
)

// makeSessionKey generates a key for a session by external identifier.
func makeSessionKey(id string) []byte {
	return []byte(sessionPrefix + ":" + id)
}

// makeBillKey generates a key for a bill by identifier.
func makeBillKey(id string) []byte {
	return []byte(billPrefix + ":" + id)
}

// makeBillSessionKey generates a composite key for the session->bill index.
// Format: prefix:sessionID:billID. The value holds the bill identifier, so
// the key is only ever prefix-scanned, never split.
func makeBillSessionKey(sessionID, billID string) []byte {
	return []byte(billSessionPrefix + ":" + sessionID + ":" + billID)
}

// makePartialBillSessionKey generates the scan prefix for a session's bills.
func makePartialBillSessionKey(sessionID string) []byte {
	return []byte(billSessionPrefix + ":" + sessionID + ":")
}

// makeSpeakerKey generates a key for a speaker by identifier.
func makeSpeakerKey(id string) []byte {
	return []byte(speakerPrefix + ":" + id)
}

// makeSpeakerNameKey generates a key for the exact-display-name index.
func makeSpeakerNameKey(name string) []byte {
	return []byte(speakerNamePrefix + ":" + name)
}

// makeStatementKey generates a key for a statement by content fingerprint.
func makeStatementKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", statementPrefix, id))
}

// makeStatementSessionKey generates a composite key for the
// session->statement index. Format: prefix:sessionID:fingerprint.
func makeStatementSessionKey(sessionID string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", statementSessionPrefix, sessionID, id))
}

// makePartialStatementSessionKey generates the scan prefix for a session's
// statements.
func makePartialStatementSessionKey(sessionID string) []byte {
	return []byte(statementSessionPrefix + ":" + sessionID + ":")
}

// makeStatementSpeakerKey generates a composite key for the
// speaker->statement index, used for cascade deletion.
func makeStatementSpeakerKey(speakerID string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", statementSpeakerPrefix, speakerID, id))
}

// makePartialStatementSpeakerKey generates the scan prefix for a speaker's
// statements.
func makePartialStatementSpeakerKey(speakerID string) []byte {
	return []byte(statementSpeakerPrefix + ":" + speakerID + ":")
}

// makeVoteKey generates a key for the unique (bill, speaker) voting record.
func makeVoteKey(billID, speakerID string) []byte {
	return []byte(votePrefix + ":" + billID + ":" + speakerID)
}

// makePartialVoteKey generates the scan prefix for a bill's voting records.
func makePartialVoteKey(billID string) []byte {
	return []byte(votePrefix + ":" + billID + ":")
}

// makeVoteSpeakerKey generates a composite key for the speaker->vote index.
// The value holds the primary vote key, so the composite is never parsed.
func makeVoteSpeakerKey(speakerID, billID string) []byte {
	return []byte(voteSpeakerPrefix + ":" + speakerID + ":" + billID)
}

// makePartialVoteSpeakerKey generates the scan prefix for a speaker's votes.
func makePartialVoteSpeakerKey(speakerID string) []byte {
	return []byte(voteSpeakerPrefix + ":" + speakerID + ":")
}

// makeCategoryKey generates a key for a category by content ID.
func makeCategoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", categoryPrefix, id))
}

// makeCategoryTupleKey generates a composite key for category lookup by
// (kind, name).
func makeCategoryTupleKey(kind, name string) []byte {
	return []byte(categoryTuplePrefix + ":" + kind + ":" + name)
}
