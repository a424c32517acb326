package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed entities.
// It is generated by hashing the entity's natural identity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint derives the content fingerprint of a statement from its
// composite identity (verbatim text, speaker, session). Two statements with
// the same fingerprint are the same logical statement; re-ingesting a
// transcript therefore cannot create duplicates.
func Fingerprint(text, speakerID, sessionID string) ID {
	return IDFromContent(text + "\x1f" + speakerID + "\x1f" + sessionID)
}

// SyntheticBillID builds a local bill identifier for an AI-discovered agenda
// topic that has no registry listing. Scoped to the session so the same title
// in two sessions yields two bills.
func SyntheticBillID(sessionID, title string) string {
	return "s:" + sessionID + ":" + strconv.FormatUint(uint64(IDFromContent(title)), 16)
}

// PlaceholderSpeakerID builds a local speaker identifier used when the
// authoritative registry cannot resolve a display name.
func PlaceholderSpeakerID(name string) string {
	return "p:" + strconv.FormatUint(uint64(IDFromContent(name)), 16)
}

// Session is one recorded legislative meeting instance. Created when a
// session listing is first observed; immutable afterwards except for the
// source document reference and the ingestion attempt timestamp.
type Session struct {
	Id            string // external session identifier
	Era           string // era/term code
	Committee     string
	Date          time.Time
	SourceURL     string    // transcript document reference
	LastAttemptAt time.Time // last ingestion attempt, zero if never attempted
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// Bill is a piece of legislation or agenda topic discussed within a session.
// Synthetic bills are created from AI-discovered segment titles that have no
// registry listing.
type Bill struct {
	Id            string // registry identifier, or SyntheticBillID
	SessionId     string
	Name          string
	Proposer      string
	MainCategory  string
	SubCategories []string
	Keywords      []string
	Synthetic     bool
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// PartyAffiliation is one entry of a speaker's chronological party history.
// The last entry is the current affiliation.
type PartyAffiliation struct {
	Party     string
	Ordinal   int
	IsCurrent bool
}

// Speaker is an attributed participant. Identifiers are externally issued
// where available; placeholders carry a locally synthesized identifier and an
// unknown (empty) current party, pending later reconciliation.
type Speaker struct {
	Id           string
	Name         string
	CurrentParty string // empty = unknown
	Affiliations []PartyAffiliation
	Placeholder  bool
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// AppendAffiliation appends a party to the speaker's ordered history, making
// it the single current affiliation and updating CurrentParty.
func (s *Speaker) AppendAffiliation(party string) {
	for i := range s.Affiliations {
		s.Affiliations[i].IsCurrent = false
	}
	s.Affiliations = append(s.Affiliations, PartyAffiliation{
		Party:     party,
		Ordinal:   len(s.Affiliations),
		IsCurrent: true,
	})
	s.CurrentParty = party
}

// Statement is one attributed utterance within a session, optionally tied to
// a bill. Its Id is the content fingerprint over (text, speaker, session).
type Statement struct {
	Id         ID
	SessionId  string
	BillId     string // empty when not tied to a bill
	SpeakerId  string
	Text       string
	Score      float64 // sentiment in [-1, 1], meaningful only when ScoreValid
	ScoreValid bool
	Reason     string // model-provided sentiment rationale
	PolicyTags []string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// VoteResult is the recorded outcome of a speaker's vote on a bill.
type VoteResult int

const (
	VoteAgree VoteResult = iota + 1
	VoteOppose
	VoteAbstain
	VoteAbsent
	VoteUnknown
)

// VotingRecord is the unique (bill, speaker) vote pair.
type VotingRecord struct {
	BillId     string
	SpeakerId  string
	Result     VoteResult
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Sentiment maps the vote outcome to a sentiment proxy:
// +1 support, -1 oppose, 0 otherwise.
func (v *VotingRecord) Sentiment() float64 {
	switch v.Result {
	case VoteAgree:
		return 1
	case VoteOppose:
		return -1
	default:
		return 0
	}
}

// Category kinds for policy-area classification.
const (
	CategoryKindMain = "main"
	CategoryKindSub  = "sub"
)

// Category is a policy-area classification label. Unseen names are created on
// demand, never rejected.
type Category struct {
	Id         ID
	Kind       string
	Name       string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Tuple returns a string representation of the category as "(Kind,Name)".
// This is used for generating deterministic IDs.
func (c *Category) Tuple() string {
	return "(" + c.Kind + "," + c.Name + ")"
}
