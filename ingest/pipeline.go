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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/hansard/ai"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/fetch"
	"github.com/poiesic/hansard/normalize"
	"github.com/poiesic/hansard/resolve"
	"github.com/poiesic/hansard/storage"
)

// Fetcher retrieves transcript documents and registry listings.
// *fetch.Client satisfies this interface.
type Fetcher interface {
	FetchSessionListing(ctx context.Context, sessionID string) (*fetch.SessionListing, error)
	FetchTranscript(ctx context.Context, sessionID string) ([]byte, error)
	FetchBillListings(ctx context.Context, sessionID string) ([]fetch.BillListing, error)
	FetchVoteListings(ctx context.Context, billID string) ([]fetch.VoteListing, error)
}

// Pipeline orchestrates session ingestion end to end.
type Pipeline struct {
	fetcher     Fetcher
	extractor   ai.StatementExtractor
	normalizer  *normalize.Normalizer
	resolver    *resolve.Resolver
	coordinator *Coordinator

	sessions   storage.SessionRepository
	statements storage.StatementRepository
	speakers   storage.SpeakerRepository

	queue        TaskQueue
	extractPages func([]byte) (string, error)
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithQueue sets the task queue. Default is a PoolQueue sized to half the
// CPU count.
func WithQueue(queue TaskQueue) Option {
	return func(p *Pipeline) error {
		if p.queue != nil {
			p.queue.Release()
		}
		p.queue = queue
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// WithNormalizer overrides the text normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) error {
		p.normalizer = n
		return nil
	}
}

// WithExtractPages overrides PDF text extraction. Tests inject plain-text
// passthroughs here.
func WithExtractPages(fn func([]byte) (string, error)) Option {
	return func(p *Pipeline) error {
		p.extractPages = fn
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	sessions storage.SessionRepository,
	statements storage.StatementRepository,
	speakers storage.SpeakerRepository,
	fetcher Fetcher,
	extractor ai.StatementExtractor,
	resolver *resolve.Resolver,
	coordinator *Coordinator,
	opts ...Option,
) (*Pipeline, error) {
	if sessions == nil || statements == nil || speakers == nil || coordinator == nil {
		return nil, ErrStoreRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		fetcher:      fetcher,
		extractor:    extractor,
		normalizer:   normalize.New(),
		resolver:     resolver,
		coordinator:  coordinator,
		sessions:     sessions,
		statements:   statements,
		speakers:     speakers,
		extractPages: fetch.ExtractPages,
		logger:       slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	if p.queue == nil {
		size := runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
		queue, err := NewPoolQueue(size)
		if err != nil {
			return nil, err
		}
		p.queue = queue
	}

	return p, nil
}

// Release stops the task queue. The pipeline should not be used afterwards.
func (p *Pipeline) Release() {
	if p.queue != nil {
		p.queue.Release()
	}
}

// IngestSessions enqueues one task per session and waits for all of them.
// Task failures are aggregated; one failing session does not stop the rest.
func (p *Pipeline) IngestSessions(ctx context.Context, sessionIDs ...string) (map[string]*Report, error) {
	reports := make(map[string]*Report, len(sessionIDs))
	var errs []error
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sessionID := range sessionIDs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			report, err := p.IngestSession(ctx, sessionID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("session %s: %w", sessionID, err))
				return
			}
			reports[sessionID] = report
		}
		if err := p.queue.Enqueue(task); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("session %s: enqueue: %w", sessionID, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	return reports, errors.Join(errs...)
}

// IngestSession runs the full stage sequence for one session.
func (p *Pipeline) IngestSession(ctx context.Context, sessionID string) (*Report, error) {
	report := &Report{SessionID: sessionID}
	logger := p.logger.With("session", sessionID)

	// Fetch & store session metadata. The attempt timestamp is recorded
	// before the pipeline body so a failure further down still leaves a
	// visible trace.
	session, err := p.fetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := p.coordinator.SaveSession(ctx, session); err != nil {
		return nil, classifyStorage("persist", err)
	}
	if err := p.coordinator.MarkAttempt(ctx, sessionID, time.Now().UTC()); err != nil {
		return nil, classifyStorage("persist", err)
	}

	// Fetch & normalize the transcript.
	text, lowConfidence, err := p.fetchText(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	report.LowConfidence = lowConfidence
	if lowConfidence {
		logger.Warn("no session-open marker found, proceeding with raw text")
	}

	listings, err := p.fetcher.FetchBillListings(ctx, sessionID)
	if err != nil {
		return nil, retriable("fetch", err)
	}

	// One AI call per document.
	segments, err := p.extractor.ExtractSegments(ctx, text)
	if err != nil {
		return nil, classifyExtraction(err)
	}
	report.Segments = len(segments)

	// Resolve identities first, then write statements: bills and speakers
	// must exist before anything references them.
	statements, bills, placeholders, err := p.resolveSegments(ctx, sessionID, segments, listings)
	if err != nil {
		return nil, err
	}
	report.Bills = len(bills)
	report.Placeholders = placeholders

	if err := p.coordinator.SaveStatements(ctx, statements...); err != nil {
		return nil, classifyStorage("persist", err)
	}
	report.Statements = len(statements)

	votes, err := p.fetchVotes(ctx, bills)
	if err != nil {
		return nil, err
	}
	if err := p.coordinator.SaveVotes(ctx, votes...); err != nil {
		return nil, classifyStorage("persist", err)
	}
	report.Votes = len(votes)

	logger.Info("session ingested",
		"segments", report.Segments,
		"statements", report.Statements,
		"bills", report.Bills,
		"votes", report.Votes,
		"placeholders", report.Placeholders)
	return report, nil
}

// fetchSession retrieves session metadata and builds the session record.
func (p *Pipeline) fetchSession(ctx context.Context, sessionID string) (*core.Session, error) {
	listing, err := p.fetcher.FetchSessionListing(ctx, sessionID)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return nil, fatal("fetch", err)
		}
		return nil, retriable("fetch", err)
	}
	return &core.Session{
		Id:        listing.Id,
		Era:       listing.Era,
		Committee: listing.Committee,
		Date:      parseSessionDate(listing.Date),
		SourceURL: listing.PDFURL,
	}, nil
}

// parseSessionDate parses a registry session date. The registry emits both
// dashed and compact forms; an unparseable value yields the zero time rather
// than failing the session.
func parseSessionDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// fetchText downloads the transcript and normalizes its page text.
func (p *Pipeline) fetchText(ctx context.Context, sessionID string) (string, bool, error) {
	document, err := p.fetcher.FetchTranscript(ctx, sessionID)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) || errors.Is(err, fetch.ErrEmptyDocument) {
			return "", false, fatal("fetch", err)
		}
		return "", false, retriable("fetch", err)
	}

	raw, err := p.extractPages(document)
	if err != nil {
		// A document whose pages cannot be read will not improve on retry.
		return "", false, fatal("normalize", err)
	}

	result := p.normalizer.Normalize(raw)
	return result.Text, result.LowConfidence, nil
}

// resolveSegments resolves every bill and speaker, returning the statement
// rows ready to persist.
func (p *Pipeline) resolveSegments(
	ctx context.Context,
	sessionID string,
	segments []ai.Segment,
	listings []fetch.BillListing,
) (statements []*core.Statement, bills []*core.Bill, placeholders int, err error) {
	for _, segment := range segments {
		bill, err := p.resolver.ResolveBill(ctx, sessionID, segment.BillName, segment.Classification, listings)
		if err != nil {
			return nil, nil, 0, classifyStorage("resolve", err)
		}
		bills = append(bills, bill)

		for _, extracted := range segment.Statements {
			speaker, err := p.resolver.ResolveSpeaker(ctx, extracted.SpeakerName)
			if err != nil {
				return nil, nil, 0, classifyStorage("resolve", err)
			}
			if speaker.Placeholder {
				placeholders++
			}

			statement := &core.Statement{
				Id:         core.Fingerprint(extracted.Text, speaker.Id, sessionID),
				SessionId:  sessionID,
				BillId:     bill.Id,
				SpeakerId:  speaker.Id,
				Text:       extracted.Text,
				Score:      extracted.Score,
				ScoreValid: extracted.ScoreValid,
				Reason:     extracted.Reason,
				PolicyTags: extracted.PolicyTags,
			}
			statements = append(statements, statement)
		}
	}
	return statements, bills, placeholders, nil
}

// fetchVotes retrieves per-member vote rows for every registry-listed bill.
// Synthetic bills have no registry votes by definition.
func (p *Pipeline) fetchVotes(ctx context.Context, bills []*core.Bill) ([]*core.VotingRecord, error) {
	var votes []*core.VotingRecord
	for _, bill := range bills {
		if bill.Synthetic {
			continue
		}

		rows, err := p.fetcher.FetchVoteListings(ctx, bill.Id)
		if err != nil {
			return nil, retriable("fetch", err)
		}
		for _, row := range rows {
			speaker, err := p.resolver.RegisterSpeaker(ctx, row.SpeakerId, row.SpeakerName)
			if err != nil {
				return nil, classifyStorage("resolve", err)
			}
			votes = append(votes, &core.VotingRecord{
				BillId:    bill.Id,
				SpeakerId: speaker.Id,
				Result:    mapVoteResult(row.Result),
			})
		}
	}
	return votes, nil
}

// mapVoteResult converts a registry vote string to the result enum.
func mapVoteResult(result string) core.VoteResult {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "agree", "yes", "aye", "for":
		return core.VoteAgree
	case "oppose", "no", "nay", "against":
		return core.VoteOppose
	case "abstain", "abstention":
		return core.VoteAbstain
	case "absent":
		return core.VoteAbsent
	default:
		return core.VoteUnknown
	}
}

// classifyStorage maps a storage failure onto a stage outcome. Exhausted
// transient retries stay retriable at the task level; anything else is a
// hard failure.
func classifyStorage(stage string, err error) *StageError {
	if errors.Is(err, storage.ErrTransient) {
		return retriable(stage, err)
	}
	return fatal(stage, err)
}

// classifyExtraction maps an AI failure onto a stage outcome. Parse
// failures are fatal for the document (the permitted re-ask already
// happened inside the extractor); throttling and transient upstream errors
// are retriable.
func classifyExtraction(err error) *StageError {
	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		return fatal("extract", err)
	}
	if errors.Is(err, ai.ErrAttemptsExhausted) || ai.Retriable(err) {
		return retriable("extract", err)
	}
	return fatal("extract", err)
}
