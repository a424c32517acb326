package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/hansard/ai"
)

// MockStatementExtractor is a test double for ai.StatementExtractor.
// It allows custom behavior injection via function fields.
type MockStatementExtractor struct {
	// ExtractSegmentsFunc is called by ExtractSegments if set.
	// If nil, uses a default line-based extraction.
	ExtractSegmentsFunc func(ctx context.Context, text string) ([]ai.Segment, error)

	mu        sync.Mutex
	callCount int
}

// NewMockStatementExtractor creates a mock extractor with default behavior.
// Returns the concrete type to allow test assertions on call counts.
func NewMockStatementExtractor() *MockStatementExtractor {
	return &MockStatementExtractor{}
}

// ExtractSegments produces one segment from the input text.
// Default behavior: each "NAME: text" line becomes a statement in a single
// segment named "General Discussion".
func (m *MockStatementExtractor) ExtractSegments(ctx context.Context, text string) ([]ai.Segment, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractSegmentsFunc != nil {
		return m.ExtractSegmentsFunc(ctx, text)
	}

	segment := ai.Segment{BillName: "General Discussion"}
	for _, line := range strings.Split(text, "\n") {
		name, utterance, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		utterance = strings.TrimSpace(utterance)
		if name == "" || utterance == "" {
			continue
		}
		segment.Statements = append(segment.Statements, ai.ExtractedStatement{
			SpeakerName: name,
			Text:        utterance,
		})
	}

	if len(segment.Statements) == 0 {
		return []ai.Segment{}, nil
	}
	return []ai.Segment{segment}, nil
}

// CallCount returns the number of times ExtractSegments was called.
func (m *MockStatementExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockStatementExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractSegmentsFunc = nil
}
