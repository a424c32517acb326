package ai

import "context"

// StatementExtractor turns a normalized transcript into discussion segments.
// Implementations must be thread-safe for concurrent use and must respect
// the shared rate limiter they were constructed with.
type StatementExtractor interface {
	// ExtractSegments issues one structured generation call for the whole
	// document and returns every discussion segment with its statements.
	// Returns a *ParseError when the model output could not be decoded
	// after the permitted re-ask.
	ExtractSegments(ctx context.Context, text string) ([]Segment, error)
}

// Provider manages extractor construction and lifecycle.
type Provider interface {
	// StatementExtractor returns the extraction service.
	// The returned StatementExtractor is safe for concurrent use.
	StatementExtractor() StatementExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}
