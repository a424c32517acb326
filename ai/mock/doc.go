// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.StatementExtractor and
// ai.Provider for use in unit tests. The mocks allow tests to run without an
// external model service and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	extractor := mock.NewMockStatementExtractor()
//	segments, err := extractor.ExtractSegments(ctx, "VALE: I support the bill.")
//
//	// Custom behavior injection
//	extractor.ExtractSegmentsFunc = func(ctx context.Context, text string) ([]ai.Segment, error) {
//	    return nil, errors.New("model unavailable")
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
//
// The default MockStatementExtractor turns each "NAME: text" line into a
// statement inside a single "General Discussion" segment.
package mock
