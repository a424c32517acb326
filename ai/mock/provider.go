package mock

import (
	"github.com/poiesic/hansard/ai"
)

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	extractor *MockStatementExtractor
}

// NewMockProvider creates a provider aggregating mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		extractor: NewMockStatementExtractor(),
	}
}

// StatementExtractor returns the mock extraction service.
func (p *MockProvider) StatementExtractor() ai.StatementExtractor {
	return p.extractor
}

// GetMockExtractor returns the concrete mock for test assertions.
func (p *MockProvider) GetMockExtractor() *MockStatementExtractor {
	return p.extractor
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
