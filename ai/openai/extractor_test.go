package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/hansard/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model with scripted responses.
type fakeModel struct {
	responses []func() (*llms.ContentResponse, error)
	calls     int
}

var _ llms.Model = (*fakeModel)(nil)

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx]()
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func textResponse(content string) func() (*llms.ContentResponse, error) {
	return func() (*llms.ContentResponse, error) {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: content}},
		}, nil
	}
}

func errorResponse(err error) func() (*llms.ContentResponse, error) {
	return func() (*llms.ContentResponse, error) {
		return nil, err
	}
}

func newTestExtractor(model llms.Model) *StatementExtractor {
	return &StatementExtractor{
		client:      model,
		limiter:     ai.NewRateLimiter(100),
		backoff:     ai.NewBackoff(time.Millisecond, 4*time.Millisecond),
		maxAttempts: 3,
		logger:      slog.Default(),
	}
}

const goodResponse = `{"discussion_segments": [{"bill_name": "Act", "statements": [
	{"speaker_name": "Vale", "text": "I support it.", "sentiment_score": 0.7}
]}]}`

func TestExtractSegments_Success(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		textResponse(goodResponse),
	}}
	extractor := newTestExtractor(model)

	segments, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Act", segments[0].BillName)
	assert.Equal(t, 1, model.calls)
}

func TestExtractSegments_RetriesThrottling(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		errorResponse(errors.New("429 too many requests")),
		errorResponse(errors.New("503 service unavailable")),
		textResponse(goodResponse),
	}}
	extractor := newTestExtractor(model)

	segments, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, 3, model.calls)
}

func TestExtractSegments_FatalAbortsImmediately(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		errorResponse(errors.New("401 invalid api key")),
	}}
	extractor := newTestExtractor(model)

	_, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.Error(t, err)
	assert.Equal(t, 1, model.calls)
}

func TestExtractSegments_AttemptsExhausted(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		errorResponse(errors.New("502 bad gateway")),
	}}
	extractor := newTestExtractor(model)

	_, err := extractor.ExtractSegments(context.Background(), "transcript")
	assert.ErrorIs(t, err, ai.ErrAttemptsExhausted)
	assert.Equal(t, 3, model.calls)
}

func TestExtractSegments_OneParseReask(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		textResponse("I'm sorry, I cannot produce JSON."),
		textResponse(goodResponse),
	}}
	extractor := newTestExtractor(model)

	segments, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, 2, model.calls)
}

func TestExtractSegments_SecondParseFailureDropsDocument(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		textResponse("not json"),
		textResponse("still not json"),
		textResponse(goodResponse),
	}}
	extractor := newTestExtractor(model)

	_, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.Error(t, err)

	var parseErr *ai.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, model.calls)
}

func TestExtractSegments_NoChoices(t *testing.T) {
	model := &fakeModel{responses: []func() (*llms.ContentResponse, error){
		func() (*llms.ContentResponse, error) {
			return &llms.ContentResponse{}, nil
		},
	}}
	extractor := newTestExtractor(model)

	segments, err := extractor.ExtractSegments(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Empty(t, segments)
}
