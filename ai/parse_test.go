package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"discussion_segments": [
		{
			"bill_name": "Water Resources Act",
			"main_category": "environment",
			"sub_categories": ["water"],
			"keywords": ["rivers"],
			"statements": [
				{"speaker_name": "Jordan Vale", "text": "I support this bill.", "sentiment_score": 0.8, "reason": "explicit support", "policy_tags": ["water"]},
				{"speaker_name": "Casey Brook", "text": "The funding is unclear.", "sentiment_score": -0.3, "reason": "funding concern"}
			]
		}
	]
}`

func TestParseSegments(t *testing.T) {
	segments, err := ParseSegments(validResponse)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	segment := segments[0]
	assert.Equal(t, "Water Resources Act", segment.BillName)
	assert.Equal(t, "environment", segment.Classification.MainCategory)
	require.Len(t, segment.Statements, 2)

	first := segment.Statements[0]
	assert.Equal(t, "Jordan Vale", first.SpeakerName)
	assert.True(t, first.ScoreValid)
	assert.Equal(t, 0.8, first.Score)
	assert.Equal(t, "explicit support", first.Reason)
}

func TestParseSegments_CodeFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	segments, err := ParseSegments(fenced)
	require.NoError(t, err)
	assert.Len(t, segments, 1)
}

func TestParseSegments_RepairsUnquotedKeys(t *testing.T) {
	broken := `{"discussion_segments": [{bill_name": "Act", "statements": [{speaker_name": "A", "text": "B."}]}]}`
	segments, err := ParseSegments(broken)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Act", segments[0].BillName)
}

func TestParseSegments_OutOfRangeScoreDropped(t *testing.T) {
	raw := `{"discussion_segments": [{"bill_name": "Act", "statements": [
		{"speaker_name": "A", "text": "B.", "sentiment_score": 3.5}
	]}]}`
	segments, err := ParseSegments(raw)
	require.NoError(t, err)

	statement := segments[0].Statements[0]
	assert.False(t, statement.ScoreValid)
	assert.Equal(t, 0.0, statement.Score)
}

func TestParseSegments_MissingScoreIsAbsent(t *testing.T) {
	raw := `{"discussion_segments": [{"bill_name": "Act", "statements": [
		{"speaker_name": "A", "text": "B."}
	]}]}`
	segments, err := ParseSegments(raw)
	require.NoError(t, err)
	assert.False(t, segments[0].Statements[0].ScoreValid)
}

func TestParseSegments_MissingRequiredKeys(t *testing.T) {
	cases := map[string]string{
		"no segments key":    `{"something_else": []}`,
		"missing bill name":  `{"discussion_segments": [{"statements": []}]}`,
		"missing speaker":    `{"discussion_segments": [{"bill_name": "Act", "statements": [{"text": "B."}]}]}`,
		"missing text":       `{"discussion_segments": [{"bill_name": "Act", "statements": [{"speaker_name": "A"}]}]}`,
		"not json at all":    `the model apologizes for the confusion`,
		"truncated response": `{"discussion_segments": [{"bill_name": "Act"`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSegments(raw)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.NotEmpty(t, parseErr.Prefix)
		})
	}
}

func TestParseSegments_EmptySegmentsAllowed(t *testing.T) {
	segments, err := ParseSegments(`{"discussion_segments": []}`)
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestParseErrorPrefixTruncated(t *testing.T) {
	long := `{"discussion_segments": ` + string(make([]byte, 500))
	_, err := ParseSegments(long)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.LessOrEqual(t, len(parseErr.Prefix), 130)
}
