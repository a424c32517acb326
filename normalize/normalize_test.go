package normalize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `NATIONAL ASSEMBLY RECORD
Session 219-1

The session opened at 10:02.
CHAIR: I call this meeting to order.
NATIONAL ASSEMBLY RECORD
MEMBER VALE: I rise to speak on the water bill.
NATIONAL ASSEMBLY RECORD
This record is published for informational purposes and is not the authoritative text.
MEMBER BROOK: I have concerns about funding.
NATIONAL ASSEMBLY RECORD
The session adjourned at 12:45.
Appendix A: attendance roster`

func TestNormalizeBoundsBody(t *testing.T) {
	result := New().Normalize(sampleTranscript)
	require.False(t, result.LowConfidence)

	assert.True(t, strings.HasPrefix(result.Text, "The session opened at 10:02."))
	assert.True(t, strings.HasSuffix(result.Text, "The session adjourned at 12:45."))
	assert.NotContains(t, result.Text, "Appendix A")
	assert.NotContains(t, result.Text, "Session 219-1")
}

func TestNormalizeStripsRepeatedHeaders(t *testing.T) {
	result := New().Normalize(sampleTranscript)

	assert.NotContains(t, result.Text, "NATIONAL ASSEMBLY RECORD")
	assert.Contains(t, result.Text, "MEMBER VALE: I rise to speak on the water bill.")
}

func TestNormalizeStripsBoilerplate(t *testing.T) {
	result := New().Normalize(sampleTranscript)

	assert.NotContains(t, result.Text, "informational purposes")
	assert.Contains(t, result.Text, "MEMBER BROOK: I have concerns about funding.")
}

func TestNormalizeMissingOpenMarker(t *testing.T) {
	raw := "CHAIR: proceedings without a convening line.\nMEMBER: noted."
	result := New().Normalize(raw)

	assert.True(t, result.LowConfidence)
	assert.Equal(t, raw, result.Text)
}

func TestNormalizeMissingCloseMarker(t *testing.T) {
	raw := "front matter\nThe session opened at 09:00.\nCHAIR: we begin.\ntrailing line"
	result := New().Normalize(raw)

	require.False(t, result.LowConfidence)
	assert.True(t, strings.HasPrefix(result.Text, "The session opened at 09:00."))
	assert.Contains(t, result.Text, "trailing line")
	assert.NotContains(t, result.Text, "front matter")
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New()
	first := n.Normalize(sampleTranscript)
	second := n.Normalize(sampleTranscript)

	assert.Equal(t, first, second)
}

func TestNormalizeCustomMarkers(t *testing.T) {
	n := New(
		WithOpenMarker(regexp.MustCompile(`convened at \d{1,2}:\d{2}`)),
		WithCloseMarker(regexp.MustCompile(`closed at \d{1,2}:\d{2}`)),
	)
	raw := "skip\nconvened at 14:00\nbody line\nclosed at 15:00\nskip"
	result := n.Normalize(raw)

	require.False(t, result.LowConfidence)
	assert.Equal(t, "convened at 14:00\nbody line\nclosed at 15:00", result.Text)
}

func TestNormalizeCollapsesBlankRuns(t *testing.T) {
	raw := "opened at 08:00\nfirst\n\n\n\nsecond\nadjourned at 09:00"
	result := New().Normalize(raw)

	assert.Equal(t, "opened at 08:00\nfirst\n\nsecond\nadjourned at 09:00", result.Text)
}
