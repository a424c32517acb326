package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope_Canonical(t *testing.T) {
	payload := `{
		"nwvrqwxyaytdsfvhu": [
			{"head": [{"list_total_count": 2}, {"RESULT": {"CODE": "INFO-000", "MESSAGE": "OK"}}]},
			{"row": [{"BILL_ID": "b1", "BILL_NM": "First"}, {"BILL_ID": "b2", "BILL_NM": "Second"}]}
		]
	}`

	var rows []BillListing
	err := decodeEnvelope([]byte(payload), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b1", rows[0].Id)
	assert.Equal(t, "Second", rows[1].Name)
}

func TestDecodeEnvelope_FlattenedHead(t *testing.T) {
	payload := `{
		"members": [
			{"head": {"list_total_count": 1, "RESULT": {"CODE": "INFO-000"}}},
			{"row": [{"MONA_CD": "m1", "HG_NM": "Jordan Vale"}]}
		]
	}`

	var rows []SpeakerListing
	err := decodeEnvelope([]byte(payload), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jordan Vale", rows[0].Name)
}

func TestDecodeEnvelope_NoData(t *testing.T) {
	payload := `{
		"bills": [
			{"head": [{"RESULT": {"CODE": "INFO-200", "MESSAGE": "no data"}}]}
		]
	}`

	var rows []BillListing
	err := decodeEnvelope([]byte(payload), &rows)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeEnvelope_BareError(t *testing.T) {
	payload := `{"RESULT": {"CODE": "ERROR-300", "MESSAGE": "invalid key"}}`

	var rows []BillListing
	err := decodeEnvelope([]byte(payload), &rows)
	assert.ErrorIs(t, err, ErrRegistryResult)
}

func TestDecodeEnvelope_ErrorInHead(t *testing.T) {
	payload := `{
		"bills": [
			{"head": [{"RESULT": {"CODE": "ERROR-310", "MESSAGE": "service not found"}}]}
		]
	}`

	var rows []BillListing
	err := decodeEnvelope([]byte(payload), &rows)
	assert.ErrorIs(t, err, ErrRegistryResult)
}

func TestDecodeEnvelope_Garbage(t *testing.T) {
	var rows []BillListing

	err := decodeEnvelope([]byte(`not json`), &rows)
	assert.ErrorIs(t, err, ErrEnvelope)

	err = decodeEnvelope([]byte(`{"stuff": 42}`), &rows)
	assert.ErrorIs(t, err, ErrEnvelope)
}
