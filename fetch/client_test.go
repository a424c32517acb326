package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := NewConfig(server.URL, "test-key",
		WithRetry(2, 10*time.Millisecond),
		WithLookupTimeout(time.Second),
	)
	client, err := NewClient(cfg, nil)
	require.NoError(t, err)
	return client
}

func envelope(rows string) string {
	return fmt.Sprintf(`{"svc": [
		{"head": [{"list_total_count": 1}, {"RESULT": {"CODE": "INFO-000", "MESSAGE": "OK"}}]},
		{"row": %s}
	]}`, rows)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(NewConfig("://bad", "key"), nil)
	assert.Error(t, err)

	_, err = NewClient(NewConfig("https://registry.example", ""), nil)
	assert.Error(t, err)
}

func TestFetchTranscript(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake body")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathTranscript, r.URL.Path)
		assert.Equal(t, "219-1", r.URL.Query().Get("CONF_ID"))
		assert.Equal(t, "test-key", r.URL.Query().Get("KEY"))
		w.Write(pdfBytes)
	}))

	body, err := client.FetchTranscript(context.Background(), "219-1")
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, body)
}

func TestFetchTranscript_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchTranscript(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchTranscript_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := client.FetchTranscript(context.Background(), "219-1")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestFetchTranscript_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))

	body, err := client.FetchTranscript(context.Background(), "219-1")
	require.NoError(t, err)
	assert.NotEmpty(t, body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchTranscript_Exhaustion(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.FetchTranscript(context.Background(), "219-1")
	assert.ErrorIs(t, err, ErrUnavailable)
	// First attempt plus two retries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchBillListings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathBills, r.URL.Path)
		fmt.Fprint(w, envelope(`[{"BILL_ID": "b1", "BILL_NM": "Water Resources Act", "PPSR_NM": "Jordan Vale"}]`))
	}))

	bills, err := client.FetchBillListings(context.Background(), "219-1")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "Water Resources Act", bills[0].Name)
}

func TestFetchBillListings_NoData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"svc": [{"head": [{"RESULT": {"CODE": "INFO-200", "MESSAGE": "no data"}}]}]}`)
	}))

	bills, err := client.FetchBillListings(context.Background(), "219-1")
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestFetchVoteListings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "b1", r.URL.Query().Get("BILL_ID"))
		fmt.Fprint(w, envelope(`[{"BILL_ID": "b1", "MONA_CD": "m1", "HG_NM": "Casey Brook", "RESULT_VOTE_MOD": "agree"}]`))
	}))

	votes, err := client.FetchVoteListings(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "agree", votes[0].Result)
}

func TestLookupSpeaker(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Jordan Vale", r.URL.Query().Get("HG_NM"))
		fmt.Fprint(w, envelope(`[{"MONA_CD": "m1", "HG_NM": "Jordan Vale", "POLY_NM": "First Party/Unity Party"}]`))
	}))

	speaker, err := client.LookupSpeaker(context.Background(), "Jordan Vale")
	require.NoError(t, err)
	assert.Equal(t, "m1", speaker.Id)
	assert.Equal(t, "First Party/Unity Party", speaker.PartyHistory)
}

func TestLookupSpeaker_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope(`[]`))
	}))

	_, err := client.LookupSpeaker(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchSessionListing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope(`[{"CONF_ID": "219-1", "ERACO": "219", "CMIT_NM": "plenary", "CONF_DT": "2024-05-21", "DOWN_URL": "https://assembly.example/219-1.pdf"}]`))
	}))

	session, err := client.FetchSessionListing(context.Background(), "219-1")
	require.NoError(t, err)
	assert.Equal(t, "plenary", session.Committee)
	assert.Equal(t, "https://assembly.example/219-1.pdf", session.PDFURL)
}
