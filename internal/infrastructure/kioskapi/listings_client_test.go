package kioskapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageJSON = `[
	{
		"id": "lot-1",
		"lot_number": 7,
		"bidder_positions_count": 3,
		"highest_bid_amount_cents": 125000,
		"opening_bid_cents": 100000,
		"minimum_next_bid_cents": 130000,
		"reserve_status": "reserve_met",
		"artwork": {"id": "art-1", "title": "Untitled", "artist": {"sortable_id": "warhol-andy"}}
	},
	{
		"id": "lot-2",
		"artwork": {"id": "art-2", "title": "No bids yet", "artist": {"sortable_id": "abbott-berenice"}}
	}
]`

func newTestClient(t *testing.T, h http.HandlerFunc, maxTries uint) *listingsClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return newListingsClient(srv.Client(), Options{
		BaseURL:        srv.URL,
		UserAgent:      "kiosk-test/1.0",
		MaxTries:       maxTries,
		InitialBackoff: time.Millisecond,
	})
}

func TestListingsClient_FetchPage_mapsFields(t *testing.T) {
	t.Parallel()

	reqCh := make(chan *http.Request, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reqCh <- r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageJSON))
	}, 1)

	listings, err := c.FetchPage(context.Background(), "sale-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	r := <-reqCh
	assert.Equal(t, "/auctions/sale-1/listings", r.URL.Path)
	assert.Equal(t, "2", r.URL.Query().Get("page"))
	assert.Equal(t, "10", r.URL.Query().Get("size"))
	assert.Equal(t, "kiosk-test/1.0", r.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", r.Header.Get("Accept"))

	first := listings[0]
	assert.Equal(t, "lot-1", first.ID)
	assert.Equal(t, "art-1", first.ArtworkID)
	assert.Equal(t, "Untitled", first.Title)
	assert.Equal(t, "warhol-andy", first.ArtistSortKey)
	require.NotNil(t, first.LotNumber)
	assert.Equal(t, int64(7), *first.LotNumber)
	require.NotNil(t, first.BidCount)
	assert.Equal(t, int64(3), *first.BidCount)
	require.NotNil(t, first.HighestBidCents)
	assert.Equal(t, int64(125000), *first.HighestBidCents)
	assert.Equal(t, "reserve_met", first.ReserveStatus)

	second := listings[1]
	assert.Nil(t, second.BidCount)
	assert.Nil(t, second.HighestBidCents)
	assert.Equal(t, int64(0), second.Bids())
}

func TestListingsClient_FetchPage_retriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, 3)

	listings, err := c.FetchPage(context.Background(), "sale-1", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, int32(3), calls.Load())
}

func TestListingsClient_FetchPage_givesUpAfterMaxTries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, 2)

	_, err := c.FetchPage(context.Background(), "sale-1", 1, 10)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListingsClient_FetchPage_doesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, 5)

	_, err := c.FetchPage(context.Background(), "missing", 1, 10)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListingsClient_FetchPage_malformedJSONIsFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}, 3)

	_, err := c.FetchPage(context.Background(), "sale-1", 1, 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListingsClient_FetchPage_respectsContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchPage(ctx, "sale-1", 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
