package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrace/internal/document"
	"doctrace/internal/rowstore"
	"doctrace/internal/tracking"
	"doctrace/pkg/testutil"
)

var handlerNow = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func newTrackingRouter(t *testing.T, docs ...document.Document) http.Handler {
	t.Helper()

	store := rowstore.NewMemory(document.ColID)
	repo := document.NewRepository(store, testutil.Logger(), nil)
	for _, doc := range docs {
		require.NoError(t, store.AppendRow(t.Context(), doc.ToRow()))
	}

	r := chi.NewRouter()
	New(tracking.NewService(repo), testutil.Logger()).Register(r)
	return r
}

func outgoing(id string, daysAgo int) document.Document {
	return document.Document{
		ID:      id,
		Type:    document.TypeOutgoing,
		Date:    handlerNow.AddDate(0, 0, -daysAgo),
		Agency:  "Ministry of Transport",
		Subject: "Road maintenance budget inquiry",
	}
}

func TestPendingReport(t *testing.T) {
	reply := document.Document{
		ID:       "RE01OLD",
		Type:     document.TypeIncoming,
		ParentID: "REPLIED",
		Date:     handlerNow.AddDate(0, 0, -5),
		Agency:   "Ministry of Transport",
		Subject:  "Reply to budget inquiry",
	}
	router := newTrackingRouter(t,
		outgoing("URGENT", 12),
		outgoing("NORMAL", 3),
		outgoing("REPLIED", 20),
		reply,
	)

	req := testutil.NewRequest(t, http.MethodGet, "/tracking/pending")
	rr := testutil.DoRequest(router, testutil.WithClock(req, handlerNow))
	testutil.AssertStatus(t, rr, http.StatusOK)

	got := testutil.UnmarshalResponse[pendingResponse](t, rr)
	require.Len(t, got.Urgent, 1)
	assert.Equal(t, "URGENT", got.Urgent[0].ID)
	assert.Equal(t, 12, got.Urgent[0].DaysWaiting)
	assert.True(t, got.Urgent[0].NeedsAttention)

	require.Len(t, got.Normal, 1)
	assert.Equal(t, "NORMAL", got.Normal[0].ID)
	assert.Empty(t, got.Normal[0].LatestReplyDate, "no replies, no latest date")
}

func TestStatisticsReport(t *testing.T) {
	router := newTrackingRouter(t,
		outgoing("URGENT", 12),
		outgoing("NORMAL", 3),
	)

	req := testutil.NewRequest(t, http.MethodGet, "/tracking/statistics")
	rr := testutil.DoRequest(router, testutil.WithClock(req, handlerNow))
	testutil.AssertStatus(t, rr, http.StatusOK)

	got := testutil.UnmarshalResponse[tracking.Stats](t, rr)
	assert.Equal(t, tracking.Stats{
		TotalPending:   2,
		UrgentCount:    1,
		NormalCount:    1,
		MaxWaitingDays: 12,
	}, *got)
}

func TestStatisticsEmptySet(t *testing.T) {
	router := newTrackingRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/tracking/statistics")
	rr := testutil.DoRequest(router, testutil.WithClock(req, handlerNow))
	testutil.AssertStatus(t, rr, http.StatusOK)

	got := testutil.UnmarshalResponse[tracking.Stats](t, rr)
	assert.Equal(t, tracking.Stats{}, *got)
}
