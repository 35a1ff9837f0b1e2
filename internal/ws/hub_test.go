package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(nil)
	go h.Run(ctx)
	return h
}

func dial(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analyses" + query
	return websocket.DefaultDialer.Dial(u, nil)
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_BroadcastsAnalysisCompleted(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(NewHandler(h, nil, nil))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()
	waitForClients(t, h, 1)

	appID, jobID := uuid.New(), uuid.New()
	h.NotifyAnalysisCompleted(appID, jobID, matching.SkillAnalysis{
		MatchPercentage: 66.67,
		Recommendation:  matching.AnalysisRecommended,
		MatchedSkills:   []string{"Go", "SQL"},
		MissingSkills:   []string{"Kafka"},
		AnalyzedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, EventAnalysisCompleted, evt.Type)
	assert.Equal(t, appID, evt.ApplicationID)
	assert.Equal(t, jobID, evt.JobID)
	assert.Equal(t, "2024-06-01T12:00:00Z", evt.Timestamp)
}

func TestHandler_RejectsInvalidToken(t *testing.T) {
	h := startHub(t)
	validate := func(token string) error {
		if token != "good" {
			return errors.New("bad token")
		}
		return nil
	}
	srv := httptest.NewServer(NewHandler(h, validate, nil))
	defer srv.Close()

	_, resp, err := dial(t, srv, "?token=bad")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := dial(t, srv, "?token=good")
	require.NoError(t, err)
	defer conn.Close()
	waitForClients(t, h, 1)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(NewHandler(h, nil, nil))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	waitForClients(t, h, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, h, 0)
}

func TestRequestToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/analyses", nil)
	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", requestToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws/analyses?token=xyz", nil)
	assert.Equal(t, "xyz", requestToken(r))
}

func TestNilHub(t *testing.T) {
	var h *Hub
	h.Broadcast([]byte("x"))
	h.NotifyAnalysisCompleted(uuid.New(), uuid.New(), matching.SkillAnalysis{})
	assert.Equal(t, 0, h.ClientCount())
}
