package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/galactic-brain/internal/content"
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/game"
	"github.com/robalobadob/galactic-brain/internal/mission"
	"github.com/robalobadob/galactic-brain/internal/store"
	"github.com/robalobadob/galactic-brain/internal/travel"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	hub := NewHub("")
	eng := game.New(context.Background(), game.Options{
		Traveler: travel.New(content.Offline{}, 0, 0),
		Store:    store.NewMemoryStore(),
		Notifier: game.Notifiers{game.LogNotifier{}, hub},
	})
	t.Cleanup(eng.Close)
	return New(eng, hub, Options{JWTSecret: "test-secret"})
}

type testRes struct {
	Correct       bool            `json:"correct"`
	TravelStarted bool            `json:"travelStarted"`
	Result        *mission.Result `json:"result"`
	Token         string          `json:"token"`
	State         game.Snapshot   `json:"state"`
	Error         string          `json:"error"`
}

func do(t *testing.T, s *Server, method, path, body, token string) (*httptest.ResponseRecorder, testRes) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var out testRes
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func launch(t *testing.T, s *Server, body string) string {
	t.Helper()
	rec, out := do(t, s, http.MethodPost, "/pilot", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodOptions, "/answer", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, defaultOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", out.Error)
}

func TestState_StartsInMenu(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, game.PhaseMenu, snap.Phase)
	assert.Len(t, snap.Destinations, 6)
	assert.Equal(t, 100, snap.Profile.Fuel)
}

func TestDestinations(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ds []galaxy.Destination
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	require.Len(t, ds, 6)
	for _, d := range ds {
		assert.False(t, d.Completed)
	}
}

func TestPilot_Validation(t *testing.T) {
	s := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/pilot", `{"name":"   "}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_name", out.Error)

	rec, out = do(t, s, http.MethodPost, "/pilot", `{"name":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", out.Error)

	rec, _ = do(t, s, http.MethodPost, "/difficulty", `{"difficulty":"nightmare"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, s, http.MethodPost, "/difficulty", `{"difficulty":"medium"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mission.Medium, out.State.Profile.Difficulty)
	assert.Equal(t, game.PhaseMenu, out.State.Phase)
}

func TestPilot_SetsCookieAndLeavesMenu(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/pilot", `{"name":" Nova ","difficulty":"hard"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, game.PhaseMap, out.State.Phase)
	assert.Equal(t, "Nova", out.State.Profile.Name)
	assert.Equal(t, mission.Hard, out.State.Profile.Difficulty)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			found = true
			assert.Equal(t, out.Token, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "pilot cookie not set")

	// Launch is menu-only.
	rec, out = do(t, s, http.MethodPost, "/pilot", `{"name":"Nova"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", out.Error)
}

func TestMapRoutes_RequirePilotToken(t *testing.T) {
	s := newTestServer(t)
	launch(t, s, `{"name":"Nova"}`)

	rec, out := do(t, s, http.MethodPost, "/select", `{"destination":"ART"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", out.Error)

	rec, out = do(t, s, http.MethodPost, "/select", `{"destination":"ART"}`, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", out.Error)

	other, _, err := s.signPilot("Zed")
	require.NoError(t, err)
	rec, out = do(t, s, http.MethodPost, "/select", `{"destination":"ART"}`, other)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "pilot_mismatch", out.Error)
}

func TestPilotToken_CookieAccepted(t *testing.T) {
	s := newTestServer(t)
	tok := launch(t, s, `{"name":"Nova"}`)

	req := httptest.NewRequest(http.MethodPost, "/select", strings.NewReader(`{"destination":"art"}`))
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestMissionFlow(t *testing.T) {
	s := newTestServer(t)
	tok := launch(t, s, `{"name":"Nova","difficulty":"hard"}`)

	rec, out := do(t, s, http.MethodPost, "/select", `{"destination":"pluto"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_destination", out.Error)

	rec, out = do(t, s, http.MethodPost, "/select", `{"destination":"ocean"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, out.TravelStarted)
	require.NotNil(t, out.State.Selected)
	assert.Equal(t, galaxy.Ocean, *out.State.Selected)

	rec, out = do(t, s, http.MethodPost, "/select?wait=1", `{"destination":"OCEAN"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, out.TravelStarted)
	assert.Equal(t, game.PhaseTrivia, out.State.Phase)
	require.NotNil(t, out.State.Mission)
	assert.Equal(t, 5, out.State.Mission.Total)
	assert.Len(t, out.State.Mission.Options, mission.OptionCount)
	assert.Nil(t, out.State.Mission.CorrectAnswerIndex)

	rec, out = do(t, s, http.MethodPost, "/advance", "", tok)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_answered", out.Error)

	rec, out = do(t, s, http.MethodPost, "/answer", `{}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, s, http.MethodPost, "/answer", `{"index":9}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_option", out.Error)

	rec, out = do(t, s, http.MethodPost, "/answer", `{"index":0}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, out.State.Mission.CorrectAnswerIndex)
	assert.Equal(t, *out.State.Mission.CorrectAnswerIndex == 0, out.Correct)

	rec, out = do(t, s, http.MethodPost, "/answer", `{"index":1}`, tok)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_answered", out.Error)

	rec, out = do(t, s, http.MethodPost, "/advance", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out.Result)
	assert.Equal(t, 1, out.State.Mission.Index)

	rec, out = do(t, s, http.MethodPost, "/menu", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.PhaseMenu, out.State.Phase)
	assert.Nil(t, out.State.Mission)

	rec, out = do(t, s, http.MethodPost, "/reset", "", tok)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", out.Error)
}

func TestWebsocket_StreamsPhaseChanges(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	defer s.hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello wsOut
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "state", hello.Type)
	require.NotNil(t, hello.State)
	assert.Equal(t, game.PhaseMenu, hello.State.Phase)
	assert.Equal(t, 1, s.hub.Clients())

	resp, err := http.Post(ts.URL+"/pilot", "application/json", bytes.NewBufferString(`{"name":"Nova"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sawClick, sawMap bool
	for !sawMap {
		var m wsOut
		require.NoError(t, conn.ReadJSON(&m))
		switch m.Type {
		case "event":
			require.NotNil(t, m.Event)
			if m.Event.Kind == game.NoticeClick {
				sawClick = true
			}
		case "phase":
			if m.To == game.PhaseMap {
				assert.Equal(t, game.PhaseMenu, m.From)
				sawMap = true
			}
		}
	}
	assert.True(t, sawClick)
}

func TestHub_DropsWhenQueueFull(t *testing.T) {
	h := NewHub("")
	c := &client{send: make(chan wsOut, 1)}
	h.clients[c] = struct{}{}

	h.PhaseChanged(game.PhaseMenu, game.PhaseMap)
	h.Notify(game.Notice{Kind: game.NoticeClick})

	require.Len(t, c.send, 1)
	m := <-c.send
	assert.Equal(t, "phase", m.Type)

	h.Close()
	assert.Zero(t, h.Clients())
	_, open := <-c.send
	assert.False(t, open)
}
