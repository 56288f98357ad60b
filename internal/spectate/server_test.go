package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

func testServer(t *testing.T, cfg ServerConfig) (*httptest.Server, *Hub) {
	t.Helper()
	hub, metrics := testHub(t)
	ts := httptest.NewServer(NewRouter(hub, metrics, cfg, nil))
	t.Cleanup(ts.Close)
	return ts, hub
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts, _ := testServer(t, DefaultServerConfig())
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, expected 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	ts, hub := testServer(t, DefaultServerConfig())

	if resp, _ := get(t, ts.URL+"/api/snapshot"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status before any tick = %d, expected 404", resp.StatusCode)
	}

	hub.Observe(badminton.Snapshot{
		Tick:   42,
		Phase:  badminton.PhaseInPlay,
		Server: core.Player2,
		Score:  badminton.MatchScore{Points: [2]int{3, 5}},
	}, badminton.TickResult{Tick: 42})

	resp, body := get(t, ts.URL+"/api/snapshot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got struct {
		Tick   uint64 `json:"tick"`
		Phase  string `json:"phase"`
		Server string `json:"server"`
		Score  struct {
			Points [2]int `json:"points"`
		} `json:"score"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if got.Tick != 42 || got.Phase != "in_play" || got.Server != "cpu" || got.Score.Points != [2]int{3, 5} {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestRankEndpoint(t *testing.T) {
	ts, hub := testServer(t, DefaultServerConfig())
	st := rank.State{RankIndex: 2, TierIndex: 1, ProgressPoints: 3}
	hub.Observe(badminton.Snapshot{Tick: 1, Rank: st}, badminton.TickResult{Tick: 1})

	resp, body := get(t, ts.URL+"/api/rank")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	var got RankResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	expected := RankResponse{Name: "Gold II", Ordinal: 7, Needed: 16, State: st}
	if got != expected {
		t.Errorf("rank = %+v, expected %+v", got, expected)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, hub := testServer(t, DefaultServerConfig())
	hub.Observe(badminton.Snapshot{Tick: 1}, badminton.TickResult{Tick: 1})

	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	for _, name := range []string{"badminton_ticks_total 1", "badminton_spectators", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics missing %q", name)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	ts, _ := testServer(t, ServerConfig{CORSOrigins: []string{"https://court.example"}})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://court.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://court.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	return websocket.DefaultDialer.Dial(url, header)
}

func readEvent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	event, _ := decode(t, frame)
	return event
}

func TestWebSocketStream(t *testing.T) {
	ts, hub := testServer(t, DefaultServerConfig())
	hub.Observe(badminton.Snapshot{Tick: 1}, badminton.TickResult{Tick: 1})

	conn, _, err := dial(t, ts, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// The current state arrives first
	if event := readEvent(t, conn); event != "snapshot" {
		t.Errorf("first event = %s, expected snapshot", event)
	}

	waitFor(t, func() bool { return hub.Count() == 1 })
	point := &badminton.PointScored{Winner: core.Player2, Cause: badminton.EventNet, Score: badminton.MatchScore{Points: [2]int{0, 1}}}
	hub.Observe(badminton.Snapshot{Tick: 2}, badminton.TickResult{Tick: 2, Point: point})

	// The first observation may or may not reach the subscriber
	var events []string
	for len(events) < 4 {
		event := readEvent(t, conn)
		events = append(events, event)
		if event == "point" {
			break
		}
	}
	if n := len(events); n < 2 || events[n-1] != "point" || events[n-2] != "snapshot" {
		t.Errorf("events = %v, expected a snapshot followed by a point", events)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	ts, _ := testServer(t, ServerConfig{CORSOrigins: []string{"https://court.example"}})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := dial(t, ts, header)
	if err == nil {
		t.Fatal("Dial should fail for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, expected 403", resp)
	}
}

func TestWebSocketSpectatorLimit(t *testing.T) {
	ts, hub := testServer(t, ServerConfig{MaxSpectators: 1})

	first, _, err := dial(t, ts, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer first.Close()
	waitFor(t, func() bool { return hub.Count() == 1 })

	_, resp, err := dial(t, ts, nil)
	if err == nil {
		t.Fatal("second spectator should be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("response = %v, expected 503", resp)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
