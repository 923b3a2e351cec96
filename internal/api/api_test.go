package api_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"maze-chase/internal/api"
	"maze-chase/internal/game"
	"maze-chase/internal/maze"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// MockEngine implements api.EngineInterface for testing
type MockEngine struct {
	mu         sync.Mutex
	snap       *game.GameSnapshot
	directions []maze.Direction
	restarts   int
	gameOver   bool
	difficulty game.Difficulty
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		difficulty: game.Easy,
		snap: &game.GameSnapshot{
			Sequence:         1,
			SessionID:        "session-1",
			Width:            3,
			Height:           3,
			Maze:             []string{"###", "#.#", "###"},
			Pellets:          [][]bool{{false, false, false}, {false, false, false}, {false, false, false}},
			Player:           game.PlayerSnapshot{X: 1, Y: 1, Facing: "right"},
			Score:            1230,
			Lives:            3,
			Level:            2,
			Phase:            game.PhasePlaying.String(),
			Difficulty:       game.Easy.String(),
			PelletsRemaining: 42,
		},
	}
}

func (m *MockEngine) GetSnapshot() *game.GameSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *MockEngine) SetDirection(d maze.Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directions = append(m.directions, d)
}

func (m *MockEngine) Restart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.gameOver {
		return false
	}
	m.restarts++
	m.gameOver = false
	return true
}

func (m *MockEngine) SetDifficulty(d game.Difficulty) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.difficulty = d
}

func (m *MockEngine) Difficulty() game.Difficulty {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.difficulty
}

func (m *MockEngine) Directions() []maze.Direction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]maze.Direction(nil), m.directions...)
}

// MockScores implements api.ScoresInterface
type MockScores struct {
	top []int
}

func (m *MockScores) TopScores() []int { return m.top }

func (m *MockScores) Rank(score int) int {
	for i, s := range m.top {
		if score >= s {
			return i + 1
		}
	}
	return len(m.top) + 1
}

func newTestServer(t *testing.T, engine api.EngineInterface, scores api.ScoresInterface) *httptest.Server {
	t.Helper()
	router := api.NewRouter(api.RouterConfig{
		Engine:         engine,
		Scores:         scores,
		DisableLogging: true,
		FrameCellSize:  8,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			CleanupInterval:   time.Hour,
		},
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Bad request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

// ============================================================================
// API Endpoint Tests
// ============================================================================

func TestAPIGetState(t *testing.T) {
	ts := newTestServer(t, NewMockEngine(), nil)

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var snap game.GameSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if snap.Score != 1230 || snap.Lives != 3 || snap.Level != 2 {
		t.Errorf("Unexpected snapshot: score=%d lives=%d level=%d", snap.Score, snap.Lives, snap.Level)
	}
	if len(snap.Maze) != 3 {
		t.Errorf("Expected maze rows in state, got %d", len(snap.Maze))
	}
}

func TestAPIGetStateNotReady(t *testing.T) {
	engine := NewMockEngine()
	engine.snap = nil
	ts := newTestServer(t, engine, nil)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/state", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", resp.StatusCode)
	}
}

func TestAPIGetStats(t *testing.T) {
	ts := newTestServer(t, NewMockEngine(), nil)

	resp, result := doJSON(t, http.MethodGet, ts.URL+"/api/stats", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if result["score"] != float64(1230) {
		t.Errorf("Expected score 1230, got %v", result["score"])
	}
	if result["pelletsRemaining"] != float64(42) {
		t.Errorf("Expected 42 pellets, got %v", result["pelletsRemaining"])
	}
	if result["phase"] != "playing" {
		t.Errorf("Expected phase playing, got %v", result["phase"])
	}
}

func TestAPISetDirection(t *testing.T) {
	engine := NewMockEngine()
	ts := newTestServer(t, engine, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"direction": "left"}`, http.StatusOK},
		{"case insensitive", `{"direction": "UP"}`, http.StatusOK},
		{"unknown direction", `{"direction": "sideways"}`, http.StatusBadRequest},
		{"missing direction", `{}`, http.StatusBadRequest},
		{"invalid json", `{invalid}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/input/direction", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}

	got := engine.Directions()
	if len(got) != 2 || got[0] != maze.Left || got[1] != maze.Up {
		t.Errorf("Expected [left up], got %v", got)
	}
}

func TestAPIRestart(t *testing.T) {
	engine := NewMockEngine()
	ts := newTestServer(t, engine, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/restart", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Restart while playing: expected 409, got %d", resp.StatusCode)
	}

	engine.mu.Lock()
	engine.gameOver = true
	engine.mu.Unlock()

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/restart", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Restart after game over: expected 200, got %d", resp.StatusCode)
	}
	engine.mu.Lock()
	restarts := engine.restarts
	engine.mu.Unlock()
	if restarts != 1 {
		t.Errorf("Expected 1 restart, got %d", restarts)
	}
}

func TestAPIDifficulty(t *testing.T) {
	engine := NewMockEngine()
	ts := newTestServer(t, engine, nil)

	resp, result := doJSON(t, http.MethodGet, ts.URL+"/api/difficulty", "")
	if resp.StatusCode != http.StatusOK || result["difficulty"] != "easy" {
		t.Fatalf("Expected easy, got %d %v", resp.StatusCode, result)
	}

	resp, result = doJSON(t, http.MethodPut, ts.URL+"/api/difficulty", `{"difficulty": "hard"}`)
	if resp.StatusCode != http.StatusOK || result["difficulty"] != "hard" {
		t.Fatalf("Expected hard, got %d %v", resp.StatusCode, result)
	}
	if engine.Difficulty() != game.Hard {
		t.Errorf("Engine difficulty not updated: %v", engine.Difficulty())
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/api/difficulty", `{"difficulty": "nightmare"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown difficulty, got %d", resp.StatusCode)
	}
}

func TestAPIHighScores(t *testing.T) {
	scores := &MockScores{top: []int{5000, 2000, 1000}}
	ts := newTestServer(t, NewMockEngine(), scores)

	resp, result := doJSON(t, http.MethodGet, ts.URL+"/api/highscores", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	top, ok := result["topScores"].([]interface{})
	if !ok || len(top) != 3 {
		t.Fatalf("Expected 3 top scores, got %v", result["topScores"])
	}
	// 1230 sits between 2000 and 1000
	if result["currentRank"] != float64(3) {
		t.Errorf("Expected rank 3, got %v", result["currentRank"])
	}
}

func TestAPIHighScoresUnavailable(t *testing.T) {
	ts := newTestServer(t, NewMockEngine(), nil)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/highscores", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", resp.StatusCode)
	}
}

func TestAPIFrame(t *testing.T) {
	ts := newTestServer(t, NewMockEngine(), nil)

	resp, err := http.Get(ts.URL + "/api/frame.png")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Body is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 3*8 {
		t.Errorf("Expected width 24, got %d", img.Bounds().Dx())
	}
}

func TestAPIRateLimit(t *testing.T) {
	router := api.NewRouter(api.RouterConfig{
		Engine:         NewMockEngine(),
		DisableLogging: true,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: 0.001,
			Burst:             2,
			CleanupInterval:   time.Hour,
		},
	})
	ts := httptest.NewServer(router)
	defer ts.Close()

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", last)
	}
}

// ============================================================================
// WebSocket Tests
// ============================================================================

func startWSServer(t *testing.T, engine api.EngineInterface) string {
	t.Helper()
	s := api.NewServer(engine, api.ServerOptions{
		BroadcastInterval: 10 * time.Millisecond,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			CleanupInterval:   time.Hour,
		},
	})
	s.StartWorkers()
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		s.Stop()
		ts.Close()
	})
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebSocketBroadcastJSON(t *testing.T) {
	url := startWSServer(t, NewMockEngine())

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("Expected text frame, got %d", msgType)
	}

	var env struct {
		Event string            `json:"event"`
		Data  game.GameSnapshot `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Event != api.EventGameState || env.Data.Score != 1230 {
		t.Errorf("Unexpected message: %s score=%d", env.Event, env.Data.Score)
	}
}

func TestWebSocketBroadcastMsgpack(t *testing.T) {
	url := startWSServer(t, NewMockEngine())

	conn, _, err := websocket.DefaultDialer.Dial(url+"?format=msgpack", nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("Expected binary frame, got %d", msgType)
	}

	var env struct {
		Event string            `json:"event"`
		Data  game.GameSnapshot `json:"data"`
	}
	if err := api.DecodeMessage(api.FormatMsgpack, data, &env); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Event != api.EventGameState {
		t.Errorf("Expected %s, got %s", api.EventGameState, env.Event)
	}
	if env.Data.SessionID != "session-1" || env.Data.Lives != 3 || len(env.Data.Maze) != 3 {
		t.Errorf("Snapshot fields lost in msgpack: %+v", env.Data)
	}
}

func TestWebSocketCommands(t *testing.T) {
	engine := NewMockEngine()
	url := startWSServer(t, engine)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte("!down"))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"command": "right"}`))
	conn.WriteMessage(websocket.TextMessage, []byte("hello"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(engine.Directions()) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := engine.Directions()
	if len(got) != 2 || got[0] != maze.Down || got[1] != maze.Right {
		t.Errorf("Expected [down right], got %v", got)
	}
}

func TestEncodeMessageFormats(t *testing.T) {
	payload := map[string]int{"score": 10}

	j, err := api.EncodeMessage(api.FormatJSON, "x", payload)
	if err != nil {
		t.Fatalf("JSON encode failed: %v", err)
	}
	m, err := api.EncodeMessage(api.FormatMsgpack, "x", payload)
	if err != nil {
		t.Fatalf("Msgpack encode failed: %v", err)
	}
	if bytes.Equal(j, m) {
		t.Error("Formats should differ on the wire")
	}
	if len(m) >= len(j) {
		t.Errorf("Expected msgpack (%d bytes) smaller than JSON (%d bytes)", len(m), len(j))
	}

	if api.ParseFormat("msgpack") != api.FormatMsgpack || api.ParseFormat("xml") != api.FormatJSON {
		t.Error("ParseFormat mismatch")
	}
}
