package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"maze-chase/internal/game"
	"maze-chase/internal/maze"
	"maze-chase/internal/render"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) snapshot(w http.ResponseWriter) (*game.GameSnapshot, bool) {
	snap := h.engine.GetSnapshot()
	if snap == nil {
		writeError(w, "Game not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, map[string]interface{}{
		"score":            snap.Score,
		"lives":            snap.Lives,
		"level":            snap.Level,
		"phase":            snap.Phase,
		"difficulty":       snap.Difficulty,
		"pelletsRemaining": snap.PelletsRemaining,
		"powerActive":      snap.Power.Active,
		"tick":             snap.TickNumber,
		"sessionId":        snap.SessionID,
	})
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, snap, h.cellSize); err != nil {
		writeError(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleGetHighScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeError(w, "High scores unavailable", http.StatusServiceUnavailable)
		return
	}

	top := h.scores.TopScores()
	result := map[string]interface{}{
		"topScores": top,
	}
	if snap := h.engine.GetSnapshot(); snap != nil {
		result["currentScore"] = snap.Score
		result["currentRank"] = h.scores.Rank(snap.Score)
	}
	writeJSON(w, result)
}

func (h *routerHandlers) handleSetDirection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	dir, err := maze.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.engine.SetDirection(dir)
	writeJSON(w, map[string]interface{}{
		"success":   true,
		"direction": dir.String(),
	})
}

func (h *routerHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Restart() {
		writeError(w, "Restart is only allowed after game over", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]interface{}{"success": true})
}

func (h *routerHandlers) handleGetDifficulty(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"difficulty": h.engine.Difficulty().String()})
}

func (h *routerHandlers) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.engine.SetDifficulty(d)
	writeJSON(w, map[string]string{"difficulty": d.String()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
