package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"codeclash/internal/service"
)

// DailyHandler handles daily-challenge endpoints
type DailyHandler struct {
	dailySvc *service.DailyService
}

// NewDailyHandler creates a new daily challenge handler
func NewDailyHandler(dailySvc *service.DailyService) *DailyHandler {
	return &DailyHandler{dailySvc: dailySvc}
}

// Challenge handles GET /v1/daily
func (h *DailyHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		day = parsed
	}

	exercises, dayKey, err := h.dailySvc.Challenge(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":      dayKey,
		"exercises": exercises,
	})
}

// SubmitScoreRequest is the request body for a daily-challenge result
type SubmitScoreRequest struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	XP       int    `json:"xp"`
}

// SubmitScore handles POST /v1/daily/score
func (h *DailyHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}

	if err := h.dailySvc.SubmitScore(r.Context(), time.Now().UTC(), req.PlayerID, req.Score, req.XP); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Leaderboard handles GET /v1/daily/leaderboard
func (h *DailyHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20)

	entries, err := h.dailySvc.Leaderboard(r.Context(), time.Now().UTC(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// TopXP handles GET /v1/leaderboard/xp
func (h *DailyHandler) TopXP(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20)

	entries, err := h.dailySvc.TopXP(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

func parseLimit(r *http.Request, fallback int) int {
	if s := r.URL.Query().Get("top"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
