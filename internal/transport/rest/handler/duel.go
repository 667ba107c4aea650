package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"codeclash/internal/model"
	"codeclash/internal/service"
	"codeclash/internal/transport/rest/middleware"
)

// DuelHandler handles duel endpoints
type DuelHandler struct {
	duelSvc *service.DuelService
	authSvc *service.AuthService
}

// NewDuelHandler creates a new duel handler
func NewDuelHandler(duelSvc *service.DuelService, authSvc *service.AuthService) *DuelHandler {
	return &DuelHandler{
		duelSvc: duelSvc,
		authSvc: authSvc,
	}
}

// CreateDuelRequest is the request body for creating a duel
type CreateDuelRequest struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// DuelResponse carries the record snapshot plus the caller's credentials.
type DuelResponse struct {
	Duel     *model.Duel `json:"duel"`
	PlayerID string      `json:"playerId"`
	Token    string      `json:"token"`
}

// Create handles POST /v1/duels
func (h *DuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	duel, err := h.duelSvc.CreateDuel(r.Context(), req.PlayerID, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(duel.Code, duel.Host.PlayerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, DuelResponse{
		Duel:     duel,
		PlayerID: duel.Host.PlayerID,
		Token:    token,
	})
}

// JoinRequest is the request body for joining a duel
type JoinRequest struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// Join handles POST /v1/duels/{code}/join
func (h *DuelHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	duel, err := h.duelSvc.JoinDuel(r.Context(), code, req.PlayerID, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(duel.Code, duel.Guest.PlayerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DuelResponse{
		Duel:     duel,
		PlayerID: duel.Guest.PlayerID,
		Token:    token,
	})
}

// Get handles GET /v1/duels/{code}
func (h *DuelHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	duel, err := h.duelSvc.GetDuel(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, duel)
}

// Ready handles POST /v1/duels/{code}/ready
func (h *DuelHandler) Ready(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !h.tokenMatches(w, r, code) {
		return
	}

	if err := h.duelSvc.SetReady(r.Context(), code, middleware.GetPlayerID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Score handles PATCH /v1/duels/{code}/score
func (h *DuelHandler) Score(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !h.tokenMatches(w, r, code) {
		return
	}

	var update model.ScoreUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.duelSvc.UpdateScore(r.Context(), code, middleware.GetPlayerID(r.Context()), update); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /v1/duels/{code}
func (h *DuelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !h.tokenMatches(w, r, code) {
		return
	}

	if err := h.duelSvc.DeleteDuel(r.Context(), code, middleware.GetPlayerID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DuelHandler) tokenMatches(w http.ResponseWriter, r *http.Request, code string) bool {
	if middleware.GetDuelCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this duel")
		return false
	}
	return true
}
