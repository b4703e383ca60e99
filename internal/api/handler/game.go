package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pokertable/pokertable/internal/api/middleware"
	"github.com/pokertable/pokertable/internal/api/request"
	"github.com/pokertable/pokertable/internal/api/response"
	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/services/table"
)

// GameHandler handles game endpoints
type GameHandler struct {
	tableController *table.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(tableController *table.Controller) *GameHandler {
	return &GameHandler{
		tableController: tableController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	game, err := h.tableController.CreateGame(r.Context(), req.Name, req.BuyIn, req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.tableController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.tableController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; the display name is a fine default
		req = request.JoinGameRequest{}
	}
	if req.Name == "" {
		req.Name = account.DisplayName
	}

	player, err := h.tableController.JoinGame(r.Context(), id, account.Identity, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// PlaceBet handles POST /api/v1/games/{id}/bet
func (h *GameHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var req request.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.tableController.PlaceBet(r.Context(), id, account.Identity, req.Amount); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.tableController.GetPlayer(r.Context(), id, account.Identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Fold handles POST /api/v1/games/{id}/fold
func (h *GameHandler) Fold(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	if err := h.tableController.FoldHand(r.Context(), id, account.Identity); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.tableController.GetPlayer(r.Context(), id, account.Identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ListPlayers handles GET /api/v1/games/{id}/players
func (h *GameHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	players, err := h.tableController.ListPlayers(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}
