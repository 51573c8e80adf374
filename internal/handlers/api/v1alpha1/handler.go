// Package v1alpha1 exposes the escape game service over HTTP. The
// handlers are a thin boundary: decode the request, call the
// orchestrator, encode the response. All game rules live below.
package v1alpha1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	"github.com/gamelearn/escape-api/internal/orchestrators/escapegame"
)

const playerIDHeader = "X-Player-ID"

// Config contains the dependencies for the handler
type Config struct {
	Service escapegame.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Service == nil {
		return errors.InvalidArgument("service is required")
	}
	return nil
}

// Handler serves the v1alpha1 HTTP API
type Handler struct {
	service escapegame.Service
}

// NewHandler creates a new HTTP handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{service: cfg.Service}, nil
}

// Register mounts all v1alpha1 routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1alpha1/escape-rooms", h.createEscapeRoom)
	mux.HandleFunc("GET /api/v1alpha1/escape-rooms", h.listEscapeRooms)
	mux.HandleFunc("GET /api/v1alpha1/escape-rooms/{id}", h.getEscapeRoom)
	mux.HandleFunc("POST /api/v1alpha1/escape-rooms/{id}/start", h.startGame)
	mux.HandleFunc("GET /api/v1alpha1/sessions", h.listSessions)
	mux.HandleFunc("GET /api/v1alpha1/sessions/{id}", h.getSession)
	mux.HandleFunc("POST /api/v1alpha1/sessions/{id}/move", h.moveToRoom)
	mux.HandleFunc("POST /api/v1alpha1/sessions/{id}/solve", h.solvePuzzle)
	mux.HandleFunc("POST /api/v1alpha1/sessions/{id}/interact", h.interactWithItem)
	mux.HandleFunc("POST /api/v1alpha1/sessions/{id}/hint", h.requestHint)
	mux.HandleFunc("POST /api/v1alpha1/sessions/{id}/complete", h.completeGame)
	mux.HandleFunc("GET /api/v1alpha1/sessions/{id}/events", h.listEvents)
}

func (h *Handler) createEscapeRoom(w http.ResponseWriter, r *http.Request) {
	var def entities.EscapeRoom
	if err := decodeJSON(r, &def); err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.CreateEscapeRoom(r.Context(), &escapegame.CreateEscapeRoomInput{
		EscapeRoom: &def,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, redactEscapeRoom(output.EscapeRoom))
}

func (h *Handler) listEscapeRooms(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.ListEscapeRooms(r.Context(), &escapegame.ListEscapeRoomsInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}

	rooms := make([]*entities.EscapeRoom, 0, len(output.EscapeRooms))
	for _, def := range output.EscapeRooms {
		rooms = append(rooms, redactEscapeRoom(def))
	}
	writeJSON(w, r, http.StatusOK, listEscapeRoomsResponse{EscapeRooms: rooms})
}

func (h *Handler) getEscapeRoom(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.GetEscapeRoom(r.Context(), &escapegame.GetEscapeRoomInput{
		ID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, redactEscapeRoom(output.EscapeRoom))
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.StartGame(r.Context(), &escapegame.StartGameInput{
		PlayerID:     playerID,
		EscapeRoomID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, sessionResponse{Session: output.Session})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.ListSessions(r.Context(), &escapegame.ListSessionsInput{
		PlayerID: playerID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, listSessionsResponse{Sessions: output.Sessions})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.GetSession(r.Context(), &escapegame.GetSessionInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse{Session: output.Session})
}

func (h *Handler) moveToRoom(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.MoveToRoom(r.Context(), &escapegame.MoveToRoomInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
		RoomID:    req.RoomID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse{Session: output.Session})
}

func (h *Handler) solvePuzzle(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req solveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.SolvePuzzle(r.Context(), &escapegame.SolvePuzzleInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
		PuzzleID:  req.PuzzleID,
		Attempt:   req.SolutionAttempt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, solveResponse{
		Success:       output.Success,
		AlreadySolved: output.AlreadySolved,
		Message:       output.Message,
		UnlockedRooms: output.UnlockedRooms,
		Session:       output.Session,
	})
}

func (h *Handler) interactWithItem(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req interactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.InteractWithItem(r.Context(), &escapegame.InteractWithItemInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
		ItemID:    req.ItemID,
		Action:    escapegame.ItemAction(req.Action),
		TargetID:  req.TargetID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, interactResponse{
		Success:    output.Success,
		Message:    output.Message,
		Effect:     output.Effect,
		Item:       output.Item,
		ResultItem: output.ResultItem,
		Session:    output.Session,
	})
}

func (h *Handler) requestHint(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req hintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.RequestHint(r.Context(), &escapegame.RequestHintInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
		PuzzleID:  req.PuzzleID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, hintResponse{
		Hint:      output.Hint,
		HintsUsed: output.HintsUsed,
		Session:   output.Session,
	})
}

func (h *Handler) completeGame(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.CompleteGame(r.Context(), &escapegame.CompleteGameInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse{Session: output.Session})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	playerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.service.ListEvents(r.Context(), &escapegame.ListEventsInput{
		PlayerID:  playerID,
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, listEventsResponse{Events: output.Events})
}

func callerID(r *http.Request) (string, error) {
	playerID := r.Header.Get(playerIDHeader)
	if playerID == "" {
		return "", errors.Unauthenticated("missing " + playerIDHeader + " header")
	}
	return playerID, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidArgumentf("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.WarnContext(r.Context(), "failed to encode response",
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"code", code.String(),
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    code.String(),
		Message: errors.GetMessage(err),
	})
}
