package v1alpha1

import (
	"github.com/gamelearn/escape-api/internal/entities"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type listEscapeRoomsResponse struct {
	EscapeRooms []*entities.EscapeRoom `json:"escape_rooms"`
}

type sessionResponse struct {
	Session *entities.GameSession `json:"session"`
}

type listSessionsResponse struct {
	Sessions []*entities.GameSession `json:"sessions"`
}

type moveRequest struct {
	RoomID string `json:"room_id"`
}

type solveRequest struct {
	PuzzleID        string            `json:"puzzle_id"`
	SolutionAttempt entities.Solution `json:"solution_attempt"`
}

type solveResponse struct {
	Success       bool                  `json:"success"`
	AlreadySolved bool                  `json:"already_solved"`
	Message       string                `json:"message"`
	UnlockedRooms []string              `json:"unlocked_rooms,omitempty"`
	Session       *entities.GameSession `json:"session"`
}

type interactRequest struct {
	ItemID   string `json:"item_id"`
	Action   string `json:"action"`
	TargetID string `json:"target_id,omitempty"`
}

type interactResponse struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Effect     string                  `json:"effect,omitempty"`
	Item       *entities.InventoryItem `json:"item,omitempty"`
	ResultItem *entities.InventoryItem `json:"result_item,omitempty"`
	Session    *entities.GameSession   `json:"session"`
}

type hintRequest struct {
	PuzzleID string `json:"puzzle_id"`
}

type hintResponse struct {
	Hint      string                `json:"hint"`
	HintsUsed int                   `json:"hints_used"`
	Session   *entities.GameSession `json:"session"`
}

type listEventsResponse struct {
	Events []entities.GameEvent `json:"events"`
}

// redactEscapeRoom strips stored puzzle solutions from a definition
// before it leaves the API. Players must never see the answers; the
// copy keeps the stored definition untouched.
func redactEscapeRoom(def *entities.EscapeRoom) *entities.EscapeRoom {
	if def == nil {
		return nil
	}

	redacted := *def
	redacted.Rooms = make([]entities.Room, len(def.Rooms))
	for i, room := range def.Rooms {
		redacted.Rooms[i] = room
		redacted.Rooms[i].Puzzles = make([]entities.Puzzle, len(room.Puzzles))
		for j, puzzle := range room.Puzzles {
			puzzle.Solution = entities.Solution{}
			redacted.Rooms[i].Puzzles[j] = puzzle
		}
	}
	return &redacted
}
