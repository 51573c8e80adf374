package engine

import (
	"github.com/gamelearn/escape-api/internal/entities"
)

// StartSessionInput defines the request for starting a session
type StartSessionInput struct {
	Definition *entities.EscapeRoom
}

// StartSessionOutput carries the seeded state for a new session
type StartSessionOutput struct {
	CurrentRoomID string
	State         entities.SessionState
	Events        []entities.GameEvent
}

// MoveToRoomInput defines the request for moving between rooms
type MoveToRoomInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	RoomID     string
}

// MoveToRoomOutput carries the events of a successful move
type MoveToRoomOutput struct {
	Events []entities.GameEvent
}

// AttemptPuzzleInput defines the request for a puzzle solution attempt
type AttemptPuzzleInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	PuzzleID   string
	Attempt    entities.Solution
}

// AttemptPuzzleOutput reports the outcome of a puzzle attempt. A wrong
// solution is a negative result, not an error.
type AttemptPuzzleOutput struct {
	Success       bool
	AlreadySolved bool
	Message       string
	UnlockedRooms []string // rooms newly unlocked by this solve
	Events        []entities.GameEvent
}

// CollectItemInput defines the request for collecting an item
type CollectItemInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	ItemID     string
}

// CollectItemOutput reports a successful collection
type CollectItemOutput struct {
	Item    *entities.InventoryItem
	Message string
	Events  []entities.GameEvent
}

// UseItemInput defines the request for using a held item. TargetID may
// be empty to inspect the item, or name a puzzle or item in the
// current room.
type UseItemInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	ItemID     string
	TargetID   string
}

// UseItemOutput reports the outcome of using an item
type UseItemOutput struct {
	Success bool
	Message string
	Effect  string // "puzzle_unlocked" when the puzzle's required item matched
	Item    *entities.InventoryItem
	Events  []entities.GameEvent
}

// CombineItemsInput defines the request for combining two held items
type CombineItemsInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	ItemID     string
	TargetID   string
}

// CombineItemsOutput reports the outcome of a combination. Items that
// cannot combine are a negative result, not an error.
type CombineItemsOutput struct {
	Combined   bool
	Message    string
	ResultItem *entities.InventoryItem
	Events     []entities.GameEvent
}

// RequestHintInput defines the request for a puzzle hint
type RequestHintInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
	PuzzleID   string
}

// RequestHintOutput carries the hint text and the updated counter
type RequestHintOutput struct {
	Hint      string
	HintsUsed int
	Events    []entities.GameEvent
}

// CompleteSessionInput defines the request for completing a session
type CompleteSessionInput struct {
	Definition *entities.EscapeRoom
	Session    *entities.GameSession
}

// CompleteSessionOutput carries the events of a successful completion
type CompleteSessionOutput struct {
	Events []entities.GameEvent
}
