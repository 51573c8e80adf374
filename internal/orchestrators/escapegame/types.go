package escapegame

import (
	"github.com/gamelearn/escape-api/internal/entities"
)

// ItemAction enumerates the item interaction actions.
type ItemAction string

// Supported item actions
const (
	ActionCollect ItemAction = "collect"
	ActionUse     ItemAction = "use"
	ActionCombine ItemAction = "combine"
)

// CreateEscapeRoomInput defines the request for creating a definition
type CreateEscapeRoomInput struct {
	EscapeRoom *entities.EscapeRoom
}

// CreateEscapeRoomOutput carries the stored definition
type CreateEscapeRoomOutput struct {
	EscapeRoom *entities.EscapeRoom
}

// GetEscapeRoomInput defines the request for fetching a definition
type GetEscapeRoomInput struct {
	ID string
}

// GetEscapeRoomOutput carries the definition
type GetEscapeRoomOutput struct {
	EscapeRoom *entities.EscapeRoom
}

// ListEscapeRoomsInput defines the request for listing published definitions
type ListEscapeRoomsInput struct{}

// ListEscapeRoomsOutput carries the published definitions
type ListEscapeRoomsOutput struct {
	EscapeRooms []*entities.EscapeRoom
}

// StartGameInput defines the request for starting a session
type StartGameInput struct {
	PlayerID     string
	EscapeRoomID string
}

// StartGameOutput carries the new session
type StartGameOutput struct {
	Session *entities.GameSession
}

// GetSessionInput defines the request for fetching a session
type GetSessionInput struct {
	PlayerID  string
	SessionID string
}

// GetSessionOutput carries the session
type GetSessionOutput struct {
	Session *entities.GameSession
}

// ListSessionsInput defines the request for listing a player's sessions
type ListSessionsInput struct {
	PlayerID string
}

// ListSessionsOutput carries the player's sessions
type ListSessionsOutput struct {
	Sessions []*entities.GameSession
}

// MoveToRoomInput defines the request for moving between rooms
type MoveToRoomInput struct {
	PlayerID  string
	SessionID string
	RoomID    string
}

// MoveToRoomOutput carries the updated session
type MoveToRoomOutput struct {
	Session *entities.GameSession
}

// SolvePuzzleInput defines the request for a puzzle solution attempt
type SolvePuzzleInput struct {
	PlayerID  string
	SessionID string
	PuzzleID  string
	Attempt   entities.Solution
}

// SolvePuzzleOutput reports the attempt outcome and the updated session
type SolvePuzzleOutput struct {
	Success       bool
	AlreadySolved bool
	Message       string
	UnlockedRooms []string
	Session       *entities.GameSession
}

// InteractWithItemInput defines the request for an item interaction.
// TargetID is required for combine, optional for use, ignored for
// collect.
type InteractWithItemInput struct {
	PlayerID  string
	SessionID string
	ItemID    string
	Action    ItemAction
	TargetID  string
}

// InteractWithItemOutput reports the interaction outcome. Item carries
// the collected/inspected item, ResultItem the combination result.
type InteractWithItemOutput struct {
	Success    bool
	Message    string
	Effect     string
	Item       *entities.InventoryItem
	ResultItem *entities.InventoryItem
	Session    *entities.GameSession
}

// RequestHintInput defines the request for a puzzle hint
type RequestHintInput struct {
	PlayerID  string
	SessionID string
	PuzzleID  string
}

// RequestHintOutput carries the hint and the updated counter
type RequestHintOutput struct {
	Hint      string
	HintsUsed int
	Session   *entities.GameSession
}

// CompleteGameInput defines the request for completing a session
type CompleteGameInput struct {
	PlayerID  string
	SessionID string
}

// CompleteGameOutput carries the completed session
type CompleteGameOutput struct {
	Session *entities.GameSession
}

// ListEventsInput defines the request for a session's event log
type ListEventsInput struct {
	PlayerID  string
	SessionID string
}

// ListEventsOutput carries the events in append order
type ListEventsOutput struct {
	Events []entities.GameEvent
}
