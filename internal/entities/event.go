package entities

import "time"

// Event types appended by the session state machine.
const (
	EventGameStarted   = "game_started"
	EventRoomChanged   = "room_changed"
	EventPuzzleAttempt = "puzzle_attempt"
	EventItemCollected = "item_collected"
	EventItemUsed      = "item_used"
	EventItemsCombined = "items_combined"
	EventHintRequested = "hint_requested"
	EventGameCompleted = "game_completed"
)

// GameEvent is an immutable audit record of one state transition.
// Events are exclusively owned by their session, appended in order,
// and never mutated after creation.
type GameEvent struct {
	SessionID string                 `json:"session_id"`
	Type      string                 `json:"event_type"`
	Data      map[string]interface{} `json:"event_data"`
	Timestamp time.Time              `json:"timestamp"`
}
