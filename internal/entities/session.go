package entities

import (
	"slices"
	"time"
)

// GameSession is one player's live progress through an escape room.
// Version increments on every persisted mutation; the session
// repository rejects writes whose expected version does not match the
// stored one.
type GameSession struct {
	ID               string       `json:"id"`
	PlayerID         string       `json:"player_id"`
	EscapeRoomID     string       `json:"escape_room_id"`
	CurrentRoomID    string       `json:"current_room_id"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          *time.Time   `json:"end_time,omitempty"`
	IsCompleted      bool         `json:"is_completed"`
	TimeSpentSeconds int          `json:"time_spent_seconds"`
	State            SessionState `json:"game_state"`
	Version          int64        `json:"version"`
}

// SessionState is the mutable state bag of a session. Membership is by
// string identity of the IDs. Unlocked rooms only ever grow.
type SessionState struct {
	Inventory     []string `json:"inventory"`
	SolvedPuzzles []string `json:"solved_puzzles"`
	UnlockedRooms []string `json:"unlocked_rooms"`
	HintsUsed     int      `json:"hints_used"`
}

// NewSessionState returns a state seeded with the starting room
// unlocked.
func NewSessionState(startingRoomID string) SessionState {
	return SessionState{
		Inventory:     []string{},
		SolvedPuzzles: []string{},
		UnlockedRooms: []string{startingRoomID},
	}
}

// HasItem reports whether the item is in the inventory.
func (s *SessionState) HasItem(itemID string) bool {
	return slices.Contains(s.Inventory, itemID)
}

// HasSolved reports whether the puzzle is solved.
func (s *SessionState) HasSolved(puzzleID string) bool {
	return slices.Contains(s.SolvedPuzzles, puzzleID)
}

// IsUnlocked reports whether the room is unlocked.
func (s *SessionState) IsUnlocked(roomID string) bool {
	return slices.Contains(s.UnlockedRooms, roomID)
}

// AddItem adds an item to the inventory if not already held.
func (s *SessionState) AddItem(itemID string) {
	if !s.HasItem(itemID) {
		s.Inventory = append(s.Inventory, itemID)
	}
}

// RemoveItem removes an item from the inventory if held.
func (s *SessionState) RemoveItem(itemID string) {
	if i := slices.Index(s.Inventory, itemID); i >= 0 {
		s.Inventory = slices.Delete(s.Inventory, i, i+1)
	}
}

// MarkSolved records a solved puzzle once.
func (s *SessionState) MarkSolved(puzzleID string) {
	if !s.HasSolved(puzzleID) {
		s.SolvedPuzzles = append(s.SolvedPuzzles, puzzleID)
	}
}

// UnlockRoom records an unlocked room once. Rooms are never re-locked.
func (s *SessionState) UnlockRoom(roomID string) {
	if !s.IsUnlocked(roomID) {
		s.UnlockedRooms = append(s.UnlockedRooms, roomID)
	}
}
