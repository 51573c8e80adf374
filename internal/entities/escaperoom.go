// Package entities provides the core data structures for escape-api.
package entities

import (
	"time"
)

// EscapeRoom is a game definition: the static collection of rooms,
// connections, puzzles, and items describing one playable escape room.
// It is reference data, immutable for the lifetime of any session
// playing it.
type EscapeRoom struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Difficulty       int             `json:"difficulty"` // 1 easy, 2 medium, 3 hard
	Theme            string          `json:"theme,omitempty"`
	Subject          string          `json:"subject,omitempty"`
	GradeLevel       string          `json:"grade_level,omitempty"`
	TimeLimitMinutes int             `json:"time_limit_minutes"`
	IsPublished      bool            `json:"is_published"`
	CreatedAt        time.Time       `json:"created_at"`
	Rooms            []Room          `json:"rooms"`
	Connections      []Connection    `json:"connections"`
	Items            []InventoryItem `json:"items"`
}

// StartingRoom returns the first room flagged as a starting room, or
// nil when none exists. Exactly-one is not enforced; the first match
// wins, matching the original behavior.
func (e *EscapeRoom) StartingRoom() *Room {
	for i := range e.Rooms {
		if e.Rooms[i].IsStartingRoom {
			return &e.Rooms[i]
		}
	}
	return nil
}

// Room returns the room with the given ID, or nil.
func (e *EscapeRoom) Room(roomID string) *Room {
	for i := range e.Rooms {
		if e.Rooms[i].ID == roomID {
			return &e.Rooms[i]
		}
	}
	return nil
}

// Puzzle returns the puzzle with the given ID from any room, or nil.
func (e *EscapeRoom) Puzzle(puzzleID string) *Puzzle {
	for i := range e.Rooms {
		if p := e.Rooms[i].Puzzle(puzzleID); p != nil {
			return p
		}
	}
	return nil
}

// Item returns the inventory item with the given ID, or nil.
func (e *EscapeRoom) Item(itemID string) *InventoryItem {
	for i := range e.Items {
		if e.Items[i].ID == itemID {
			return &e.Items[i]
		}
	}
	return nil
}

// ConnectionsFrom returns every connection leaving the given room.
func (e *EscapeRoom) ConnectionsFrom(roomID string) []*Connection {
	var out []*Connection
	for i := range e.Connections {
		if e.Connections[i].FromRoomID == roomID {
			out = append(out, &e.Connections[i])
		}
	}
	return out
}

// CombinationResult reports whether holding itemID and otherID allows a
// combination in the itemID -> result direction. otherID qualifies as a
// component when it combines into the same result item.
func (e *EscapeRoom) CombinationResult(itemID, otherID string) (*InventoryItem, bool) {
	item := e.Item(itemID)
	other := e.Item(otherID)
	if item == nil || other == nil {
		return nil, false
	}
	if !item.CanBeCombined || item.CombinationResultID == "" {
		return nil, false
	}
	if other.CombinationResultID != item.CombinationResultID {
		return nil, false
	}
	result := e.Item(item.CombinationResultID)
	if result == nil {
		return nil, false
	}
	return result, true
}
