package entities

// Room is one room within an escape room definition.
type Room struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	IsStartingRoom bool           `json:"is_starting_room"`
	IsFinalRoom    bool           `json:"is_final_room"`
	Order          int            `json:"order"`
	Puzzles        []Puzzle       `json:"puzzles"`
	Items          []ItemLocation `json:"items"`
}

// Puzzle returns the puzzle with the given ID in this room, or nil.
func (r *Room) Puzzle(puzzleID string) *Puzzle {
	for i := range r.Puzzles {
		if r.Puzzles[i].ID == puzzleID {
			return &r.Puzzles[i]
		}
	}
	return nil
}

// ItemLocation returns the placement of the given item in this room,
// or nil when the item is not placed here.
func (r *Room) ItemLocation(itemID string) *ItemLocation {
	for i := range r.Items {
		if r.Items[i].ItemID == itemID {
			return &r.Items[i]
		}
	}
	return nil
}

// Connection is a one-directional link between two rooms, optionally
// gated by an unlock condition. Unlocking from -> to does not imply the
// reverse.
type Connection struct {
	FromRoomID      string           `json:"from_room_id"`
	ToRoomID        string           `json:"to_room_id"`
	IsLocked        bool             `json:"is_locked"`
	UnlockCondition *UnlockCondition `json:"unlock_condition,omitempty"`
}
