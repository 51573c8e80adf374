package entities

// Condition type tags. Unlock conditions gate room connections, reveal
// conditions gate visibility of hidden items.
const (
	ConditionPuzzleSolved     = "puzzle_solved"
	ConditionAllPuzzlesSolved = "all_puzzles_solved"
	ConditionItemInInventory  = "item_in_inventory"
)

// UnlockCondition gates a locked connection. Type is either
// ConditionPuzzleSolved (PuzzleID must be solved) or
// ConditionAllPuzzlesSolved (every puzzle in the connection's from-room
// must be solved).
type UnlockCondition struct {
	Type     string `json:"type"`
	PuzzleID string `json:"puzzle_id,omitempty"`
}

// RevealCondition gates a hidden item placement. Type is either
// ConditionPuzzleSolved or ConditionItemInInventory.
type RevealCondition struct {
	Type     string `json:"type"`
	PuzzleID string `json:"puzzle_id,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
}
