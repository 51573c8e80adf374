package entities

// InventoryItem is a collectable item belonging to one escape room
// definition. When CanBeCombined is set and CombinationResultID names
// another item, this item is a component of that result; the other
// components are the items sharing the same CombinationResultID.
type InventoryItem struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	CanBeCombined       bool   `json:"can_be_combined"`
	CombinationResultID string `json:"combination_result_id,omitempty"`
}

// ItemLocation places an item in a room. Hidden placements are only
// collectable once their reveal condition is met; a hidden placement
// with no condition is never collectable.
type ItemLocation struct {
	ItemID          string           `json:"item_id"`
	IsHidden        bool             `json:"is_hidden"`
	RevealCondition *RevealCondition `json:"reveal_condition,omitempty"`
}
