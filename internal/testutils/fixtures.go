package testutils

import (
	"time"

	"github.com/gamelearn/escape-api/internal/entities"
)

// IDs used by the test escape room fixture.
const (
	TestEscapeRoomID = "room-def-1"

	TestRoomLab   = "lab"   // starting room
	TestRoomVault = "vault" // final room, locked behind the door code

	TestPuzzleDoorCode = "door-code" // CODE puzzle, answer 1234
	TestPuzzleWiring   = "wiring"    // SEQUENCE puzzle in the vault

	TestItemUVLight    = "uv-light"
	TestItemKeyHalfA   = "key-half-a"
	TestItemKeyHalfB   = "key-half-b"
	TestItemMasterKey  = "master-key"
	TestItemSecretNote = "secret-note" // hidden until the UV light is held
)

// NewTestEscapeRoom builds a small playable definition: a lab with a
// door-code puzzle and a vault behind it. It covers hidden items,
// reveal conditions, combinable items, and a locked connection.
func NewTestEscapeRoom() *entities.EscapeRoom {
	return &entities.EscapeRoom{
		ID:               TestEscapeRoomID,
		Title:            "Chemistry Lab Escape",
		Description:      "Escape the lab before the experiment goes wrong.",
		Difficulty:       2,
		Subject:          "chemistry",
		TimeLimitMinutes: 30,
		IsPublished:      true,
		CreatedAt:        time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		Rooms: []entities.Room{
			{
				ID:             TestRoomLab,
				Name:           "Laboratory",
				Description:    "Workbenches and a locked vault door.",
				IsStartingRoom: true,
				Order:          1,
				Puzzles: []entities.Puzzle{
					{
						ID:       TestPuzzleDoorCode,
						Title:    "Vault Door Code",
						Type:     entities.PuzzleTypeCode,
						Config:   entities.PuzzleConfig{RequiredItem: TestItemUVLight},
						Solution: entities.Solution{Code: "1234"},
						HintText: "The code is written in invisible ink.",
					},
				},
				Items: []entities.ItemLocation{
					{ItemID: TestItemUVLight},
					{ItemID: TestItemKeyHalfA},
					{ItemID: TestItemKeyHalfB},
					{
						ItemID:   TestItemSecretNote,
						IsHidden: true,
						RevealCondition: &entities.RevealCondition{
							Type:   entities.ConditionItemInInventory,
							ItemID: TestItemUVLight,
						},
					},
				},
			},
			{
				ID:          TestRoomVault,
				Name:        "Vault",
				Description: "The exit is here.",
				IsFinalRoom: true,
				Order:       2,
				Puzzles: []entities.Puzzle{
					{
						ID:       TestPuzzleWiring,
						Title:    "Rewire the Exit",
						Type:     entities.PuzzleTypeSequence,
						Solution: entities.Solution{Sequence: []string{"red", "green", "blue"}},
						HintText: "Follow the rainbow.",
					},
				},
			},
		},
		Connections: []entities.Connection{
			{
				FromRoomID: TestRoomLab,
				ToRoomID:   TestRoomVault,
				IsLocked:   true,
				UnlockCondition: &entities.UnlockCondition{
					Type:     entities.ConditionPuzzleSolved,
					PuzzleID: TestPuzzleDoorCode,
				},
			},
		},
		Items: []entities.InventoryItem{
			{ID: TestItemUVLight, Name: "UV Light"},
			{
				ID:                  TestItemKeyHalfA,
				Name:                "Key Half A",
				CanBeCombined:       true,
				CombinationResultID: TestItemMasterKey,
			},
			{
				ID:                  TestItemKeyHalfB,
				Name:                "Key Half B",
				CanBeCombined:       true,
				CombinationResultID: TestItemMasterKey,
			},
			{ID: TestItemMasterKey, Name: "Master Key"},
			{ID: TestItemSecretNote, Name: "Secret Note"},
		},
	}
}

// NewTestSession builds a fresh session positioned in the starting room
// of the fixture definition.
func NewTestSession(sessionID, playerID string) *entities.GameSession {
	return &entities.GameSession{
		ID:            sessionID,
		PlayerID:      playerID,
		EscapeRoomID:  TestEscapeRoomID,
		CurrentRoomID: TestRoomLab,
		StartTime:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		State:         entities.NewSessionState(TestRoomLab),
		Version:       1,
	}
}
