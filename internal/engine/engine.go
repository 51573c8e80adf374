package engine

import (
	"fmt"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
	"github.com/gamelearn/escape-api/internal/pkg/clock"
)

// Config holds the dependencies for the engine
type Config struct {
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type escapeEngine struct {
	clock clock.Clock
}

// New creates the escape room engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &escapeEngine{clock: cfg.Clock}, nil
}

// Ensure escapeEngine implements Engine
var _ Engine = (*escapeEngine)(nil)

func (e *escapeEngine) StartSession(input *StartSessionInput) (*StartSessionOutput, error) {
	starting := input.Definition.StartingRoom()
	if starting == nil {
		return nil, errors.FailedPrecondition("this escape room has no starting room defined")
	}

	return &StartSessionOutput{
		CurrentRoomID: starting.ID,
		State:         entities.NewSessionState(starting.ID),
		Events: []entities.GameEvent{{
			Type: entities.EventGameStarted,
			Data: map[string]interface{}{"room_id": starting.ID},
		}},
	}, nil
}

func (e *escapeEngine) MoveToRoom(input *MoveToRoomInput) (*MoveToRoomOutput, error) {
	target := input.Definition.Room(input.RoomID)
	if target == nil {
		return nil, errors.NotFoundf("room %s not found in this escape room", input.RoomID).
			WithMeta("room_id", input.RoomID)
	}

	// Movement is gated by the unlocked-room set alone; connections are
	// not consulted, so adjacency is not required.
	if !input.Session.State.IsUnlocked(target.ID) {
		return nil, errors.PermissionDeniedf("room %s is locked", target.ID).
			WithMeta("room_id", target.ID)
	}

	input.Session.CurrentRoomID = target.ID

	return &MoveToRoomOutput{
		Events: []entities.GameEvent{{
			Type: entities.EventRoomChanged,
			Data: map[string]interface{}{"room_id": target.ID},
		}},
	}, nil
}

func (e *escapeEngine) AttemptPuzzle(input *AttemptPuzzleInput) (*AttemptPuzzleOutput, error) {
	current := input.Definition.Room(input.Session.CurrentRoomID)
	if current == nil || current.Puzzle(input.PuzzleID) == nil {
		return nil, errors.NotFoundf("puzzle %s not found in current room", input.PuzzleID).
			WithMeta("puzzle_id", input.PuzzleID)
	}
	puzzle := current.Puzzle(input.PuzzleID)

	// Repeated attempts after a solve are a no-op and log nothing.
	if input.Session.State.HasSolved(puzzle.ID) {
		return &AttemptPuzzleOutput{
			AlreadySolved: true,
			Message:       "this puzzle is already solved",
		}, nil
	}

	correct := puzzle.CheckSolution(input.Attempt)

	out := &AttemptPuzzleOutput{
		Success: correct,
		Events: []entities.GameEvent{{
			Type: entities.EventPuzzleAttempt,
			Data: map[string]interface{}{
				"puzzle_id": puzzle.ID,
				"success":   correct,
			},
		}},
	}

	if !correct {
		out.Message = "incorrect solution"
		return out, nil
	}

	out.Message = "puzzle solved correctly"
	input.Session.State.MarkSolved(puzzle.ID)
	out.UnlockedRooms = e.evaluateUnlocks(input.Definition, current, &input.Session.State)

	return out, nil
}

// evaluateUnlocks runs over every locked connection leaving the current
// room and unlocks destinations whose condition is now met. Connections
// without a condition are never auto-unlocked. Returns the newly
// unlocked room IDs; the unlocked set only ever grows.
func (e *escapeEngine) evaluateUnlocks(
	def *entities.EscapeRoom,
	current *entities.Room,
	state *entities.SessionState,
) []string {
	var unlocked []string
	for _, conn := range def.ConnectionsFrom(current.ID) {
		if !conn.IsLocked || conn.UnlockCondition == nil {
			continue
		}

		met := false
		switch conn.UnlockCondition.Type {
		case entities.ConditionPuzzleSolved:
			met = state.HasSolved(conn.UnlockCondition.PuzzleID)
		case entities.ConditionAllPuzzlesSolved:
			met = true
			for i := range current.Puzzles {
				if !state.HasSolved(current.Puzzles[i].ID) {
					met = false
					break
				}
			}
		}

		if met && !state.IsUnlocked(conn.ToRoomID) {
			state.UnlockRoom(conn.ToRoomID)
			unlocked = append(unlocked, conn.ToRoomID)
		}
	}
	return unlocked
}

func (e *escapeEngine) CollectItem(input *CollectItemInput) (*CollectItemOutput, error) {
	current := input.Definition.Room(input.Session.CurrentRoomID)
	var location *entities.ItemLocation
	if current != nil {
		location = current.ItemLocation(input.ItemID)
	}
	if location == nil {
		return nil, errors.NotFoundf("item %s not found in current room", input.ItemID).
			WithMeta("item_id", input.ItemID)
	}

	if location.IsHidden && !revealConditionMet(location.RevealCondition, &input.Session.State) {
		return nil, errors.FailedPrecondition("this item is not available yet").
			WithMeta("item_id", input.ItemID)
	}

	input.Session.State.AddItem(input.ItemID)

	item := input.Definition.Item(input.ItemID)
	message := "item added to inventory"
	if item != nil {
		message = fmt.Sprintf("added %s to inventory", item.Name)
	}

	return &CollectItemOutput{
		Item:    item,
		Message: message,
		Events: []entities.GameEvent{{
			Type: entities.EventItemCollected,
			Data: map[string]interface{}{"item_id": input.ItemID},
		}},
	}, nil
}

// revealConditionMet evaluates a hidden placement's reveal condition.
// A nil or unrecognized condition is never satisfied.
func revealConditionMet(cond *entities.RevealCondition, state *entities.SessionState) bool {
	if cond == nil {
		return false
	}
	switch cond.Type {
	case entities.ConditionPuzzleSolved:
		return state.HasSolved(cond.PuzzleID)
	case entities.ConditionItemInInventory:
		return state.HasItem(cond.ItemID)
	default:
		return false
	}
}

func (e *escapeEngine) UseItem(input *UseItemInput) (*UseItemOutput, error) {
	if !input.Session.State.HasItem(input.ItemID) {
		return nil, errors.FailedPreconditionf("item %s is not in your inventory", input.ItemID).
			WithMeta("item_id", input.ItemID)
	}

	// No target: describe the held item without changing state.
	if input.TargetID == "" {
		item := input.Definition.Item(input.ItemID)
		if item == nil {
			return nil, errors.NotFoundf("item %s not found", input.ItemID)
		}
		return &UseItemOutput{
			Success: true,
			Message: fmt.Sprintf("you are holding %s", item.Name),
			Item:    item,
		}, nil
	}

	current := input.Definition.Room(input.Session.CurrentRoomID)
	if current == nil {
		return nil, errors.NotFoundf("target %s not found in current room", input.TargetID)
	}

	// Puzzles take priority over items when resolving the target.
	if puzzle := current.Puzzle(input.TargetID); puzzle != nil {
		event := entities.GameEvent{
			Type: entities.EventItemUsed,
			Data: map[string]interface{}{
				"item_id":     input.ItemID,
				"target_type": "puzzle",
				"target_id":   input.TargetID,
			},
		}
		if puzzle.Config.RequiredItem == input.ItemID {
			return &UseItemOutput{
				Success: true,
				Message: "item used successfully on puzzle",
				Effect:  "puzzle_unlocked",
				Events:  []entities.GameEvent{event},
			}, nil
		}
		return &UseItemOutput{
			Success: false,
			Message: "this item doesn't work with this puzzle",
			Events:  []entities.GameEvent{event},
		}, nil
	}

	if location := current.ItemLocation(input.TargetID); location != nil {
		targetName := input.TargetID
		if target := input.Definition.Item(input.TargetID); target != nil {
			targetName = target.Name
		}
		return &UseItemOutput{
			Success: true,
			Message: fmt.Sprintf("you used the item on %s", targetName),
			Events: []entities.GameEvent{{
				Type: entities.EventItemUsed,
				Data: map[string]interface{}{
					"item_id":     input.ItemID,
					"target_type": "item",
					"target_id":   input.TargetID,
				},
			}},
		}, nil
	}

	return nil, errors.NotFoundf("target %s not found in current room", input.TargetID).
		WithMeta("target_id", input.TargetID)
}

func (e *escapeEngine) CombineItems(input *CombineItemsInput) (*CombineItemsOutput, error) {
	state := &input.Session.State
	if !state.HasItem(input.ItemID) || !state.HasItem(input.TargetID) {
		return nil, errors.FailedPrecondition("both items must be in your inventory to combine them")
	}

	if input.Definition.Item(input.ItemID) == nil || input.Definition.Item(input.TargetID) == nil {
		return nil, errors.NotFound("one or both items not found")
	}

	// Try both directions; the first match wins.
	result, ok := input.Definition.CombinationResult(input.ItemID, input.TargetID)
	if !ok {
		result, ok = input.Definition.CombinationResult(input.TargetID, input.ItemID)
	}
	if !ok {
		return &CombineItemsOutput{
			Combined: false,
			Message:  "these items cannot be combined",
		}, nil
	}

	state.RemoveItem(input.ItemID)
	state.RemoveItem(input.TargetID)
	state.AddItem(result.ID)

	return &CombineItemsOutput{
		Combined:   true,
		Message:    fmt.Sprintf("combined items to create %s", result.Name),
		ResultItem: result,
		Events: []entities.GameEvent{{
			Type: entities.EventItemsCombined,
			Data: map[string]interface{}{
				"item1_id":  input.ItemID,
				"item2_id":  input.TargetID,
				"result_id": result.ID,
			},
		}},
	}, nil
}

func (e *escapeEngine) RequestHint(input *RequestHintInput) (*RequestHintOutput, error) {
	// Hints are not restricted to the current room, unlike solving.
	puzzle := input.Definition.Puzzle(input.PuzzleID)
	if puzzle == nil {
		return nil, errors.NotFoundf("puzzle %s not found", input.PuzzleID).
			WithMeta("puzzle_id", input.PuzzleID)
	}

	input.Session.State.HintsUsed++

	return &RequestHintOutput{
		Hint:      puzzle.HintText,
		HintsUsed: input.Session.State.HintsUsed,
		Events: []entities.GameEvent{{
			Type: entities.EventHintRequested,
			Data: map[string]interface{}{"puzzle_id": input.PuzzleID},
		}},
	}, nil
}

func (e *escapeEngine) CompleteSession(input *CompleteSessionInput) (*CompleteSessionOutput, error) {
	current := input.Definition.Room(input.Session.CurrentRoomID)
	if current == nil || !current.IsFinalRoom {
		return nil, errors.FailedPrecondition("you must reach the final room to complete the game")
	}

	// Deliberately not idempotent: completing again from a final room
	// recomputes the end time and time spent.
	now := e.clock.Now()
	input.Session.IsCompleted = true
	input.Session.EndTime = &now
	input.Session.TimeSpentSeconds = int(now.Sub(input.Session.StartTime).Seconds())

	return &CompleteSessionOutput{
		Events: []entities.GameEvent{{
			Type: entities.EventGameCompleted,
			Data: map[string]interface{}{
				"time_spent_seconds": input.Session.TimeSpentSeconds,
				"hints_used":         input.Session.State.HintsUsed,
			},
		}},
	}, nil
}
