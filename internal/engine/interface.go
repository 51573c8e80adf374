// Package engine implements the escape room session state machine:
// deterministic transitions from (definition, session state, action) to
// (new session state, events). It performs no I/O; loading and
// persisting sessions is the orchestrator's job.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/gamelearn/escape-api/internal/engine Engine

// Engine applies player actions to a session against its escape room
// definition. Methods mutate the passed session in place and return the
// events the transition produced; on error the session must be
// discarded, not persisted.
type Engine interface {
	// StartSession produces the initial state for a new session
	StartSession(input *StartSessionInput) (*StartSessionOutput, error)

	// MoveToRoom moves the player to an unlocked room
	MoveToRoom(input *MoveToRoomInput) (*MoveToRoomOutput, error)

	// AttemptPuzzle verifies a solution attempt and evaluates unlocks
	AttemptPuzzle(input *AttemptPuzzleInput) (*AttemptPuzzleOutput, error)

	// CollectItem picks up an item placed in the current room
	CollectItem(input *CollectItemInput) (*CollectItemOutput, error)

	// UseItem uses a held item, optionally on a puzzle or room item
	UseItem(input *UseItemInput) (*UseItemOutput, error)

	// CombineItems combines two held items into their result item
	CombineItems(input *CombineItemsInput) (*CombineItemsOutput, error)

	// RequestHint returns a puzzle's hint and bumps the hint counter
	RequestHint(input *RequestHintInput) (*RequestHintOutput, error)

	// CompleteSession marks the session finished from a final room
	CompleteSession(input *CompleteSessionInput) (*CompleteSessionOutput, error)
}
