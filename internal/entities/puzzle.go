package entities

import (
	"reflect"
	"slices"
)

// PuzzleType identifies how a puzzle's solution is compared.
type PuzzleType string

// Supported puzzle types
const (
	PuzzleTypeCode            PuzzleType = "CODE"
	PuzzleTypeSequence        PuzzleType = "SEQUENCE"
	PuzzleTypeSwitches        PuzzleType = "SWITCHES"
	PuzzleTypeTerminal        PuzzleType = "TERMINAL"
	PuzzleTypeItemCombination PuzzleType = "ITEM_COMBINATION"
	PuzzleTypeQuiz            PuzzleType = "QUIZ"
	PuzzleTypeCustom          PuzzleType = "CUSTOM"
)

// Puzzle is a puzzle placed in exactly one room.
type Puzzle struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Type               PuzzleType   `json:"puzzle_type"`
	Config             PuzzleConfig `json:"configuration"`
	Solution           Solution     `json:"solution"`
	HintText           string       `json:"hint_text,omitempty"`
	IsRequired         bool         `json:"is_required"`
	EducationalContent string       `json:"educational_content,omitempty"`
}

// PuzzleConfig holds puzzle-specific configuration. RequiredItem names
// an inventory item that "use item on puzzle" reports success for.
// Custom carries free-form configuration for custom puzzle renderers.
type PuzzleConfig struct {
	RequiredItem string                 `json:"required_item,omitempty"`
	Custom       map[string]interface{} `json:"custom,omitempty"`
}

// Solution is the typed solution payload. Exactly one field group is
// meaningful per puzzle type; Custom carries the opaque payload for
// ITEM_COMBINATION and CUSTOM puzzles. The same shape is used for
// stored solutions and for player attempts.
type Solution struct {
	Code     string                 `json:"code,omitempty"`
	Sequence []string               `json:"sequence,omitempty"`
	Switches []bool                 `json:"switches,omitempty"`
	Command  string                 `json:"command,omitempty"`
	Answers  []string               `json:"answers,omitempty"`
	Custom   map[string]interface{} `json:"custom,omitempty"`
}

// CheckSolution compares an attempt against the puzzle's stored
// solution using the comparison field for the puzzle's type. Unknown
// types never match.
func (p *Puzzle) CheckSolution(attempt Solution) bool {
	switch p.Type {
	case PuzzleTypeCode:
		return attempt.Code == p.Solution.Code
	case PuzzleTypeSequence:
		return slices.Equal(attempt.Sequence, p.Solution.Sequence)
	case PuzzleTypeSwitches:
		return slices.Equal(attempt.Switches, p.Solution.Switches)
	case PuzzleTypeTerminal:
		return attempt.Command == p.Solution.Command
	case PuzzleTypeQuiz:
		return slices.Equal(attempt.Answers, p.Solution.Answers)
	case PuzzleTypeItemCombination, PuzzleTypeCustom:
		return reflect.DeepEqual(attempt.Custom, p.Solution.Custom)
	default:
		return false
	}
}
