// Package gamesession provides the interface for game session
// persistence. A session owns its state bag and its append-only event
// log; both are written in a single atomic unit per operation.
package gamesession

//go:generate mockgen -destination=mock/mock_repository.go -package=gamesessionmock github.com/gamelearn/escape-api/internal/repositories/gamesession Repository

import (
	"context"

	"github.com/gamelearn/escape-api/internal/entities"
)

// Repository defines the interface for game session persistence
type Repository interface {
	// Create stores a new session together with its first events
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a session with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a session and appends events atomically. The
	// write only succeeds when the stored version equals
	// ExpectedVersion; the persisted session carries ExpectedVersion+1.
	// Returns errors.Aborted on a version conflict.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByPlayerID retrieves all sessions owned by a player
	ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error)

	// ListEvents retrieves a session's events in append order
	ListEvents(ctx context.Context, input ListEventsInput) (*ListEventsOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.GameSession
	Events  []entities.GameEvent
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.GameSession
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.GameSession
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session         *entities.GameSession
	ExpectedVersion int64
	Events          []entities.GameEvent
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.GameSession
}

// ListByPlayerIDInput defines the input for listing sessions by player
type ListByPlayerIDInput struct {
	PlayerID string
}

// ListByPlayerIDOutput defines the output for listing sessions by player
type ListByPlayerIDOutput struct {
	Sessions []*entities.GameSession
}

// ListEventsInput defines the input for listing a session's events
type ListEventsInput struct {
	SessionID string
}

// ListEventsOutput defines the output for listing a session's events
type ListEventsOutput struct {
	Events []entities.GameEvent
}
