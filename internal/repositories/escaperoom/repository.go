// Package escaperoom provides the interface for escape room definition
// persistence. Definitions are reference data: written by authors,
// read-only for the duration of any session playing them.
package escaperoom

//go:generate mockgen -destination=mock/mock_repository.go -package=escaperoommock github.com/gamelearn/escape-api/internal/repositories/escaperoom Repository

import (
	"context"

	"github.com/gamelearn/escape-api/internal/entities"
)

// Repository defines the interface for escape room definition persistence
type Repository interface {
	// Create stores a new definition
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a definition with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a definition by ID
	// Returns errors.NotFound if the definition doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListPublished retrieves all published definitions
	ListPublished(ctx context.Context, input ListPublishedInput) (*ListPublishedOutput, error)
}

// CreateInput defines the input for creating a definition
type CreateInput struct {
	EscapeRoom *entities.EscapeRoom
}

// CreateOutput defines the output for creating a definition
type CreateOutput struct {
	EscapeRoom *entities.EscapeRoom
}

// GetInput defines the input for getting a definition
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a definition
type GetOutput struct {
	EscapeRoom *entities.EscapeRoom
}

// ListPublishedInput defines the input for listing published definitions
type ListPublishedInput struct{}

// ListPublishedOutput defines the output for listing published definitions
type ListPublishedOutput struct {
	EscapeRooms []*entities.EscapeRoom
}
