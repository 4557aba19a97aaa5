package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// AgendaItemRepository defines the interface for agenda item data access
type AgendaItemRepository interface {
	// Create creates a new agenda item
	Create(ctx context.Context, item *entities.AgendaItem) error

	// FindByID retrieves an agenda item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AgendaItem, error)

	// ListByMeeting retrieves a meeting's items ordered by position
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error)

	// CountByMeeting counts a meeting's items
	CountByMeeting(ctx context.Context, meetingID uuid.UUID) (int64, error)

	// NextPosition returns the position a newly appended item should take
	NextPosition(ctx context.Context, meetingID uuid.UUID) (int, error)

	// UpdateStatus persists a transition if the stored status still equals from
	UpdateStatus(ctx context.Context, item *entities.AgendaItem, from entities.AgendaStatus, actor *uuid.UUID) error

	// Reorder assigns positions 1..n following orderedIDs
	Reorder(ctx context.Context, meetingID uuid.UUID, orderedIDs []uuid.UUID) error
}
