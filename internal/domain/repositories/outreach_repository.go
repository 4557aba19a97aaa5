package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// PresenterRepository defines the interface for presenter data access
type PresenterRepository interface {
	Create(ctx context.Context, presenter *entities.Presenter) error
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Presenter, error)
}

// ExternalRequestRepository defines the interface for external request data access
type ExternalRequestRepository interface {
	// Create creates a new pending request
	Create(ctx context.Context, req *entities.ExternalRequest) error

	// FindByID retrieves a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ExternalRequest, error)

	// ListByMeeting retrieves requests of a meeting, optionally filtered by status
	ListByMeeting(ctx context.Context, meetingID uuid.UUID, status *entities.ExternalRequestStatus) ([]*entities.ExternalRequest, error)

	// Approve resolves a pending request and stores the agenda item and presenter it produced, atomically
	Approve(ctx context.Context, req *entities.ExternalRequest, item *entities.AgendaItem, presenter *entities.Presenter, actor *uuid.UUID) error

	// UpdateStatus persists a transition that produces nothing if the stored status still equals from
	UpdateStatus(ctx context.Context, req *entities.ExternalRequest, from entities.ExternalRequestStatus, actor *uuid.UUID) error
}
