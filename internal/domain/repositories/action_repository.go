package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	// Create creates a new action item
	Create(ctx context.Context, item *entities.ActionItem) error

	// FindByID retrieves an action item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// ListByAssignee retrieves all action items of a user, earliest due first
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*entities.ActionItem, error)

	// ListOverdue retrieves items not completed whose due date is before asOf
	ListOverdue(ctx context.Context, asOf time.Time) ([]*entities.ActionItem, error)

	// UpdateStatus persists a transition if the stored status still equals from
	UpdateStatus(ctx context.Context, item *entities.ActionItem, from entities.ActionStatus, actor *uuid.UUID) error
}
