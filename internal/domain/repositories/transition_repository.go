package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// TransitionRepository reads the status audit trail
type TransitionRepository interface {
	// ListByEntity retrieves transitions of one entity, oldest first
	ListByEntity(ctx context.Context, entityType entities.EntityType, entityID uuid.UUID) ([]*entities.Transition, error)
}
