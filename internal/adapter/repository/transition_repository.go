package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type transitionRepository struct {
	db *gorm.DB
}

// NewTransitionRepository creates a reader for the status audit trail
func NewTransitionRepository(db *gorm.DB) repositories.TransitionRepository {
	return &transitionRepository{db: db}
}

func (r *transitionRepository) ListByEntity(ctx context.Context, entityType entities.EntityType, entityID uuid.UUID) ([]*entities.Transition, error) {
	var transitions []*entities.Transition
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at ASC").
		Find(&transitions).Error
	return transitions, err
}
