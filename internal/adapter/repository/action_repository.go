package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// actionItemRepository implements the ActionItemRepository interface
type actionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) repositories.ActionItemRepository {
	return &actionItemRepository{db: db}
}

// Create creates a new action item
func (r *actionItemRepository) Create(ctx context.Context, item *entities.ActionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID retrieves an action item by its ID
func (r *actionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error

	if err != nil {
		return nil, notFound(err, entities.EntityActionItem, id)
	}
	return &item, nil
}

// ListByAssignee retrieves all action items of a user, earliest due first
func (r *actionItemRepository) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("assignee_id = ?", assigneeID).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

// ListOverdue retrieves open items whose due date is before asOf
func (r *actionItemRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", entities.ActionStatusAssigned, asOf).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

// UpdateStatus persists an action item transition
func (r *actionItemRepository) UpdateStatus(ctx context.Context, item *entities.ActionItem, from entities.ActionStatus, actor *uuid.UUID) error {
	return statusUpdate{
		model:  &entities.ActionItem{},
		entity: entities.EntityActionItem,
		id:     item.ID,
		from:   string(from),
		to:     string(item.Status),
		actor:  actor,
		at:     item.UpdatedAt,
		changes: map[string]interface{}{
			"completed_at":  item.CompletedAt,
			"rejected_at":   item.RejectedAt,
			"reject_reason": item.RejectReason,
		},
	}.apply(ctx, r.db)
}
