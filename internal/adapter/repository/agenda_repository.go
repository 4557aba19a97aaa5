package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// agendaItemRepository implements the AgendaItemRepository interface
type agendaItemRepository struct {
	db *gorm.DB
}

// NewAgendaItemRepository creates a new agenda item repository
func NewAgendaItemRepository(db *gorm.DB) repositories.AgendaItemRepository {
	return &agendaItemRepository{db: db}
}

// Create creates a new agenda item
func (r *agendaItemRepository) Create(ctx context.Context, item *entities.AgendaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID retrieves an agenda item by its ID
func (r *agendaItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AgendaItem, error) {
	var item entities.AgendaItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error

	if err != nil {
		return nil, notFound(err, entities.EntityAgendaItem, id)
	}
	return &item, nil
}

// ListByMeeting retrieves a meeting's items ordered by position
func (r *agendaItemRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error) {
	var items []*entities.AgendaItem
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// CountByMeeting counts a meeting's items
func (r *agendaItemRepository) CountByMeeting(ctx context.Context, meetingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.AgendaItem{}).
		Where("meeting_id = ?", meetingID).
		Count(&count).Error
	return count, err
}

// NextPosition returns max(position)+1 for the meeting
func (r *agendaItemRepository) NextPosition(ctx context.Context, meetingID uuid.UUID) (int, error) {
	var maxPos int
	err := r.db.WithContext(ctx).
		Model(&entities.AgendaItem{}).
		Where("meeting_id = ?", meetingID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, err
	}
	return maxPos + 1, nil
}

// UpdateStatus persists an agenda item transition
func (r *agendaItemRepository) UpdateStatus(ctx context.Context, item *entities.AgendaItem, from entities.AgendaStatus, actor *uuid.UUID) error {
	return statusUpdate{
		model:  &entities.AgendaItem{},
		entity: entities.EntityAgendaItem,
		id:     item.ID,
		from:   string(from),
		to:     string(item.Status),
		actor:  actor,
		at:     item.UpdatedAt,
		changes: map[string]interface{}{
			"reviewer_id":  item.ReviewerID,
			"submitted_at": item.SubmittedAt,
			"approved_at":  item.ApprovedAt,
			"consent_at":   item.ConsentAt,
			"closed_at":    item.ClosedAt,
		},
	}.apply(ctx, r.db)
}

// Reorder assigns positions 1..n following orderedIDs. The IDs must be exactly
// the meeting's items.
func (r *agendaItemRepository) Reorder(ctx context.Context, meetingID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.AgendaItem{}).
			Where("meeting_id = ? AND id IN ?", meetingID, orderedIDs).
			Count(&count).Error; err != nil {
			return err
		}
		var total int64
		if err := tx.Model(&entities.AgendaItem{}).
			Where("meeting_id = ?", meetingID).
			Count(&total).Error; err != nil {
			return err
		}
		if count != int64(len(orderedIDs)) || total != count {
			return entities.NewValidationError("item_ids", fmt.Sprintf("must list each of the meeting's %d items once", total))
		}

		for i, id := range orderedIDs {
			if err := tx.Model(&entities.AgendaItem{}).
				Where("id = ?", id).
				UpdateColumn("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
