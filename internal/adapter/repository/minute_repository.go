package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// minuteRepository implements the MinuteRepository interface
type minuteRepository struct {
	db *gorm.DB
}

// NewMinuteRepository creates a new minute repository
func NewMinuteRepository(db *gorm.DB) repositories.MinuteRepository {
	return &minuteRepository{db: db}
}

// Create creates a new minute
func (r *minuteRepository) Create(ctx context.Context, minute *entities.Minute) error {
	return r.db.WithContext(ctx).Create(minute).Error
}

// FindByID retrieves a minute by its ID
func (r *minuteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Minute, error) {
	var minute entities.Minute
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&minute).Error

	if err != nil {
		return nil, notFound(err, entities.EntityMinute, id)
	}
	return &minute, nil
}

// ListByMeeting retrieves minutes in the order they were recorded
func (r *minuteRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error) {
	var minutes []*entities.Minute
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&minutes).Error
	return minutes, err
}

// UpdateStatus persists a minute transition
func (r *minuteRepository) UpdateStatus(ctx context.Context, minute *entities.Minute, from entities.MinuteStatus, actor *uuid.UUID) error {
	return statusUpdate{
		model:  &entities.Minute{},
		entity: entities.EntityMinute,
		id:     minute.ID,
		from:   string(from),
		to:     string(minute.Status),
		actor:  actor,
		at:     minute.UpdatedAt,
		changes: map[string]interface{}{
			"approved_by":  minute.ApprovedBy,
			"approved_at":  minute.ApprovedAt,
			"published_at": minute.PublishedAt,
			"archive_key":  minute.ArchiveKey,
		},
	}.apply(ctx, r.db)
}
