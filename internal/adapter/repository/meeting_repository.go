package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		return nil, notFound(err, entities.EntityMeeting, id)
	}
	return &meeting, nil
}

// List retrieves meetings with filters and pagination
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Meeting{})

	// Apply filters
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ChairpersonID != nil {
		query = query.Where("chairperson_id = ?", *filters.ChairpersonID)
	}
	if filters.From != nil {
		query = query.Where("scheduled_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("scheduled_date < ?", *filters.To)
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("LOWER(title) LIKE LOWER(?)", searchPattern)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("scheduled_date ASC").Order("created_at ASC")

	// Apply pagination
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&meetings).Error
	return meetings, total, err
}

// UpdateStatus persists a meeting transition
func (r *meetingRepository) UpdateStatus(ctx context.Context, meeting *entities.Meeting, from entities.MeetingStatus, actor *uuid.UUID) error {
	return statusUpdate{
		model:  &entities.Meeting{},
		entity: entities.EntityMeeting,
		id:     meeting.ID,
		from:   string(from),
		to:     string(meeting.Status),
		actor:  actor,
		at:     meeting.UpdatedAt,
		changes: map[string]interface{}{
			"scheduled_at": meeting.ScheduledAt,
			"completed_at": meeting.CompletedAt,
			"closed_at":    meeting.ClosedAt,
			"close_reason": meeting.CloseReason,
		},
	}.apply(ctx, r.db)
}

// Delete removes a meeting together with its agenda items, minutes, attendance
// records, presenters and external requests. Action items are detached, not deleted.
func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) (*repositories.CascadeResult, error) {
	result := &repositories.CascadeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meeting entities.Meeting
		if err := tx.Select("id").Where("id = ?", id).First(&meeting).Error; err != nil {
			return notFound(err, entities.EntityMeeting, id)
		}

		detach := tx.Model(&entities.ActionItem{}).
			Where("meeting_id = ? OR agenda_item_id IN (?)", id,
				tx.Model(&entities.AgendaItem{}).Select("id").Where("meeting_id = ?", id)).
			Updates(map[string]interface{}{"meeting_id": nil, "agenda_item_id": nil})
		if detach.Error != nil {
			return detach.Error
		}
		result.DetachedActions = detach.RowsAffected

		steps := []struct {
			model interface{}
			count *int64
		}{
			{&entities.Presenter{}, &result.Presenters},
			{&entities.ExternalRequest{}, &result.ExternalRequests},
			{&entities.Minute{}, &result.Minutes},
			{&entities.AttendanceRecord{}, &result.AttendanceRecords},
			{&entities.AgendaItem{}, &result.AgendaItems},
		}
		for _, step := range steps {
			res := tx.Where("meeting_id = ?", id).Delete(step.model)
			if res.Error != nil {
				return res.Error
			}
			*step.count = res.RowsAffected
		}

		return tx.Delete(&entities.Meeting{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
