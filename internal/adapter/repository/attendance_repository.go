package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// attendanceRepository implements the AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) repositories.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create creates an attendance record; a user can arrive once per meeting
func (r *attendanceRepository) Create(ctx context.Context, record *entities.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.AttendanceRecord{}).
			Where("meeting_id = ? AND user_id = ?", record.MeetingID, record.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return alreadyMarked()
		}

		err := tx.Create(record).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return alreadyMarked()
		}
		return err
	})
}

func alreadyMarked() error {
	return fmt.Errorf("%w: attendance already marked for this meeting", entities.ErrAlreadyExists)
}

// FindByMeetingAndUser retrieves the record of one user at one meeting
func (r *attendanceRepository) FindByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error) {
	var record entities.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&record).Error

	if err != nil {
		return nil, notFound(err, entities.EntityAttendance, userID)
	}
	return &record, nil
}

// ListByMeeting retrieves records ordered by arrival
func (r *attendanceRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("arrived_at ASC").
		Find(&records).Error
	return records, err
}

// UpdateStatus persists an attendance transition
func (r *attendanceRepository) UpdateStatus(ctx context.Context, record *entities.AttendanceRecord, from entities.AttendanceStatus, actor *uuid.UUID) error {
	return statusUpdate{
		model:  &entities.AttendanceRecord{},
		entity: entities.EntityAttendance,
		id:     record.ID,
		from:   string(from),
		to:     string(record.Status),
		actor:  actor,
		at:     record.UpdatedAt,
		changes: map[string]interface{}{
			"departed_at": record.DepartedAt,
		},
	}.apply(ctx, r.db)
}
