package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type attendanceRepository struct{ s *Store }

func (r *attendanceRepository) Create(ctx context.Context, record *entities.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendance {
		if existing.MeetingID == record.MeetingID && existing.UserID == record.UserID {
			return fmt.Errorf("%w: attendance already marked for this meeting", entities.ErrAlreadyExists)
		}
	}
	ensureID(&record.ID)
	r.s.attendance[record.ID] = *record
	return nil
}

func (r *attendanceRepository) FindByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.attendance {
		if rec.MeetingID == meetingID && rec.UserID == userID {
			return &rec, nil
		}
	}
	return nil, entities.NewNotFoundError(entities.EntityAttendance, userID)
}

func (r *attendanceRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.AttendanceRecord
	for _, rec := range r.s.attendance {
		if rec.MeetingID == meetingID {
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ArrivedAt.Before(out[j].ArrivedAt)
	})
	return out, nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, record *entities.AttendanceRecord, from entities.AttendanceStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.attendance[record.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityAttendance, record.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = record.Status
	stored.DepartedAt = record.DepartedAt
	stored.UpdatedAt = record.UpdatedAt
	r.s.attendance[record.ID] = stored
	r.s.record(entities.EntityAttendance, record.ID, string(from), string(record.Status), actor, record.UpdatedAt)
	return nil
}
