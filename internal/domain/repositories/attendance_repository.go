package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create creates a record, failing with a validation error if the user already arrived
	Create(ctx context.Context, record *entities.AttendanceRecord) error

	// FindByMeetingAndUser retrieves the record of one user at one meeting
	FindByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error)

	// ListByMeeting retrieves records ordered by arrival
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error)

	// UpdateStatus persists a transition if the stored status still equals from
	UpdateStatus(ctx context.Context, record *entities.AttendanceRecord, from entities.AttendanceStatus, actor *uuid.UUID) error
}
