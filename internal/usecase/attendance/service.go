package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
)

// DefaultGracePeriod is how long after the scheduled start an arrival still counts as on time
const DefaultGracePeriod = 5 * time.Minute

// Service defines the interface for attendance tracking
type Service interface {
	MarkArrival(ctx context.Context, meetingID, userID uuid.UUID, at time.Time) (*entities.AttendanceRecord, error)
	MarkDeparture(ctx context.Context, meetingID, userID uuid.UUID, at time.Time) (*entities.AttendanceRecord, error)
	ListAttendance(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error)
}

type service struct {
	meetings   repositories.MeetingRepository
	users      repositories.UserRepository
	attendance repositories.AttendanceRepository
	grace      time.Duration
	logger     *zap.Logger
}

// NewService creates a new attendance service. A nil users repository skips the user lookup.
func NewService(
	meetings repositories.MeetingRepository,
	users repositories.UserRepository,
	attendance repositories.AttendanceRepository,
	grace time.Duration,
	logger *zap.Logger,
) Service {
	if grace < 0 {
		grace = DefaultGracePeriod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		meetings:   meetings,
		users:      users,
		attendance: attendance,
		grace:      grace,
		logger:     logger,
	}
}

// MarkArrival records a user arriving. Arrival after the scheduled start plus the
// grace period is marked late.
func (s *service) MarkArrival(ctx context.Context, meetingID, userID uuid.UUID, at time.Time) (*entities.AttendanceRecord, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsScheduled() {
		return nil, usecaseErrors.ErrMeetingNotScheduled
	}

	if s.users != nil {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	record := entities.NewAttendanceRecord(meeting, userID, at.UTC(), s.grace)
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("attendance.arrival",
		zap.String("meeting_id", meetingID.String()),
		zap.String("user_id", userID.String()),
		zap.String("status", string(record.Status)),
	)
	return record, nil
}

// MarkDeparture records a present user leaving
func (s *service) MarkDeparture(ctx context.Context, meetingID, userID uuid.UUID, at time.Time) (*entities.AttendanceRecord, error) {
	record, err := s.attendance.FindByMeetingAndUser(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}

	from := record.Status
	if err := record.Depart(at.UTC()); err != nil {
		return nil, err
	}
	if err := s.attendance.UpdateStatus(ctx, record, from, &userID); err != nil {
		return nil, fmt.Errorf("failed to record departure: %w", err)
	}

	s.logger.Info("attendance.departure",
		zap.String("meeting_id", meetingID.String()),
		zap.String("user_id", userID.String()),
		zap.Duration("duration", record.Duration()),
	)
	return record, nil
}

// ListAttendance returns a meeting's attendance ordered by arrival
func (s *service) ListAttendance(ctx context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.attendance.ListByMeeting(ctx, meetingID)
}
