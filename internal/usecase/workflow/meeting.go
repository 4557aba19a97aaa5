package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	ChairpersonID uuid.UUID  `json:"chairperson_id"`
}

// CreateMeeting creates a draft meeting. The chairperson defaults to the actor.
func (e *Engine) CreateMeeting(ctx context.Context, input CreateMeetingInput, actor entities.Actor) (*entities.Meeting, error) {
	if err := e.authz.Require(actor, authz.CapManageMeetings); err != nil {
		return nil, err
	}
	if err := e.check(input); err != nil {
		return nil, err
	}

	chair := input.ChairpersonID
	if chair == uuid.Nil {
		chair = actor.UserID
	}

	var scheduled *time.Time
	if input.ScheduledDate != nil {
		d := input.ScheduledDate.UTC()
		scheduled = &d
	}

	meeting := entities.NewMeeting(input.Title, chair, scheduled)
	meeting.Description = input.Description
	meeting.Location = input.Location
	meeting.CreatedAt = e.now()
	meeting.UpdatedAt = meeting.CreatedAt

	if err := e.meetings.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	e.logger.Info("workflow.meeting.created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("chairperson_id", chair.String()),
	)
	return meeting, nil
}

// GetMeeting retrieves a meeting by ID
func (e *Engine) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	return e.meetings.FindByID(ctx, meetingID)
}

// ListMeetings retrieves meetings with filters
func (e *Engine) ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := e.meetings.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// ScheduleMeeting publishes a draft meeting
func (e *Engine) ScheduleMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*entities.Meeting, error) {
	return e.transitionMeeting(ctx, meetingID, actor, func(m *entities.Meeting, at time.Time) error {
		return m.Schedule(at)
	})
}

// CompleteMeeting marks a scheduled meeting as held
func (e *Engine) CompleteMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*entities.Meeting, error) {
	return e.transitionMeeting(ctx, meetingID, actor, func(m *entities.Meeting, at time.Time) error {
		return m.Complete(at)
	})
}

// CancelMeeting calls off a draft or scheduled meeting
func (e *Engine) CancelMeeting(ctx context.Context, meetingID uuid.UUID, reason string, actor entities.Actor) (*entities.Meeting, error) {
	return e.transitionMeeting(ctx, meetingID, actor, func(m *entities.Meeting, at time.Time) error {
		return m.Cancel(strings.TrimSpace(reason), at)
	})
}

// PostponeMeeting takes a scheduled meeting off the calendar
func (e *Engine) PostponeMeeting(ctx context.Context, meetingID uuid.UUID, reason string, actor entities.Actor) (*entities.Meeting, error) {
	return e.transitionMeeting(ctx, meetingID, actor, func(m *entities.Meeting, at time.Time) error {
		return m.Postpone(strings.TrimSpace(reason), at)
	})
}

func (e *Engine) transitionMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor, apply func(*entities.Meeting, time.Time) error) (*entities.Meeting, error) {
	if err := e.authz.Require(actor, authz.CapManageMeetings); err != nil {
		return nil, err
	}

	meeting, err := e.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	from := meeting.Status
	if err := apply(meeting, e.now()); err != nil {
		return nil, err
	}
	if err := e.meetings.UpdateStatus(ctx, meeting, from, actor.Ref()); err != nil {
		return nil, err
	}

	e.logTransition(entities.EntityMeeting, meeting.ID, string(from), string(meeting.Status), actor)
	e.invalidateAgenda(ctx, meeting.ID)
	return meeting, nil
}

// DeleteMeeting removes a meeting together with its agenda items, minutes and attendance
func (e *Engine) DeleteMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*repositories.CascadeResult, error) {
	if err := e.authz.Require(actor, authz.CapManageMeetings); err != nil {
		return nil, err
	}

	result, err := e.meetings.Delete(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	e.invalidateAgenda(ctx, meetingID)
	e.logger.Info("workflow.meeting.deleted",
		zap.String("meeting_id", meetingID.String()),
		zap.Int64("agenda_items", result.AgendaItems),
		zap.Int64("minutes", result.Minutes),
		zap.Int64("attendance_records", result.AttendanceRecords),
		zap.Int64("detached_action_items", result.DetachedActions),
	)
	return result, nil
}
