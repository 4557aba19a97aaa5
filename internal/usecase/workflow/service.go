package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// Service defines the workflow use cases
type Service interface {
	// CreateMeeting creates a draft meeting
	CreateMeeting(ctx context.Context, input CreateMeetingInput, actor entities.Actor) (*entities.Meeting, error)

	// GetMeeting retrieves a meeting by ID
	GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)

	// ListMeetings retrieves meetings with filters
	ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// ScheduleMeeting publishes a draft meeting
	ScheduleMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*entities.Meeting, error)

	// CompleteMeeting marks a scheduled meeting as held
	CompleteMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*entities.Meeting, error)

	// CancelMeeting calls off a draft or scheduled meeting
	CancelMeeting(ctx context.Context, meetingID uuid.UUID, reason string, actor entities.Actor) (*entities.Meeting, error)

	// PostponeMeeting takes a scheduled meeting off the calendar
	PostponeMeeting(ctx context.Context, meetingID uuid.UUID, reason string, actor entities.Actor) (*entities.Meeting, error)

	// DeleteMeeting removes a meeting and cascades to what it owns
	DeleteMeeting(ctx context.Context, meetingID uuid.UUID, actor entities.Actor) (*repositories.CascadeResult, error)

	// CreateAgendaItem appends a draft item to a meeting's agenda
	CreateAgendaItem(ctx context.Context, input CreateAgendaItemInput, actor entities.Actor) (*entities.AgendaItem, error)

	// SubmitAgendaItem moves a draft item to submitted
	SubmitAgendaItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error)

	// ApproveAgendaItem moves a submitted item to approved (reviewers only)
	ApproveAgendaItem(ctx context.Context, itemID uuid.UUID, reviewer entities.Actor) (*entities.AgendaItem, error)

	// MarkConsent moves an approved item to the consent block
	MarkConsent(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error)

	// DeferAgendaItem moves a submitted or approved item to deferred (reviewers only)
	DeferAgendaItem(ctx context.Context, itemID uuid.UUID, reviewer entities.Actor) (*entities.AgendaItem, error)

	// WithdrawAgendaItem moves a draft or submitted item to withdrawn
	WithdrawAgendaItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error)

	// ReorderAgenda sets the order of a meeting's items
	ReorderAgenda(ctx context.Context, meetingID uuid.UUID, orderedIDs []uuid.UUID, actor entities.Actor) (*Agenda, error)

	// GetAgenda returns a meeting's ordered agenda
	GetAgenda(ctx context.Context, meetingID uuid.UUID) (*Agenda, error)

	// AssignActionItem creates an assigned action item
	AssignActionItem(ctx context.Context, input AssignActionItemInput, actor entities.Actor) (*entities.ActionItem, error)

	// CompleteActionItem closes an action item; completing twice is a no-op
	CompleteActionItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.ActionItem, error)

	// RejectActionItem drops an open action item
	RejectActionItem(ctx context.Context, itemID uuid.UUID, reason string, actor entities.Actor) (*entities.ActionItem, error)

	// ListOverdueActionItems returns open items past due as of the given time
	ListOverdueActionItems(ctx context.Context, asOf time.Time) ([]*entities.ActionItem, error)

	// ListActionItemsByAssignee returns a user's action items
	ListActionItemsByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*entities.ActionItem, error)

	// RecordMinute records a note, decision or vote
	RecordMinute(ctx context.Context, input RecordMinuteInput, actor entities.Actor) (*entities.Minute, error)

	// ApproveMinute accepts a recorded minute
	ApproveMinute(ctx context.Context, minuteID uuid.UUID, actor entities.Actor) (*entities.Minute, error)

	// PublishMinute archives and publishes an approved minute
	PublishMinute(ctx context.Context, minuteID uuid.UUID, actor entities.Actor) (*entities.Minute, error)

	// ListMinutes returns a meeting's minutes
	ListMinutes(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error)

	// History returns the status audit trail of an entity
	History(ctx context.Context, entityType entities.EntityType, entityID uuid.UUID) ([]*entities.Transition, error)
}

// Ensure Engine implements Service interface
var _ Service = (*Engine)(nil)
