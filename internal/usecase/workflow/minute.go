package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/coreagenda/errors"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// RecordMinuteInput represents input for recording a minute
type RecordMinuteInput struct {
	MeetingID    uuid.UUID           `json:"meeting_id"`
	AgendaItemID *uuid.UUID          `json:"agenda_item_id"`
	Kind         entities.MinuteKind `json:"kind" validate:"required,oneof=note decision vote"`
	Body         string              `json:"body" validate:"required"`
	Decision     *string             `json:"decision"`
	Votes        *entities.VoteTally `json:"votes"`
}

// RecordMinute records a note, decision or vote for a meeting
func (e *Engine) RecordMinute(ctx context.Context, input RecordMinuteInput, actor entities.Actor) (*entities.Minute, error) {
	if err := e.check(input); err != nil {
		return nil, err
	}
	if input.Kind == entities.MinuteKindVote && input.Votes == nil {
		return nil, entities.NewValidationError("votes", "are required for a vote")
	}
	if input.Kind == entities.MinuteKindDecision && (input.Decision == nil || *input.Decision == "") {
		return nil, entities.NewValidationError("decision", "is required for a decision")
	}

	if _, err := e.meetings.FindByID(ctx, input.MeetingID); err != nil {
		return nil, err
	}
	if input.AgendaItemID != nil {
		item, err := e.agenda.FindByID(ctx, *input.AgendaItemID)
		if err != nil {
			return nil, err
		}
		if item.MeetingID != input.MeetingID {
			return nil, entities.NewValidationError("agenda_item_id", "belongs to a different meeting")
		}
	}

	now := e.now()
	minute := &entities.Minute{
		ID:           uuid.New(),
		MeetingID:    input.MeetingID,
		AgendaItemID: input.AgendaItemID,
		RecorderID:   actor.UserID,
		Kind:         input.Kind,
		Body:         input.Body,
		Decision:     input.Decision,
		Status:       entities.MinuteStatusRecorded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Votes != nil {
		if err := minute.SetTally(*input.Votes); err != nil {
			return nil, fmt.Errorf("failed to encode votes: %w", err)
		}
	}

	if err := e.minutes.Create(ctx, minute); err != nil {
		return nil, fmt.Errorf("failed to record minute: %w", err)
	}
	return minute, nil
}

// ApproveMinute accepts a recorded minute as accurate
func (e *Engine) ApproveMinute(ctx context.Context, minuteID uuid.UUID, actor entities.Actor) (*entities.Minute, error) {
	return e.transitionMinute(ctx, minuteID, actor, func(ctx context.Context, m *entities.Minute, at time.Time) error {
		return m.Approve(actor.UserID, at)
	})
}

// PublishMinute writes the approved minute to the archive and marks it published
func (e *Engine) PublishMinute(ctx context.Context, minuteID uuid.UUID, actor entities.Actor) (*entities.Minute, error) {
	return e.transitionMinute(ctx, minuteID, actor, func(ctx context.Context, m *entities.Minute, at time.Time) error {
		if !m.Status.CanTransitionTo(entities.MinuteStatusPublished) {
			return entities.NewTransitionError(entities.EntityMinute, m.ID, string(m.Status), string(entities.MinuteStatusPublished))
		}
		// the key is fixed per minute, so a publish that loses the CAS
		// only rewrites the winner's object
		key, err := e.archiveMinute(ctx, m, at)
		if err != nil {
			return err
		}
		return m.Publish(key, at)
	})
}

func (e *Engine) transitionMinute(ctx context.Context, minuteID uuid.UUID, actor entities.Actor, apply func(context.Context, *entities.Minute, time.Time) error) (*entities.Minute, error) {
	minute, err := e.minutes.FindByID(ctx, minuteID)
	if err != nil {
		return nil, err
	}
	if err := e.authz.Require(actor, authz.CapApproveMinutes); err != nil {
		return nil, err
	}

	from := minute.Status
	if err := apply(ctx, minute, e.now()); err != nil {
		return nil, err
	}
	if err := e.minutes.UpdateStatus(ctx, minute, from, actor.Ref()); err != nil {
		return nil, err
	}

	e.logTransition(entities.EntityMinute, minute.ID, string(from), string(minute.Status), actor)
	return minute, nil
}

// ListMinutes returns a meeting's minutes
func (e *Engine) ListMinutes(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error) {
	return e.minutes.ListByMeeting(ctx, meetingID)
}

// MinuteDocument is the published form of a minute
type MinuteDocument struct {
	MinuteID     uuid.UUID           `json:"minute_id"`
	MeetingID    uuid.UUID           `json:"meeting_id"`
	MeetingTitle string              `json:"meeting_title"`
	AgendaItemID *uuid.UUID          `json:"agenda_item_id,omitempty"`
	Kind         entities.MinuteKind `json:"kind"`
	Body         string              `json:"body"`
	Decision     *string             `json:"decision,omitempty"`
	Votes        *entities.VoteTally `json:"votes,omitempty"`
	Carried      *bool               `json:"carried,omitempty"`
	ApprovedBy   *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	PublishedAt  time.Time           `json:"published_at"`
}

// MinuteArchiveKey is the object key under which a published minute is stored
func MinuteArchiveKey(meetingID, minuteID uuid.UUID) string {
	return fmt.Sprintf("minutes/%s/%s.json", meetingID, minuteID)
}

func (e *Engine) archiveMinute(ctx context.Context, m *entities.Minute, at time.Time) (string, error) {
	if e.archive == nil {
		return "", nil
	}

	meeting, err := e.meetings.FindByID(ctx, m.MeetingID)
	if err != nil {
		return "", err
	}
	tally, err := m.Tally()
	if err != nil {
		return "", fmt.Errorf("failed to decode votes: %w", err)
	}

	doc := MinuteDocument{
		MinuteID:     m.ID,
		MeetingID:    m.MeetingID,
		MeetingTitle: meeting.Title,
		AgendaItemID: m.AgendaItemID,
		Kind:         m.Kind,
		Body:         m.Body,
		Decision:     m.Decision,
		Votes:        tally,
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
		PublishedAt:  at,
	}
	if tally != nil {
		carried := tally.Carried()
		doc.Carried = &carried
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render minute: %w", err)
	}

	key := MinuteArchiveKey(m.MeetingID, m.ID)
	if err := e.archive.Put(ctx, key, body, "application/json"); err != nil {
		return "", appErrors.ErrStorageFailed("archive minute", err)
	}

	e.logger.Info("workflow.minute.archived",
		zap.String("minute_id", m.ID.String()),
		zap.String("key", key),
	)
	return key, nil
}
