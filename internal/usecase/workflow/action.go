package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// AssignActionItemInput represents input for assigning a follow-up task
type AssignActionItemInput struct {
	MeetingID    *uuid.UUID              `json:"meeting_id"`
	AgendaItemID *uuid.UUID              `json:"agenda_item_id"`
	AssigneeID   uuid.UUID               `json:"assignee_id" validate:"required"`
	Title        string                  `json:"title" validate:"required,max=255"`
	Description  *string                 `json:"description"`
	DueDate      time.Time               `json:"due_date" validate:"required"`
	Priority     entities.ActionPriority `json:"priority" validate:"required,oneof=low medium high urgent"`
}

// IsOverdue reports whether item is past due as of asOf and not completed
func IsOverdue(item *entities.ActionItem, asOf time.Time) bool {
	return item.IsOverdue(asOf)
}

// AssignActionItem creates an action item in the assigned state. When only the
// agenda item is given, the meeting is taken from it.
func (e *Engine) AssignActionItem(ctx context.Context, input AssignActionItemInput, actor entities.Actor) (*entities.ActionItem, error) {
	if err := e.check(input); err != nil {
		return nil, err
	}

	meetingID := input.MeetingID
	if input.AgendaItemID != nil {
		item, err := e.agenda.FindByID(ctx, *input.AgendaItemID)
		if err != nil {
			return nil, err
		}
		if meetingID != nil && *meetingID != item.MeetingID {
			return nil, entities.NewValidationError("agenda_item_id", "belongs to a different meeting")
		}
		meetingID = &item.MeetingID
	} else if meetingID != nil {
		if _, err := e.meetings.FindByID(ctx, *meetingID); err != nil {
			return nil, err
		}
	}

	now := e.now()
	action := &entities.ActionItem{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		AgendaItemID: input.AgendaItemID,
		AssigneeID:   input.AssigneeID,
		AssignedBy:   actor.Ref(),
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		Status:       entities.ActionStatusAssigned,
		DueDate:      input.DueDate.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.actions.Create(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}

	e.logger.Info("workflow.action_item.assigned",
		zap.String("action_item_id", action.ID.String()),
		zap.String("assignee_id", action.AssigneeID.String()),
		zap.Time("due_date", action.DueDate),
	)
	return action, nil
}

// CompleteActionItem closes an action item. Completing an already completed
// item returns it unchanged without writing anything.
func (e *Engine) CompleteActionItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.ActionItem, error) {
	item, err := e.actions.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	from := item.Status
	changed, err := item.Complete(e.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return item, nil
	}

	if err := e.actions.UpdateStatus(ctx, item, from, actor.Ref()); err != nil {
		return nil, err
	}

	e.logTransition(entities.EntityActionItem, item.ID, string(from), string(item.Status), actor)
	return item, nil
}

// RejectActionItem drops an open action item. It needs manage_meetings.
func (e *Engine) RejectActionItem(ctx context.Context, itemID uuid.UUID, reason string, actor entities.Actor) (*entities.ActionItem, error) {
	item, err := e.actions.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := e.authz.Require(actor, authz.CapManageMeetings); err != nil {
		return nil, err
	}

	from := item.Status
	if err := item.Reject(strings.TrimSpace(reason), e.now()); err != nil {
		return nil, err
	}
	if err := e.actions.UpdateStatus(ctx, item, from, actor.Ref()); err != nil {
		return nil, err
	}

	e.logTransition(entities.EntityActionItem, item.ID, string(from), string(item.Status), actor)
	return item, nil
}

// ListOverdueActionItems returns open items past due as of asOf
func (e *Engine) ListOverdueActionItems(ctx context.Context, asOf time.Time) ([]*entities.ActionItem, error) {
	return e.actions.ListOverdue(ctx, asOf)
}

// ListActionItemsByAssignee returns a user's action items
func (e *Engine) ListActionItemsByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*entities.ActionItem, error) {
	return e.actions.ListByAssignee(ctx, assigneeID)
}
