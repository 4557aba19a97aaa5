package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
)

// CreateAgendaItemInput represents input for proposing an agenda item
type CreateAgendaItemInput struct {
	MeetingID       uuid.UUID `json:"meeting_id"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     *string   `json:"description"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=0,max=480"`
}

// Agenda is a meeting's items in order
type Agenda struct {
	MeetingID    uuid.UUID              `json:"meeting_id"`
	Items        []*entities.AgendaItem `json:"items"`
	TotalMinutes int                    `json:"total_minutes"`
}

// ConsentItems returns the items fast-tracked for batch approval
func (a *Agenda) ConsentItems() []*entities.AgendaItem {
	var out []*entities.AgendaItem
	for _, item := range a.Items {
		if item.Status == entities.AgendaStatusConsent {
			out = append(out, item)
		}
	}
	return out
}

// DiscussionItems returns approved items that will be discussed individually
func (a *Agenda) DiscussionItems() []*entities.AgendaItem {
	var out []*entities.AgendaItem
	for _, item := range a.Items {
		if item.Status == entities.AgendaStatusApproved {
			out = append(out, item)
		}
	}
	return out
}

func newAgenda(meetingID uuid.UUID, items []*entities.AgendaItem) *Agenda {
	agenda := &Agenda{MeetingID: meetingID, Items: items}
	if agenda.Items == nil {
		agenda.Items = []*entities.AgendaItem{}
	}
	for _, item := range items {
		agenda.TotalMinutes += item.DurationMinutes
	}
	return agenda
}

// CreateAgendaItem appends a draft item to the meeting's agenda
func (e *Engine) CreateAgendaItem(ctx context.Context, input CreateAgendaItemInput, actor entities.Actor) (*entities.AgendaItem, error) {
	if err := e.check(input); err != nil {
		return nil, err
	}

	meeting, err := e.meetings.FindByID(ctx, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.IsClosed() {
		return nil, usecaseErrors.ErrMeetingClosed
	}

	position, err := e.agenda.NextPosition(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute agenda position: %w", err)
	}

	item := entities.NewAgendaItem(meeting.ID, actor.UserID, input.Title)
	item.Description = input.Description
	item.DurationMinutes = input.DurationMinutes
	item.Position = position
	item.CreatedAt = e.now()
	item.UpdatedAt = item.CreatedAt

	if err := e.agenda.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create agenda item: %w", err)
	}

	e.invalidateAgenda(ctx, meeting.ID)
	return item, nil
}

// SubmitAgendaItem moves a draft item to submitted
func (e *Engine) SubmitAgendaItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error) {
	return e.transitionAgendaItem(ctx, itemID, actor, nil, func(item *entities.AgendaItem, at time.Time) error {
		return item.Submit(at)
	})
}

// ApproveAgendaItem moves a submitted item to approved and records the reviewer.
// The reviewer's capability is checked before the item's status.
func (e *Engine) ApproveAgendaItem(ctx context.Context, itemID uuid.UUID, reviewer entities.Actor) (*entities.AgendaItem, error) {
	return e.transitionAgendaItem(ctx, itemID, reviewer, e.requires(reviewer, authz.CapReviewAgenda), func(item *entities.AgendaItem, at time.Time) error {
		return item.Approve(reviewer.UserID, at)
	})
}

// MarkConsent moves an approved item to the consent block
func (e *Engine) MarkConsent(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error) {
	return e.transitionAgendaItem(ctx, itemID, actor, e.requires(actor, authz.CapOrganizeAgenda), func(item *entities.AgendaItem, at time.Time) error {
		return item.MarkConsent(at)
	})
}

// DeferAgendaItem takes a submitted or approved item off this meeting's agenda
func (e *Engine) DeferAgendaItem(ctx context.Context, itemID uuid.UUID, reviewer entities.Actor) (*entities.AgendaItem, error) {
	return e.transitionAgendaItem(ctx, itemID, reviewer, e.requires(reviewer, authz.CapReviewAgenda), func(item *entities.AgendaItem, at time.Time) error {
		return item.Defer(reviewer.UserID, at)
	})
}

// WithdrawAgendaItem pulls an item before approval. The proposer may always
// withdraw; anyone else needs organize_agenda.
func (e *Engine) WithdrawAgendaItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error) {
	guard := func(item *entities.AgendaItem) error {
		if item.ProposerID == actor.UserID {
			return nil
		}
		return e.authz.Require(actor, authz.CapOrganizeAgenda)
	}
	return e.transitionAgendaItem(ctx, itemID, actor, guard, func(item *entities.AgendaItem, at time.Time) error {
		return item.Withdraw(at)
	})
}

// requires returns a guard demanding capability of actor
func (e *Engine) requires(actor entities.Actor, capability authz.Capability) func(*entities.AgendaItem) error {
	return func(*entities.AgendaItem) error {
		return e.authz.Require(actor, capability)
	}
}

// transitionAgendaItem checks the guard, then the meeting, then the item's status
func (e *Engine) transitionAgendaItem(ctx context.Context, itemID uuid.UUID, actor entities.Actor, guard func(*entities.AgendaItem) error, apply func(*entities.AgendaItem, time.Time) error) (*entities.AgendaItem, error) {
	item, err := e.agenda.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if guard != nil {
		if err := guard(item); err != nil {
			return nil, err
		}
	}

	meeting, err := e.meetings.FindByID(ctx, item.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.IsClosed() {
		return nil, usecaseErrors.ErrMeetingClosed
	}

	from := item.Status
	if err := apply(item, e.now()); err != nil {
		return nil, err
	}
	if err := e.agenda.UpdateStatus(ctx, item, from, actor.Ref()); err != nil {
		return nil, err
	}

	e.logTransition(entities.EntityAgendaItem, item.ID, string(from), string(item.Status), actor)
	e.invalidateAgenda(ctx, item.MeetingID)
	return item, nil
}

// ReorderAgenda sets the order of a meeting's items
func (e *Engine) ReorderAgenda(ctx context.Context, meetingID uuid.UUID, orderedIDs []uuid.UUID, actor entities.Actor) (*Agenda, error) {
	if err := e.authz.Require(actor, authz.CapOrganizeAgenda); err != nil {
		return nil, err
	}

	meeting, err := e.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.IsClosed() {
		return nil, usecaseErrors.ErrAgendaLocked
	}

	if err := e.agenda.Reorder(ctx, meetingID, orderedIDs); err != nil {
		return nil, err
	}

	e.invalidateAgenda(ctx, meetingID)
	return e.GetAgenda(ctx, meetingID)
}

// GetAgenda returns a meeting's ordered agenda, served from cache when possible
func (e *Engine) GetAgenda(ctx context.Context, meetingID uuid.UUID) (*Agenda, error) {
	if agenda, ok := e.cachedAgenda(ctx, meetingID); ok {
		return agenda, nil
	}

	if _, err := e.meetings.FindByID(ctx, meetingID); err != nil {
		return nil, err
	}

	items, err := e.agenda.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda items: %w", err)
	}

	agenda := newAgenda(meetingID, items)
	e.storeAgenda(ctx, agenda)
	return agenda, nil
}
