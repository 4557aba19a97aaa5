package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgendaStatus represents the review stage of an agenda item
type AgendaStatus string

const (
	AgendaStatusDraft     AgendaStatus = "draft"
	AgendaStatusSubmitted AgendaStatus = "submitted"
	AgendaStatusApproved  AgendaStatus = "approved"
	AgendaStatusConsent   AgendaStatus = "consent"
	AgendaStatusDeferred  AgendaStatus = "deferred"
	AgendaStatusWithdrawn AgendaStatus = "withdrawn"
)

// AgendaStatuses lists every agenda status in workflow order
var AgendaStatuses = []AgendaStatus{
	AgendaStatusDraft,
	AgendaStatusSubmitted,
	AgendaStatusApproved,
	AgendaStatusConsent,
	AgendaStatusDeferred,
	AgendaStatusWithdrawn,
}

// IsValid checks if the status is one of the known agenda statuses
func (s AgendaStatus) IsValid() bool {
	switch s {
	case AgendaStatusDraft, AgendaStatusSubmitted, AgendaStatusApproved, AgendaStatusConsent,
		AgendaStatusDeferred, AgendaStatusWithdrawn:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s. There are no backward edges.
// Deferred and withdrawn take an item off the agenda for good.
func (s AgendaStatus) CanTransitionTo(next AgendaStatus) bool {
	switch s {
	case AgendaStatusDraft:
		return next == AgendaStatusSubmitted || next == AgendaStatusWithdrawn
	case AgendaStatusSubmitted:
		return next == AgendaStatusApproved || next == AgendaStatusDeferred || next == AgendaStatusWithdrawn
	case AgendaStatusApproved:
		return next == AgendaStatusConsent || next == AgendaStatusDeferred
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s AgendaStatus) IsTerminal() bool {
	switch s {
	case AgendaStatusConsent, AgendaStatusDeferred, AgendaStatusWithdrawn:
		return true
	}
	return false
}

// AgendaItem is a topic proposed for discussion at one meeting
type AgendaItem struct {
	ID              uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Meeting         *Meeting     `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	ProposerID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"proposer_id"`
	Title           string       `gorm:"type:varchar(255);not null" json:"title"`
	Description     *string      `gorm:"type:text" json:"description,omitempty"`
	Position        int          `gorm:"not null;default:0" json:"position"`
	DurationMinutes int          `gorm:"not null;default:0" json:"duration_minutes"`
	Status          AgendaStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ReviewerID      *uuid.UUID   `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	ConsentAt       *time.Time   `json:"consent_at,omitempty"`
	ClosedAt        *time.Time   `json:"closed_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TableName specifies the table name for AgendaItem
func (AgendaItem) TableName() string {
	return "agenda_items"
}

// BeforeCreate assigns an ID when missing
func (a *AgendaItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewAgendaItem creates a draft item on the given meeting
func NewAgendaItem(meetingID, proposerID uuid.UUID, title string) *AgendaItem {
	now := time.Now().UTC()
	return &AgendaItem{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		ProposerID: proposerID,
		Title:      title,
		Status:     AgendaStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Submit sends a draft item to review
func (a *AgendaItem) Submit(at time.Time) error {
	if err := a.transition(AgendaStatusSubmitted); err != nil {
		return err
	}
	a.SubmittedAt = &at
	a.UpdatedAt = at
	return nil
}

// Approve accepts a submitted item and records who reviewed it
func (a *AgendaItem) Approve(reviewerID uuid.UUID, at time.Time) error {
	if err := a.transition(AgendaStatusApproved); err != nil {
		return err
	}
	a.ReviewerID = &reviewerID
	a.ApprovedAt = &at
	a.UpdatedAt = at
	return nil
}

// MarkConsent moves an approved item to the consent block
func (a *AgendaItem) MarkConsent(at time.Time) error {
	if err := a.transition(AgendaStatusConsent); err != nil {
		return err
	}
	a.ConsentAt = &at
	a.UpdatedAt = at
	return nil
}

// Defer postpones a submitted or approved item to a future meeting
func (a *AgendaItem) Defer(reviewerID uuid.UUID, at time.Time) error {
	if err := a.transition(AgendaStatusDeferred); err != nil {
		return err
	}
	a.ReviewerID = &reviewerID
	a.ClosedAt = &at
	a.UpdatedAt = at
	return nil
}

// Withdraw pulls an item that has not been approved yet
func (a *AgendaItem) Withdraw(at time.Time) error {
	if err := a.transition(AgendaStatusWithdrawn); err != nil {
		return err
	}
	a.ClosedAt = &at
	a.UpdatedAt = at
	return nil
}

func (a *AgendaItem) transition(next AgendaStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return NewTransitionError(EntityAgendaItem, a.ID, string(a.Status), string(next))
	}
	a.Status = next
	return nil
}
