package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExternalRequestStatus tracks resolution of a request from outside the organisation
type ExternalRequestStatus string

const (
	ExternalRequestPending   ExternalRequestStatus = "pending"
	ExternalRequestApproved  ExternalRequestStatus = "approved"
	ExternalRequestRejected  ExternalRequestStatus = "rejected"
	ExternalRequestDeferred  ExternalRequestStatus = "deferred"
	ExternalRequestWithdrawn ExternalRequestStatus = "withdrawn"
)

// IsValid checks if the status is known
func (s ExternalRequestStatus) IsValid() bool {
	switch s {
	case ExternalRequestPending, ExternalRequestApproved, ExternalRequestRejected,
		ExternalRequestDeferred, ExternalRequestWithdrawn:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s. Only pending requests
// are reviewed; a deferred request can still be withdrawn by its requester.
func (s ExternalRequestStatus) CanTransitionTo(next ExternalRequestStatus) bool {
	switch s {
	case ExternalRequestPending:
		return next != ExternalRequestPending && next.IsValid()
	case ExternalRequestDeferred:
		return next == ExternalRequestWithdrawn
	}
	return false
}

// ExternalRequest is an outside party asking to present a topic at a meeting
type ExternalRequest struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"meeting_id"`
	RequesterName  string                `gorm:"type:varchar(255);not null" json:"requester_name"`
	RequesterEmail string                `gorm:"type:varchar(255);not null" json:"requester_email"`
	Organization   *string               `gorm:"type:varchar(255)" json:"organization,omitempty"`
	Topic          string                `gorm:"type:varchar(255);not null" json:"topic"`
	Details        *string               `gorm:"type:text" json:"details,omitempty"`
	Status         ExternalRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ResolvedBy     *uuid.UUID            `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time            `json:"resolved_at,omitempty"`
	ResolutionNote *string               `gorm:"type:text" json:"resolution_note,omitempty"`
	AgendaItemID   *uuid.UUID            `gorm:"type:uuid" json:"agenda_item_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TableName specifies the table name for ExternalRequest
func (ExternalRequest) TableName() string {
	return "external_requests"
}

// BeforeCreate assigns an ID when missing
func (r *ExternalRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Approve resolves the request in favour and links the agenda item it produced
func (r *ExternalRequest) Approve(reviewerID, agendaItemID uuid.UUID, at time.Time) error {
	if err := r.resolve(ExternalRequestApproved, reviewerID, at); err != nil {
		return err
	}
	r.AgendaItemID = &agendaItemID
	return nil
}

// Reject resolves the request against, with an optional note
func (r *ExternalRequest) Reject(reviewerID uuid.UUID, note string, at time.Time) error {
	if err := r.resolve(ExternalRequestRejected, reviewerID, at); err != nil {
		return err
	}
	if note != "" {
		r.ResolutionNote = &note
	}
	return nil
}

// Defer sets the request aside for a future meeting, with an optional note
func (r *ExternalRequest) Defer(reviewerID uuid.UUID, note string, at time.Time) error {
	if err := r.resolve(ExternalRequestDeferred, reviewerID, at); err != nil {
		return err
	}
	if note != "" {
		r.ResolutionNote = &note
	}
	return nil
}

// Withdraw is the requester taking back a pending or deferred request.
// The email must match the one the request was filed with.
func (r *ExternalRequest) Withdraw(email string, at time.Time) error {
	if !strings.EqualFold(strings.TrimSpace(email), r.RequesterEmail) {
		return fmt.Errorf("%w: only the requester may withdraw a request", ErrUnauthorized)
	}
	if err := r.transition(ExternalRequestWithdrawn); err != nil {
		return err
	}
	r.UpdatedAt = at
	return nil
}

func (r *ExternalRequest) resolve(next ExternalRequestStatus, reviewerID uuid.UUID, at time.Time) error {
	if err := r.transition(next); err != nil {
		return err
	}
	r.ResolvedBy = &reviewerID
	r.ResolvedAt = &at
	r.UpdatedAt = at
	return nil
}

func (r *ExternalRequest) transition(next ExternalRequestStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return NewTransitionError(EntityExternalRequest, r.ID, string(r.Status), string(next))
	}
	r.Status = next
	return nil
}
