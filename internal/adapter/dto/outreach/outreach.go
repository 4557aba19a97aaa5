package outreach

import "time"

// AddPresenterRequest registers a presenter; set user_id for a member or name for a guest
type AddPresenterRequest struct {
	AgendaItemID *string `json:"agenda_item_id,omitempty" validate:"omitempty,uuid"`
	UserID       *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=255"`
}

// PresenterResponse represents a presenter
type PresenterResponse struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	AgendaItemID *string   `json:"agenda_item_id,omitempty"`
	UserID       *string   `json:"user_id,omitempty"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Organization *string   `json:"organization,omitempty"`
	External     bool      `json:"external"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitRequestRequest is an outside party asking to present
type SubmitRequestRequest struct {
	RequesterName  string  `json:"requester_name" validate:"required,min=1,max=255"`
	RequesterEmail string  `json:"requester_email" validate:"required,email"`
	Organization   *string `json:"organization,omitempty" validate:"omitempty,max=255"`
	Topic          string  `json:"topic" validate:"required,min=1,max=255"`
	Details        *string `json:"details,omitempty"`
}

// ListRequestsRequest filters a meeting's requests
type ListRequestsRequest struct {
	Status *string `query:"status" validate:"omitempty,oneof=pending approved rejected deferred withdrawn"`
}

// RejectRequest carries the optional reason for a rejection or deferral
type RejectRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// WithdrawRequest identifies the requester by the email the request was filed with
type WithdrawRequest struct {
	RequesterEmail string `json:"requester_email" validate:"required,email"`
}

// ExternalRequestResponse represents an external request
type ExternalRequestResponse struct {
	ID             string     `json:"id"`
	MeetingID      string     `json:"meeting_id"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email"`
	Organization   *string    `json:"organization,omitempty"`
	Topic          string     `json:"topic"`
	Details        *string    `json:"details,omitempty"`
	Status         string     `json:"status"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote *string    `json:"resolution_note,omitempty"`
	AgendaItemID   *string    `json:"agenda_item_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
