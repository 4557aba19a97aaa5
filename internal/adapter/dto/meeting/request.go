package meeting

import (
	"time"
)

// CreateMeetingRequest represents the request to create a meeting
type CreateMeetingRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=255"`
	Description   *string    `json:"description,omitempty"`
	Location      *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	ChairpersonID *string    `json:"chairperson_id,omitempty" validate:"omitempty,uuid"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status   *string    `query:"status" validate:"omitempty,oneof=draft scheduled completed cancelled postponed"`
	Chair    *string    `query:"chairperson_id" validate:"omitempty,uuid"`
	From     *time.Time `query:"from"`
	To       *time.Time `query:"to"`
	Search   string     `query:"search"`
	Page     int        `query:"page" validate:"min=1"`
	PageSize int        `query:"page_size" validate:"min=1,max=100"`
}

// CloseRequest carries the optional reason for cancelling, postponing or rejecting
type CloseRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// CreateAgendaItemRequest represents the request to propose an agenda item
type CreateAgendaItemRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=255"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes" validate:"min=0,max=480"`
}

// ReorderAgendaRequest lists every item of the meeting in the desired order
type ReorderAgendaRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
}

// AssignActionItemRequest represents the request to assign an action item
type AssignActionItemRequest struct {
	MeetingID    *string   `json:"meeting_id,omitempty" validate:"omitempty,uuid"`
	AgendaItemID *string   `json:"agenda_item_id,omitempty" validate:"omitempty,uuid"`
	AssigneeID   string    `json:"assignee_id" validate:"required,uuid"`
	Title        string    `json:"title" validate:"required,min=1,max=255"`
	Description  *string   `json:"description,omitempty"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	Priority     string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// ListOverdueRequest represents query parameters for the overdue report
type ListOverdueRequest struct {
	AsOf *time.Time `query:"as_of"`
}

// RecordMinuteRequest represents the request to record a minute
type RecordMinuteRequest struct {
	AgendaItemID *string      `json:"agenda_item_id,omitempty" validate:"omitempty,uuid"`
	Kind         string       `json:"kind" validate:"required,oneof=note decision vote"`
	Body         string       `json:"body" validate:"required"`
	Decision     *string      `json:"decision,omitempty"`
	Votes        *VoteRequest `json:"votes,omitempty"`
}

// VoteRequest is a vote tally
type VoteRequest struct {
	For     int `json:"for" validate:"min=0"`
	Against int `json:"against" validate:"min=0"`
	Abstain int `json:"abstain" validate:"min=0"`
}
