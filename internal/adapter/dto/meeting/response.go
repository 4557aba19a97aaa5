package meeting

import (
	"time"

	"github.com/johnquangdev/coreagenda/internal/adapter/dto/common"
)

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Location      *string    `json:"location,omitempty"`
	ChairpersonID string     `json:"chairperson_id"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	CloseReason   *string    `json:"close_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []*MeetingResponse         `json:"meetings"`
	Pagination *common.PaginationResponse `json:"pagination"`
}

// DeleteMeetingResponse reports what a meeting delete removed
type DeleteMeetingResponse struct {
	MeetingID         string `json:"meeting_id"`
	AgendaItems       int64  `json:"agenda_items"`
	Minutes           int64  `json:"minutes"`
	AttendanceRecords int64  `json:"attendance_records"`
	Presenters        int64  `json:"presenters"`
	ExternalRequests  int64  `json:"external_requests"`
	DetachedActions   int64  `json:"detached_action_items"`
}

// AgendaItemResponse represents an agenda item in API responses
type AgendaItemResponse struct {
	ID              string     `json:"id"`
	MeetingID       string     `json:"meeting_id"`
	ProposerID      string     `json:"proposer_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Position        int        `json:"position"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	ReviewerID      *string    `json:"reviewer_id,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ConsentAt       *time.Time `json:"consent_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AgendaResponse represents a meeting's ordered agenda
type AgendaResponse struct {
	MeetingID    string                `json:"meeting_id"`
	Items        []*AgendaItemResponse `json:"items"`
	ConsentCount int                   `json:"consent_count"`
	TotalMinutes int                   `json:"total_minutes"`
}

// ActionItemResponse represents an action item. Status is derived: an open item
// past its due date reports "overdue".
type ActionItemResponse struct {
	ID           string     `json:"id"`
	MeetingID    *string    `json:"meeting_id,omitempty"`
	AgendaItemID *string    `json:"agenda_item_id,omitempty"`
	AssigneeID   string     `json:"assignee_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Overdue      bool       `json:"overdue"`
	DueDate      time.Time  `json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty"`
	RejectReason *string    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MinuteResponse represents a minute in API responses
type MinuteResponse struct {
	ID           string       `json:"id"`
	MeetingID    string       `json:"meeting_id"`
	AgendaItemID *string      `json:"agenda_item_id,omitempty"`
	RecorderID   string       `json:"recorder_id"`
	Kind         string       `json:"kind"`
	Body         string       `json:"body"`
	Decision     *string      `json:"decision,omitempty"`
	Votes        *VoteRequest `json:"votes,omitempty"`
	Carried      *bool        `json:"carried,omitempty"`
	Status       string       `json:"status"`
	ApprovedBy   *string      `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time   `json:"approved_at,omitempty"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	ArchiveKey   *string      `json:"archive_key,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TransitionResponse is one entry of an entity's status history
type TransitionResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    *string   `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
