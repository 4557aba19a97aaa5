package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionStatus represents the progress of a follow-up task.
// Overdue is never stored; it is derived from the due date of an assigned item.
type ActionStatus string

const (
	ActionStatusAssigned  ActionStatus = "assigned"
	ActionStatusOverdue   ActionStatus = "overdue"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusRejected  ActionStatus = "rejected"
)

// IsValid checks if the status is one of the known action statuses
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusAssigned, ActionStatusOverdue, ActionStatusCompleted, ActionStatusRejected:
		return true
	}
	return false
}

// ActionPriority ranks action items
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
	PriorityUrgent ActionPriority = "urgent"
)

// IsValid checks if the priority is known
func (p ActionPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ActionItem is a follow-up task that came out of a meeting
type ActionItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID    *uuid.UUID     `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
	AgendaItemID *uuid.UUID     `gorm:"type:uuid;index" json:"agenda_item_id,omitempty"`
	AssigneeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"assignee_id"`
	AssignedBy   *uuid.UUID     `gorm:"type:uuid" json:"assigned_by,omitempty"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	Priority     ActionPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       ActionStatus   `gorm:"type:varchar(20);not null;default:'assigned';index" json:"status"`
	DueDate      time.Time      `gorm:"not null;index" json:"due_date"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	RejectedAt   *time.Time     `json:"rejected_at,omitempty"`
	RejectReason *string        `gorm:"type:text" json:"reject_reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// BeforeCreate assigns an ID when missing
func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsCompleted checks if the task is done
func (a *ActionItem) IsCompleted() bool {
	return a.Status == ActionStatusCompleted
}

// IsOpen checks if the task still awaits completion
func (a *ActionItem) IsOpen() bool {
	return a.Status == ActionStatusAssigned || a.Status == ActionStatusOverdue
}

// IsOverdue is true when asOf is strictly after the due date and the task is still open
func (a *ActionItem) IsOverdue(asOf time.Time) bool {
	return a.IsOpen() && asOf.After(a.DueDate)
}

// EffectiveStatus returns the derived status as of the given time
func (a *ActionItem) EffectiveStatus(asOf time.Time) ActionStatus {
	if a.IsOverdue(asOf) {
		return ActionStatusOverdue
	}
	return a.Status
}

// Complete closes the task. It reports false when the task was already completed.
func (a *ActionItem) Complete(at time.Time) (bool, error) {
	switch a.Status {
	case ActionStatusCompleted:
		return false, nil
	case ActionStatusAssigned, ActionStatusOverdue:
		a.Status = ActionStatusCompleted
		a.CompletedAt = &at
		a.UpdatedAt = at
		return true, nil
	}
	return false, NewTransitionError(EntityActionItem, a.ID, string(a.Status), string(ActionStatusCompleted))
}

// Reject drops an open task without doing it
func (a *ActionItem) Reject(reason string, at time.Time) error {
	if !a.IsOpen() {
		return NewTransitionError(EntityActionItem, a.ID, string(a.Status), string(ActionStatusRejected))
	}
	a.Status = ActionStatusRejected
	if reason != "" {
		a.RejectReason = &reason
	}
	a.RejectedAt = &at
	a.UpdatedAt = at
	return nil
}

// Detach drops the link to the originating meeting and agenda item
func (a *ActionItem) Detach() {
	a.MeetingID = nil
	a.AgendaItemID = nil
}
