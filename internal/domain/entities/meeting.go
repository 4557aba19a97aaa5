package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingStatus represents the lifecycle stage of a meeting
type MeetingStatus string

const (
	MeetingStatusDraft     MeetingStatus = "draft"
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusPostponed MeetingStatus = "postponed"
)

// IsValid checks if the status is one of the known meeting statuses
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusDraft, MeetingStatusScheduled, MeetingStatusCompleted,
		MeetingStatusCancelled, MeetingStatusPostponed:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	switch s {
	case MeetingStatusDraft:
		return next == MeetingStatusScheduled || next == MeetingStatusCancelled
	case MeetingStatusScheduled:
		return next == MeetingStatusCompleted || next == MeetingStatusCancelled || next == MeetingStatusPostponed
	}
	return false
}

// IsClosed reports whether the meeting accepts no further changes
func (s MeetingStatus) IsClosed() bool {
	switch s {
	case MeetingStatusCompleted, MeetingStatusCancelled, MeetingStatusPostponed:
		return true
	}
	return false
}

// Meeting represents a scheduled gathering with an agenda
type Meeting struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   *string        `gorm:"type:text" json:"description,omitempty"`
	Location      *string        `gorm:"type:varchar(255)" json:"location,omitempty"`
	ChairpersonID uuid.UUID      `gorm:"type:uuid;not null;index" json:"chairperson_id"`
	Status        MeetingStatus  `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ScheduledDate *time.Time     `gorm:"index" json:"scheduled_date,omitempty"`
	ScheduledAt   *time.Time     `json:"scheduled_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	ClosedAt      *time.Time     `json:"closed_at,omitempty"`
	CloseReason   *string        `gorm:"type:text" json:"close_reason,omitempty"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// BeforeCreate assigns an ID when missing
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewMeeting creates a draft meeting
func NewMeeting(title string, chairpersonID uuid.UUID, scheduledDate *time.Time) *Meeting {
	now := time.Now().UTC()
	return &Meeting{
		ID:            uuid.New(),
		Title:         title,
		ChairpersonID: chairpersonID,
		Status:        MeetingStatusDraft,
		ScheduledDate: scheduledDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsScheduled checks if the meeting is published on the calendar
func (m *Meeting) IsScheduled() bool {
	return m.Status == MeetingStatusScheduled
}

// IsCompleted checks if the meeting already took place
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// IsClosed checks if the meeting has left the workflow
func (m *Meeting) IsClosed() bool {
	return m.Status.IsClosed()
}

// Schedule publishes a draft meeting. A scheduled date is mandatory.
func (m *Meeting) Schedule(at time.Time) error {
	if m.ScheduledDate == nil || m.ScheduledDate.IsZero() {
		return NewValidationError("scheduled_date", "is required to schedule a meeting")
	}
	if err := m.transition(MeetingStatusScheduled); err != nil {
		return err
	}
	m.ScheduledAt = &at
	m.UpdatedAt = at
	return nil
}

// Complete marks a scheduled meeting as held
func (m *Meeting) Complete(at time.Time) error {
	if err := m.transition(MeetingStatusCompleted); err != nil {
		return err
	}
	m.CompletedAt = &at
	m.UpdatedAt = at
	return nil
}

// Cancel calls off a draft or scheduled meeting
func (m *Meeting) Cancel(reason string, at time.Time) error {
	return m.close(MeetingStatusCancelled, reason, at)
}

// Postpone takes a scheduled meeting off the calendar. A new date means a new meeting.
func (m *Meeting) Postpone(reason string, at time.Time) error {
	return m.close(MeetingStatusPostponed, reason, at)
}

func (m *Meeting) close(next MeetingStatus, reason string, at time.Time) error {
	if err := m.transition(next); err != nil {
		return err
	}
	if reason != "" {
		m.CloseReason = &reason
	}
	m.ClosedAt = &at
	m.UpdatedAt = at
	return nil
}

func (m *Meeting) transition(next MeetingStatus) error {
	if !m.Status.CanTransitionTo(next) {
		return NewTransitionError(EntityMeeting, m.ID, string(m.Status), string(next))
	}
	m.Status = next
	return nil
}
