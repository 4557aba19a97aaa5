package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceStatus represents presence of a user at a meeting
type AttendanceStatus string

const (
	AttendanceStatusMarked   AttendanceStatus = "marked"
	AttendanceStatusLate     AttendanceStatus = "late"
	AttendanceStatusDeparted AttendanceStatus = "departed"
)

// IsValid checks if the status is known
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendanceStatusMarked, AttendanceStatusLate, AttendanceStatusDeparted:
		return true
	}
	return false
}

// IsPresent reports whether the attendee is still in the meeting
func (s AttendanceStatus) IsPresent() bool {
	return s == AttendanceStatusMarked || s == AttendanceStatusLate
}

// AttendanceRecord tracks one user's presence at one meeting
type AttendanceRecord struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_meeting_user" json:"meeting_id"`
	Meeting    *Meeting         `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_meeting_user" json:"user_id"`
	Status     AttendanceStatus `gorm:"type:varchar(20);not null;default:'marked'" json:"status"`
	ArrivedAt  time.Time        `gorm:"not null" json:"arrived_at"`
	DepartedAt *time.Time       `json:"departed_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName specifies the table name for AttendanceRecord
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// BeforeCreate assigns an ID when missing
func (a *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewAttendanceRecord marks arrival. The record is late when arrival is after
// the scheduled start plus the grace period.
func NewAttendanceRecord(meeting *Meeting, userID uuid.UUID, arrivedAt time.Time, grace time.Duration) *AttendanceRecord {
	status := AttendanceStatusMarked
	if meeting.ScheduledDate != nil && arrivedAt.After(meeting.ScheduledDate.Add(grace)) {
		status = AttendanceStatusLate
	}
	return &AttendanceRecord{
		ID:        uuid.New(),
		MeetingID: meeting.ID,
		UserID:    userID,
		Status:    status,
		ArrivedAt: arrivedAt,
		CreatedAt: arrivedAt,
		UpdatedAt: arrivedAt,
	}
}

// Depart records the attendee leaving
func (a *AttendanceRecord) Depart(at time.Time) error {
	if !a.Status.IsPresent() {
		return NewTransitionError(EntityAttendance, a.ID, string(a.Status), string(AttendanceStatusDeparted))
	}
	if at.Before(a.ArrivedAt) {
		return NewValidationError("departed_at", "must not be before arrival")
	}
	a.Status = AttendanceStatusDeparted
	a.DepartedAt = &at
	a.UpdatedAt = at
	return nil
}

// Duration returns the time spent in the meeting, zero while still present
func (a *AttendanceRecord) Duration() time.Duration {
	if a.DepartedAt == nil {
		return 0
	}
	return a.DepartedAt.Sub(a.ArrivedAt)
}
