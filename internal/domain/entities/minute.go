package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MinuteStatus represents the approval stage of a minute
type MinuteStatus string

const (
	MinuteStatusRecorded  MinuteStatus = "recorded"
	MinuteStatusApproved  MinuteStatus = "approved"
	MinuteStatusPublished MinuteStatus = "published"
)

// IsValid checks if the status is known
func (s MinuteStatus) IsValid() bool {
	switch s {
	case MinuteStatusRecorded, MinuteStatusApproved, MinuteStatusPublished:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s
func (s MinuteStatus) CanTransitionTo(next MinuteStatus) bool {
	switch s {
	case MinuteStatusRecorded:
		return next == MinuteStatusApproved
	case MinuteStatusApproved:
		return next == MinuteStatusPublished
	case MinuteStatusPublished:
		return false
	}
	return false
}

// MinuteKind classifies what a minute records
type MinuteKind string

const (
	MinuteKindNote     MinuteKind = "note"
	MinuteKindDecision MinuteKind = "decision"
	MinuteKindVote     MinuteKind = "vote"
)

// IsValid checks if the kind is known
func (k MinuteKind) IsValid() bool {
	switch k {
	case MinuteKindNote, MinuteKindDecision, MinuteKindVote:
		return true
	}
	return false
}

// VoteTally is the result of a recorded vote
type VoteTally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

// Carried reports whether the motion passed by simple majority
func (v VoteTally) Carried() bool {
	return v.For > v.Against
}

// Minute is a recorded note, decision or vote from a meeting
type Minute struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Meeting      *Meeting       `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	AgendaItemID *uuid.UUID     `gorm:"type:uuid;index" json:"agenda_item_id,omitempty"`
	RecorderID   uuid.UUID      `gorm:"type:uuid;not null" json:"recorder_id"`
	Kind         MinuteKind     `gorm:"type:varchar(20);not null;default:'note'" json:"kind"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	Decision     *string        `gorm:"type:text" json:"decision,omitempty"`
	Votes        datatypes.JSON `gorm:"type:jsonb" json:"votes,omitempty"`
	Status       MinuteStatus   `gorm:"type:varchar(20);not null;default:'recorded';index" json:"status"`
	ApprovedBy   *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	ArchiveKey   *string        `gorm:"type:varchar(500)" json:"archive_key,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Minute
func (Minute) TableName() string {
	return "minutes"
}

// BeforeCreate assigns an ID when missing
func (m *Minute) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Tally decodes the stored vote counts. Minutes that are not votes return nil.
func (m *Minute) Tally() (*VoteTally, error) {
	if len(m.Votes) == 0 {
		return nil, nil
	}
	var v VoteTally
	if err := json.Unmarshal(m.Votes, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetTally stores vote counts on the minute
func (m *Minute) SetTally(v VoteTally) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Votes = datatypes.JSON(b)
	return nil
}

// Approve accepts the minute as an accurate record
func (m *Minute) Approve(approverID uuid.UUID, at time.Time) error {
	if err := m.transition(MinuteStatusApproved); err != nil {
		return err
	}
	m.ApprovedBy = &approverID
	m.ApprovedAt = &at
	m.UpdatedAt = at
	return nil
}

// Publish marks an approved minute as public and remembers where it was archived
func (m *Minute) Publish(archiveKey string, at time.Time) error {
	if err := m.transition(MinuteStatusPublished); err != nil {
		return err
	}
	if archiveKey != "" {
		m.ArchiveKey = &archiveKey
	}
	m.PublishedAt = &at
	m.UpdatedAt = at
	return nil
}

func (m *Minute) transition(next MinuteStatus) error {
	if !m.Status.CanTransitionTo(next) {
		return NewTransitionError(EntityMinute, m.ID, string(m.Status), string(next))
	}
	m.Status = next
	return nil
}
