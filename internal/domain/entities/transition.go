package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityType names the aggregate a transition was applied to
type EntityType string

const (
	EntityMeeting         EntityType = "meeting"
	EntityAgendaItem      EntityType = "agenda_item"
	EntityActionItem      EntityType = "action_item"
	EntityMinute          EntityType = "minute"
	EntityAttendance      EntityType = "attendance_record"
	EntityPresenter       EntityType = "presenter"
	EntityExternalRequest EntityType = "external_request"
	EntityUser            EntityType = "user"
)

// Transition is one row of the status audit trail
type Transition struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	EntityType EntityType `gorm:"type:varchar(32);not null;index:idx_transition_entity" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_transition_entity" json:"entity_id"`
	FromStatus string     `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   string     `gorm:"type:varchar(20);not null" json:"to_status"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	OccurredAt time.Time  `gorm:"not null" json:"occurred_at"`
}

// TableName specifies the table name for Transition
func (Transition) TableName() string {
	return "status_transitions"
}

// BeforeCreate assigns an ID when missing
func (t *Transition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NewTransition records a status change performed by actor at the given time
func NewTransition(entity EntityType, id uuid.UUID, from, to string, actor *uuid.UUID, at time.Time) Transition {
	return Transition{
		EntityType: entity,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor,
		OccurredAt: at,
	}
}
