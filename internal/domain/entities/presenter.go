package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Presenter is a person presenting at a meeting. Internal presenters reference a user.
type Presenter struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"meeting_id"`
	AgendaItemID *uuid.UUID `gorm:"type:uuid;index" json:"agenda_item_id,omitempty"`
	UserID       *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Organization *string    `gorm:"type:varchar(255)" json:"organization,omitempty"`
	External     bool       `gorm:"not null;default:false" json:"external"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for Presenter
func (Presenter) TableName() string {
	return "presenters"
}

// BeforeCreate assigns an ID when missing
func (p *Presenter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsInternal checks if the presenter is a registered user
func (p *Presenter) IsInternal() bool {
	return !p.External && p.UserID != nil
}
