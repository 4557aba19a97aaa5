package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// UpdateStatus persists a transition if the stored status still equals from
	UpdateStatus(ctx context.Context, meeting *entities.Meeting, from entities.MeetingStatus, actor *uuid.UUID) error

	// Delete removes a meeting and everything it owns
	Delete(ctx context.Context, id uuid.UUID) (*CascadeResult, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status        *entities.MeetingStatus
	ChairpersonID *uuid.UUID
	From          *time.Time
	To            *time.Time
	Search        string
	Limit         int
	Offset        int
}

// CascadeResult counts rows removed or detached by a meeting delete
type CascadeResult struct {
	AgendaItems       int64 `json:"agenda_items"`
	Minutes           int64 `json:"minutes"`
	AttendanceRecords int64 `json:"attendance_records"`
	Presenters        int64 `json:"presenters"`
	ExternalRequests  int64 `json:"external_requests"`
	DetachedActions   int64 `json:"detached_action_items"`
}
