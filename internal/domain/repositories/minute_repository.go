package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// MinuteRepository defines the interface for minute data access
type MinuteRepository interface {
	Create(ctx context.Context, minute *entities.Minute) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Minute, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error)
	UpdateStatus(ctx context.Context, minute *entities.Minute, from entities.MinuteStatus, actor *uuid.UUID) error
}
