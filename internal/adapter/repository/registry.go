package repository

import (
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// NewRegistry returns gorm repositories sharing one connection pool
func NewRegistry(db *gorm.DB) repositories.Registry {
	return repositories.Registry{
		Users:            NewUserRepository(db),
		Meetings:         NewMeetingRepository(db),
		AgendaItems:      NewAgendaItemRepository(db),
		ActionItems:      NewActionItemRepository(db),
		Minutes:          NewMinuteRepository(db),
		Attendance:       NewAttendanceRepository(db),
		Presenters:       NewPresenterRepository(db),
		ExternalRequests: NewExternalRequestRepository(db),
		Transitions:      NewTransitionRepository(db),
	}
}
