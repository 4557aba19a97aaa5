// Package memory keeps every aggregate in process memory. It honours the same
// contracts as the gorm repositories, including compare-and-set status updates
// and cascading meeting deletes.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// Store holds all tables behind a single lock
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]entities.User
	meetings    map[uuid.UUID]entities.Meeting
	agenda      map[uuid.UUID]entities.AgendaItem
	actions     map[uuid.UUID]entities.ActionItem
	minutes     map[uuid.UUID]entities.Minute
	attendance  map[uuid.UUID]entities.AttendanceRecord
	presenters  map[uuid.UUID]entities.Presenter
	requests    map[uuid.UUID]entities.ExternalRequest
	transitions []entities.Transition
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]entities.User),
		meetings:   make(map[uuid.UUID]entities.Meeting),
		agenda:     make(map[uuid.UUID]entities.AgendaItem),
		actions:    make(map[uuid.UUID]entities.ActionItem),
		minutes:    make(map[uuid.UUID]entities.Minute),
		attendance: make(map[uuid.UUID]entities.AttendanceRecord),
		presenters: make(map[uuid.UUID]entities.Presenter),
		requests:   make(map[uuid.UUID]entities.ExternalRequest),
	}
}

// Repositories returns repository views sharing this store
func (s *Store) Repositories() repositories.Registry {
	return repositories.Registry{
		Users:            &userRepository{s},
		Meetings:         &meetingRepository{s},
		AgendaItems:      &agendaItemRepository{s},
		ActionItems:      &actionItemRepository{s},
		Minutes:          &minuteRepository{s},
		Attendance:       &attendanceRepository{s},
		Presenters:       &presenterRepository{s},
		ExternalRequests: &externalRequestRepository{s},
		Transitions:      &transitionRepository{s},
	}
}

// Counts reports the number of rows per table, for assertions in tests
type Counts struct {
	Meetings, AgendaItems, ActionItems, Minutes, Attendance, Presenters, ExternalRequests, Transitions int
}

// Counts snapshots table sizes
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Meetings:         len(s.meetings),
		AgendaItems:      len(s.agenda),
		ActionItems:      len(s.actions),
		Minutes:          len(s.minutes),
		Attendance:       len(s.attendance),
		Presenters:       len(s.presenters),
		ExternalRequests: len(s.requests),
		Transitions:      len(s.transitions),
	}
}

// record appends an audit row; callers hold the write lock
func (s *Store) record(entity entities.EntityType, id uuid.UUID, from, to string, actor *uuid.UUID, at time.Time) {
	t := entities.NewTransition(entity, id, from, to, actor, at)
	t.ID = uuid.New()
	s.transitions = append(s.transitions, t)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
