package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type minuteRepository struct{ s *Store }

func (r *minuteRepository) Create(ctx context.Context, minute *entities.Minute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&minute.ID)
	r.s.minutes[minute.ID] = *minute
	return nil
}

func (r *minuteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Minute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.minutes[id]
	if !ok {
		return nil, entities.NewNotFoundError(entities.EntityMinute, id)
	}
	return &m, nil
}

func (r *minuteRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Minute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.Minute
	for _, m := range r.s.minutes {
		if m.MeetingID == meetingID {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *minuteRepository) UpdateStatus(ctx context.Context, minute *entities.Minute, from entities.MinuteStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.minutes[minute.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityMinute, minute.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = minute.Status
	stored.ApprovedBy = minute.ApprovedBy
	stored.ApprovedAt = minute.ApprovedAt
	stored.PublishedAt = minute.PublishedAt
	stored.ArchiveKey = minute.ArchiveKey
	stored.UpdatedAt = minute.UpdatedAt
	r.s.minutes[minute.ID] = stored
	r.s.record(entities.EntityMinute, minute.ID, string(from), string(minute.Status), actor, minute.UpdatedAt)
	return nil
}
