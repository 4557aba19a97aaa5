package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type agendaItemRepository struct{ s *Store }

func (r *agendaItemRepository) Create(ctx context.Context, item *entities.AgendaItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&item.ID)
	r.s.agenda[item.ID] = *item
	return nil
}

func (r *agendaItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AgendaItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.agenda[id]
	if !ok {
		return nil, entities.NewNotFoundError(entities.EntityAgendaItem, id)
	}
	return &item, nil
}

func (r *agendaItemRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.agendaOf(meetingID), nil
}

// agendaOf returns the meeting's items by position; callers hold a lock
func (s *Store) agendaOf(meetingID uuid.UUID) []*entities.AgendaItem {
	var items []*entities.AgendaItem
	for _, item := range s.agenda {
		if item.MeetingID == meetingID {
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (r *agendaItemRepository) CountByMeeting(ctx context.Context, meetingID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.agendaOf(meetingID))), nil
}

func (r *agendaItemRepository) NextPosition(ctx context.Context, meetingID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	maxPos := 0
	for _, item := range r.s.agenda {
		if item.MeetingID == meetingID && item.Position > maxPos {
			maxPos = item.Position
		}
	}
	return maxPos + 1, nil
}

func (r *agendaItemRepository) UpdateStatus(ctx context.Context, item *entities.AgendaItem, from entities.AgendaStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.agenda[item.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityAgendaItem, item.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = item.Status
	stored.ReviewerID = item.ReviewerID
	stored.SubmittedAt = item.SubmittedAt
	stored.ApprovedAt = item.ApprovedAt
	stored.ConsentAt = item.ConsentAt
	stored.ClosedAt = item.ClosedAt
	stored.UpdatedAt = item.UpdatedAt
	r.s.agenda[item.ID] = stored
	r.s.record(entities.EntityAgendaItem, item.ID, string(from), string(item.Status), actor, item.UpdatedAt)
	return nil
}

func (r *agendaItemRepository) Reorder(ctx context.Context, meetingID uuid.UUID, orderedIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current := r.s.agendaOf(meetingID)
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		item, ok := r.s.agenda[id]
		if !ok || item.MeetingID != meetingID || seen[id] {
			seen = nil
			break
		}
		seen[id] = true
	}
	if seen == nil || len(orderedIDs) != len(current) {
		return entities.NewValidationError("item_ids", fmt.Sprintf("must list each of the meeting's %d items once", len(current)))
	}

	for i, id := range orderedIDs {
		item := r.s.agenda[id]
		item.Position = i + 1
		r.s.agenda[id] = item
	}
	return nil
}
