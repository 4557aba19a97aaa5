package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type actionItemRepository struct{ s *Store }

func (r *actionItemRepository) Create(ctx context.Context, item *entities.ActionItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&item.ID)
	r.s.actions[item.ID] = *item
	return nil
}

func (r *actionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.actions[id]
	if !ok {
		return nil, entities.NewNotFoundError(entities.EntityActionItem, id)
	}
	return &item, nil
}

func (r *actionItemRepository) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*entities.ActionItem, error) {
	return r.filter(func(a *entities.ActionItem) bool {
		return a.AssigneeID == assigneeID
	}), nil
}

func (r *actionItemRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*entities.ActionItem, error) {
	return r.filter(func(a *entities.ActionItem) bool {
		return a.IsOverdue(asOf)
	}), nil
}

func (r *actionItemRepository) filter(keep func(*entities.ActionItem) bool) []*entities.ActionItem {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.ActionItem
	for _, item := range r.s.actions {
		if keep(&item) {
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func (r *actionItemRepository) UpdateStatus(ctx context.Context, item *entities.ActionItem, from entities.ActionStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.actions[item.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityActionItem, item.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = item.Status
	stored.CompletedAt = item.CompletedAt
	stored.RejectedAt = item.RejectedAt
	stored.RejectReason = item.RejectReason
	stored.UpdatedAt = item.UpdatedAt
	r.s.actions[item.ID] = stored
	r.s.record(entities.EntityActionItem, item.ID, string(from), string(item.Status), actor, item.UpdatedAt)
	return nil
}
