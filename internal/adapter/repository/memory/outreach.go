package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type presenterRepository struct{ s *Store }

func (r *presenterRepository) Create(ctx context.Context, presenter *entities.Presenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&presenter.ID)
	r.s.presenters[presenter.ID] = *presenter
	return nil
}

func (r *presenterRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Presenter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.Presenter
	for _, p := range r.s.presenters {
		if p.MeetingID == meetingID {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type externalRequestRepository struct{ s *Store }

func (r *externalRequestRepository) Create(ctx context.Context, req *entities.ExternalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&req.ID)
	r.s.requests[req.ID] = *req
	return nil
}

func (r *externalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExternalRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, entities.NewNotFoundError(entities.EntityExternalRequest, id)
	}
	return &req, nil
}

func (r *externalRequestRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, status *entities.ExternalRequestStatus) ([]*entities.ExternalRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.ExternalRequest
	for _, req := range r.s.requests {
		if req.MeetingID != meetingID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *externalRequestRepository) Approve(ctx context.Context, req *entities.ExternalRequest, item *entities.AgendaItem, presenter *entities.Presenter, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.resolve(req, entities.ExternalRequestPending, actor); err != nil {
		return err
	}
	ensureID(&item.ID)
	r.s.agenda[item.ID] = *item
	if presenter != nil {
		ensureID(&presenter.ID)
		r.s.presenters[presenter.ID] = *presenter
	}
	return nil
}

func (r *externalRequestRepository) UpdateStatus(ctx context.Context, req *entities.ExternalRequest, from entities.ExternalRequestStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.resolve(req, from, actor)
}

// resolve applies the status compare-and-set; callers hold the write lock
func (r *externalRequestRepository) resolve(req *entities.ExternalRequest, from entities.ExternalRequestStatus, actor *uuid.UUID) error {
	stored, ok := r.s.requests[req.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityExternalRequest, req.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = req.Status
	stored.ResolvedBy = req.ResolvedBy
	stored.ResolvedAt = req.ResolvedAt
	stored.ResolutionNote = req.ResolutionNote
	stored.AgendaItemID = req.AgendaItemID
	stored.UpdatedAt = req.UpdatedAt
	r.s.requests[req.ID] = stored
	r.s.record(entities.EntityExternalRequest, req.ID, string(from), string(req.Status), actor, req.UpdatedAt)
	return nil
}
