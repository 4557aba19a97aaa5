package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

type transitionRepository struct{ s *Store }

func (r *transitionRepository) ListByEntity(ctx context.Context, entityType entities.EntityType, entityID uuid.UUID) ([]*entities.Transition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.Transition
	for _, t := range r.s.transitions {
		if t.EntityType == entityType && t.EntityID == entityID {
			out = append(out, &t)
		}
	}
	return out, nil
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email already registered", entities.ErrAlreadyExists)
		}
	}
	ensureID(&user.ID)
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *userRepository) DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, u := range r.s.users {
		if strings.HasSuffix(u.Email, suffix) {
			delete(r.s.users, id)
			n++
		}
	}
	return n, nil
}
