package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
	pkgvalidator "github.com/johnquangdev/coreagenda/pkg/validator"
)

// Cache stores rendered agendas between reads
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Archive stores published minute documents
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Dependencies wires the engine to its collaborators. Cache and Archive are optional.
type Dependencies struct {
	Meetings    repositories.MeetingRepository
	AgendaItems repositories.AgendaItemRepository
	ActionItems repositories.ActionItemRepository
	Minutes     repositories.MinuteRepository
	Transitions repositories.TransitionRepository
	Authorizer  authz.Authorizer
	Cache       Cache
	Archive     Archive
	Logger      *zap.Logger
	Clock       func() time.Time
	AgendaTTL   time.Duration
}

// Engine enforces status transitions for meetings, agenda items, action items and minutes
type Engine struct {
	meetings    repositories.MeetingRepository
	agenda      repositories.AgendaItemRepository
	actions     repositories.ActionItemRepository
	minutes     repositories.MinuteRepository
	transitions repositories.TransitionRepository
	authz       authz.Authorizer
	cache       Cache
	archive     Archive
	logger      *zap.Logger
	clock       func() time.Time
	agendaTTL   time.Duration
	validate    *pkgvalidator.CustomValidator
}

// NewEngine creates a new workflow engine
func NewEngine(deps Dependencies) *Engine {
	e := &Engine{
		meetings:    deps.Meetings,
		agenda:      deps.AgendaItems,
		actions:     deps.ActionItems,
		minutes:     deps.Minutes,
		transitions: deps.Transitions,
		authz:       deps.Authorizer,
		cache:       deps.Cache,
		archive:     deps.Archive,
		logger:      deps.Logger,
		clock:       deps.Clock,
		agendaTTL:   deps.AgendaTTL,
		validate:    pkgvalidator.New(),
	}
	if e.authz == nil {
		e.authz = authz.NewRoleAuthorizer(authz.DefaultGrants())
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.agendaTTL <= 0 {
		e.agendaTTL = 5 * time.Minute
	}
	return e
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}

func (e *Engine) check(input interface{}) error {
	return usecaseErrors.FromValidator(e.validate.Validate(input))
}

func (e *Engine) logTransition(entity entities.EntityType, id uuid.UUID, from, to string, actor entities.Actor) {
	e.logger.Info("workflow.transition",
		zap.String("entity", string(entity)),
		zap.String("id", id.String()),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("actor", actor.UserID.String()),
		zap.String("role", string(actor.Role)),
	)
}

// History returns the status audit trail of an entity
func (e *Engine) History(ctx context.Context, entityType entities.EntityType, entityID uuid.UUID) ([]*entities.Transition, error) {
	return e.transitions.ListByEntity(ctx, entityType, entityID)
}
