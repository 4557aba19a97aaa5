package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
	pkgvalidator "github.com/johnquangdev/coreagenda/pkg/validator"
)

// AddPresenterInput represents input for registering a presenter. Either UserID
// or Name must be set.
type AddPresenterInput struct {
	MeetingID    uuid.UUID  `json:"meeting_id"`
	AgendaItemID *uuid.UUID `json:"agenda_item_id"`
	UserID       *uuid.UUID `json:"user_id"`
	Name         string     `json:"name" validate:"max=255"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Organization *string    `json:"organization" validate:"omitempty,max=255"`
}

// SubmitExternalRequestInput represents a request from outside to present a topic
type SubmitExternalRequestInput struct {
	MeetingID      uuid.UUID `json:"meeting_id"`
	RequesterName  string    `json:"requester_name" validate:"required,max=255"`
	RequesterEmail string    `json:"requester_email" validate:"required,email"`
	Organization   *string   `json:"organization" validate:"omitempty,max=255"`
	Topic          string    `json:"topic" validate:"required,max=255"`
	Details        *string   `json:"details"`
}

// Service defines the interface for presenters and external requests
type Service interface {
	AddPresenter(ctx context.Context, input AddPresenterInput) (*entities.Presenter, error)
	ListPresenters(ctx context.Context, meetingID uuid.UUID) ([]*entities.Presenter, error)
	SubmitExternalRequest(ctx context.Context, input SubmitExternalRequestInput) (*entities.ExternalRequest, error)
	ApproveExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor) (*entities.ExternalRequest, *entities.AgendaItem, error)
	RejectExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor, note string) (*entities.ExternalRequest, error)
	DeferExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor, note string) (*entities.ExternalRequest, error)
	WithdrawExternalRequest(ctx context.Context, requestID uuid.UUID, requesterEmail string) (*entities.ExternalRequest, error)
	ListPendingRequests(ctx context.Context, meetingID uuid.UUID) ([]*entities.ExternalRequest, error)
	ListRequests(ctx context.Context, meetingID uuid.UUID, status *entities.ExternalRequestStatus) ([]*entities.ExternalRequest, error)
}

// AgendaInvalidator drops a meeting's cached agenda
type AgendaInvalidator interface {
	InvalidateAgenda(ctx context.Context, meetingID uuid.UUID)
}

// Dependencies wires the outreach service
type Dependencies struct {
	Meetings    repositories.MeetingRepository
	AgendaItems repositories.AgendaItemRepository
	Presenters  repositories.PresenterRepository
	Requests    repositories.ExternalRequestRepository
	Users       repositories.UserRepository
	Authorizer  authz.Authorizer
	Invalidator AgendaInvalidator
	Logger      *zap.Logger
	Clock       func() time.Time
}

type service struct {
	meetings    repositories.MeetingRepository
	agenda      repositories.AgendaItemRepository
	presenters  repositories.PresenterRepository
	requests    repositories.ExternalRequestRepository
	users       repositories.UserRepository
	authz       authz.Authorizer
	invalidator AgendaInvalidator
	logger      *zap.Logger
	clock       func() time.Time
	validate    *pkgvalidator.CustomValidator
}

// NewService creates a new outreach service
func NewService(deps Dependencies) Service {
	s := &service{
		meetings:    deps.Meetings,
		agenda:      deps.AgendaItems,
		presenters:  deps.Presenters,
		requests:    deps.Requests,
		users:       deps.Users,
		authz:       deps.Authorizer,
		invalidator: deps.Invalidator,
		logger:      deps.Logger,
		clock:       deps.Clock,
		validate:    pkgvalidator.New(),
	}
	if s.authz == nil {
		s.authz = authz.NewRoleAuthorizer(authz.DefaultGrants())
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

func (s *service) now() time.Time {
	return s.clock().UTC()
}

// AddPresenter registers an internal presenter (by user) or an external one (by name)
func (s *service) AddPresenter(ctx context.Context, input AddPresenterInput) (*entities.Presenter, error) {
	if err := usecaseErrors.FromValidator(s.validate.Validate(input)); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if input.UserID == nil && name == "" {
		return nil, usecaseErrors.ErrPresenterIdentity
	}

	if _, err := s.meetings.FindByID(ctx, input.MeetingID); err != nil {
		return nil, err
	}
	if input.AgendaItemID != nil {
		item, err := s.agenda.FindByID(ctx, *input.AgendaItemID)
		if err != nil {
			return nil, err
		}
		if item.MeetingID != input.MeetingID {
			return nil, entities.NewValidationError("agenda_item_id", "belongs to a different meeting")
		}
	}

	presenter := &entities.Presenter{
		ID:           uuid.New(),
		MeetingID:    input.MeetingID,
		AgendaItemID: input.AgendaItemID,
		UserID:       input.UserID,
		Name:         name,
		Email:        input.Email,
		Organization: input.Organization,
		External:     input.UserID == nil,
		CreatedAt:    s.now(),
	}

	if input.UserID != nil && s.users != nil {
		user, err := s.users.FindByID(ctx, *input.UserID)
		if err != nil {
			return nil, err
		}
		if presenter.Name == "" {
			presenter.Name = user.Name
		}
		if presenter.Email == nil {
			presenter.Email = &user.Email
		}
	}

	if err := s.presenters.Create(ctx, presenter); err != nil {
		return nil, fmt.Errorf("failed to add presenter: %w", err)
	}
	return presenter, nil
}

// ListPresenters returns a meeting's presenters
func (s *service) ListPresenters(ctx context.Context, meetingID uuid.UUID) ([]*entities.Presenter, error) {
	return s.presenters.ListByMeeting(ctx, meetingID)
}

// SubmitExternalRequest files a pending request for a meeting
func (s *service) SubmitExternalRequest(ctx context.Context, input SubmitExternalRequestInput) (*entities.ExternalRequest, error) {
	if err := usecaseErrors.FromValidator(s.validate.Validate(input)); err != nil {
		return nil, err
	}

	meeting, err := s.meetings.FindByID(ctx, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.IsClosed() {
		return nil, usecaseErrors.ErrMeetingClosed
	}

	now := s.now()
	req := &entities.ExternalRequest{
		ID:             uuid.New(),
		MeetingID:      meeting.ID,
		RequesterName:  input.RequesterName,
		RequesterEmail: strings.ToLower(input.RequesterEmail),
		Organization:   input.Organization,
		Topic:          input.Topic,
		Details:        input.Details,
		Status:         entities.ExternalRequestPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to submit external request: %w", err)
	}

	s.logger.Info("outreach.request.submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("meeting_id", req.MeetingID.String()),
	)
	return req, nil
}

// ApproveExternalRequest accepts a pending request. The reviewer becomes the
// proposer of a new draft agenda item and the requester is added as an external presenter.
func (s *service) ApproveExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor) (*entities.ExternalRequest, *entities.AgendaItem, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.Require(reviewer, authz.CapReviewAgenda); err != nil {
		return nil, nil, err
	}

	meeting, err := s.meetings.FindByID(ctx, req.MeetingID)
	if err != nil {
		return nil, nil, err
	}
	if meeting.IsClosed() {
		return nil, nil, usecaseErrors.ErrMeetingClosed
	}

	position, err := s.agenda.NextPosition(ctx, meeting.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute agenda position: %w", err)
	}

	now := s.now()
	item := entities.NewAgendaItem(meeting.ID, reviewer.UserID, req.Topic)
	item.Description = req.Details
	item.Position = position
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := req.Approve(reviewer.UserID, item.ID, now); err != nil {
		return nil, nil, err
	}

	email := req.RequesterEmail
	presenter := &entities.Presenter{
		ID:           uuid.New(),
		MeetingID:    meeting.ID,
		AgendaItemID: &item.ID,
		Name:         req.RequesterName,
		Email:        &email,
		Organization: req.Organization,
		External:     true,
		CreatedAt:    now,
	}

	if err := s.requests.Approve(ctx, req, item, presenter, reviewer.Ref()); err != nil {
		return nil, nil, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateAgenda(ctx, meeting.ID)
	}
	s.logger.Info("workflow.transition",
		zap.String("entity", string(entities.EntityExternalRequest)),
		zap.String("id", req.ID.String()),
		zap.String("from", string(entities.ExternalRequestPending)),
		zap.String("to", string(req.Status)),
		zap.String("agenda_item_id", item.ID.String()),
		zap.String("actor", reviewer.UserID.String()),
	)
	return req, item, nil
}

// RejectExternalRequest declines a pending request
func (s *service) RejectExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor, note string) (*entities.ExternalRequest, error) {
	return s.review(ctx, requestID, reviewer, func(req *entities.ExternalRequest, at time.Time) error {
		return req.Reject(reviewer.UserID, strings.TrimSpace(note), at)
	})
}

// DeferExternalRequest sets a pending request aside for a later meeting
func (s *service) DeferExternalRequest(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor, note string) (*entities.ExternalRequest, error) {
	return s.review(ctx, requestID, reviewer, func(req *entities.ExternalRequest, at time.Time) error {
		return req.Defer(reviewer.UserID, strings.TrimSpace(note), at)
	})
}

func (s *service) review(ctx context.Context, requestID uuid.UUID, reviewer entities.Actor, apply func(*entities.ExternalRequest, time.Time) error) (*entities.ExternalRequest, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Require(reviewer, authz.CapReviewAgenda); err != nil {
		return nil, err
	}

	from := req.Status
	if err := apply(req, s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, req, from, reviewer.Ref()); err != nil {
		return nil, err
	}

	s.logger.Info("workflow.transition",
		zap.String("entity", string(entities.EntityExternalRequest)),
		zap.String("id", req.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
		zap.String("actor", reviewer.UserID.String()),
	)
	return req, nil
}

// WithdrawExternalRequest lets the requester take back a pending or deferred
// request. Requesters have no account, so the email they filed with identifies them.
func (s *service) WithdrawExternalRequest(ctx context.Context, requestID uuid.UUID, requesterEmail string) (*entities.ExternalRequest, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	from := req.Status
	if err := req.Withdraw(requesterEmail, s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, req, from, nil); err != nil {
		return nil, err
	}

	s.logger.Info("workflow.transition",
		zap.String("entity", string(entities.EntityExternalRequest)),
		zap.String("id", req.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
	)
	return req, nil
}

// ListPendingRequests returns a meeting's unresolved requests
func (s *service) ListPendingRequests(ctx context.Context, meetingID uuid.UUID) ([]*entities.ExternalRequest, error) {
	pending := entities.ExternalRequestPending
	return s.requests.ListByMeeting(ctx, meetingID, &pending)
}

// ListRequests returns a meeting's requests, optionally filtered by status
func (s *service) ListRequests(ctx context.Context, meetingID uuid.UUID, status *entities.ExternalRequestStatus) ([]*entities.ExternalRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, entities.NewValidationError("status", "unknown request status")
	}
	return s.requests.ListByMeeting(ctx, meetingID, status)
}
