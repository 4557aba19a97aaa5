package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/meeting"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

// Minute handles minutes HTTP requests
type Minute struct {
	workflow workflow.Service
	logger   *zap.Logger
}

// NewMinuteHandler creates a new minutes handler
func NewMinuteHandler(workflow workflow.Service, logger *zap.Logger) *Minute {
	return &Minute{
		workflow: workflow,
		logger:   logger,
	}
}

// RecordMinute handles POST /meetings/:id/minutes
// @Summary      Record a minute
// @Description  Votes are required for kind=vote and decision text for kind=decision
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Meeting ID (UUID)"
// @Param        request  body      meeting.RecordMinuteRequest  true  "Minute"
// @Success      201      {object}  meeting.MinuteResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Router       /meetings/{id}/minutes [post]
func (h *Minute) RecordMinute(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.RecordMinuteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	agendaItemID, err := parseOptionalID("agenda_item_id", req.AgendaItemID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input := workflow.RecordMinuteInput{
		MeetingID:    meetingID,
		AgendaItemID: agendaItemID,
		Kind:         entities.MinuteKind(req.Kind),
		Body:         req.Body,
		Decision:     req.Decision,
	}
	if req.Votes != nil {
		input.Votes = &entities.VoteTally{For: req.Votes.For, Against: req.Votes.Against, Abstain: req.Votes.Abstain}
	}

	m, err := h.workflow.RecordMinute(c.Request().Context(), input, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToMinuteResponse(m))
}

// ListMinutes handles GET /meetings/:id/minutes
// @Summary      List a meeting's minutes
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {array}   meeting.MinuteResponse
// @Router       /meetings/{id}/minutes [get]
func (h *Minute) ListMinutes(c echo.Context) error {
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	minutes, err := h.workflow.ListMinutes(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMinuteList(minutes))
}

// ApproveMinute handles POST /minutes/:id/approve
// @Summary      Approve a recorded minute
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Minute ID (UUID)"
// @Success      200  {object}  meeting.MinuteResponse
// @Failure      403  {object}  map[string]interface{}  "Missing approve_minutes"
// @Failure      409  {object}  map[string]interface{}  "Minute is not recorded"
// @Router       /minutes/{id}/approve [post]
func (h *Minute) ApproveMinute(c echo.Context) error {
	return h.transition(c, h.workflow.ApproveMinute)
}

// PublishMinute handles POST /minutes/:id/publish
// @Summary      Publish an approved minute
// @Description  Writes the minute document to the archive before marking it published
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Minute ID (UUID)"
// @Success      200  {object}  meeting.MinuteResponse
// @Failure      409  {object}  map[string]interface{}  "Minute is not approved"
// @Router       /minutes/{id}/publish [post]
func (h *Minute) PublishMinute(c echo.Context) error {
	return h.transition(c, h.workflow.PublishMinute)
}

func (h *Minute) transition(c echo.Context, apply func(ctx context.Context, id uuid.UUID, actor entities.Actor) (*entities.Minute, error)) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := apply(c.Request().Context(), id, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMinuteResponse(m))
}
