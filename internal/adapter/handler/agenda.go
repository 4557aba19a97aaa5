package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	meetingDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/meeting"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

// GetAgenda handles GET /meetings/:id/agenda
// @Summary      Get a meeting's agenda
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.AgendaResponse
// @Router       /meetings/{id}/agenda [get]
func (h *Meeting) GetAgenda(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	agenda, err := h.workflow.GetAgenda(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAgendaResponse(agenda))
}

// ReorderAgenda handles PUT /meetings/:id/agenda/order
// @Summary      Reorder a meeting's agenda
// @Description  item_ids must list every item of the meeting exactly once
// @Tags         Agenda
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Meeting ID (UUID)"
// @Param        request  body      meeting.ReorderAgendaRequest     true  "New order"
// @Success      200      {object}  meeting.AgendaResponse
// @Failure      400      {object}  map[string]interface{}  "Order does not match the agenda"
// @Router       /meetings/{id}/agenda/order [put]
func (h *Meeting) ReorderAgenda(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.ReorderAgendaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ids := make([]uuid.UUID, len(req.ItemIDs))
	for i, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, entities.NewValidationError("item_ids", "must be valid UUIDs"))
		}
		ids[i] = id
	}

	agenda, err := h.workflow.ReorderAgenda(c.Request().Context(), meetingID, ids, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAgendaResponse(agenda))
}

// CreateAgendaItem handles POST /meetings/:id/agenda-items
// @Summary      Propose an agenda item
// @Tags         Agenda
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Meeting ID (UUID)"
// @Param        request  body      meeting.CreateAgendaItemRequest  true  "Agenda item"
// @Success      201      {object}  meeting.AgendaItemResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      409      {object}  map[string]interface{}  "Meeting is closed"
// @Router       /meetings/{id}/agenda-items [post]
func (h *Meeting) CreateAgendaItem(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.CreateAgendaItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := h.workflow.CreateAgendaItem(c.Request().Context(), workflow.CreateAgendaItemInput{
		MeetingID:       meetingID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToAgendaItemResponse(item))
}

// SubmitAgendaItem handles POST /agenda-items/:id/submit
// @Summary      Submit a draft agenda item for review
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {object}  meeting.AgendaItemResponse
// @Failure      409  {object}  map[string]interface{}  "Item is not a draft"
// @Router       /agenda-items/{id}/submit [post]
func (h *Meeting) SubmitAgendaItem(c echo.Context) error {
	return h.transitionItem(c, h.workflow.SubmitAgendaItem)
}

// ApproveAgendaItem handles POST /agenda-items/:id/approve
// @Summary      Approve a submitted agenda item
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {object}  meeting.AgendaItemResponse
// @Failure      403  {object}  map[string]interface{}  "Missing review_agenda"
// @Failure      409  {object}  map[string]interface{}  "Item is not submitted"
// @Router       /agenda-items/{id}/approve [post]
func (h *Meeting) ApproveAgendaItem(c echo.Context) error {
	return h.transitionItem(c, h.workflow.ApproveAgendaItem)
}

// MarkConsent handles POST /agenda-items/:id/consent
// @Summary      Move an approved item to the consent agenda
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {object}  meeting.AgendaItemResponse
// @Failure      409  {object}  map[string]interface{}  "Item is not approved"
// @Router       /agenda-items/{id}/consent [post]
func (h *Meeting) MarkConsent(c echo.Context) error {
	return h.transitionItem(c, h.workflow.MarkConsent)
}

// DeferAgendaItem handles POST /agenda-items/:id/defer
// @Summary      Defer an agenda item to a future meeting
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {object}  meeting.AgendaItemResponse
// @Failure      403  {object}  map[string]interface{}  "Missing review_agenda"
// @Failure      409  {object}  map[string]interface{}  "Item is neither submitted nor approved"
// @Router       /agenda-items/{id}/defer [post]
func (h *Meeting) DeferAgendaItem(c echo.Context) error {
	return h.transitionItem(c, h.workflow.DeferAgendaItem)
}

// WithdrawAgendaItem handles POST /agenda-items/:id/withdraw
// @Summary      Withdraw an agenda item
// @Description  The proposer may withdraw a draft or submitted item; others need organize_agenda
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {object}  meeting.AgendaItemResponse
// @Failure      409  {object}  map[string]interface{}  "Item is already approved"
// @Router       /agenda-items/{id}/withdraw [post]
func (h *Meeting) WithdrawAgendaItem(c echo.Context) error {
	return h.transitionItem(c, h.workflow.WithdrawAgendaItem)
}

// AgendaItemHistory handles GET /agenda-items/:id/history
// @Summary      Agenda item status history
// @Tags         Agenda
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agenda item ID (UUID)"
// @Success      200  {array}   meeting.TransitionResponse
// @Router       /agenda-items/{id}/history [get]
func (h *Meeting) AgendaItemHistory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	trail, err := h.workflow.History(c.Request().Context(), entities.EntityAgendaItem, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTransitionList(trail))
}

func (h *Meeting) transitionItem(c echo.Context, apply func(ctx context.Context, id uuid.UUID, actor entities.Actor) (*entities.AgendaItem, error)) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := apply(c.Request().Context(), id, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAgendaItemResponse(item))
}
