package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/meeting"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

// Action handles action item HTTP requests
type Action struct {
	workflow workflow.Service
	logger   *zap.Logger
	clock    Clock
}

// NewActionHandler creates a new action item handler
func NewActionHandler(workflow workflow.Service, logger *zap.Logger, clock Clock) *Action {
	return &Action{
		workflow: workflow,
		logger:   logger,
		clock:    clock,
	}
}

// AssignActionItem handles POST /action-items
// @Summary      Assign an action item
// @Tags         Action Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.AssignActionItemRequest  true  "Action item"
// @Success      201      {object}  meeting.ActionItemResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Router       /action-items [post]
func (h *Action) AssignActionItem(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.AssignActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingID, err := parseOptionalID("meeting_id", req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	agendaItemID, err := parseOptionalID("agenda_item_id", req.AgendaItemID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	assignee, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		return HandleError(h.logger, c, entities.NewValidationError("assignee_id", "must be a valid UUID"))
	}

	priority := entities.ActionPriority(req.Priority)
	if priority == "" {
		priority = entities.PriorityMedium
	}

	item, err := h.workflow.AssignActionItem(c.Request().Context(), workflow.AssignActionItemInput{
		MeetingID:    meetingID,
		AgendaItemID: agendaItemID,
		AssigneeID:   assignee,
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     priority,
	}, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToActionItemResponse(item, h.clock.now()))
}

// CompleteActionItem handles POST /action-items/:id/complete
// @Summary      Complete an action item
// @Description  Completing an already completed item returns it unchanged
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Action item ID (UUID)"
// @Success      200  {object}  meeting.ActionItemResponse
// @Failure      404  {object}  map[string]interface{}  "Action item not found"
// @Router       /action-items/{id}/complete [post]
func (h *Action) CompleteActionItem(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := h.workflow.CompleteActionItem(c.Request().Context(), id, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemResponse(item, h.clock.now()))
}

// RejectActionItem handles POST /action-items/:id/reject
// @Summary      Reject an open action item
// @Tags         Action Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true   "Action item ID (UUID)"
// @Param        request  body      meeting.CloseRequest  false  "Reason"
// @Success      200      {object}  meeting.ActionItemResponse
// @Failure      403      {object}  map[string]interface{}  "Missing manage_meetings"
// @Failure      409      {object}  map[string]interface{}  "Item is already closed"
// @Router       /action-items/{id}/reject [post]
func (h *Action) RejectActionItem(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	reason, err := bindReason(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := h.workflow.RejectActionItem(c.Request().Context(), id, reason, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemResponse(item, h.clock.now()))
}

// ListOverdue handles GET /action-items/overdue
// @Summary      List overdue action items
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Param        as_of  query     string  false  "RFC3339 reference time (default now)"
// @Success      200    {array}   meeting.ActionItemResponse
// @Router       /action-items/overdue [get]
func (h *Action) ListOverdue(c echo.Context) error {
	var req meetingDTO.ListOverdueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	asOf := h.clock.now()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	items, err := h.workflow.ListOverdueActionItems(c.Request().Context(), asOf)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemList(items, asOf))
}

// ListMine handles GET /action-items/mine
// @Summary      List the caller's action items
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  meeting.ActionItemResponse
// @Router       /action-items/mine [get]
func (h *Action) ListMine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, err := h.workflow.ListActionItemsByAssignee(c.Request().Context(), actor.UserID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemList(items, h.clock.now()))
}
