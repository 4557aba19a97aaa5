package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/meeting"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

// Meeting handles meeting and agenda HTTP requests
type Meeting struct {
	workflow workflow.Service
	logger   *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(workflow workflow.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		workflow: workflow,
		logger:   logger,
	}
}

// CreateMeeting handles POST /meetings
// @Summary      Create a meeting
// @Description  Creates a draft meeting; the chairperson defaults to the caller
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting"
// @Success      201      {object}  meeting.MeetingResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      403      {object}  map[string]interface{}  "Missing manage_meetings"
// @Router       /meetings [post]
func (h *Meeting) CreateMeeting(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	chair, err := parseOptionalID("chairperson_id", req.ChairpersonID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input := workflow.CreateMeetingInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		ScheduledDate: req.ScheduledDate,
	}
	if chair != nil {
		input.ChairpersonID = *chair
	}

	m, err := h.workflow.CreateMeeting(c.Request().Context(), input, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToMeetingResponse(m))
}

// ListMeetings handles GET /meetings
// @Summary      List meetings
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        status          query  string  false  "draft, scheduled or completed"
// @Param        chairperson_id  query  string  false  "Chairperson"
// @Param        search          query  string  false  "Title search"
// @Param        page            query  int     false  "Page (default 1)"
// @Param        page_size       query  int     false  "Page size (default 20)"
// @Success      200  {object}  meeting.MeetingListResponse
// @Router       /meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	req := meetingDTO.ListMeetingsRequest{Page: 1, PageSize: 20}
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	filters := repositories.MeetingFilters{
		From:   req.From,
		To:     req.To,
		Search: req.Search,
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.Status != nil {
		status := entities.MeetingStatus(*req.Status)
		filters.Status = &status
	}
	chair, err := parseOptionalID("chairperson_id", req.Chair)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	filters.ChairpersonID = chair

	meetings, total, err := h.workflow.ListMeetings(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings, total, req.Page, req.PageSize))
}

// GetMeeting handles GET /meetings/:id
// @Summary      Get a meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.workflow.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// ScheduleMeeting handles POST /meetings/:id/schedule
// @Summary      Schedule a draft meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      409  {object}  map[string]interface{}  "Meeting is not a draft"
// @Router       /meetings/{id}/schedule [post]
func (h *Meeting) ScheduleMeeting(c echo.Context) error {
	return h.transition(c, h.workflow.ScheduleMeeting)
}

// CompleteMeeting handles POST /meetings/:id/complete
// @Summary      Complete a scheduled meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      409  {object}  map[string]interface{}  "Meeting is not scheduled"
// @Router       /meetings/{id}/complete [post]
func (h *Meeting) CompleteMeeting(c echo.Context) error {
	return h.transition(c, h.workflow.CompleteMeeting)
}

// CancelMeeting handles POST /meetings/:id/cancel
// @Summary      Cancel a draft or scheduled meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true   "Meeting ID (UUID)"
// @Param        request  body      meeting.CloseRequest  false  "Reason"
// @Success      200      {object}  meeting.MeetingResponse
// @Failure      409      {object}  map[string]interface{}  "Meeting is already closed"
// @Router       /meetings/{id}/cancel [post]
func (h *Meeting) CancelMeeting(c echo.Context) error {
	return h.closeMeeting(c, h.workflow.CancelMeeting)
}

// PostponeMeeting handles POST /meetings/:id/postpone
// @Summary      Postpone a scheduled meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true   "Meeting ID (UUID)"
// @Param        request  body      meeting.CloseRequest  false  "Reason"
// @Success      200      {object}  meeting.MeetingResponse
// @Failure      409      {object}  map[string]interface{}  "Meeting is not scheduled"
// @Router       /meetings/{id}/postpone [post]
func (h *Meeting) PostponeMeeting(c echo.Context) error {
	return h.closeMeeting(c, h.workflow.PostponeMeeting)
}

func (h *Meeting) closeMeeting(c echo.Context, apply func(ctx context.Context, id uuid.UUID, reason string, actor entities.Actor) (*entities.Meeting, error)) error {
	reason, err := bindReason(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.transition(c, func(ctx context.Context, id uuid.UUID, actor entities.Actor) (*entities.Meeting, error) {
		return apply(ctx, id, reason, actor)
	})
}

// bindReason reads the optional close reason; an empty body is allowed
func bindReason(c echo.Context) (string, error) {
	var req meetingDTO.CloseRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return "", err
		}
	}
	return req.Reason, nil
}

func (h *Meeting) transition(c echo.Context, apply func(ctx context.Context, id uuid.UUID, actor entities.Actor) (*entities.Meeting, error)) error {
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
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary      Delete a meeting
// @Description  Removes the meeting with its agenda, minutes, attendance, presenters and requests; action items are kept and detached
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.DeleteMeetingResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [delete]
func (h *Meeting) DeleteMeeting(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.workflow.DeleteMeeting(c.Request().Context(), id, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToDeleteMeetingResponse(id, result))
}

// History handles GET /meetings/:id/history
// @Summary      Meeting status history
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {array}   meeting.TransitionResponse
// @Router       /meetings/{id}/history [get]
func (h *Meeting) History(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	trail, err := h.workflow.History(c.Request().Context(), entities.EntityMeeting, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTransitionList(trail))
}
