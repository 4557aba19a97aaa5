package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	outreachDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/outreach"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	outreachUsecase "github.com/johnquangdev/coreagenda/internal/usecase/outreach"
)

// Outreach handles presenter and external request HTTP requests
type Outreach struct {
	outreach outreachUsecase.Service
	logger   *zap.Logger
}

// NewOutreachHandler creates a new outreach handler
func NewOutreachHandler(outreach outreachUsecase.Service, logger *zap.Logger) *Outreach {
	return &Outreach{
		outreach: outreach,
		logger:   logger,
	}
}

// approvalResponse is the result of approving an external request
type approvalResponse struct {
	Request    interface{} `json:"request"`
	AgendaItem interface{} `json:"agenda_item"`
}

// AddPresenter handles POST /meetings/:id/presenters
// @Summary      Add a presenter
// @Description  Set user_id for a member, or name (and email) for a guest
// @Tags         Presenters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Meeting ID (UUID)"
// @Param        request  body      outreach.AddPresenterRequest  true  "Presenter"
// @Success      201      {object}  outreach.PresenterResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Router       /meetings/{id}/presenters [post]
func (h *Outreach) AddPresenter(c echo.Context) error {
	if _, err := actorFrom(c); err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req outreachDTO.AddPresenterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	agendaItemID, err := parseOptionalID("agenda_item_id", req.AgendaItemID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := parseOptionalID("user_id", req.UserID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	p, err := h.outreach.AddPresenter(c.Request().Context(), outreachUsecase.AddPresenterInput{
		MeetingID:    meetingID,
		AgendaItemID: agendaItemID,
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToPresenterResponse(p))
}

// ListPresenters handles GET /meetings/:id/presenters
// @Summary      List presenters
// @Tags         Presenters
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {array}   outreach.PresenterResponse
// @Router       /meetings/{id}/presenters [get]
func (h *Outreach) ListPresenters(c echo.Context) error {
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	presenters, err := h.outreach.ListPresenters(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPresenterList(presenters))
}

// SubmitRequest handles POST /meetings/:id/external-requests
// @Summary      Submit an external request to present
// @Tags         External Requests
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Meeting ID (UUID)"
// @Param        request  body      outreach.SubmitRequestRequest  true  "Request"
// @Success      201      {object}  outreach.ExternalRequestResponse
// @Router       /meetings/{id}/external-requests [post]
func (h *Outreach) SubmitRequest(c echo.Context) error {
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req outreachDTO.SubmitRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	r, err := h.outreach.SubmitExternalRequest(c.Request().Context(), outreachUsecase.SubmitExternalRequestInput{
		MeetingID:      meetingID,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		Organization:   req.Organization,
		Topic:          req.Topic,
		Details:        req.Details,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToExternalRequestResponse(r))
}

// ListRequests handles GET /meetings/:id/external-requests
// @Summary      List external requests
// @Tags         External Requests
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Meeting ID (UUID)"
// @Param        status  query     string  false  "pending, approved, rejected, deferred or withdrawn"
// @Success      200     {array}   outreach.ExternalRequestResponse
// @Router       /meetings/{id}/external-requests [get]
func (h *Outreach) ListRequests(c echo.Context) error {
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req outreachDTO.ListRequestsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var status *entities.ExternalRequestStatus
	if req.Status != nil {
		s := entities.ExternalRequestStatus(*req.Status)
		status = &s
	}

	reqs, err := h.outreach.ListRequests(c.Request().Context(), meetingID, status)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExternalRequestList(reqs))
}

// ApproveRequest handles POST /external-requests/:id/approve
// @Summary      Approve an external request
// @Description  Creates a draft agenda item proposed by the reviewer and registers the requester as presenter
// @Tags         External Requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}  "Missing review_agenda"
// @Failure      409  {object}  map[string]interface{}  "Request already resolved"
// @Router       /external-requests/{id}/approve [post]
func (h *Outreach) ApproveRequest(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	r, item, err := h.outreach.ApproveExternalRequest(c.Request().Context(), id, actor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, approvalResponse{
		Request:    presenter.ToExternalRequestResponse(r),
		AgendaItem: presenter.ToAgendaItemResponse(item),
	})
}

// RejectRequest handles POST /external-requests/:id/reject
// @Summary      Reject an external request
// @Tags         External Requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true   "Request ID (UUID)"
// @Param        request  body      outreach.RejectRequest  false  "Reason"
// @Success      200      {object}  outreach.ExternalRequestResponse
// @Failure      409      {object}  map[string]interface{}  "Request already resolved"
// @Router       /external-requests/{id}/reject [post]
func (h *Outreach) RejectRequest(c echo.Context) error {
	return h.review(c, h.outreach.RejectExternalRequest)
}

// DeferRequest handles POST /external-requests/:id/defer
// @Summary      Defer an external request to a later meeting
// @Tags         External Requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true   "Request ID (UUID)"
// @Param        request  body      outreach.RejectRequest  false  "Reason"
// @Success      200      {object}  outreach.ExternalRequestResponse
// @Failure      409      {object}  map[string]interface{}  "Request already resolved"
// @Router       /external-requests/{id}/defer [post]
func (h *Outreach) DeferRequest(c echo.Context) error {
	return h.review(c, h.outreach.DeferExternalRequest)
}

func (h *Outreach) review(c echo.Context, apply func(ctx context.Context, id uuid.UUID, reviewer entities.Actor, note string) (*entities.ExternalRequest, error)) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req outreachDTO.RejectRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	r, err := apply(c.Request().Context(), id, actor, req.Note)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExternalRequestResponse(r))
}

// WithdrawRequest handles POST /external-requests/:id/withdraw
// @Summary      Withdraw an external request
// @Description  Open to the requester without a token; the email must match the one the request was filed with
// @Tags         External Requests
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Request ID (UUID)"
// @Param        request  body      outreach.WithdrawRequest  true  "Requester email"
// @Success      200      {object}  outreach.ExternalRequestResponse
// @Failure      403      {object}  map[string]interface{}  "Email does not match"
// @Failure      409      {object}  map[string]interface{}  "Request already resolved"
// @Router       /external-requests/{id}/withdraw [post]
func (h *Outreach) WithdrawRequest(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req outreachDTO.WithdrawRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	r, err := h.outreach.WithdrawExternalRequest(c.Request().Context(), id, req.RequesterEmail)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExternalRequestResponse(r))
}
