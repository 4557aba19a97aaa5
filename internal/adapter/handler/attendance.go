package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	attendanceDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/attendance"
	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	attendanceUsecase "github.com/johnquangdev/coreagenda/internal/usecase/attendance"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// Attendance handles attendance HTTP requests
type Attendance struct {
	attendance attendanceUsecase.Service
	authz      authz.Authorizer
	logger     *zap.Logger
	clock      Clock
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendance attendanceUsecase.Service, authorizer authz.Authorizer, logger *zap.Logger, clock Clock) *Attendance {
	return &Attendance{
		attendance: attendance,
		authz:      authorizer,
		logger:     logger,
		clock:      clock,
	}
}

// MarkArrival handles POST /meetings/:id/attendance/arrive
// @Summary      Mark arrival
// @Description  Arrivals after the scheduled start plus the grace period are marked late. Marking someone else or setting the time needs manage_meetings.
// @Tags         Attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true   "Meeting ID (UUID)"
// @Param        request  body      attendance.MarkRequest       false  "Who and when (defaults to caller, now)"
// @Success      201      {object}  attendance.RecordResponse
// @Failure      400      {object}  map[string]interface{}  "Meeting not scheduled"
// @Failure      409      {object}  map[string]interface{}  "Arrival already marked"
// @Failure      403      {object}  map[string]interface{}  "Missing manage_meetings"
// @Router       /meetings/{id}/attendance/arrive [post]
func (h *Attendance) MarkArrival(c echo.Context) error {
	meetingID, userID, at, err := h.parseMark(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.attendance.MarkArrival(c.Request().Context(), meetingID, userID, at)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToAttendanceResponse(record))
}

// MarkDeparture handles POST /meetings/:id/attendance/depart
// @Summary      Mark departure
// @Tags         Attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true   "Meeting ID (UUID)"
// @Param        request  body      attendance.MarkRequest  false  "Who and when (defaults to caller, now)"
// @Success      200      {object}  attendance.RecordResponse
// @Failure      409      {object}  map[string]interface{}  "Already departed"
// @Router       /meetings/{id}/attendance/depart [post]
func (h *Attendance) MarkDeparture(c echo.Context) error {
	meetingID, userID, at, err := h.parseMark(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.attendance.MarkDeparture(c.Request().Context(), meetingID, userID, at)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAttendanceResponse(record))
}

// ListAttendance handles GET /meetings/:id/attendance
// @Summary      List attendance
// @Tags         Attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  attendance.SummaryResponse
// @Router       /meetings/{id}/attendance [get]
func (h *Attendance) ListAttendance(c echo.Context) error {
	meetingID, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	records, err := h.attendance.ListAttendance(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAttendanceSummary(meetingID, records))
}

// parseMark resolves meeting, subject and time of an arrival or departure
func (h *Attendance) parseMark(c echo.Context) (meetingID, userID uuid.UUID, at time.Time, err error) {
	actor, err := actorFrom(c)
	if err != nil {
		return
	}
	meetingID, err = parseID(c, "id")
	if err != nil {
		return
	}

	var req attendanceDTO.MarkRequest
	if c.Request().ContentLength != 0 {
		if err = bindAndValidate(c, &req); err != nil {
			return
		}
	}

	userID = actor.UserID
	subject, err := parseOptionalID("user_id", req.UserID)
	if err != nil {
		return
	}
	if subject != nil && *subject != actor.UserID {
		if err = h.authz.Require(actor, authz.CapManageMeetings); err != nil {
			return
		}
		userID = *subject
	}

	// a backdated arrival could dodge the late rule
	at = h.clock.now()
	if req.At != nil {
		if err = h.authz.Require(actor, authz.CapManageMeetings); err != nil {
			return
		}
		at = req.At.UTC()
	}
	return meetingID, userID, at, nil
}
