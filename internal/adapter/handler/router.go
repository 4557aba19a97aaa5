package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	httpmw "github.com/johnquangdev/coreagenda/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	"github.com/johnquangdev/coreagenda/pkg/config"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg        *config.Config
	auth       echo.MiddlewareFunc
	authz      authz.Authorizer
	meeting    *Meeting
	action     *Action
	minute     *Minute
	attendance *Attendance
	outreach   *Outreach
	user       *User
	checks     map[string]HealthCheck
}

// Handlers bundles the handlers mounted by the router
type Handlers struct {
	Meeting    *Meeting
	Action     *Action
	Minute     *Minute
	Attendance *Attendance
	Outreach   *Outreach
	User       *User
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, auth echo.MiddlewareFunc, authorizer authz.Authorizer, h Handlers, checks map[string]HealthCheck) *Router {
	return &Router{
		cfg:        cfg,
		auth:       auth,
		authz:      authorizer,
		meeting:    h.Meeting,
		action:     h.Action,
		minute:     h.Minute,
		attendance: h.Attendance,
		outreach:   h.Outreach,
		user:       h.User,
		checks:     checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	// Outside parties have no account; everything else needs a token
	v1.POST("/meetings/:id/external-requests", rt.outreach.SubmitRequest)
	v1.POST("/external-requests/:id/withdraw", rt.outreach.WithdrawRequest)

	secured := v1.Group("", rt.auth)
	secured.GET("/me", rt.user.Me)

	rt.setupMeetingRoutes(secured)
	rt.setupAgendaRoutes(secured)
	rt.setupActionRoutes(secured)
	rt.setupMinuteRoutes(secured)
	rt.setupAttendanceRoutes(secured)
	rt.setupOutreachRoutes(secured)
}

// setupMeetingRoutes configures meeting routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.POST("", rt.meeting.CreateMeeting)
	meetings.GET("", rt.meeting.ListMeetings)
	meetings.GET("/:id", rt.meeting.GetMeeting)
	meetings.DELETE("/:id", rt.meeting.DeleteMeeting)
	meetings.POST("/:id/schedule", rt.meeting.ScheduleMeeting)
	meetings.POST("/:id/complete", rt.meeting.CompleteMeeting)
	meetings.POST("/:id/cancel", rt.meeting.CancelMeeting)
	meetings.POST("/:id/postpone", rt.meeting.PostponeMeeting)
	meetings.GET("/:id/history", rt.meeting.History)
}

// setupAgendaRoutes configures agenda routes
func (rt *Router) setupAgendaRoutes(g *echo.Group) {
	g.GET("/meetings/:id/agenda", rt.meeting.GetAgenda)
	g.PUT("/meetings/:id/agenda/order", rt.meeting.ReorderAgenda)
	g.POST("/meetings/:id/agenda-items", rt.meeting.CreateAgendaItem)

	items := g.Group("/agenda-items")
	items.POST("/:id/submit", rt.meeting.SubmitAgendaItem)
	items.POST("/:id/approve", rt.meeting.ApproveAgendaItem)
	items.POST("/:id/consent", rt.meeting.MarkConsent)
	items.POST("/:id/defer", rt.meeting.DeferAgendaItem)
	items.POST("/:id/withdraw", rt.meeting.WithdrawAgendaItem)
	items.GET("/:id/history", rt.meeting.AgendaItemHistory)
}

// setupActionRoutes configures action item routes
func (rt *Router) setupActionRoutes(g *echo.Group) {
	actions := g.Group("/action-items")
	actions.POST("", rt.action.AssignActionItem)
	actions.GET("/overdue", rt.action.ListOverdue)
	actions.GET("/mine", rt.action.ListMine)
	actions.POST("/:id/complete", rt.action.CompleteActionItem)
	actions.POST("/:id/reject", rt.action.RejectActionItem)
}

// setupMinuteRoutes configures minutes routes
func (rt *Router) setupMinuteRoutes(g *echo.Group) {
	g.POST("/meetings/:id/minutes", rt.minute.RecordMinute)
	g.GET("/meetings/:id/minutes", rt.minute.ListMinutes)
	g.POST("/minutes/:id/approve", rt.minute.ApproveMinute)
	g.POST("/minutes/:id/publish", rt.minute.PublishMinute)
}

// setupAttendanceRoutes configures attendance routes
func (rt *Router) setupAttendanceRoutes(g *echo.Group) {
	g.POST("/meetings/:id/attendance/arrive", rt.attendance.MarkArrival)
	g.POST("/meetings/:id/attendance/depart", rt.attendance.MarkDeparture)
	g.GET("/meetings/:id/attendance", rt.attendance.ListAttendance)
}

// setupOutreachRoutes configures presenter and external request routes
func (rt *Router) setupOutreachRoutes(g *echo.Group) {
	g.POST("/meetings/:id/presenters", rt.outreach.AddPresenter)
	g.GET("/meetings/:id/presenters", rt.outreach.ListPresenters)
	// Requests carry outside contact details
	g.GET("/meetings/:id/external-requests", rt.outreach.ListRequests, httpmw.RequireCapability(rt.authz, authz.CapReviewAgenda))
	g.POST("/external-requests/:id/approve", rt.outreach.ApproveRequest)
	g.POST("/external-requests/:id/reject", rt.outreach.RejectRequest)
	g.POST("/external-requests/:id/defer", rt.outreach.DeferRequest)
}

// healthCheck returns health status with one entry per dependency
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}

	return c.JSON(status, map[string]interface{}{
		"status":       state,
		"environment":  env,
		"dependencies": deps,
	})
}
