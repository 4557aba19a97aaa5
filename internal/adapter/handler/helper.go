package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/errors"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	httpmw "github.com/johnquangdev/coreagenda/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger.
// Domain errors are mapped onto the AppError catalogue.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := errors.FromDomain(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Raw != nil {
		body.Info = appErr.Raw.Error()
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		// internals stay in the logs
		body.Info = ""
	}

	return c.JSON(appErr.HTTPCode, body)
}

// bindAndValidate binds the request into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		e := errors.ErrInvalidPayload()
		e.Raw = err
		return e
	}
	if err := c.Validate(req); err != nil {
		return usecaseErrors.FromValidator(err)
	}
	return nil
}

// parseID reads a UUID path parameter
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, entities.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// parseOptionalID parses an optional UUID string from a request body
func parseOptionalID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, entities.NewValidationError(field, "must be a valid UUID")
	}
	return &id, nil
}

// actorFrom returns the caller set by the auth middleware
func actorFrom(c echo.Context) (entities.Actor, error) {
	actor, ok := httpmw.ActorFrom(c)
	if !ok {
		return entities.Actor{}, errors.ErrUnauthenticated()
	}
	return actor, nil
}

// Clock returns the current time; handlers take one so tests can pin "now"
type Clock func() time.Time

func (clk Clock) now() time.Time {
	if clk == nil {
		return time.Now().UTC()
	}
	return clk().UTC()
}
