package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// Workflow errors
var (
	ErrInvalidTransition = entities.ErrInvalidTransition
	ErrUnauthorized      = entities.ErrUnauthorized
	ErrValidation        = entities.ErrValidation
	ErrNotFound          = entities.ErrNotFound
)

// Meeting errors
var (
	ErrMeetingClosed       = fmt.Errorf("%w: meeting is closed", ErrValidation)
	ErrMeetingNotScheduled = fmt.Errorf("%w: meeting is not scheduled", ErrValidation)
	ErrAgendaLocked        = fmt.Errorf("%w: agenda can no longer be reordered", ErrValidation)
)

// Outreach errors
var (
	ErrPresenterIdentity = fmt.Errorf("%w: presenter needs a user or a name", ErrValidation)
)

// FromValidator converts go-playground validation errors into a domain ValidationError
// naming the first failing field. Other errors pass through unchanged.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "failed on " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return entities.NewValidationError(fe.Field(), reason)
	}
	return err
}
