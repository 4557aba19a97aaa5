package repositories

import (
	"fmt"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// ErrConcurrentUpdate is returned when a conditional status update matched no row
// because another request changed the status first. It matches entities.ErrInvalidTransition.
var ErrConcurrentUpdate = fmt.Errorf("%w: status changed concurrently", entities.ErrInvalidTransition)
