package engine

import (
	"fmt"
)

// Error is a non-2xx response from the classification engine. Body carries
// the engine's error message verbatim so operators see exactly what the
// engine said; it is empty for transport-level failures.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("engine returned status %d", e.StatusCode)
}

// IsEngineError reports whether err is a rejection from the engine (as
// opposed to a transport failure). Callers roll back the same way for both;
// the distinction only affects the message shown to the operator.
func IsEngineError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
