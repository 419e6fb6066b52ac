// Package optimizer searches relic-to-slot assignments for each vessel and
// ranks the results.
package optimizer

import "fmt"

// Error reports an optimizer that cannot run at all, such as a missing
// dataset or an invalid build. An assignment that misses requirements is a
// result, not an Error.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("optimizer error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("optimizer error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
