// Package records decodes character data blocks into characters and raw relic records.
package records

import "fmt"

// ParseError reports a malformed record at a known byte offset within one
// character slot. It aborts only that character.
type ParseError struct {
	Slot    int
	Offset  int
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("slot %d: %s at offset 0x%X: %s", e.Slot, e.Field, e.Offset, e.Message)
}

func outOfRange(slot, offset, width int, field string, dataLen int) *ParseError {
	return &ParseError{
		Slot:    slot,
		Offset:  offset,
		Field:   field,
		Message: fmt.Sprintf("read of %d bytes past end of %d-byte block", width, dataLen),
	}
}
