// Package container decrypts and splits save containers into per-character slot buffers.
package container

import "fmt"

// DecryptionError reports a container entry that could not be decrypted.
// It is terminal for the whole file.
type DecryptionError struct {
	Entry   int
	Message string
	Cause   error
}

func (e *DecryptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decryption failed for entry %d: %s: %v", e.Entry, e.Message, e.Cause)
	}
	return fmt.Sprintf("decryption failed for entry %d: %s", e.Entry, e.Message)
}

func (e *DecryptionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError reports a container whose magic or layout is not recognized.
type UnsupportedFormatError struct {
	Platform Platform
	Message  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("unsupported %s save format: %s", e.Platform, e.Message)
	}
	return fmt.Sprintf("unsupported save format: %s", e.Message)
}
