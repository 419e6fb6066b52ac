// Package builds loads and normalizes build definition files.
package builds

import "fmt"

// LoadError represents an error during file I/O, schema validation or decoding
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build load error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("build load error: %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError represents a build that is well-formed but inconsistent
// with the reference dataset
type NormalizationError struct {
	Message string
	Cause   error
}

func (e *NormalizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build normalization error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("build normalization error: %s", e.Message)
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
