package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a user submits blank text.
	ErrEmptyInput = errors.New("message content is required")

	// ErrEmptyConversation is returned when a completion is requested with no messages.
	ErrEmptyConversation = errors.New("conversation has no messages")
)

// MissingCredentialError means the API key could not be found at startup.
type MissingCredentialError struct {
	Name string // variable or secret name that was looked up
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: set %s in the environment or secrets file", e.Name)
}

// DecodeError represents an uploaded file that could not be turned into text
type DecodeError struct {
	Kind   string // "text", "pdf", "docx"
	Offset int    // byte offset of the first bad sequence, -1 when unknown
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode error [%s] at byte %d: %v", e.Kind, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode error [%s]: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failed call to the completion API.
type UpstreamError struct {
	Provider string
	Status   int // HTTP status, 0 for transport failures
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error [%s] status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream error [%s]: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// InvalidModelError is returned for identifiers outside the catalog.
type InvalidModelError struct {
	Model string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("invalid model %q", e.Model)
}
