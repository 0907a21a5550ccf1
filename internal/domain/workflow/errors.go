package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoActiveProject indicates no project is loaded and none was named.
	ErrNoActiveProject = errors.New("no project loaded")
	// ErrProjectNotFound indicates the target project is not in the cache.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoPreviousProject indicates the project stack is empty.
	ErrNoPreviousProject = errors.New("no previous project")
	// ErrProposalNotFound indicates the proposal id is unknown or expired.
	ErrProposalNotFound = errors.New("proposal not found or expired")
	// ErrInvalidInput indicates invalid workflow input.
	ErrInvalidInput = errors.New("invalid workflow input")
)

// ValidationError is returned when the sensitive-data scan rejects an update
// payload. It is fatal to the propose call; the caller must strip the
// offending fields and retry.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sensitive data detected: %s", strings.Join(e.Fields, "; "))
}
