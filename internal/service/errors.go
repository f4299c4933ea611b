package service

import (
	"fmt"

	"taskhub/internal/model"
)

// ValidationError reports missing or malformed input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced record does not exist
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// DuplicateTaskError reports a create-time conflict and carries the
// conflicting task so the client can disambiguate
type DuplicateTaskError struct {
	Existing *model.Task
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate of task %d", e.Existing.ID)
}
