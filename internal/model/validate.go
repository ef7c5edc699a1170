package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) checkRepo(prefix string, r Repo) {
	if strings.TrimSpace(r.Name) == "" {
		e.add(prefix+"name", "is required")
	}
	if strings.TrimSpace(r.Owner) == "" {
		e.add(prefix+"owner", "is required")
	}
	if strings.ContainsAny(r.Name, "/ ") {
		e.add(prefix+"name", fmt.Sprintf("invalid value %q", r.Name))
	}
	if strings.ContainsAny(r.Owner, "/ ") {
		e.add(prefix+"owner", fmt.Sprintf("invalid value %q", r.Owner))
	}
}

// ValidateRepo checks that a repo has a usable name and owner.
// It returns a *ValidationError if any rules fail, or nil if the repo is valid.
func ValidateRepo(r Repo) error {
	var ve ValidationError
	ve.checkRepo("", r)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateEvent checks an Event for constraint violations.
func ValidateEvent(e *Event) error {
	var ve ValidationError

	if !e.Type.IsValid() {
		ve.add("event_type", fmt.Sprintf("invalid value %q", e.Type))
	}
	ve.checkRepo("client_payload.repo.", e.ClientPayload.Repo)

	details := e.ClientPayload.Details
	switch e.Type {
	case EventNewCommitToSelf, EventNewCommitToDependency:
		if details.CommitHash == nil || strings.TrimSpace(*details.CommitHash) == "" {
			ve.add("client_payload.details.commit_hash", "is required for commit events")
		}
	case EventNewRelease:
		if details.ReleaseTag == nil || strings.TrimSpace(*details.ReleaseTag) == "" {
			ve.add("client_payload.details.release_tag", "is required for release events")
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
