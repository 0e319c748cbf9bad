package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotRecipeAuthor    = errors.New("only the author can modify this recipe")
	ErrSelfFollow         = errors.New("cannot subscribe to yourself")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// Relation toggles wrap these with the relation name, e.g. "favorite already exists".
	ErrRelationExists  = errors.New("already exists")
	ErrRelationMissing = errors.New("does not exist")
)

// ValidationError carries itemized messages keyed by input field.
// Cause, when set, is the sentinel the failure stands for.
type ValidationError struct {
	Fields map[string][]string
	Cause  error
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// fieldError reports a single sentinel failure against one field.
func fieldError(field string, cause error) *ValidationError {
	verr := newValidationError()
	verr.Add(field, cause.Error())
	verr.Cause = cause
	return verr
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// orNil keeps a typed nil *ValidationError from escaping as a non-nil error.
func (e *ValidationError) orNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
