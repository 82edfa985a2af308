// Package validate checks and normalizes raw request input before it reaches
// storage. All violated fields are collected into a single error so a caller
// can surface every problem at once.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"todoweb/internal/dateutil"
)

const (
	maxTitleLen    = 100
	maxCategoryLen = 50
)

// CreateInput is the request shape for creating a todo.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
}

// UpdateInput is the request shape for updating a todo. Every field except ID
// is optional; nil means "leave untouched".
type UpdateInput struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
	Category    *string `json:"category"`
}

// ToggleInput is the request shape for flipping a todo's completed flag.
type ToggleInput struct {
	ID string `json:"id"`
}

// DeleteInput is the request shape for deleting a todo.
type DeleteInput struct {
	ID string `json:"id"`
}

// FieldError names one violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every violated field of a request.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// orNil returns the collected errors as an error, or nil if none.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateCreate checks a creation request. Title is required with a trimmed
// length of 1..100; dueDate, when present, must match one of the two accepted
// shapes; category is capped at 50 characters. Description passes through.
func ValidateCreate(in CreateInput) error {
	var errs FieldErrors
	checkTitle(&errs, in.Title)
	checkDueDate(&errs, in.DueDate)
	checkCategory(&errs, in.Category)
	return errs.orNil()
}

// ValidateUpdate checks an update request. ID is required; every other field
// is optional but follows the same per-field rules as creation when present.
// An update touching no fields is legal.
func ValidateUpdate(in UpdateInput) error {
	var errs FieldErrors
	checkID(&errs, in.ID)
	if in.Title != nil {
		checkTitle(&errs, *in.Title)
	}
	if in.DueDate != nil {
		checkDueDate(&errs, *in.DueDate)
	}
	if in.Category != nil {
		checkCategory(&errs, *in.Category)
	}
	return errs.orNil()
}

// ValidateToggle checks a toggle request.
func ValidateToggle(in ToggleInput) error {
	var errs FieldErrors
	checkID(&errs, in.ID)
	return errs.orNil()
}

// ValidateDelete checks a deletion request.
func ValidateDelete(in DeleteInput) error {
	var errs FieldErrors
	checkID(&errs, in.ID)
	return errs.orNil()
}

func checkID(errs *FieldErrors, id string) {
	if strings.TrimSpace(id) == "" {
		errs.add("id", "id is required")
	}
}

func checkTitle(errs *FieldErrors, title string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		errs.add("title", "title is required")
		return
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		errs.add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
}

func checkDueDate(errs *FieldErrors, dueDate string) {
	trimmed := strings.TrimSpace(dueDate)
	if trimmed == "" {
		return
	}
	if !dateutil.IsAcceptedShape(trimmed) {
		errs.add("dueDate", "dueDate must be in YYYY-MM-DD or YYYYMMDD format")
	}
}

func checkCategory(errs *FieldErrors, category string) {
	trimmed := strings.TrimSpace(category)
	if utf8.RuneCountInString(trimmed) > maxCategoryLen {
		errs.add("category", fmt.Sprintf("category must be at most %d characters", maxCategoryLen))
	}
}
