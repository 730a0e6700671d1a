package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxTaskTextLen is the maximum number of characters (runes) a task may carry.
const MaxTaskTextLen = 100

var ErrTaskNotFound = errors.New("task not found")
var ErrValidation = errors.New("validation failed")
var ErrStorageUnavailable = errors.New("storage unavailable")

// Task is the primary persisted entity: a piece of to-do text with a
// completion flag and a creation timestamp. ID and CreatedAt are assigned by
// the store exactly once and never change afterwards.
type Task struct {
	ID        int64     `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Completed bool      `json:"completed" bson:"completed"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// InsertTask carries the caller-supplied fields for a new task. Completed
// defaults to false.
type InsertTask struct {
	Text      string
	Completed bool
}

// UpdateTask is a partial update: nil fields are left unchanged.
type UpdateTask struct {
	Text      *string
	Completed *bool
}

// Validate reports the first constraint violated by the insert, wrapped in
// ErrValidation with a field-attributable message.
func (t InsertTask) Validate() error {
	return validateText(t.Text)
}

// Validate checks the supplied fields only; an update with neither field set
// is valid and leaves the task untouched.
func (u UpdateTask) Validate() error {
	if u.Text == nil {
		return nil
	}
	return validateText(*u.Text)
}

func validateText(text string) error {
	if text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	if n := utf8.RuneCountInString(text); n > MaxTaskTextLen {
		return fmt.Errorf("%w: text must be at most %d characters, got %d", ErrValidation, MaxTaskTextLen, n)
	}
	return nil
}
