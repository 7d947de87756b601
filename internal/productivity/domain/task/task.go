package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MaxTitleLength is the longest title accepted at the boundary.
	MaxTitleLength = 255

	MinImportance     = 1
	MaxImportance     = 10
	DefaultImportance = 5

	// DateLayout is the wire format for due dates.
	DateLayout = "2006-01-02"
)

var (
	ErrEmptyTitle        = errors.New("task title cannot be empty")
	ErrTitleTooLong      = fmt.Errorf("task title cannot exceed %d characters", MaxTitleLength)
	ErrInvalidImportance = fmt.Errorf("importance must be between %d and %d", MinImportance, MaxImportance)
	ErrMissingImportance = errors.New("importance is required")
	ErrInvalidDueDate    = errors.New("due date must use YYYY-MM-DD")
	ErrDuplicateID       = errors.New("task id must be unique within a batch")

	ErrNotFound = errors.New("task not found")
)

// Task is a unit of work handed to the priority engine.
// A Task is a plain value; the engine copies it and never writes back.
type Task struct {
	ID             *int64
	Title          string
	DueDate        *time.Time
	EstimatedHours *float64
	Importance     int
	Dependencies   []int64
}

// New creates a task with the given title and the default importance.
func New(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if len([]rune(title)) > MaxTitleLength {
		return Task{}, ErrTitleTooLong
	}
	return Task{Title: title, Importance: DefaultImportance}, nil
}

// HasID reports whether the task carries an identifier.
func (t Task) HasID() bool { return t.ID != nil }

// EffectiveImportance returns the importance, substituting the default when absent.
func (t Task) EffectiveImportance() int {
	if t.Importance == 0 {
		return DefaultImportance
	}
	return t.Importance
}

// Clone returns a deep copy so callers can hand out tasks without sharing slices or pointers.
func (t Task) Clone() Task {
	c := t
	if t.ID != nil {
		id := *t.ID
		c.ID = &id
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.EstimatedHours != nil {
		hours := *t.EstimatedHours
		c.EstimatedHours = &hours
	}
	if t.Dependencies != nil {
		c.Dependencies = append([]int64(nil), t.Dependencies...)
	}
	return c
}

// DependsOn reports whether id appears in the dependency list.
func (t Task) DependsOn(id int64) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// Validate checks the boundary rules for a single task.
func (t Task) Validate() error {
	var errs []error

	title := strings.TrimSpace(t.Title)
	switch {
	case title == "":
		errs = append(errs, &FieldError{Index: -1, Field: "title", Err: ErrEmptyTitle})
	case len([]rune(title)) > MaxTitleLength:
		errs = append(errs, &FieldError{Index: -1, Field: "title", Err: ErrTitleTooLong})
	}

	if t.Importance < MinImportance || t.Importance > MaxImportance {
		errs = append(errs, &FieldError{Index: -1, Field: "importance", Err: ErrInvalidImportance})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// ValidateBatch validates every task and the uniqueness of ids.
// Errors carry the index of the offending task.
func ValidateBatch(tasks []Task) error {
	var errs []error
	seen := make(map[int64]int, len(tasks))

	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for _, fe := range verr.Errors {
					errs = append(errs, withIndex(fe, i))
				}
			}
		}
		if t.ID == nil {
			continue
		}
		if first, ok := seen[*t.ID]; ok {
			errs = append(errs, &FieldError{
				Index: i,
				Field: "id",
				Err:   fmt.Errorf("%w: %d already used by task %d", ErrDuplicateID, *t.ID, first),
			})
			continue
		}
		seen[*t.ID] = i
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// ParseDate parses a wire-format due date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return d, nil
}

// FormatDate formats a due date for the wire.
func FormatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}

func withIndex(err error, index int) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		c := *fe
		c.Index = index
		return &c
	}
	return &FieldError{Index: index, Err: err}
}
