package queries

import (
	"errors"
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// TaskInput is the wire shape of a task handed in by a caller.
type TaskInput struct {
	ID             *int64   `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string   `json:"title" yaml:"title"`
	DueDate        *string  `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Importance     *int     `json:"importance,omitempty" yaml:"importance,omitempty"`
	Dependencies   []int64  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ToTask converts the input into a task record. It only fails on a malformed due date;
// range checks are left to task.Validate.
func (in TaskInput) ToTask() (task.Task, error) {
	t, err := in.convert()
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// convert always returns the record, leaving the due date unset when it cannot be parsed.
func (in TaskInput) convert() (task.Task, error) {
	t := task.Task{
		ID:             in.ID,
		Title:          strings.TrimSpace(in.Title),
		EstimatedHours: in.EstimatedHours,
		Importance:     task.DefaultImportance,
		Dependencies:   append([]int64(nil), in.Dependencies...),
	}
	if in.Importance != nil {
		t.Importance = *in.Importance
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		due, err := task.ParseDate(*in.DueDate)
		if err != nil {
			return t, &task.FieldError{Index: -1, Field: "due_date", Err: err}
		}
		t.DueDate = &due
	}
	return t, nil
}

// ToTasks converts and validates a whole batch. Unlike ToTask, importance is
// required. Every failure is reported, and nothing is returned unless the whole
// batch is valid.
func ToTasks(inputs []TaskInput) ([]task.Task, error) {
	tasks := make([]task.Task, len(inputs))
	var errs []error

	for i, in := range inputs {
		t, err := in.convert()
		var fe *task.FieldError
		if errors.As(err, &fe) {
			c := *fe
			c.Index = i
			errs = append(errs, &c)
		}
		if in.Importance == nil {
			errs = append(errs, &task.FieldError{Index: i, Field: "importance", Err: task.ErrMissingImportance})
		}
		tasks[i] = t
	}

	if err := task.ValidateBatch(tasks); err != nil {
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			errs = append(errs, verr.Errors...)
		}
	}

	if len(errs) > 0 {
		return nil, &task.ValidationError{Errors: errs}
	}
	return tasks, nil
}

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID             *int64   `json:"id"`
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     int      `json:"importance"`
	Dependencies   []int64  `json:"dependencies"`
}

// ScoredTaskDTO is a task enriched with its score and explanation.
type ScoredTaskDTO struct {
	TaskDTO
	Score       float64           `json:"score"`
	Explanation string            `json:"explanation"`
	Factors     *services.Factors `json:"factors,omitempty"`
}

func toTaskDTO(t task.Task) TaskDTO {
	dto := TaskDTO{
		ID:             t.ID,
		Title:          t.Title,
		EstimatedHours: t.EstimatedHours,
		Importance:     t.EffectiveImportance(),
		Dependencies:   append([]int64{}, t.Dependencies...),
	}
	if t.DueDate != nil {
		due := task.FormatDate(t.DueDate)
		dto.DueDate = &due
	}
	return dto
}

func toTaskDTOs(tasks []task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toScoredTaskDTOs(scored []services.ScoredTask, withFactors bool) []ScoredTaskDTO {
	dtos := make([]ScoredTaskDTO, len(scored))
	for i, st := range scored {
		dtos[i] = ScoredTaskDTO{
			TaskDTO:     toTaskDTO(st.Task),
			Score:       st.Score,
			Explanation: st.Explanation,
		}
		if withFactors {
			f := st.Factors
			dtos[i].Factors = &f
		}
	}
	return dtos
}
