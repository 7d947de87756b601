package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintScoredTasks writes a ranked list, one task per block.
func PrintScoredTasks(w io.Writer, tasks []queries.ScoredTaskDTO) {
	for i, t := range tasks {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, titleStyle.Render(t.Title), scoreStyle.Render(fmt.Sprintf("%.2f", t.Score)))
		if t.ID != nil {
			fmt.Fprintf(w, "   %s\n", mutedStyle.Render(fmt.Sprintf("ID: %d", *t.ID)))
		}
		for _, clause := range strings.Split(t.Explanation, "; ") {
			style := mutedStyle
			if strings.HasPrefix(clause, "Overdue") || strings.HasPrefix(clause, "⚠") {
				style = warningStyle
			}
			fmt.Fprintf(w, "   - %s\n", style.Render(clause))
		}
		if t.Factors != nil {
			fmt.Fprintf(w, "   %s\n", mutedStyle.Render(fmt.Sprintf(
				"urgency=%d importance=%d effort=%d dependency=%d",
				t.Factors.Urgency, t.Factors.Importance, t.Factors.Effort, t.Factors.Dependency,
			)))
		}
	}
}

// PrintTasks writes stored tasks without scores.
func PrintTasks(w io.Writer, tasks []queries.TaskDTO) {
	for _, t := range tasks {
		id := "-"
		if t.ID != nil {
			id = fmt.Sprintf("%d", *t.ID)
		}
		fmt.Fprintf(w, "[%s] %s %s\n", id, titleStyle.Render(t.Title), mutedStyle.Render(fmt.Sprintf("(importance %d)", t.Importance)))
		if t.DueDate != nil {
			fmt.Fprintf(w, "   Due: %s\n", *t.DueDate)
		}
		if t.EstimatedHours != nil {
			fmt.Fprintf(w, "   Estimate: %gh\n", *t.EstimatedHours)
		}
		if len(t.Dependencies) > 0 {
			deps := make([]string, len(t.Dependencies))
			for i, d := range t.Dependencies {
				deps[i] = fmt.Sprintf("%d", d)
			}
			fmt.Fprintf(w, "   Depends on: %s\n", strings.Join(deps, ", "))
		}
	}
}

// FormatError renders validation failures one field per line.
func FormatError(err error) string {
	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	fields := verr.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("invalid tasks:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, strings.Join(fields[k], "; "))
	}
	return b.String()
}

// PrintEvent writes one prioritization event on a single line.
func PrintEvent(w io.Writer, evt task.TasksPrioritized) {
	top := "-"
	if evt.TopTaskTitle != "" {
		top = fmt.Sprintf("%s (%.2f)", evt.TopTaskTitle, evt.TopScore)
	}
	line := fmt.Sprintf("%s %s tasks=%d top=%s",
		mutedStyle.Render(evt.OccurredAt.Format("15:04:05")),
		titleStyle.Render(evt.Strategy),
		evt.TaskCount,
		top,
	)
	if evt.CycleCount > 0 {
		line += " " + warningStyle.Render(fmt.Sprintf("cycles=%d", evt.CycleCount))
	}
	fmt.Fprintln(w, line)
}
