package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/subscribers"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/productivity/infrastructure/persistence"
)

// MessageExpectedArray is returned when an analyze body is not a JSON array.
const MessageExpectedArray = "Expected a JSON array of tasks"

// TaskHandler handles task API requests.
type TaskHandler struct {
	analyze  *queries.AnalyzeTasksHandler
	suggest  *queries.SuggestTasksHandler
	list     *queries.ListTasksHandler
	get      *queries.GetTaskHandler
	create   *commands.CreateTaskHandler
	remove   *commands.DeleteTaskHandler
	imports  *commands.ImportTasksHandler
	activity *subscribers.ActivitySubscriber
	logger   *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	Analyze  *queries.AnalyzeTasksHandler
	Suggest  *queries.SuggestTasksHandler
	List     *queries.ListTasksHandler
	Get      *queries.GetTaskHandler
	Create   *commands.CreateTaskHandler
	Delete   *commands.DeleteTaskHandler
	Import   *commands.ImportTasksHandler
	Activity *subscribers.ActivitySubscriber
	Logger   *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TaskHandler{
		analyze:  cfg.Analyze,
		suggest:  cfg.Suggest,
		list:     cfg.List,
		get:      cfg.Get,
		create:   cfg.Create,
		remove:   cfg.Delete,
		imports:  cfg.Import,
		activity: cfg.Activity,
		logger:   cfg.Logger,
	}
}

// Analyze handles POST /api/tasks/analyze/
func (h *TaskHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	inputs, ok := h.decodeTaskArray(w, r)
	if !ok {
		return
	}

	result, err := h.analyze.Handle(r.Context(), queries.AnalyzeTasksQuery{
		Tasks:    inputs,
		Strategy: r.URL.Query().Get("strategy"),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Suggest handles GET /api/tasks/suggest/
func (h *TaskHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	result, err := h.suggest.Handle(r.Context(), queries.SuggestTasksQuery{
		Strategy: r.URL.Query().Get("strategy"),
		Limit:    parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Strategies handles GET /api/strategies/
func (h *TaskHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.Strategies())
}

// Activity handles GET /api/activity/
func (h *TaskHandler) Activity(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		writeJSON(w, http.StatusOK, []task.TasksPrioritized{})
		return
	}
	writeJSON(w, http.StatusOK, h.activity.Recent(parseIntParam(r, "limit", 0)))
}

// List handles GET /api/tasks/
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.list.Handle(r.Context(), queries.ListTasksQuery{
		Limit: parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/tasks/{id}/
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	result, err := h.get.Handle(r.Context(), queries.GetTaskQuery{TaskID: id})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/tasks/
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input queries.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	t, err := input.ToTask()
	if err != nil {
		h.writeDomainError(w, r, &task.ValidationError{Errors: []error{err}})
		return
	}

	created, err := h.create.Handle(r.Context(), commands.CreateTaskCommand{
		ID:             t.ID,
		Title:          t.Title,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Importance:     t.Importance,
		Dependencies:   t.Dependencies,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	stored, err := h.get.Handle(r.Context(), queries.GetTaskQuery{TaskID: created.TaskID})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// Import handles POST /api/tasks/import/?replace=true
func (h *TaskHandler) Import(w http.ResponseWriter, r *http.Request) {
	inputs, ok := h.decodeTaskArray(w, r)
	if !ok {
		return
	}

	tasks, err := queries.ToTasks(inputs)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	result, err := h.imports.Handle(r.Context(), commands.ImportTasksCommand{
		Tasks:   tasks,
		Replace: parseBoolParam(r, "replace", false),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE /api/tasks/{id}/
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.remove.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: id}); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeTaskArray reads a body that must be a JSON array of tasks.
func (h *TaskHandler) decodeTaskArray(w http.ResponseWriter, r *http.Request) ([]queries.TaskInput, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": MessageExpectedArray})
		return nil, false
	}

	var inputs []queries.TaskInput
	if err := json.Unmarshal(trimmed, &inputs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task payload: "+err.Error())
		return nil, false
	}
	return inputs, true
}

// writeDomainError maps application errors to HTTP responses.
func (h *TaskHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   http.StatusText(http.StatusBadRequest),
			"message": "Invalid tasks",
			"fields":  verr.Fields(),
		})
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, persistence.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Task store is temporarily unavailable")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseBoolParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
