package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// DefaultRedisKeyPrefix namespaces every key the repository touches.
const DefaultRedisKeyPrefix = "taskrank"

// raiseSequence moves the id sequence forward to at least ARGV[1].
var raiseSequence = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local id = tonumber(ARGV[1])
if current < id then
	redis.call('SET', KEYS[1], id)
end
return id
`)

// RedisTaskRepository implements task.Repository on a Redis hash.
// Tasks are stored as JSON under {prefix}:tasks, keyed by id; ids come from {prefix}:tasks:seq.
type RedisTaskRepository struct {
	client *redis.Client
	hash   string
	seq    string
}

// NewRedisTaskRepository creates a new Redis task repository.
func NewRedisTaskRepository(client *redis.Client, prefix string) *RedisTaskRepository {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisTaskRepository{
		client: client,
		hash:   prefix + ":tasks",
		seq:    prefix + ":tasks:seq",
	}
}

// redisTask is the stored JSON document.
type redisTask struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Importance     int      `json:"importance"`
	Dependencies   []int64  `json:"dependencies,omitempty"`
}

func encodeRedisTask(id int64, t task.Task) ([]byte, error) {
	doc := redisTask{
		ID:             id,
		Title:          t.Title,
		DueDate:        task.FormatDate(t.DueDate),
		EstimatedHours: t.EstimatedHours,
		Importance:     t.EffectiveImportance(),
		Dependencies:   t.Dependencies,
	}
	return json.Marshal(doc)
}

func decodeRedisTask(raw []byte) (task.Task, error) {
	var doc redisTask
	if err := json.Unmarshal(raw, &doc); err != nil {
		return task.Task{}, fmt.Errorf("failed to decode task: %w", err)
	}

	id := doc.ID
	t := task.Task{
		ID:             &id,
		Title:          doc.Title,
		EstimatedHours: doc.EstimatedHours,
		Importance:     doc.Importance,
		Dependencies:   doc.Dependencies,
	}
	if doc.DueDate != "" {
		due, err := task.ParseDate(doc.DueDate)
		if err != nil {
			return task.Task{}, fmt.Errorf("task %d: %w", id, err)
		}
		t.DueDate = &due
	}
	return t, nil
}

// writer returns the pipeline of the unit of work carried by ctx, or the client.
func (r *RedisTaskRepository) writer(ctx context.Context) redis.Cmdable {
	if tx, ok := redisTxFrom(ctx); ok {
		return tx.pipe
	}
	return r.client
}

// Save inserts the task, or replaces the stored task with the same id.
func (r *RedisTaskRepository) Save(ctx context.Context, t task.Task) (int64, error) {
	var id int64
	if t.ID == nil {
		next, err := r.client.Incr(ctx, r.seq).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to allocate task id: %w", err)
		}
		id = next
	} else {
		id = *t.ID
		if err := raiseSequence.Run(ctx, r.client, []string{r.seq}, id).Err(); err != nil {
			return 0, fmt.Errorf("failed to advance task id sequence: %w", err)
		}
	}

	payload, err := encodeRedisTask(id, t)
	if err != nil {
		return 0, err
	}
	if err := r.writer(ctx).HSet(ctx, r.hash, strconv.FormatInt(id, 10), payload).Err(); err != nil {
		return 0, fmt.Errorf("failed to store task %d: %w", id, err)
	}
	return id, nil
}

// FindByID retrieves a task by its ID.
func (r *RedisTaskRepository) FindByID(ctx context.Context, id int64) (task.Task, error) {
	raw, err := r.client.HGet(ctx, r.hash, strconv.FormatInt(id, 10)).Bytes()
	if err == redis.Nil {
		return task.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return task.Task{}, err
	}
	return decodeRedisTask(raw)
}

// FindAll retrieves every task ordered by id.
func (r *RedisTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	entries, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(entries))
	for _, raw := range entries {
		t, err := decodeRedisTask([]byte(raw))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return *tasks[i].ID < *tasks[j].ID })
	return tasks, nil
}

// Delete removes a task by its ID. Inside a RedisUnitOfWork the existence
// check runs immediately and the delete is queued.
func (r *RedisTaskRepository) Delete(ctx context.Context, id int64) error {
	field := strconv.FormatInt(id, 10)
	if tx, ok := redisTxFrom(ctx); ok {
		exists, err := r.client.HExists(ctx, r.hash, field).Result()
		if err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		if !exists {
			return ErrTaskNotFound
		}
		return tx.pipe.HDel(ctx, r.hash, field).Err()
	}

	n, err := r.client.HDel(ctx, r.hash, field).Result()
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
