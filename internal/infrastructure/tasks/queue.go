package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/pkg/metrics"
	"plate-plan.backend/pkg/redis"
)

// Kind identifies a task queue
type Kind string

const (
	KindMealPlan    Kind = "meal_plan"
	KindStoreScrape Kind = "store_scrape"
)

// State is the lifecycle state of an enqueued task
type State string

const (
	StatePending State = "PENDING"
	StateStarted State = "STARTED"
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
)

// statusTTL bounds how long task status records survive in Redis
const statusTTL = 24 * time.Hour

// Status is the queryable record of one task run
type Status struct {
	TaskID    string `json:"task_id"`
	Kind      Kind   `json:"kind"`
	ProfileID string `json:"profile_id"`
	State     State  `json:"state"`
	Error     string `json:"error,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

type message struct {
	TaskID    string `json:"task_id"`
	ProfileID string `json:"profile_id"`
}

// Queue is a Redis-list backed task queue with one list per kind
type Queue struct{}

// NewQueue creates a queue over the initialized Redis client
func NewQueue() *Queue {
	return &Queue{}
}

func queueKey(kind Kind) string {
	return "queue:" + string(kind)
}

func statusKey(taskID string) string {
	return "task:" + taskID
}

// Enqueue pushes a task for the given profile and returns its id
func (q *Queue) Enqueue(ctx context.Context, kind Kind, profileID uuid.UUID) (string, error) {
	taskID := uuid.NewString()

	if err := q.setStatus(ctx, &Status{
		TaskID:    taskID,
		Kind:      kind,
		ProfileID: profileID.String(),
		State:     StatePending,
	}); err != nil {
		return "", err
	}

	payload, err := json.Marshal(message{TaskID: taskID, ProfileID: profileID.String()})
	if err != nil {
		return "", err
	}
	if err := redis.LPush(ctx, queueKey(kind), payload); err != nil {
		return "", err
	}

	metrics.TasksEnqueued.WithLabelValues(string(kind)).Inc()
	return taskID, nil
}

// GetStatus returns the stored status for a task id.
// Expired or unknown ids return ErrNotFound.
func (q *Queue) GetStatus(ctx context.Context, taskID string) (*Status, error) {
	raw, err := redis.Get(ctx, statusKey(taskID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var status Status
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (q *Queue) setStatus(ctx context.Context, status *Status) error {
	status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return redis.Set(ctx, statusKey(status.TaskID), raw, statusTTL)
}

func (q *Queue) markStarted(ctx context.Context, status *Status) error {
	status.State = StateStarted
	return q.setStatus(ctx, status)
}

func (q *Queue) markSuccess(ctx context.Context, status *Status) error {
	status.State = StateSuccess
	status.Error = ""
	return q.setStatus(ctx, status)
}

func (q *Queue) markFailure(ctx context.Context, status *Status, runErr error) error {
	status.State = StateFailure
	status.Error = runErr.Error()
	return q.setStatus(ctx, status)
}
