package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"plate-plan.backend/pkg/logger"
	"plate-plan.backend/pkg/metrics"
	"plate-plan.backend/pkg/redis"
)

// popTimeout bounds each blocking pop so workers notice context cancellation
const popTimeout = 2 * time.Second

// Runner executes one task for a profile
type Runner interface {
	Run(ctx context.Context, profileID uuid.UUID) error
}

// Pool consumes one task queue with a fixed number of worker goroutines
type Pool struct {
	queue   *Queue
	kind    Kind
	runner  Runner
	workers int
	wg      sync.WaitGroup
}

// NewPool creates a worker pool for the given task kind
func NewPool(queue *Queue, kind Kind, runner Runner, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{queue: queue, kind: kind, runner: runner, workers: workers}
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	logger.Info(ctx, "Starting task workers",
		zap.String("kind", string(p.kind)),
		zap.Int("workers", p.workers),
	)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.consume(ctx)
		}()
	}
}

// Stop blocks until all workers have exited
func (p *Pool) Stop() {
	p.wg.Wait()
}

func (p *Pool) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, err := redis.BRPop(ctx, popTimeout, queueKey(p.kind))
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Queue pop failed",
				zap.String("kind", string(p.kind)),
				zap.Error(err),
			)
			time.Sleep(time.Second)
			continue
		}

		p.handle(ctx, raw)
	}
}

func (p *Pool) handle(ctx context.Context, raw string) {
	var msg message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		logger.Error(ctx, "Dropping malformed task message",
			zap.String("kind", string(p.kind)),
			zap.Error(err),
		)
		return
	}

	profileID, err := uuid.Parse(msg.ProfileID)
	if err != nil {
		logger.Error(ctx, "Dropping task with invalid profile id",
			zap.String("task_id", msg.TaskID),
			zap.String("profile_id", msg.ProfileID),
		)
		return
	}

	status := &Status{TaskID: msg.TaskID, Kind: p.kind, ProfileID: msg.ProfileID}
	if err := p.queue.markStarted(ctx, status); err != nil {
		logger.Error(ctx, "Failed to mark task started", zap.String("task_id", msg.TaskID), zap.Error(err))
	}

	start := time.Now()
	runErr := p.runner.Run(ctx, profileID)
	metrics.TaskDuration.WithLabelValues(string(p.kind)).Observe(time.Since(start).Seconds())

	if runErr != nil {
		metrics.TasksFailed.WithLabelValues(string(p.kind)).Inc()
		logger.Error(ctx, "Task failed",
			zap.String("kind", string(p.kind)),
			zap.String("task_id", msg.TaskID),
			zap.String("profile_id", msg.ProfileID),
			zap.Error(runErr),
		)
		if err := p.queue.markFailure(ctx, status, runErr); err != nil {
			logger.Error(ctx, "Failed to mark task failure", zap.String("task_id", msg.TaskID), zap.Error(err))
		}
		return
	}

	metrics.TasksCompleted.WithLabelValues(string(p.kind)).Inc()
	logger.Info(ctx, "Task completed",
		zap.String("kind", string(p.kind)),
		zap.String("task_id", msg.TaskID),
		zap.String("profile_id", msg.ProfileID),
		zap.Duration("duration", time.Since(start)),
	)
	if err := p.queue.markSuccess(ctx, status); err != nil {
		logger.Error(ctx, "Failed to mark task success", zap.String("task_id", msg.TaskID), zap.Error(err))
	}
}
