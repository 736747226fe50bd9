package a3c

import (
	"context"
	"fmt"
	"time"

	"a3c-go/common/bqueue"
)

// Runner decouples real-time environment interaction from gradient
// computation: it owns the bounded rollout queue and keeps the env
// runner stepping regardless of how fast the trainer consumes. The
// queue is the only state shared with the trainer.
type Runner struct {
	envRunner *EnvRunner
	queue     *bqueue.Queue[*Rollout]
	timeout   time.Duration
}

func NewRunner(envRunner *EnvRunner, capacity int, timeout time.Duration) *Runner {
	return &Runner{
		envRunner: envRunner,
		queue:     bqueue.New[*Rollout](capacity),
		timeout:   timeout,
	}
}

func (h *Runner) Queue() *bqueue.Queue[*Rollout] {
	return h.queue
}

// Run produces segments until ctx is cancelled. A Put that outlives the
// timeout means the consumer side died; the error is returned so the
// whole worker goes down with it.
func (h *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rollout, err := h.envRunner.NextSegment()
		if err != nil {
			return err
		}
		if err := h.queue.Put(rollout, h.timeout); err != nil {
			return fmt.Errorf("deposit rollout %s: %w", rollout.ID, err)
		}
	}
}
