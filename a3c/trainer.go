package a3c

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// TrainerStats are cheap cross-goroutine counters for the periodic
// progress log.
type TrainerStats struct {
	Updates     atomic.Int64
	Transitions atomic.Int64
	Episodes    atomic.Int64
}

type TrainerConfig struct {
	Task          int
	Gamma         float32
	Lambda        float32
	GradClip      float32
	SummaryPeriod int
	QueueTimeout  time.Duration
}

// Trainer is the per-worker coordinator: it syncs the local policy from
// the shared store, drains the runner's queue with same-episode
// coalescing, prepares a batch and pushes the clipped gradient back.
type Trainer struct {
	policy  Policy
	store   ParamStore
	grads   GradientComputer
	runner  *Runner
	summary SummaryWriter
	variant Variant
	stats   *TrainerStats
	cfg     TrainerConfig

	localSteps int
}

func NewTrainer(policy Policy, store ParamStore, grads GradientComputer, runner *Runner, summary SummaryWriter, variant Variant, stats *TrainerStats, cfg TrainerConfig) *Trainer {
	return &Trainer{
		policy:  policy,
		store:   store,
		grads:   grads,
		runner:  runner,
		summary: summary,
		variant: variant,
		stats:   stats,
		cfg:     cfg,
	}
}

// pullBatch takes one rollout from the runner's queue, then coalesces
// any already-available continuation segments of the same episode
// without waiting. Queue-empty on the opportunistic drain is the
// expected stop signal, not an error.
func (h *Trainer) pullBatch() (*Rollout, error) {
	rollout, err := h.runner.Queue().Get(h.cfg.QueueTimeout)
	if err != nil {
		return nil, fmt.Errorf("drain rollout: %w", err)
	}
	for !rollout.Terminal {
		next, ok := h.runner.Queue().TryGet()
		if !ok {
			break
		}
		rollout.Extend(next)
	}
	return rollout, nil
}

// Process runs one training iteration.
func (h *Trainer) Process() error {
	if err := h.store.Sync(h.policy); err != nil {
		return err
	}
	rollout, err := h.pullBatch()
	if err != nil {
		return err
	}
	batch := ProcessRollout(rollout, h.cfg.Gamma, h.cfg.Lambda)

	grads, err := h.grads.Gradients(h.policy, batch)
	if err != nil {
		return fmt.Errorf("compute gradients: %w", err)
	}
	gradNorm := ClipGlobalNorm(grads, h.cfg.GradClip)

	if err := h.store.ApplyGradients(grads, batch.Size()); err != nil {
		return err
	}

	if h.stats != nil {
		h.stats.Updates.Add(1)
		h.stats.Transitions.Add(int64(batch.Size()))
		if batch.Terminal {
			h.stats.Episodes.Add(1)
		}
	}

	if h.shouldSummarize() {
		h.writeSummary(batch, gradNorm)
	}
	h.localSteps++
	return nil
}

// Run loops Process until ctx is cancelled or an iteration fails.
func (h *Trainer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := h.Process(); err != nil {
			return err
		}
	}
}

// Only the designated reporting worker emits summaries, every
// SummaryPeriod-th iteration.
func (h *Trainer) shouldSummarize() bool {
	return h.summary != nil && h.cfg.Task == 0 && h.localSteps%h.cfg.SummaryPeriod == 0
}

func (h *Trainer) writeSummary(batch *Batch, gradNorm float32) {
	step := h.store.GlobalStep()
	h.summary.AddScalar("model/batch_size", float64(batch.Size()), step)
	h.summary.AddScalar("model/grad_global_norm", float64(gradNorm), step)
	h.summary.AddScalar("model/advantage_mean", mean(batch.Adv), step)
	h.summary.AddScalar("model/return_mean", mean(batch.Returns), step)
	if h.variant.EnergyRegularized() && batch.Features != nil {
		for l, hidden := range batch.Features.Hidden {
			h.summary.AddScalar(fmt.Sprintf("model/energy%d", l), sumSquares(hidden), step)
		}
	}
	h.summary.Flush()
}

func mean(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64 = 0.0
	for _, v := range x {
		sum += float64(v)
	}
	return sum / float64(len(x))
}

func sumSquares(x []float32) float64 {
	var sum float64 = 0.0
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return sum
}
