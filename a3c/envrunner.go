package a3c

import (
	"fmt"

	"github.com/idsulik/go-collections/v3/queue"
)

// StepCounter reads the cross-worker global step, used only to tag
// forwarded diagnostics. ParamStore satisfies it.
type StepCounter interface {
	GlobalStep() int64
}

// EnvRunner drives the policy against a live environment and cuts the
// transition stream into fixed-length segments. It is an infinite
// producer: every NextSegment call steps the environment until one
// rollout is finalized, without ever pausing interaction between
// segments.
type EnvRunner struct {
	env     Environment
	policy  Policy
	segLen  int
	frames  int
	summary SummaryWriter
	steps   StepCounter
	render  bool

	window       *queue.Queue[[]float32]
	lastState    []float32
	lastFeatures *Features

	started bool
	length  int
	rewards float32
}

type EnvRunnerConfig struct {
	SegmentLength int
	FrameStack    int
	Render        bool
}

func NewEnvRunner(env Environment, policy Policy, cfg EnvRunnerConfig, summary SummaryWriter, steps StepCounter) *EnvRunner {
	return &EnvRunner{
		env:     env,
		policy:  policy,
		segLen:  cfg.SegmentLength,
		frames:  cfg.FrameStack,
		summary: summary,
		steps:   steps,
		render:  cfg.Render,
	}
}

// NextSegment blocks until one rollout is finalized: either segLen
// transitions were collected (non-terminal, bootstrapped from the
// critic) or the episode ended first (terminal, bootstrap zero). Not
// safe for concurrent use.
func (h *EnvRunner) NextSegment() (*Rollout, error) {
	if !h.started {
		if err := h.restart(); err != nil {
			return nil, err
		}
		h.lastFeatures = h.policy.InitialFeatures()
		h.started = true
	}

	limit := h.env.Spec().MaxEpisodeSteps
	rollout := NewRollout()
	terminalEnd := false

	for i := 0; i < h.segLen; i++ {
		action, value, features, err := h.policy.Act(h.lastState, h.lastFeatures)
		if err != nil {
			return nil, fmt.Errorf("policy act: %w", err)
		}
		res, err := h.env.Step(argmax(action))
		if err != nil {
			return nil, fmt.Errorf("env step: %w", err)
		}
		if h.render {
			if r, ok := h.env.(Renderer); ok {
				r.Render()
			}
		}
		state := h.pushFrame(res.Obs)

		rollout.Add(h.lastState, action, res.Reward, value, res.Done, h.lastFeatures)
		h.length++
		h.rewards += res.Reward

		h.lastState = state
		h.lastFeatures = features

		if len(res.Info) > 0 && h.summary != nil {
			step := h.globalStep()
			for k, v := range res.Info {
				h.summary.AddScalar(k, v, step)
			}
			h.summary.Flush()
		}

		if res.Done || (limit > 0 && h.length >= limit) {
			terminalEnd = true
			if !res.Done {
				// Step limit cut the episode; the recorded done flag
				// stays false but the segment is closed as terminal.
				rollout.MarkTerminal()
			}
			if (limit > 0 && h.length >= limit) || !h.env.Spec().AutoReset {
				if err := h.restart(); err != nil {
					return nil, err
				}
			}
			h.resetFeatures()
			h.reportEpisode()
			h.length = 0
			h.rewards = 0
			break
		}
	}

	if !terminalEnd {
		v, err := h.policy.Value(h.lastState, h.lastFeatures)
		if err != nil {
			return nil, fmt.Errorf("policy value: %w", err)
		}
		rollout.BootstrapValue = v
	}
	return rollout, nil
}

// restart resets the environment and rebuilds the frame window by
// replicating the fresh initial frame.
func (h *EnvRunner) restart() error {
	obs, err := h.env.Reset()
	if err != nil {
		return fmt.Errorf("env reset: %w", err)
	}
	h.window = queue.New[[]float32](h.frames)
	for i := 0; i < h.frames; i++ {
		h.window.Enqueue(obs)
	}
	h.lastState = h.stacked()
	return nil
}

// resetFeatures restarts only the option component of the recurrent
// state across the episode boundary; the memory component persists.
func (h *EnvRunner) resetFeatures() {
	next := h.lastFeatures.Clone()
	next.Hidden = h.policy.InitialFeatures().Hidden
	h.lastFeatures = next
}

// pushFrame slides the stacking window one raw frame forward and
// returns the new stacked observation.
func (h *EnvRunner) pushFrame(frame []float32) []float32 {
	h.window.Dequeue()
	h.window.Enqueue(frame)
	return h.stacked()
}

func (h *EnvRunner) stacked() []float32 {
	out := make([]float32, 0, h.frames*h.env.Spec().ObsSize)
	h.window.ForEach(func(frame []float32) {
		out = append(out, frame...)
	})
	return out
}

func (h *EnvRunner) reportEpisode() {
	if h.summary == nil {
		return
	}
	step := h.globalStep()
	h.summary.AddScalar("episode/reward", float64(h.rewards), step)
	h.summary.AddScalar("episode/length", float64(h.length), step)
	h.summary.Flush()
}

func (h *EnvRunner) globalStep() int64 {
	if h.steps == nil {
		return 0
	}
	return h.steps.GlobalStep()
}

func argmax(x []float32) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}
