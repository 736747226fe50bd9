package a3c

import "github.com/google/uuid"

// Rollout is a piece of a complete trajectory: the transitions the
// agent collected before its segment was cut, stored as parallel
// slices. A non-terminal rollout carries a bootstrap value for the
// state that follows it.
type Rollout struct {
	ID       uuid.UUID
	States   [][]float32
	Actions  [][]float32
	Rewards  []float32
	Values   []float32
	Features []*Features

	// BootstrapValue is V(s') for the state after the last transition,
	// zero when the segment ended the episode.
	BootstrapValue float32
	Terminal       bool
}

func NewRollout() *Rollout {
	return &Rollout{
		ID: uuid.New(),
	}
}

func (h *Rollout) Len() int {
	return len(h.Rewards)
}

// Add records one transition. terminal is the environment's done flag
// for this step; feats is the recurrent state in effect before it.
func (h *Rollout) Add(state []float32, action []float32, reward float32, value float32, terminal bool, feats *Features) {
	h.States = append(h.States, state)
	h.Actions = append(h.Actions, action)
	h.Rewards = append(h.Rewards, reward)
	h.Values = append(h.Values, value)
	h.Terminal = terminal
	h.Features = append(h.Features, feats)
}

// MarkTerminal closes the rollout without an environment done signal,
// e.g. when the per-episode step limit cut the episode.
func (h *Rollout) MarkTerminal() {
	h.Terminal = true
	h.BootstrapValue = 0
}

// Extend concatenates other onto the receiver and adopts its bootstrap
// value and terminal flag. Extending a terminal rollout is a
// programming error and panics.
func (h *Rollout) Extend(other *Rollout) {
	if h.Terminal {
		panic("a3c: extend on terminal rollout")
	}
	h.States = append(h.States, other.States...)
	h.Actions = append(h.Actions, other.Actions...)
	h.Rewards = append(h.Rewards, other.Rewards...)
	h.Values = append(h.Values, other.Values...)
	h.Features = append(h.Features, other.Features...)
	h.BootstrapValue = other.BootstrapValue
	h.Terminal = other.Terminal
}

// InitialFeatures is the recurrent state at the start of the segment.
// It survives Extend, which appends at the tail only.
func (h *Rollout) InitialFeatures() *Features {
	if len(h.Features) == 0 {
		return nil
	}
	return h.Features[0]
}
