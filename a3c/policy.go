package a3c

import "fmt"

// Variant selects the policy/loss configuration for a training run.
// Alpha is a single recurrent layer without energy regularization,
// Beta and Gamma stack three layers and regularize the hidden-state
// energy.
type Variant int

const (
	VariantAlpha Variant = iota
	VariantBeta
	VariantGamma
)

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "alpha":
		return VariantAlpha, nil
	case "beta":
		return VariantBeta, nil
	case "gamma":
		return VariantGamma, nil
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

func (v Variant) Layers() int {
	if v == VariantAlpha {
		return 1
	}
	return 3
}

// EnergyRegularized reports whether the loss collaborator applies the
// auxiliary hidden-state magnitude term.
func (v Variant) EnergyRegularized() bool {
	return v == VariantBeta || v == VariantGamma
}

func (v Variant) String() string {
	switch v {
	case VariantAlpha:
		return "alpha"
	case VariantBeta:
		return "beta"
	case VariantGamma:
		return "gamma"
	}
	return "unknown"
}

// Features is the recurrent state carried by a policy across steps.
// Cells is the long-lived memory component, Hidden the short-lived
// option component; one slice per recurrent layer. Across an episode
// boundary only Hidden restarts, Cells persists.
type Features struct {
	Cells  [][]float32
	Hidden [][]float32
}

func (h *Features) Clone() *Features {
	c := &Features{
		Cells:  make([][]float32, len(h.Cells)),
		Hidden: make([][]float32, len(h.Hidden)),
	}
	for i, v := range h.Cells {
		c.Cells[i] = make([]float32, len(v))
		copy(c.Cells[i], v)
	}
	for i, v := range h.Hidden {
		c.Hidden[i] = make([]float32, len(v))
		copy(c.Hidden[i], v)
	}
	return c
}

// Policy is the acting network. Act and Value never mutate the passed
// features; Act returns the successor state as a fresh value.
type Policy interface {
	// Act returns the chosen action as a one-hot vector, the value
	// estimate of obs, and the recurrent state after the step.
	Act(obs []float32, feats *Features) (action []float32, value float32, next *Features, err error)
	// Value runs only the critic head.
	Value(obs []float32, feats *Features) (float32, error)
	InitialFeatures() *Features
	// Parameters exposes the trainable parameter groups for sync and
	// gradient application. Callers may write through the slices.
	Parameters() [][]float32
}

// StepResult is one environment step outcome.
type StepResult struct {
	Obs    []float32
	Reward float32
	Done   bool
	Info   map[string]float64
}

type EnvSpec struct {
	ObsSize         int
	NumActions      int
	MaxEpisodeSteps int
	AutoReset       bool
}

// Environment is the simulator collaborator. Implementations need not
// be safe for concurrent use; a single env runner drives each one.
type Environment interface {
	Reset() ([]float32, error)
	Step(action int) (StepResult, error)
	Spec() EnvSpec
}

// Renderer is implemented by environments that can visualise
// themselves.
type Renderer interface {
	Render()
}

// GradientComputer is the external loss collaborator. It differentiates
// the combined objective (policy gradient, value loss, entropy bonus,
// plus the energy term under Beta/Gamma) with respect to the policy's
// parameter groups.
type GradientComputer interface {
	Gradients(policy Policy, batch *Batch) ([][]float32, error)
}

// SummaryWriter receives training diagnostics keyed by global step.
type SummaryWriter interface {
	AddScalar(tag string, value float64, step int64)
	Flush()
}
