package a3c

import (
	"fmt"
	"math"
	"math/rand"

	"a3c-go/common/random"
)

// SoftmaxActor is the reference Policy: a linear softmax head and a
// linear critic over the stacked observation concatenated with the
// recurrent hidden state. The recurrence itself is a fixed
// (weight-free) leaky integrator per layer; the trainable surface is
// exactly the four parameter groups exposed by Parameters.
type SoftmaxActor struct {
	obsSize    int
	numActions int
	hiddenSize int
	variant    Variant
	rng        *rand.Rand

	// Parameter groups: action weights (row-major [action][input]),
	// action bias, critic weights, critic bias.
	w  []float32
	b  []float32
	vw []float32
	vb []float32
}

type SoftmaxActorConfig struct {
	ObsSize    int
	NumActions int
	HiddenSize int
	Variant    Variant
	RandomSeed int64
}

const (
	hiddenMix = 0.5
	cellDecay = 0.99
)

func NewSoftmaxActor(cfg SoftmaxActorConfig) *SoftmaxActor {
	h := &SoftmaxActor{
		obsSize:    cfg.ObsSize,
		numActions: cfg.NumActions,
		hiddenSize: cfg.HiddenSize,
		variant:    cfg.Variant,
		rng:        rand.New(rand.NewSource(cfg.RandomSeed)),
	}
	in := h.inputSize()
	h.w = make([]float32, cfg.NumActions*in)
	h.b = make([]float32, cfg.NumActions)
	h.vw = make([]float32, in)
	h.vb = make([]float32, 1)
	for i := range h.w {
		h.w[i] = (h.rng.Float32() - 0.5) * 0.02
	}
	for i := range h.vw {
		h.vw[i] = (h.rng.Float32() - 0.5) * 0.02
	}
	return h
}

func (h *SoftmaxActor) inputSize() int {
	return h.obsSize + h.hiddenSize*h.variant.Layers()
}

func (h *SoftmaxActor) Act(obs []float32, feats *Features) ([]float32, float32, *Features, error) {
	x := h.input(obs, feats)
	probs := h.probs(x)
	choice, err := random.Sample(h.rng, probs)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("sample action: %w", err)
	}
	action := make([]float32, h.numActions)
	action[choice] = 1

	return action, h.critic(x), h.advance(obs, feats), nil
}

func (h *SoftmaxActor) Value(obs []float32, feats *Features) (float32, error) {
	return h.critic(h.input(obs, feats)), nil
}

func (h *SoftmaxActor) InitialFeatures() *Features {
	layers := h.variant.Layers()
	f := &Features{
		Cells:  make([][]float32, layers),
		Hidden: make([][]float32, layers),
	}
	for l := 0; l < layers; l++ {
		f.Cells[l] = make([]float32, h.hiddenSize)
		f.Hidden[l] = make([]float32, h.hiddenSize)
	}
	return f
}

func (h *SoftmaxActor) Parameters() [][]float32 {
	return [][]float32{h.w, h.b, h.vw, h.vb}
}

// input concatenates the stacked observation with every hidden layer.
func (h *SoftmaxActor) input(obs []float32, feats *Features) []float32 {
	x := make([]float32, 0, h.inputSize())
	x = append(x, obs...)
	for _, hidden := range feats.Hidden {
		x = append(x, hidden...)
	}
	return x
}

func (h *SoftmaxActor) logits(x []float32) []float32 {
	out := make([]float32, h.numActions)
	in := h.inputSize()
	for a := 0; a < h.numActions; a++ {
		sum := h.b[a]
		row := h.w[a*in : (a+1)*in]
		for j, v := range x {
			sum += row[j] * v
		}
		out[a] = sum
	}
	return out
}

func (h *SoftmaxActor) probs(x []float32) []float32 {
	return softmax(h.logits(x))
}

func (h *SoftmaxActor) critic(x []float32) float32 {
	sum := h.vb[0]
	for j, v := range x {
		sum += h.vw[j] * v
	}
	return sum
}

// advance runs the weight-free recurrence: layer 0 integrates a pooled
// view of the observation, deeper layers integrate the layer below.
// Cells trail their hidden layer as a slow trace.
func (h *SoftmaxActor) advance(obs []float32, feats *Features) *Features {
	next := feats.Clone()
	in := pool(obs, h.hiddenSize)
	for l := range next.Hidden {
		for j := range next.Hidden[l] {
			v := (1-hiddenMix)*feats.Hidden[l][j] + hiddenMix*tanh32(in[j])
			next.Hidden[l][j] = v
			next.Cells[l][j] = cellDecay*feats.Cells[l][j] + (1-cellDecay)*v
		}
		in = next.Hidden[l]
	}
	return next
}

// pool average-pools x into size buckets.
func pool(x []float32, size int) []float32 {
	out := make([]float32, size)
	if len(x) == 0 {
		return out
	}
	counts := make([]float32, size)
	for i, v := range x {
		j := i * size / len(x)
		out[j] += v
		counts[j]++
	}
	for j := range out {
		if counts[j] > 0 {
			out[j] /= counts[j]
		}
	}
	return out
}

func softmax(logits []float32) []float32 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	out := make([]float32, len(logits))
	var sum float32 = 0.0
	for i, v := range logits {
		out[i] = float32(math.Exp(float64(v - maxLogit)))
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func tanh32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
