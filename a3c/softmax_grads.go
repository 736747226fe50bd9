package a3c

import (
	"fmt"
	"math"
)

// SoftmaxGradients differentiates the combined objective for a
// SoftmaxActor: policy-gradient loss plus valueCoef-weighted value loss
// minus entropyCoef-weighted entropy bonus. Per-step inputs are rebuilt
// from the batch's hidden snapshots, so the recurrent lineage used for
// acting is the one differentiated against. The hidden recurrence
// carries no trainable weight, so the energy term of the Beta/Gamma
// variants contributes to summaries only.
type SoftmaxGradients struct {
	EntropyCoef float32
	ValueCoef   float32
}

func NewSoftmaxGradients() *SoftmaxGradients {
	return &SoftmaxGradients{
		EntropyCoef: 0.01,
		ValueCoef:   0.5,
	}
}

func (h *SoftmaxGradients) Gradients(policy Policy, batch *Batch) ([][]float32, error) {
	actor, ok := policy.(*SoftmaxActor)
	if !ok {
		return nil, fmt.Errorf("softmax gradients require a SoftmaxActor, got %T", policy)
	}
	in := actor.inputSize()
	dw := make([]float32, len(actor.w))
	db := make([]float32, len(actor.b))
	dvw := make([]float32, len(actor.vw))
	dvb := make([]float32, 1)

	for t := 0; t < batch.Size(); t++ {
		x := h.stepInput(actor, batch, t)
		probs := actor.probs(x)

		// d(pi_loss)/dlogits for -log pi(a|s) * adv, plus the entropy
		// bonus pulled through the softmax.
		entropy := float32(0)
		for _, p := range probs {
			if p > 0 {
				entropy -= p * logf(p)
			}
		}
		adv := batch.Adv[t]
		dlogits := make([]float32, len(probs))
		for a, p := range probs {
			dlogits[a] = (p - batch.Actions[t][a]) * adv
			if p > 0 {
				dlogits[a] += h.EntropyCoef * p * (logf(p) + entropy)
			}
		}

		dv := h.ValueCoef * (actor.critic(x) - batch.Returns[t])

		for a, dl := range dlogits {
			row := dw[a*in : (a+1)*in]
			for j, v := range x {
				row[j] += dl * v
			}
			db[a] += dl
		}
		for j, v := range x {
			dvw[j] += dv * v
		}
		dvb[0] += dv
	}

	return [][]float32{dw, db, dvw, dvb}, nil
}

// stepInput rebuilds the actor input for step t: the stored stacked
// observation concatenated with the per-layer hidden snapshots taken
// before that step.
func (h *SoftmaxGradients) stepInput(actor *SoftmaxActor, batch *Batch, t int) []float32 {
	x := make([]float32, 0, actor.inputSize())
	x = append(x, batch.States[t]...)
	for l := range batch.HiddenSnapshots {
		x = append(x, batch.HiddenSnapshots[l][t]...)
	}
	return x
}

func logf(x float32) float32 {
	return float32(math.Log(float64(x)))
}
