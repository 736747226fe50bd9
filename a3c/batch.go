package a3c

// Batch is the fixed-shape training view of one rollout.
type Batch struct {
	States  [][]float32
	Actions [][]float32
	Adv     []float32
	Returns []float32

	Terminal bool

	// Features seeds the gradient computation with the recurrent state
	// of the first transition.
	Features *Features
	// HiddenSnapshots[layer][t] is the per-step hidden ("option")
	// state, consumed by the energy-regularized loss variants.
	HiddenSnapshots [][][]float32
}

func (h *Batch) Size() int {
	return len(h.Returns)
}

// ProcessRollout computes per-step discounted return targets and
// generalized advantage estimates (https://arxiv.org/abs/1506.02438)
// for a finalized rollout. lambda=1 keeps the plain one-step TD
// residual accumulation.
func ProcessRollout(rollout *Rollout, gamma float32, lambda float32) *Batch {
	n := rollout.Len()

	// rewards ++ [bootstrap], discounted, with the appended element
	// dropped again: the return target for every step.
	rewardsPlusV := make([]float32, n+1)
	copy(rewardsPlusV, rollout.Rewards)
	rewardsPlusV[n] = rollout.BootstrapValue
	batchR := Discount(rewardsPlusV, gamma)[:n]

	// TD residuals delta_t = r_t + gamma*V(s_t+1) - V(s_t), with the
	// bootstrap standing in for V after the last step.
	vpred := make([]float32, n+1)
	copy(vpred, rollout.Values)
	vpred[n] = rollout.BootstrapValue
	delta := make([]float32, n)
	for t := 0; t < n; t++ {
		delta[t] = rollout.Rewards[t] + gamma*vpred[t+1] - vpred[t]
	}
	batchAdv := Discount(delta, gamma*lambda)

	return &Batch{
		States:          rollout.States,
		Actions:         rollout.Actions,
		Adv:             batchAdv,
		Returns:         batchR,
		Terminal:        rollout.Terminal,
		Features:        rollout.InitialFeatures(),
		HiddenSnapshots: hiddenSnapshots(rollout),
	}
}

func hiddenSnapshots(rollout *Rollout) [][][]float32 {
	first := rollout.InitialFeatures()
	if first == nil {
		return nil
	}
	layers := len(first.Hidden)
	snaps := make([][][]float32, layers)
	for l := 0; l < layers; l++ {
		snaps[l] = make([][]float32, rollout.Len())
		for t, f := range rollout.Features {
			snaps[l][t] = f.Hidden[l]
		}
	}
	return snaps
}
