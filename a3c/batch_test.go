package a3c_test

import (
	"testing"

	"a3c-go/a3c"
)

func TestProcessRolloutShapes(t *testing.T) {
	const n = 7
	rollout := makeRollout(n, false, 2.5)
	batch := a3c.ProcessRollout(rollout, 0.99, 1.0)

	if len(batch.States) != n || len(batch.Actions) != n {
		t.Fatalf("states/actions = %d/%d entries, want %d", len(batch.States), len(batch.Actions), n)
	}
	if len(batch.Adv) != n || len(batch.Returns) != n {
		t.Fatalf("adv/returns = %d/%d entries, want %d", len(batch.Adv), len(batch.Returns), n)
	}
	if batch.Size() != n {
		t.Errorf("Size() = %d, want %d", batch.Size(), n)
	}
}

func TestProcessRolloutLastReturnBootstraps(t *testing.T) {
	const gamma = 0.9
	rollout := makeRollout(4, false, 2.5)
	batch := a3c.ProcessRollout(rollout, gamma, 1.0)

	want := rollout.Rewards[3] + gamma*rollout.BootstrapValue
	if !almostEqual(batch.Returns[3], want) {
		t.Errorf("R[n-1] = %v, want %v", batch.Returns[3], want)
	}
}

func TestProcessRolloutSeedsFirstFeatures(t *testing.T) {
	rollout := makeRollout(3, false, 1.0)
	extra := makeRollout(2, true, 0.0)
	rollout.Extend(extra)

	batch := a3c.ProcessRollout(rollout, 0.99, 1.0)
	if batch.Features.Cells[0][0] != 0 {
		t.Error("batch must seed with the first transition's recurrent state")
	}
	if !batch.Terminal {
		t.Error("terminal flag lost in batch")
	}
}

func TestProcessRolloutHiddenSnapshots(t *testing.T) {
	const n = 5
	rollout := makeRollout(n, false, 1.0)
	batch := a3c.ProcessRollout(rollout, 0.99, 1.0)

	if len(batch.HiddenSnapshots) != 1 {
		t.Fatalf("snapshot layers = %d, want 1", len(batch.HiddenSnapshots))
	}
	if len(batch.HiddenSnapshots[0]) != n {
		t.Fatalf("snapshot steps = %d, want %d", len(batch.HiddenSnapshots[0]), n)
	}
	// Snapshot t is the state before step t.
	if batch.HiddenSnapshots[0][2][0] != 2 {
		t.Errorf("snapshot[0][2] = %v, want the step-2 hidden state", batch.HiddenSnapshots[0][2][0])
	}
}

// Advantages are not invariant to shifting all value predictions by a
// constant: values enter through the TD residual.
func TestProcessRolloutValuesAffectAdvantage(t *testing.T) {
	a := makeRollout(3, false, 1.0)
	b := makeRollout(3, false, 1.0)
	for i := range b.Values {
		b.Values[i] += 10
	}
	batchA := a3c.ProcessRollout(a, 0.99, 1.0)
	batchB := a3c.ProcessRollout(b, 0.99, 1.0)
	if almostEqual(batchA.Adv[0], batchB.Adv[0]) {
		t.Error("advantage unexpectedly invariant to a value shift")
	}
}
