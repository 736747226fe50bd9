package a3c_test

import (
	"context"
	"testing"
	"time"

	"a3c-go/a3c"
)

func TestRunnerProducesContinuously(t *testing.T) {
	env := &EnvMock{spec: a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100}}
	envRunner := a3c.NewEnvRunner(env, &PolicyMock{}, a3c.EnvRunnerConfig{
		SegmentLength: 3,
		FrameStack:    4,
	}, nil, nil)
	runner := a3c.NewRunner(envRunner, 5, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	for i := 0; i < 4; i++ {
		rollout, err := runner.Queue().Get(time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if rollout.Len() != 3 {
			t.Errorf("segment length = %d, want 3", rollout.Len())
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestRunnerBlocksOnFullQueue(t *testing.T) {
	env := &EnvMock{spec: a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100}}
	envRunner := a3c.NewEnvRunner(env, &PolicyMock{}, a3c.EnvRunnerConfig{
		SegmentLength: 1,
		FrameStack:    2,
	}, nil, nil)
	// Capacity 1 and a short timeout: with no consumer the runner must
	// stall on the queue and eventually die with a liveness fault.
	runner := a3c.NewRunner(envRunner, 1, 50*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background())
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("runner exited without an error on a stalled queue")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner never timed out against a dead consumer")
	}

	if env.steps > 2 {
		t.Errorf("producer ran %d env steps past the full queue", env.steps)
	}
}
