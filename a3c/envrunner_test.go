package a3c_test

import (
	"sync"
	"testing"

	"a3c-go/a3c"
)

type EnvMock struct {
	spec         a3c.EnvSpec
	doneAt       int // episode step at which Done is reported, 0 for never
	infoAt       int // total step at which Info is attached, 0 for never
	steps        int
	resets       int
	episodeSteps int
}

func (h *EnvMock) Spec() a3c.EnvSpec {
	return h.spec
}

func (h *EnvMock) Reset() ([]float32, error) {
	h.resets++
	h.episodeSteps = 0
	return []float32{0, 0}, nil
}

func (h *EnvMock) Step(action int) (a3c.StepResult, error) {
	h.steps++
	h.episodeSteps++
	res := a3c.StepResult{
		Obs:    []float32{float32(h.steps), float32(action)},
		Reward: 1.0,
		Done:   h.doneAt > 0 && h.episodeSteps >= h.doneAt,
	}
	if h.infoAt > 0 && h.steps == h.infoAt {
		res.Info = map[string]float64{"env/probe": 42}
	}
	return res, nil
}

type PolicyMock struct{}

func (h *PolicyMock) Act(obs []float32, feats *a3c.Features) ([]float32, float32, *a3c.Features, error) {
	next := &a3c.Features{
		Cells:  [][]float32{{7, 7}},
		Hidden: [][]float32{{9, 9}},
	}
	return []float32{1, 0}, 0.5, next, nil
}

func (h *PolicyMock) Value(obs []float32, feats *a3c.Features) (float32, error) {
	return 1.5, nil
}

func (h *PolicyMock) InitialFeatures() *a3c.Features {
	return &a3c.Features{
		Cells:  [][]float32{{0, 0}},
		Hidden: [][]float32{{0, 0}},
	}
}

func (h *PolicyMock) Parameters() [][]float32 {
	return nil
}

type SummaryMock struct {
	mu      sync.Mutex
	scalars map[string][]float64
}

func (h *SummaryMock) AddScalar(tag string, value float64, step int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.scalars == nil {
		h.scalars = map[string][]float64{}
	}
	h.scalars[tag] = append(h.scalars[tag], value)
}

func (h *SummaryMock) Flush() {}

func newEnvRunner(env *EnvMock, summary a3c.SummaryWriter) *a3c.EnvRunner {
	return a3c.NewEnvRunner(env, &PolicyMock{}, a3c.EnvRunnerConfig{
		SegmentLength: 5,
		FrameStack:    4,
	}, summary, nil)
}

func TestEnvRunnerFullSegment(t *testing.T) {
	env := &EnvMock{spec: a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100}}
	runner := newEnvRunner(env, nil)

	rollout, err := runner.NextSegment()
	if err != nil {
		t.Fatal(err)
	}
	if rollout.Len() != 5 {
		t.Errorf("rollout length = %d, want segment length 5", rollout.Len())
	}
	if rollout.Terminal {
		t.Error("uncut episode should yield a non-terminal rollout")
	}
	if rollout.BootstrapValue == 0 {
		t.Error("non-terminal rollout needs a critic bootstrap value")
	}
	if len(rollout.States[0]) != 2*4 {
		t.Errorf("stacked observation size = %d, want frames*obs = 8", len(rollout.States[0]))
	}
}

func TestEnvRunnerEarlyTermination(t *testing.T) {
	env := &EnvMock{
		spec:   a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100},
		doneAt: 3,
	}
	runner := newEnvRunner(env, nil)

	rollout, err := runner.NextSegment()
	if err != nil {
		t.Fatal(err)
	}
	if rollout.Len() != 3 {
		t.Errorf("rollout length = %d, want 3", rollout.Len())
	}
	if !rollout.Terminal {
		t.Error("episode end must finalize the rollout as terminal")
	}
	if rollout.BootstrapValue != 0 {
		t.Errorf("terminal rollout bootstrap = %v, want 0", rollout.BootstrapValue)
	}

	// Interaction continues seamlessly into the next segment.
	next, err := runner.NextSegment()
	if err != nil {
		t.Fatal(err)
	}
	if next.Len() != 3 {
		t.Errorf("second rollout length = %d, want 3", next.Len())
	}
	if env.resets != 2 {
		t.Errorf("resets = %d, want initial reset plus one non-autoreset episode end", env.resets)
	}
}

func TestEnvRunnerStepLimit(t *testing.T) {
	env := &EnvMock{spec: a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 4}}
	runner := newEnvRunner(env, nil)

	rollout, err := runner.NextSegment()
	if err != nil {
		t.Fatal(err)
	}
	if rollout.Len() != 4 {
		t.Errorf("rollout length = %d, want the 4-step episode limit", rollout.Len())
	}
	if !rollout.Terminal {
		t.Error("hitting the step limit must finalize the rollout as terminal")
	}
	if rollout.BootstrapValue != 0 {
		t.Errorf("bootstrap = %v, want 0 on a limit cut", rollout.BootstrapValue)
	}
	if env.resets != 2 {
		t.Errorf("resets = %d, want explicit reset after the limit", env.resets)
	}
}

func TestEnvRunnerPartialFeatureReset(t *testing.T) {
	env := &EnvMock{
		spec:   a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100},
		doneAt: 2,
	}
	runner := newEnvRunner(env, nil)

	if _, err := runner.NextSegment(); err != nil {
		t.Fatal(err)
	}
	next, err := runner.NextSegment()
	if err != nil {
		t.Fatal(err)
	}

	seed := next.InitialFeatures()
	if seed.Hidden[0][0] != 0 {
		t.Errorf("option state = %v after episode end, want fresh 0", seed.Hidden[0][0])
	}
	if seed.Cells[0][0] != 7 {
		t.Errorf("memory state = %v after episode end, want preserved 7", seed.Cells[0][0])
	}
}

func TestEnvRunnerForwardsInfo(t *testing.T) {
	env := &EnvMock{
		spec:   a3c.EnvSpec{ObsSize: 2, NumActions: 2, MaxEpisodeSteps: 100},
		infoAt: 2,
	}
	summary := &SummaryMock{}
	runner := newEnvRunner(env, summary)

	if _, err := runner.NextSegment(); err != nil {
		t.Fatal(err)
	}
	if got := summary.scalars["env/probe"]; len(got) != 1 || got[0] != 42 {
		t.Errorf("forwarded info = %v, want one record of 42", got)
	}
}
