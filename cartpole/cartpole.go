package cartpole

import (
	"math"
	"math/rand"

	"a3c-go/a3c"
)

// Classic cart-pole balancing task: four-dimensional observation, two
// actions (push left / push right), reward 1 per balanced step. Euler
// integration with a 0.02s timestep.
const (
	gravity        = 9.81
	massCart       = 1.0
	massPole       = 0.1
	poleLength     = 0.5
	totalMass      = massCart + massPole
	poleMassLength = massPole * poleLength
	forceMax       = 10.0
	tau            = 0.02

	xThreshold     = 2.4
	thetaThreshold = 12.0 * math.Pi / 180.0

	ObsSize    = 4
	NumActions = 2
)

type Config struct {
	RandomSeed      int64
	MaxEpisodeSteps int
}

type Env struct {
	config Config
	rng    *rand.Rand

	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
	steps    int
}

func New(config Config) *Env {
	if config.MaxEpisodeSteps == 0 {
		config.MaxEpisodeSteps = 500
	}
	h := &Env{
		config: config,
		rng:    rand.New(rand.NewSource(config.RandomSeed)),
	}
	return h
}

func (h *Env) Spec() a3c.EnvSpec {
	return a3c.EnvSpec{
		ObsSize:         ObsSize,
		NumActions:      NumActions,
		MaxEpisodeSteps: h.config.MaxEpisodeSteps,
		AutoReset:       false,
	}
}

func (h *Env) Reset() ([]float32, error) {
	h.x = h.rng.Float64()*0.1 - 0.05
	h.xDot = h.rng.Float64()*0.1 - 0.05
	h.theta = h.rng.Float64()*0.1 - 0.05
	h.thetaDot = h.rng.Float64()*0.1 - 0.05
	h.steps = 0
	return h.obs(), nil
}

func (h *Env) Step(action int) (a3c.StepResult, error) {
	force := forceMax
	if action == 0 {
		force = -forceMax
	}

	cosTheta := math.Cos(h.theta)
	sinTheta := math.Sin(h.theta)

	temp := (force + poleMassLength*h.thetaDot*h.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(poleLength * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	h.x += tau * h.xDot
	h.xDot += tau * xAcc
	h.theta += tau * h.thetaDot
	h.thetaDot += tau * thetaAcc
	h.steps++

	fell := h.x < -xThreshold || h.x > xThreshold ||
		h.theta < -thetaThreshold || h.theta > thetaThreshold

	res := a3c.StepResult{
		Obs:    h.obs(),
		Reward: 1.0,
		Done:   fell,
	}
	if fell {
		res.Reward = 0.0
		res.Info = map[string]float64{
			"env/pole_angle": h.theta,
			"env/cart_x":     h.x,
		}
	}
	return res, nil
}

func (h *Env) obs() []float32 {
	return []float32{
		float32(h.x),
		float32(h.xDot),
		float32(h.theta),
		float32(h.thetaDot),
	}
}
