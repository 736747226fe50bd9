// Package remoteenv talks to an environment simulator served over a
// websocket, for real-time environments that live outside the worker
// process. One JSON request/response pair per call; the connection is
// driven by a single env runner goroutine and is not safe for
// concurrent use.
package remoteenv

import (
	"fmt"

	"github.com/gorilla/websocket"

	"a3c-go/a3c"
)

type request struct {
	Op     string `json:"op"`
	Action int    `json:"action,omitempty"`
}

type response struct {
	Obs             []float32          `json:"obs,omitempty"`
	Reward          float32            `json:"reward,omitempty"`
	Done            bool               `json:"done,omitempty"`
	Info            map[string]float64 `json:"info,omitempty"`
	ObsSize         int                `json:"obs_size,omitempty"`
	NumActions      int                `json:"num_actions,omitempty"`
	MaxEpisodeSteps int                `json:"max_episode_steps,omitempty"`
	AutoReset       bool               `json:"auto_reset,omitempty"`
	Error           string             `json:"error,omitempty"`
}

type Env struct {
	conn *websocket.Conn
	spec a3c.EnvSpec
}

// Dial connects to addr (a ws:// URL) and fetches the environment
// spec.
func Dial(addr string) (*Env, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial env %s: %w", addr, err)
	}
	h := &Env{conn: conn}

	resp, err := h.roundTrip(request{Op: "spec"})
	if err != nil {
		conn.Close()
		return nil, err
	}
	h.spec = a3c.EnvSpec{
		ObsSize:         resp.ObsSize,
		NumActions:      resp.NumActions,
		MaxEpisodeSteps: resp.MaxEpisodeSteps,
		AutoReset:       resp.AutoReset,
	}
	return h, nil
}

func (h *Env) Spec() a3c.EnvSpec {
	return h.spec
}

func (h *Env) Reset() ([]float32, error) {
	resp, err := h.roundTrip(request{Op: "reset"})
	if err != nil {
		return nil, err
	}
	return resp.Obs, nil
}

func (h *Env) Step(action int) (a3c.StepResult, error) {
	resp, err := h.roundTrip(request{Op: "step", Action: action})
	if err != nil {
		return a3c.StepResult{}, err
	}
	return a3c.StepResult{
		Obs:    resp.Obs,
		Reward: resp.Reward,
		Done:   resp.Done,
		Info:   resp.Info,
	}, nil
}

func (h *Env) Close() error {
	return h.conn.Close()
}

func (h *Env) roundTrip(req request) (*response, error) {
	if err := h.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("env %s: %w", req.Op, err)
	}
	var resp response
	if err := h.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("env %s: %w", req.Op, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("env %s: %s", req.Op, resp.Error)
	}
	return &resp, nil
}
