package a3c

import "math"

// Adam is the reference Optimizer for the worker binary and tests:
// per-parameter-group adaptive moment estimation. SharedStore
// serializes Apply, so no locking here.
type Adam struct {
	lr      float32
	beta1   float32
	beta2   float32
	epsilon float32

	m [][]float32
	v [][]float32
	t int
}

func NewAdam(lr float32) *Adam {
	return &Adam{
		lr:      lr,
		beta1:   0.9,
		beta2:   0.999,
		epsilon: 1e-8,
	}
}

func (h *Adam) Apply(params [][]float32, grads [][]float32) {
	if h.m == nil {
		h.m = make([][]float32, len(params))
		h.v = make([][]float32, len(params))
		for i, group := range params {
			h.m[i] = make([]float32, len(group))
			h.v[i] = make([]float32, len(group))
		}
	}
	h.t++
	correction1 := 1 - float32(math.Pow(float64(h.beta1), float64(h.t)))
	correction2 := 1 - float32(math.Pow(float64(h.beta2), float64(h.t)))

	for i, group := range params {
		for j := range group {
			g := grads[i][j]
			h.m[i][j] = h.beta1*h.m[i][j] + (1-h.beta1)*g
			h.v[i][j] = h.beta2*h.v[i][j] + (1-h.beta2)*g*g
			mHat := h.m[i][j] / correction1
			vHat := h.v[i][j] / correction2
			group[j] -= h.lr * mHat / (float32(math.Sqrt(float64(vHat))) + h.epsilon)
		}
	}
}
