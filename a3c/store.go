package a3c

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ParamStore is the shared parameter collaborator every worker syncs
// from and pushes gradients to. Sync returns the most recently
// committed weights; gradient application is serialized internally so
// concurrent workers cannot corrupt optimizer state.
type ParamStore interface {
	// Sync copies the committed global weights into the local policy.
	// The env runner goroutine may be acting on dst while the copy runs
	// and can observe a partially updated vector; asynchronous workers
	// act on stale weights between syncs anyway, so this only perturbs
	// an already-stochastic policy.
	Sync(dst Policy) error
	// ApplyGradients applies one clipped gradient to the global weights
	// and advances the global step by steps (the batch size).
	ApplyGradients(grads [][]float32, steps int) error
	GlobalStep() int64
}

// Optimizer transforms a gradient into a parameter update. Implemented
// externally; Apply may keep per-group state and is never called
// concurrently by SharedStore.
type Optimizer interface {
	Apply(params [][]float32, grads [][]float32)
}

// SharedStore is the in-process ParamStore shared by the worker
// goroutines of one training process.
type SharedStore struct {
	mu     sync.Mutex
	params [][]float32
	opt    Optimizer
	step   atomic.Int64
}

// NewSharedStore deep-copies init as the committed global weights.
func NewSharedStore(init [][]float32, opt Optimizer) *SharedStore {
	params := make([][]float32, len(init))
	for i, group := range init {
		params[i] = make([]float32, len(group))
		copy(params[i], group)
	}
	return &SharedStore{
		params: params,
		opt:    opt,
	}
}

func (h *SharedStore) Sync(dst Policy) error {
	local := dst.Parameters()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(local) != len(h.params) {
		return fmt.Errorf("store: policy has %d parameter groups, store has %d", len(local), len(h.params))
	}
	for i, group := range h.params {
		copy(local[i], group)
	}
	return nil
}

func (h *SharedStore) ApplyGradients(grads [][]float32, steps int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(grads) != len(h.params) {
		return fmt.Errorf("store: gradient has %d groups, store has %d", len(grads), len(h.params))
	}
	h.opt.Apply(h.params, grads)
	h.step.Add(int64(steps))
	return nil
}

func (h *SharedStore) GlobalStep() int64 {
	return h.step.Load()
}
