package random

import (
	"fmt"
	"math/rand"
)

// Sample draws an index from a categorical distribution.
func Sample(rand *rand.Rand, probs []float32) (int, error) {
	if len(probs) == 0 {
		return 0, fmt.Errorf("empty distribution")
	}
	var sum float32 = 0.0
	for _, p := range probs {
		sum += p
	}
	if sum < 0.95 || sum > 1.05 {
		return 0, fmt.Errorf("invalid probs sum != 1")
	}

	r := rand.Float32() * sum
	var cumulativeProb float32 = 0.0
	for i, p := range probs {
		cumulativeProb += p
		if r < cumulativeProb {
			return i, nil
		}
	}
	return len(probs) - 1, nil
}
