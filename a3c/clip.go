package a3c

import "math"

// GlobalNorm is the L2 norm over all gradient groups taken together.
func GlobalNorm(grads [][]float32) float32 {
	var sum float64 = 0.0
	for _, group := range grads {
		for _, g := range group {
			sum += float64(g) * float64(g)
		}
	}
	return float32(math.Sqrt(sum))
}

// ClipGlobalNorm rescales grads in place so their global norm does not
// exceed maxNorm, bounding the update magnitude against occasional
// large-advantage outliers. Returns the pre-clip norm.
func ClipGlobalNorm(grads [][]float32, maxNorm float32) float32 {
	norm := GlobalNorm(grads)
	if norm <= maxNorm || norm == 0 {
		return norm
	}
	scale := maxNorm / norm
	for _, group := range grads {
		for j := range group {
			group[j] *= scale
		}
	}
	return norm
}
