package a3c

// Discount computes the discounted cumulative sum of a reward signal
// x = [x_0, x_1 ... x_n]:
//
//	G_t = x_t + gamma*x_t+1 + gamma^2*x_t+2 + ... + gamma^(n-t)*x_n
//
// evaluated as the backward recurrence G_t = x_t + gamma*G_t+1.
func Discount(x []float32, gamma float32) []float32 {
	out := make([]float32, len(x))
	var running float32 = 0.0
	for t := len(x) - 1; t >= 0; t-- {
		running = x[t] + gamma*running
		out[t] = running
	}
	return out
}
