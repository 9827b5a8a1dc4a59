package draft

import "math/rand/v2"

// ShuffleOrder applies a uniform Fisher-Yates permutation to the slots
// in place. With a fixed rand source the result is deterministic, which
// keeps the shuffle testable apart from the engine.
func ShuffleOrder(order []Slot, rng *rand.Rand) {
	for i := len(order) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
}
