package draft

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func TestShuffleOrder_DeterministicWithFixedSource(t *testing.T) {
	first := []Slot{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}, {UserID: "u4"}}
	second := []Slot{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}, {UserID: "u4"}}

	ShuffleOrder(first, rand.New(rand.NewPCG(7, 11)))
	ShuffleOrder(second, rand.New(rand.NewPCG(7, 11)))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", first, second)
		}
	}
}

func TestShuffleOrder_PreservesMembers(t *testing.T) {
	order := []Slot{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}, {UserID: "u4"}, {UserID: "u5"}}
	ShuffleOrder(order, rand.New(rand.NewPCG(1, 2)))

	seen := make(map[string]int, len(order))
	for _, slot := range order {
		seen[slot.UserID]++
	}
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		if seen[id] != 1 {
			t.Fatalf("expected each member exactly once, got %v", seen)
		}
	}
}

// Chi-square goodness of fit over all 3! = 6 permutations. With 60000
// trials the statistic stays far below the rejection bound for any sane
// Fisher-Yates implementation; a biased loop (e.g. Intn(len) every
// iteration) reliably fails it.
func TestShuffleOrder_UniformPermutations(t *testing.T) {
	const trials = 60000
	rng := rand.New(rand.NewPCG(42, 1337))

	counts := make(map[string]int, 6)
	for range trials {
		order := []Slot{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}
		ShuffleOrder(order, rng)
		key := fmt.Sprintf("%s%s%s", order[0].UserID, order[1].UserID, order[2].UserID)
		counts[key]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations to occur, got %d: %v", len(counts), counts)
	}

	expected := float64(trials) / 6
	var chiSquare float64
	for _, count := range counts {
		diff := float64(count) - expected
		chiSquare += diff * diff / expected
	}

	// 5 degrees of freedom, p=0.001 critical value is 20.52.
	if chiSquare > 20.52 {
		t.Fatalf("shuffle looks biased: chi-square=%.2f counts=%v", chiSquare, counts)
	}
}
