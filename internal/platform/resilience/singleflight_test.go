package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	var shared atomic.Int32

	const callers = 16
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-gate
			v, err, wasShared := g.Do("introspect:abc", func() (any, error) {
				executions.Add(1)
				time.Sleep(15 * time.Millisecond)
				return "verdict", nil
			})
			if err != nil {
				t.Errorf("Do returned error: %v", err)
				return
			}
			if v != "verdict" {
				t.Errorf("unexpected value: %v", v)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
	if got := shared.Load(); got != callers-1 {
		t.Fatalf("%d callers shared the result, want %d", got, callers-1)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	v1, err, _ := g.Do("a", func() (any, error) { return 1, nil })
	if err != nil || v1 != 1 {
		t.Fatalf("unexpected result for key a: %v %v", v1, err)
	}
	v2, err, _ := g.Do("b", func() (any, error) { return 2, nil })
	if err != nil || v2 != 2 {
		t.Fatalf("unexpected result for key b: %v %v", v2, err)
	}
}
