package analytics

import "sync"

// flightTable tracks which keys have a batch fetch currently in flight, so a
// concurrent batch that overlaps an active one fetches only its uncovered
// keys and waits for the rest.
type flightTable[K comparable] struct {
	mu      sync.Mutex
	pending map[K]chan struct{}
}

func newFlightTable[K comparable]() *flightTable[K] {
	return &flightTable[K]{pending: make(map[K]chan struct{})}
}

// claim splits keys into the subset this caller now owns and the done
// channels of flights already covering the remainder. Claimed keys must be
// handed back through release once their fetch settles, success or not.
func (table *flightTable[K]) claim(keys []K) ([]K, chan struct{}, []chan struct{}) {
	table.mu.Lock()
	defer table.mu.Unlock()

	done := make(chan struct{})
	claimed := make([]K, 0, len(keys))
	seen := make(map[chan struct{}]struct{})
	waits := make([]chan struct{}, 0)
	for _, key := range keys {
		if inFlight, exists := table.pending[key]; exists {
			if _, dup := seen[inFlight]; !dup {
				seen[inFlight] = struct{}{}
				waits = append(waits, inFlight)
			}
			continue
		}
		table.pending[key] = done
		claimed = append(claimed, key)
	}
	return claimed, done, waits
}

func (table *flightTable[K]) release(claimed []K, done chan struct{}) {
	table.mu.Lock()
	for _, key := range claimed {
		delete(table.pending, key)
	}
	table.mu.Unlock()
	close(done)
}
