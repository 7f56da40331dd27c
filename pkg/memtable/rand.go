package memtable

import "time"

// randSeed seeds the skip list's level-promotion PRNG. Determinism across
// runs isn't required: only the promotion distribution's shape matters.
func randSeed() int64 {
	return time.Now().UnixNano()
}
