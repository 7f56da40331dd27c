package block

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDataBlockRoundTripProperty checks that for any strictly increasing
// key sequence and any restart interval >= 1, every inserted key is
// retrievable and no non-inserted key is retrieved.
func TestDataBlockRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("every inserted key round-trips, absent keys fail", prop.ForAll(
		func(rawKeys []string, restartInterval int) bool {
			distinct := map[string]bool{}
			for _, k := range rawKeys {
				distinct[k] = true
			}
			keys := make([]string, 0, len(distinct))
			for k := range distinct {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) == 0 {
				return true
			}

			b := NewBuilderWithRestartInterval(restartInterval)
			values := make(map[string]string, len(keys))
			for i, k := range keys {
				v := k + "-value"
				values[k] = v
				if err := b.Add([]byte(k), []byte(v)); err != nil {
					return false
				}
				_ = i
			}

			r, err := NewReader(b.Finish())
			if err != nil {
				return false
			}

			for _, k := range keys {
				got, err := r.Get([]byte(k))
				if err != nil || string(got) != values[k] {
					return false
				}
			}

			absent := "\x00absent-sentinel\x00"
			if _, present := distinct[absent]; !present {
				if _, err := r.Get([]byte(absent)); err == nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
