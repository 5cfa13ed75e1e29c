package proptest

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

// Config controls property test behavior.
type Config struct {
	// NumTrials is the number of test iterations. Default: 100.
	NumTrials int

	// Seed is the random seed for reproducibility. Default: time-based.
	// Set to 0 for random seed.
	Seed int64

	// Verbose enables additional logging.
	Verbose bool
}

// DefaultConfig returns sensible defaults for property testing.
func DefaultConfig() Config {
	return Config{NumTrials: 100}
}

// getEffectiveSeed returns the seed to use, checking environment first.
func getEffectiveSeed(cfg Config) int64 {
	if envSeed := os.Getenv("PROPTEST_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// Check runs a property multiple times with different random inputs.
// On failure, it logs the seed for reproducibility.
func Check(t *testing.T, name string, cfg Config, prop func(g *Generator) bool) {
	t.Helper()

	if cfg.NumTrials <= 0 {
		cfg.NumTrials = 100
	}

	seed := getEffectiveSeed(cfg)
	g := New(seed)

	if cfg.Verbose {
		t.Logf("proptest %q: running %d trials with seed %d", name, cfg.NumTrials, seed)
	}

	for i := 0; i < cfg.NumTrials; i++ {
		if !prop(g) {
			t.Errorf("proptest %q failed on trial %d (seed=%d, use PROPTEST_SEED=%d to reproduce)",
				name, i+1, seed, seed)
			return
		}
	}

	if cfg.Verbose {
		t.Logf("proptest %q: passed %d trials", name, cfg.NumTrials)
	}
}

// QuickCheck runs a property with default configuration (100 trials).
//
// Example:
//
//	proptest.QuickCheck(t, "strings are non-negative length", func(g *proptest.Generator) bool {
//	    s := g.String(100)
//	    return len(s) >= 0
//	})
func QuickCheck(t *testing.T, name string, prop func(g *Generator) bool) {
	t.Helper()
	Check(t, name, DefaultConfig(), prop)
}

// CheckWithLabel runs a property and includes a label in failure messages.
// The label function is called with the generator to produce a description
// of the current test case.
func CheckWithLabel(t *testing.T, name string, cfg Config, prop func(g *Generator) (label string, ok bool)) {
	t.Helper()

	if cfg.NumTrials <= 0 {
		cfg.NumTrials = 100
	}

	seed := getEffectiveSeed(cfg)
	g := New(seed)

	for i := 0; i < cfg.NumTrials; i++ {
		label, ok := prop(g)
		if !ok {
			t.Errorf("proptest %q failed on trial %d: %s (seed=%d, use PROPTEST_SEED=%d to reproduce)",
				name, i+1, label, seed, seed)
			return
		}
	}
}

// RunSeeds runs a property with multiple specific seeds.
// Useful for regression testing with known problematic seeds.
func RunSeeds(t *testing.T, name string, seeds []int64, prop func(g *Generator) bool) {
	t.Helper()

	for _, seed := range seeds {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			g := New(seed)
			if !prop(g) {
				t.Errorf("proptest %q failed with seed %d", name, seed)
			}
		})
	}
}
