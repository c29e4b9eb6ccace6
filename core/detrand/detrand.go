// Package detrand is the deterministic randomness source for the cost
// engine. Every draw is a pure function of a string key, so identical keys
// reproduce identical values across processes and runs. Keys are built from
// stable identifiers (instance id, instance id + suffix), which is what
// makes simulated datasets reproducible fixture-by-fixture.
package detrand

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619

	// uniformBuckets quantizes Uniform into 1/10000 steps
	uniformBuckets = 10000
)

// Hash maps a key to an unsigned 32-bit value, FNV-1a style: XOR each byte
// into the accumulator, then multiply by the 32-bit FNV prime with
// wraparound.
func Hash(key string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= fnvPrime32
	}
	return h
}

// Uniform maps a key to a value in [0, 1)
func Uniform(key string) float64 {
	return float64(Hash(key)%uniformBuckets) / uniformBuckets
}

// Bernoulli draws a biased coin flip for the key
func Bernoulli(key string, p float64) bool {
	return Uniform(key) < p
}

// Band maps a key into the interval [lo, hi)
func Band(key string, lo, hi float64) float64 {
	return lo + Uniform(key)*(hi-lo)
}

// Jitter maps a key into the symmetric interval [-spread, spread)
func Jitter(key string, spread float64) float64 {
	return (Uniform(key) - 0.5) * 2 * spread
}
