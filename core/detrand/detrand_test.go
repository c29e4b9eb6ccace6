// Package detrand - Determinism invariant tests
// These draws seed every simulated dataset; if any of this drifts, every
// regression fixture downstream drifts with it.
package detrand

import "testing"

func TestHashIsStable(t *testing.T) {
	keys := []string{"", "i-123", "i-123:cpu", "i-123:mem", "us-east-1/m5.large"}
	for _, key := range keys {
		first := Hash(key)
		for i := 0; i < 100; i++ {
			if got := Hash(key); got != first {
				t.Fatalf("Hash(%q) unstable: %d then %d", key, first, got)
			}
		}
	}
}

func TestHashEmptyKeyIsOffsetBasis(t *testing.T) {
	// FNV-1a of the empty string is the offset basis by definition
	if got := Hash(""); got != 2166136261 {
		t.Errorf("Hash(\"\") = %d, want 2166136261", got)
	}
}

func TestHashSeparatesKeys(t *testing.T) {
	// Not a collision-resistance claim, just a sanity check that the
	// suffix convention produces distinct streams
	a := Hash("i-0abc123:cpu")
	b := Hash("i-0abc123:mem")
	c := Hash("i-0abc124:cpu")
	if a == b || a == c || b == c {
		t.Errorf("suffixed keys collided: %d %d %d", a, b, c)
	}
}

func TestUniformRange(t *testing.T) {
	keys := []string{"a", "b", "i-123", "i-456:noise:2025-09-01", "x"}
	for _, key := range keys {
		u := Uniform(key)
		if u < 0 || u >= 1 {
			t.Errorf("Uniform(%q) = %v, want [0,1)", key, u)
		}
	}
}

func TestUniformQuantization(t *testing.T) {
	// Uniform is hash mod 10000 over 10000; every draw is a multiple
	// of 0.0001
	u := Uniform("i-123")
	scaled := u * 10000
	if scaled != float64(int(scaled)) {
		t.Errorf("Uniform not quantized to 1/10000 steps: %v", u)
	}
}

func TestBernoulliBounds(t *testing.T) {
	if Bernoulli("any-key", 1.0) != true {
		t.Error("Bernoulli(p=1.0) must always be true")
	}
	if Bernoulli("any-key", 0.0) != false {
		t.Error("Bernoulli(p=0.0) must always be false")
	}
}

func TestBandWithinBounds(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4"}
	for _, key := range keys {
		v := Band(key, 0.97, 1.05)
		if v < 0.97 || v >= 1.05 {
			t.Errorf("Band(%q) = %v, want [0.97,1.05)", key, v)
		}
	}
}

func TestJitterSymmetricBounds(t *testing.T) {
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		j := Jitter(key, 0.1)
		if j < -0.1 || j >= 0.1 {
			t.Errorf("Jitter(%q) = %v, want [-0.1,0.1)", key, j)
		}
	}
}
