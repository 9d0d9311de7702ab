package cinder

import "testing"

func TestRandDeterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		if a.NextU64() != b.NextU64() {
			t.Fatalf("streams diverged at step %d", i)
		}
	}
}

func TestRandZeroSeed(t *testing.T) {
	r := NewRand(0)
	if r.NextU64() == 0 {
		t.Fatal("zero seed produced a stuck stream")
	}
}

func TestRandFloat64Range(t *testing.T) {
	r := NewRand(9)
	for i := 0; i < 10000; i++ {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64() = %g outside [0,1)", v)
		}
	}
}

func TestRandRangeF(t *testing.T) {
	r := NewRand(3)
	for i := 0; i < 1000; i++ {
		if v := r.RangeF(-2, 5); v < -2 || v >= 5 {
			t.Fatalf("RangeF(-2,5) = %g out of range", v)
		}
	}
	if v := r.RangeF(4, 4); v != 4 {
		t.Fatalf("degenerate range returned %g", v)
	}
}
