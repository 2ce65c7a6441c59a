package sample

import "testing"

func TestZero(t *testing.T) {
	if got := Zero[float32](); got != 0 {
		t.Fatalf("Zero[float32]() = %v, want 0", got)
	}
	if got := Zero[float64](); got != 0 {
		t.Fatalf("Zero[float64]() = %v, want 0", got)
	}
}
