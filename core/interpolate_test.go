package core

import (
	"math"
	"testing"
)

func TestInterpolateRecoversCubic(t *testing.T) {
	f := func(x float64) float64 { return 2*x*x*x - 3*x*x + 0.5*x - 7 }
	xs := []float64{0, 1, 2.5, 4}
	fx := make([]float64, len(xs))
	for i, x := range xs {
		fx[i] = f(x)
	}

	for _, x := range []float64{0.5, 1.75, 3, 3.9} {
		got := Interpolate(xs, fx, x)
		if math.Abs(got-f(x)) > 1e-9 {
			t.Fatalf("Interpolate(%v) = %v, want %v", x, got, f(x))
		}
	}
	for i, x := range xs {
		if got := Interpolate(xs, fx, x); math.Abs(got-fx[i]) > 1e-12 {
			t.Fatalf("Interpolate at node %v = %v, want %v", x, got, fx[i])
		}
	}
}

func TestDividedDifferencesLeavesInputUntouched(t *testing.T) {
	xs := []float64{0, 10, 20}
	fx := []float64{0, 100, 400}
	coef := DividedDifferences(xs, fx)

	if fx[1] != 100 || fx[2] != 400 {
		t.Fatalf("input modified: %v", fx)
	}
	want := []float64{0, 10, 1}
	for i := range want {
		if coef[i] != want[i] {
			t.Fatalf("coef = %v, want %v", coef, want)
		}
	}
}

func TestDividedDifferencesDuplicateNodesPropagateNonFinite(t *testing.T) {
	coef := DividedDifferences([]float64{1, 1}, []float64{2, 3})
	if !math.IsInf(coef[1], 1) {
		t.Fatalf("coef[1] = %v, want +Inf", coef[1])
	}
}

func TestEvalNewtonEmpty(t *testing.T) {
	if got := EvalNewton(nil, nil, 3); got != 0 {
		t.Fatalf("EvalNewton(nil) = %v, want 0", got)
	}
}
