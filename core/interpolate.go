package core

// DividedDifferences returns the Newton divided-difference coefficients of the
// polynomial through (xs[i], fx[i]). fx is not modified.
//
// The table is built in place: for each order k the entries are updated from
// the highest index down so the lower-order values still needed by the sweep
// are not overwritten early. Repeated abscissae are not guarded against and
// produce Inf/NaN coefficients.
func DividedDifferences(xs, fx []float64) []float64 {
	n := len(xs)
	if len(fx) < n {
		n = len(fx)
	}
	coef := make([]float64, n)
	copy(coef, fx)
	for k := 1; k < n; k++ {
		for j := n - 1; j >= k; j-- {
			coef[j] = (coef[j] - coef[j-1]) / (xs[j] - xs[j-k])
		}
	}
	return coef
}

// EvalNewton evaluates the Newton-form polynomial with coefficients coef and
// nodes xs at x, nesting from the highest-order coefficient down.
func EvalNewton(coef, xs []float64, x float64) float64 {
	n := len(coef)
	if n == 0 {
		return 0
	}
	ans := coef[n-1]
	for i := n - 2; i >= 0; i-- {
		ans = coef[i] + (x-xs[i])*ans
	}
	return ans
}

// Interpolate fits the points (xs, fx) and evaluates the fit at x.
func Interpolate(xs, fx []float64, x float64) float64 {
	return EvalNewton(DividedDifferences(xs, fx), xs, x)
}
