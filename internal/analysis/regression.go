package analysis

import (
	"math"
)

// olsResult holds the closed-form single-variable least-squares fit and
// the associated slope inference.
type olsResult struct {
	slope       float64
	intercept   float64
	r2          float64
	slopeStdErr float64
	tStat       float64
	pValue      float64
}

// fitOLS fits y = intercept + slope*x by ordinary least squares.
// The second return is false for degenerate input: fewer than two
// points, or zero variance in x.
//
// R2 is NaN when y has zero variance (the ratio is undefined). The
// t-test fields are NaN when fewer than three points leave no residual
// degrees of freedom.
func fitOLS(xs, ys []float64) (olsResult, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return olsResult{}, false
	}

	meanX := calculateMean(xs)
	meanY := calculateMean(ys)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return olsResult{}, false
	}

	result := olsResult{
		slope: sxy / sxx,
	}
	result.intercept = meanY - result.slope*meanX

	var ssRes, ssTot float64
	for i := range xs {
		predicted := result.intercept + result.slope*xs[i]
		residual := ys[i] - predicted
		ssRes += residual * residual
		dy := ys[i] - meanY
		ssTot += dy * dy
	}

	if ssTot > 0 {
		result.r2 = 1 - ssRes/ssTot
	} else {
		result.r2 = math.NaN()
	}

	df := n - 2
	if df < 1 {
		result.slopeStdErr = math.NaN()
		result.tStat = math.NaN()
		result.pValue = math.NaN()
		return result, true
	}

	result.slopeStdErr = math.Sqrt(ssRes / float64(df) / sxx)
	switch {
	case result.slopeStdErr > 0:
		result.tStat = result.slope / result.slopeStdErr
		result.pValue = studentTPValue(result.tStat, df)
	case result.slope == 0:
		// Flat data fitted exactly by a flat line
		result.tStat = 0
		result.pValue = 1
	default:
		// Exact non-flat fit, zero residual variance
		result.tStat = math.Inf(sign(result.slope))
		result.pValue = 0
	}

	return result, true
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

// studentTPValue returns the two-sided p-value for a t-statistic with
// df degrees of freedom, via the identity
// p = I_x(df/2, 1/2) with x = df/(df+t^2).
func studentTPValue(t float64, df int) float64 {
	if math.IsNaN(t) || df < 1 {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	x := float64(df) / (float64(df) + t*t)
	return regularizedIncompleteBeta(float64(df)/2, 0.5, x)
}

// regularizedIncompleteBeta computes I_x(a, b) using the continued
// fraction expansion (Numerical Recipes 6.4).
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	front := math.Exp(lgAB - lgA - lgB + a*math.Log(x) + b*math.Log1p(-x))

	// The continued fraction converges rapidly for x < (a+1)/(a+b+2);
	// use the symmetry relation otherwise.
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the incomplete beta continued
// fraction by the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		m2 := float64(2 * m)
		fm := float64(m)

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta

		if math.Abs(delta-1) < epsilon {
			break
		}
	}
	return h
}
