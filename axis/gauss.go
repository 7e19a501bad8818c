package axis

import "math"

// machineEpsilon is the convergence tolerance's unit, matching EPS in
// gauss-legendre.c.
const machineEpsilon = 2.2204460492503131e-16

// gaussLegendre returns the n roots of the degree-n Legendre polynomial
// (in ascending order, all within (-1, 1)) and their quadrature weights,
// summing to 2. Only the first half of the roots are computed directly;
// the rest follow from the polynomial's symmetry about zero. Grounded
// directly on gauss-legendre.c's gauss_legendre, using Newton's method
// from the standard asymptotic initial guess.
func gaussLegendre(n int) (roots, weights []float64) {
	roots = make([]float64, n)
	weights = make([]float64, n)

	hnum := (n + 1) / 2
	for i := 0; i < hnum; i++ {
		x := math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))

		var p [3]float64
		var dpdx, dx float64
		for {
			p[1] = 1
			p[2] = x
			for k := 2; k <= n; k++ {
				p[0] = p[1]
				p[1] = p[2]
				p[2] = 2*x*p[1] - p[0] - (x*p[1]-p[0])/float64(k)
			}
			dpdx = float64(n) * (p[1] - x*p[2]) / (1 - x*x)

			dx = -p[2] / dpdx
			x += dx
			if math.Abs(dx) <= 4*machineEpsilon {
				break
			}
		}

		j := n - 1 - i
		roots[i] = -x
		roots[j] = x
		weights[i] = 2 / ((1 - x*x) * dpdx * dpdx)
		weights[j] = weights[i]
	}
	return roots, weights
}
