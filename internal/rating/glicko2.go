// Package rating maintains per-category Glicko-2 ratings and applies
// game results to them.
package rating

import "math"

const (
	// glickoScale converts between the public rating scale and the
	// internal Glicko-2 scale.
	glickoScale = 173.7178
	// tau constrains volatility change per game.
	tau = 0.5
	// epsilon is the convergence bound of the volatility iteration.
	epsilon = 1e-6
)

// Result scores from the first player's point of view.
const (
	ScoreWin  = 1.0
	ScoreDraw = 0.5
	ScoreLoss = 0.0
)

// Glicko2 is one player's rating state on the public scale.
type Glicko2 struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Rate plays p against opp with the given score and returns p's
// updated state. opp is read only; call Rate twice with mirrored
// scores to update both sides.
func Rate(p, opp Glicko2, score float64) Glicko2 {
	mu := (p.Rating - 1500) / glickoScale
	phi := p.Deviation / glickoScale
	sigma := p.Volatility

	muJ := (opp.Rating - 1500) / glickoScale
	phiJ := opp.Deviation / glickoScale

	gj := g(phiJ)
	ej := expected(mu, muJ, phiJ)

	v := 1 / (gj * gj * ej * (1 - ej))
	delta := v * gj * (score - ej)

	sigmaPrime := newVolatility(phi, v, delta, sigma)

	phiStar := math.Sqrt(phi*phi + sigmaPrime*sigmaPrime)
	phiPrime := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	muPrime := mu + phiPrime*phiPrime*gj*(score-ej)

	return Glicko2{
		Rating:     1500 + glickoScale*muPrime,
		Deviation:  glickoScale * phiPrime,
		Volatility: sigmaPrime,
	}
}

func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

func expected(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-g(phiJ)*(mu-muJ)))
}

// newVolatility runs the Illinois-method iteration from the Glicko-2
// paper until successive bounds come within epsilon.
func newVolatility(phi, v, delta, sigma float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	A := a
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			k++
		}
		B = a - k*tau
	}

	fA, fB := f(A), f(B)
	for math.Abs(B-A) > epsilon {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(A / 2)
}
