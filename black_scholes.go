package go_bsmodel

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	daysPerYear = 365
	// Vega and rho are quoted per 1% move, theta per calendar day.
	percentScale = 0.01
)

// OptionParameters is the full input of a European option evaluation. Every
// field is required; the engine applies no defaults.
type OptionParameters struct {
	Spot           float64 /* S */
	Strike         float64 /* K */
	TimeToMaturity float64 /* T, in years */
	Volatility     float64 /* Sigma, annualized */
	InterestRate   float64 /* r */
}

// PriceResult holds the theoretical call and put value of one parameter set.
type PriceResult struct {
	CallPrice float64
	PutPrice  float64
}

// Greeks holds the sensitivities of one parameter set. Gamma and Vega are
// shared by the call and the put.
type Greeks struct {
	CallDelta float64
	PutDelta  float64
	Gamma     float64
	Vega      float64
	CallTheta float64
	PutTheta  float64
	CallRho   float64
	PutRho    float64
}

// Price evaluates the Black-Scholes call and put price for p.
func Price(p OptionParameters) (PriceResult, error) {
	bs, err := newEvaluator(p)
	if err != nil {
		return PriceResult{}, err
	}
	return bs.prices(), nil
}

// ComputeGreeks evaluates the sensitivities for p. It fails under the same
// conditions as Price.
func ComputeGreeks(p OptionParameters) (Greeks, error) {
	bs, err := newEvaluator(p)
	if err != nil {
		return Greeks{}, err
	}
	return bs.greeks(), nil
}

// Evaluate returns prices and Greeks from a single d1/d2 evaluation.
func Evaluate(p OptionParameters) (PriceResult, Greeks, error) {
	bs, err := newEvaluator(p)
	if err != nil {
		return PriceResult{}, Greeks{}, err
	}
	return bs.prices(), bs.greeks(), nil
}

// Validate reports the first field of p that cannot be priced.
//
// Spot and strike must be strictly positive because the model takes
// ln(S/K). Time to maturity and volatility may be zero, in which case the
// option carries no time value, but never negative. Interest rate may be any
// finite number.
func (p OptionParameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"spot", p.Spot},
		{"strike", p.Strike},
		{"time_to_maturity", p.TimeToMaturity},
		{"volatility", p.Volatility},
		{"interest_rate", p.InterestRate},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return newInvalidParameters(f.name, f.value, "must be a finite number")
		}
	}

	switch {
	case p.Spot <= 0:
		return newInvalidParameters("spot", p.Spot, "must be positive")
	case p.Strike <= 0:
		return newInvalidParameters("strike", p.Strike, "must be positive")
	case p.TimeToMaturity < 0:
		return newInvalidParameters("time_to_maturity", p.TimeToMaturity, "must not be negative")
	case p.Volatility < 0:
		return newInvalidParameters("volatility", p.Volatility, "must not be negative")
	}
	return nil
}

// evaluator caches the intermediate terms shared by prices and Greeks.
type evaluator struct {
	p OptionParameters

	// noTimeValue is set when sigma*sqrt(T) is zero and d1 is undefined. The
	// distribution terms then collapse to an in-the-money indicator.
	noTimeValue bool

	_sqrt_t   float64
	_a        float64
	_deflater float64
	_d1       float64
	_d2       float64
	_nd1      float64 /* N(d1) */
	_nd2      float64 /* N(d2) */
	_nnd1     float64 /* N(-d1) */
	_nnd2     float64 /* N(-d2) */
	_pdf_d1   float64 /* n(d1) */
}

func newEvaluator(p OptionParameters) (*evaluator, error) {
	if err := p.Validate(); err != nil {
		glog.V(1).Infof("rejecting option parameters %+v: %v", p, err)
		return nil, err
	}

	bs := &evaluator{
		p:       p,
		_sqrt_t: math.Sqrt(p.TimeToMaturity),
	}
	bs._deflater = bs.deflater()
	bs._a = bs.a()

	if bs._a == 0 {
		bs.noTimeValue = true
		// The terminal payoff is known today: the call finishes in the money
		// exactly when S exceeds the discounted strike.
		if p.Spot > p.Strike*bs._deflater {
			bs._nd1, bs._nd2 = 1, 1
		} else {
			bs._nnd1, bs._nnd2 = 1, 1
		}
		return bs, nil
	}

	bs._d1 = bs.d1()
	bs._d2 = bs.d2()
	bs._nd1 = normCdf(bs._d1)
	bs._nd2 = normCdf(bs._d2)
	bs._nnd1 = normCdf(-bs._d1)
	bs._nnd2 = normCdf(-bs._d2)
	bs._pdf_d1 = normPdf(bs._d1)
	return bs, nil
}

func (bs *evaluator) prices() PriceResult {
	return PriceResult{
		CallPrice: bs.callPrice(),
		PutPrice:  bs.putPrice(),
	}
}

func (bs *evaluator) greeks() Greeks {
	callDelta := bs._nd1
	return Greeks{
		CallDelta: callDelta,
		PutDelta:  callDelta - 1,
		Gamma:     bs.gamma(),
		Vega:      bs.vega(),
		CallTheta: bs.callTheta() / daysPerYear,
		PutTheta:  bs.putTheta() / daysPerYear,
		CallRho:   bs.callRho() * percentScale,
		PutRho:    bs.putRho() * percentScale,
	}
}

// a is sigma * sqrt(T), the standard deviation of log returns to expiry.
func (bs *evaluator) a() float64 {
	return bs.p.Volatility * bs._sqrt_t
}

// d1 = (ln(S / K) + (r + sigma^2 / 2) * T) / (sigma * sqrt(T)), expanded as
// ln(S / K) / a + r * T / a + a / 2 so sigma is never squared.
func (bs *evaluator) d1() float64 {
	return math.Log(bs.p.Spot/bs.p.Strike)/bs._a +
		bs.p.InterestRate*bs.p.TimeToMaturity/bs._a +
		0.5*bs._a
}

// d2 = d1 - sigma * sqrt(T)
func (bs *evaluator) d2() float64 {
	return bs._d1 - bs._a
}

// deflater is the discount factor exp(-r * T).
func (bs *evaluator) deflater() float64 {
	return math.Exp(-bs.p.InterestRate * bs.p.TimeToMaturity)
}

func (bs *evaluator) callPrice() float64 {
	// price = S * N(d1) - K * exp(-r * T) * N(d2)
	price := bs.p.Spot*bs._nd1 - bs.p.Strike*bs._deflater*bs._nd2
	if bs.noTimeValue {
		return math.Max(price, 0)
	}
	return price
}

func (bs *evaluator) putPrice() float64 {
	// price = K * exp(-r * T) * N(-d2) - S * N(-d1)
	price := bs.p.Strike*bs._deflater*bs._nnd2 - bs.p.Spot*bs._nnd1
	if bs.noTimeValue {
		return math.Max(price, 0)
	}
	return price
}

// gamma = n(d1) / (S * sigma * sqrt(T))
func (bs *evaluator) gamma() float64 {
	if bs.noTimeValue {
		return 0
	}
	return bs._pdf_d1 / (bs.p.Spot * bs._a)
}

func (bs *evaluator) vega() float64 {
	return bs.p.Spot * bs._pdf_d1 * bs._sqrt_t * percentScale
}

// decay is the volatility part of theta, -S * n(d1) * sigma / (2 * sqrt(T)).
func (bs *evaluator) decay() float64 {
	if bs.noTimeValue {
		return 0
	}
	return -bs.p.Spot * bs._pdf_d1 * bs.p.Volatility / (2 * bs._sqrt_t)
}

func (bs *evaluator) callTheta() float64 {
	// theta = decay - r * K * exp(-r * T) * N(d2)
	return bs.decay() - bs.p.InterestRate*bs.p.Strike*bs._deflater*bs._nd2
}

func (bs *evaluator) putTheta() float64 {
	// theta = decay + r * K * exp(-r * T) * N(-d2)
	return bs.decay() + bs.p.InterestRate*bs.p.Strike*bs._deflater*bs._nnd2
}

func (bs *evaluator) callRho() float64 {
	// rho = K * T * exp(-r * T) * N(d2)
	return bs.p.Strike * bs.p.TimeToMaturity * bs._deflater * bs._nd2
}

func (bs *evaluator) putRho() float64 {
	// rho = -K * T * exp(-r * T) * N(-d2)
	return -bs.p.Strike * bs.p.TimeToMaturity * bs._deflater * bs._nnd2
}

// normCdf is the standard normal cumulative distribution function.
func normCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// normPdf is the standard normal probability density function.
func normPdf(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
