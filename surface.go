package go_bsmodel

import (
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dashboard defaults for the heatmap axes.
const (
	DefaultSurfacePoints = 10
	MinSurfaceVolatility = 0.01
	MaxSurfaceVolatility = 1.0
)

// PriceSurface is a grid of call and put prices over spot and volatility.
// Row i corresponds to VolSamples[i] and column j to SpotSamples[j].
type PriceSurface struct {
	SpotSamples []float64
	VolSamples  []float64
	Call        [][]float64
	Put         [][]float64
}

// SurfaceCell is one flattened grid point, used for tabular export.
type SurfaceCell struct {
	Volatility float64 `csv:"volatility" json:"volatility"`
	Spot       float64 `csv:"spot" json:"spot"`
	Call       float64 `csv:"call" json:"call"`
	Put        float64 `csv:"put" json:"put"`
}

// SurfaceOptions tunes surface generation. Workers <= 1 evaluates the grid
// on the calling goroutine.
type SurfaceOptions struct {
	Workers int
}

// GenerateSurface prices every (volatility, spot) pair sequentially, holding
// strike, maturity and rate fixed from base.
//
// The first cell that cannot be priced aborts the whole surface; no partial
// grid is returned.
func GenerateSurface(base OptionParameters, spots, vols []float64) (*PriceSurface, error) {
	return GenerateSurfaceWithOptions(base, spots, vols, SurfaceOptions{})
}

// GenerateSurfaceWithOptions is GenerateSurface with an optional worker pool.
// Each volatility row is one unit of work, so neither the result nor the
// reported failing cell depends on the number of workers.
func GenerateSurfaceWithOptions(base OptionParameters, spots, vols []float64, opts SurfaceOptions) (*PriceSurface, error) {
	if len(spots) == 0 {
		return nil, newInvalidParameters("spot_samples", 0, "must contain at least one sample")
	}
	if len(vols) == 0 {
		return nil, newInvalidParameters("vol_samples", 0, "must contain at least one sample")
	}

	start := time.Now()
	s := &PriceSurface{
		SpotSamples: append([]float64(nil), spots...),
		VolSamples:  append([]float64(nil), vols...),
		Call:        make([][]float64, len(vols)),
		Put:         make([][]float64, len(vols)),
	}

	if opts.Workers <= 1 {
		for i := range s.VolSamples {
			if err := s.fillRow(base, i); err != nil {
				return nil, err
			}
		}
	} else {
		rowErrs := make([]error, len(vols))
		p := pool.New().WithMaxGoroutines(opts.Workers)
		for i := range s.VolSamples {
			i := i
			p.Go(func() {
				rowErrs[i] = s.fillRow(base, i)
			})
		}
		p.Wait()
		for _, err := range rowErrs {
			if err != nil {
				return nil, err
			}
		}
	}

	if glog.V(2) {
		glog.Infof("generated %dx%d price surface in %v (workers=%d)",
			len(vols), len(spots), time.Since(start), opts.Workers)
	}
	return s, nil
}

// fillRow writes row i of both grids. Rows never share memory, so concurrent
// calls for distinct i need no locking.
func (s *PriceSurface) fillRow(base OptionParameters, i int) error {
	calls := make([]float64, len(s.SpotSamples))
	puts := make([]float64, len(s.SpotSamples))
	for j, spot := range s.SpotSamples {
		res, err := Price(OptionParameters{
			Spot:           spot,
			Strike:         base.Strike,
			TimeToMaturity: base.TimeToMaturity,
			Volatility:     s.VolSamples[i],
			InterestRate:   base.InterestRate,
		})
		if err != nil {
			return fmt.Errorf("surface cell [%d][%d]: %w", i, j, err)
		}
		calls[j] = res.CallPrice
		puts[j] = res.PutPrice
	}
	s.Call[i] = calls
	s.Put[i] = puts
	return nil
}

// Rows returns the number of volatility samples.
func (s *PriceSurface) Rows() int { return len(s.VolSamples) }

// Cols returns the number of spot samples.
func (s *PriceSurface) Cols() int { return len(s.SpotSamples) }

// CallMatrix returns the call grid as a dense matrix.
func (s *PriceSurface) CallMatrix() *mat.Dense {
	return toDense(s.Call, s.Rows(), s.Cols())
}

// PutMatrix returns the put grid as a dense matrix.
func (s *PriceSurface) PutMatrix() *mat.Dense {
	return toDense(s.Put, s.Rows(), s.Cols())
}

func toDense(grid [][]float64, r, c int) *mat.Dense {
	data := make([]float64, 0, r*c)
	for _, row := range grid {
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data)
}

// Cells flattens the surface in row-major order.
func (s *PriceSurface) Cells() []SurfaceCell {
	cells := make([]SurfaceCell, 0, s.Rows()*s.Cols())
	for i, vol := range s.VolSamples {
		for j, spot := range s.SpotSamples {
			cells = append(cells, SurfaceCell{
				Volatility: vol,
				Spot:       spot,
				Call:       s.Call[i][j],
				Put:        s.Put[i][j],
			})
		}
	}
	return cells
}

// Linspace returns n evenly spaced samples from lo to hi inclusive. A single
// sample is lo itself.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	switch {
	case n < 1:
		return nil, newInvalidParameters("points", float64(n), "must be at least 1")
	case !isFinite(lo) || !isFinite(hi):
		return nil, newInvalidParameters("range", lo, "bounds must be finite")
	case n == 1:
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// SpotRange samples spot prices between lowFactor*spot and highFactor*spot.
func SpotRange(spot, lowFactor, highFactor float64, n int) ([]float64, error) {
	if spot <= 0 {
		return nil, newInvalidParameters("spot", spot, "must be positive")
	}
	return Linspace(spot*lowFactor, spot*highFactor, n)
}

// VolRange samples volatilities between lowFactor*vol and highFactor*vol,
// clamped to [MinSurfaceVolatility, MaxSurfaceVolatility].
func VolRange(vol, lowFactor, highFactor float64, n int) ([]float64, error) {
	if vol < 0 {
		return nil, newInvalidParameters("volatility", vol, "must not be negative")
	}
	return Linspace(clampVol(vol*lowFactor), clampVol(vol*highFactor), n)
}

func clampVol(v float64) float64 {
	return math.Min(math.Max(v, MinSurfaceVolatility), MaxSurfaceVolatility)
}
