package cli

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	bsm "github.com/joshi-prasad/go_bsmodel"
)

type surfaceReport struct {
	Strike         float64     `json:"strike"`
	TimeToMaturity float64     `json:"time_to_maturity"`
	InterestRate   float64     `json:"interest_rate"`
	SpotSamples    []float64   `json:"spot_samples"`
	VolSamples     []float64   `json:"vol_samples"`
	Call           [][]float64 `json:"call"`
	Put            [][]float64 `json:"put"`
}

func newSurfaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Price grid over spot and volatility",
		Long: `Price the call and the put over a grid of spot prices (columns) and
volatilities (rows), holding strike, maturity and rate fixed.

Without explicit bounds the spot axis spans the configured factors around
--spot (0.8x to 1.2x by default) and the volatility axis spans 0.5x to 1.5x of
--volatility, clamped to [0.01, 1].`,
		Example: `  bsmodel surface --spot 100 --volatility 0.2
  bsmodel surface --spot-min 80 --spot-max 120 --vol-min 0.1 --vol-max 0.5 --points 5
  bsmodel surface --format csv > surface.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			base := optionParams(cmd, app.Config)
			sc := app.Config.Surface

			points := sc.Points
			if cmd.Flags().Changed("points") {
				points, _ = cmd.Flags().GetInt("points")
			}
			workers := sc.Workers
			if cmd.Flags().Changed("workers") {
				workers, _ = cmd.Flags().GetInt("workers")
			}

			spots, err := sampleAxis(cmd, "spot", points, func() ([]float64, error) {
				return bsm.SpotRange(base.Spot, sc.SpotLowFactor, sc.SpotHighFactor, points)
			})
			if err != nil {
				return err
			}
			vols, err := sampleAxis(cmd, "vol", points, func() ([]float64, error) {
				return bsm.VolRange(base.Volatility, sc.VolLowFactor, sc.VolHighFactor, points)
			})
			if err != nil {
				return err
			}

			s, err := bsm.GenerateSurfaceWithOptions(base, spots, vols, bsm.SurfaceOptions{Workers: workers})
			if err != nil {
				glog.Errorf("surface for %+v: %v", base, err)
				return err
			}

			switch {
			case output.IsJSON():
				return output.JSON(surfaceReport{
					Strike:         base.Strike,
					TimeToMaturity: base.TimeToMaturity,
					InterestRate:   base.InterestRate,
					SpotSamples:    s.SpotSamples,
					VolSamples:     s.VolSamples,
					Call:           s.Call,
					Put:            s.Put,
				})
			case output.IsCSV():
				return output.CSV(s.Cells())
			}

			output.Printf("Strike %s, maturity %g years, rate %g\n\n",
				output.Num(base.Strike), base.TimeToMaturity, base.InterestRate)
			displayGrid(output, "CALL", s, s.CallMatrix())
			output.Println()
			displayGrid(output, "PUT", s, s.PutMatrix())
			return nil
		},
	}

	addOptionFlags(cmd.Flags())
	cmd.Flags().Float64("spot-min", 0, "lowest spot sample")
	cmd.Flags().Float64("spot-max", 0, "highest spot sample")
	cmd.Flags().Float64("vol-min", 0, "lowest volatility sample")
	cmd.Flags().Float64("vol-max", 0, "highest volatility sample")
	cmd.Flags().Int("points", 0, "samples per axis (default from config)")
	cmd.Flags().Int("workers", 0, "parallel workers, 0 or 1 for sequential (default from config)")

	return cmd
}

// sampleAxis builds one surface axis from the --<name>-min/--<name>-max
// bounds. The configured range is computed only when a bound is missing.
func sampleAxis(cmd *cobra.Command, name string, points int, fallback func() ([]float64, error)) ([]float64, error) {
	minFlag, maxFlag := name+"-min", name+"-max"
	if cmd.Flags().Changed(minFlag) && cmd.Flags().Changed(maxFlag) {
		lo, _ := cmd.Flags().GetFloat64(minFlag)
		hi, _ := cmd.Flags().GetFloat64(maxFlag)
		return bsm.Linspace(lo, hi, points)
	}

	samples, err := fallback()
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed(minFlag) && !cmd.Flags().Changed(maxFlag) {
		return samples, nil
	}
	lo := floatFlag(cmd, minFlag, samples[0])
	hi := floatFlag(cmd, maxFlag, samples[len(samples)-1])
	return bsm.Linspace(lo, hi, points)
}

// displayGrid prints one grid with the spot axis on top and a volatility
// label in front of each row.
func displayGrid(output *Output, title string, s *bsm.PriceSurface, m mat.Matrix) {
	output.Printf("%s prices (rows: volatility, columns: spot)\n", title)

	var header strings.Builder
	header.WriteString("        ")
	for _, spot := range s.SpotSamples {
		fmt.Fprintf(&header, " %10s", output.Num(spot))
	}
	output.Println(header.String())

	for i, vol := range s.VolSamples {
		var line strings.Builder
		fmt.Fprintf(&line, "%8.4f", vol)
		for j := range s.SpotSamples {
			fmt.Fprintf(&line, " %10s", output.Num(m.At(i, j)))
		}
		output.Println(line.String())
	}
}
