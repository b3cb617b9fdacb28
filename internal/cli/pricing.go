package cli

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	bsm "github.com/joshi-prasad/go_bsmodel"
	"github.com/joshi-prasad/go_bsmodel/internal/config"
)

// addOptionFlags registers the five model inputs. Their defaults are zero;
// unset flags are resolved from configuration in optionParams.
func addOptionFlags(flags *pflag.FlagSet) {
	flags.Float64("spot", 0, "current price of the underlying")
	flags.Float64("strike", 0, "strike price")
	flags.Float64("maturity", 0, "time to maturity in years")
	flags.Float64("volatility", 0, "annualized volatility (0.2 = 20%)")
	flags.Float64("rate", 0, "risk-free interest rate (0.05 = 5%)")
}

func optionParams(cmd *cobra.Command, cfg *config.Config) bsm.OptionParameters {
	d := cfg.Defaults
	return bsm.OptionParameters{
		Spot:           floatFlag(cmd, "spot", d.Spot),
		Strike:         floatFlag(cmd, "strike", d.Strike),
		TimeToMaturity: floatFlag(cmd, "maturity", d.TimeToMaturity),
		Volatility:     floatFlag(cmd, "volatility", d.Volatility),
		InterestRate:   floatFlag(cmd, "rate", d.InterestRate),
	}
}

func floatFlag(cmd *cobra.Command, name string, fallback float64) float64 {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

// ParameterReport echoes the model inputs in JSON and CSV output.
type ParameterReport struct {
	Spot           float64 `json:"spot" csv:"spot"`
	Strike         float64 `json:"strike" csv:"strike"`
	TimeToMaturity float64 `json:"time_to_maturity" csv:"time_to_maturity"`
	Volatility     float64 `json:"volatility" csv:"volatility"`
	InterestRate   float64 `json:"interest_rate" csv:"interest_rate"`
}

func newParameterReport(p bsm.OptionParameters) ParameterReport {
	return ParameterReport(p)
}

type priceReport struct {
	ParameterReport
	CallPrice float64          `json:"call_price" csv:"call_price"`
	PutPrice  float64          `json:"put_price" csv:"put_price"`
	CallPnL   *decimal.Decimal `json:"call_pnl,omitempty" csv:"call_pnl"`
	PutPnL    *decimal.Decimal `json:"put_pnl,omitempty" csv:"put_pnl"`
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European call and put",
		Example: `  bsmodel price --spot 100 --strike 100 --maturity 1 --volatility 0.2 --rate 0.05
  bsmodel price --spot 105 --call-purchase 8.5 --put-purchase 4
  bsmodel price --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			p := optionParams(cmd, app.Config)

			res, err := bsm.Price(p)
			if err != nil {
				glog.Errorf("price %+v: %v", p, err)
				return err
			}

			report := priceReport{
				ParameterReport: newParameterReport(p),
				CallPrice:       res.CallPrice,
				PutPrice:        res.PutPrice,
			}
			if cmd.Flags().Changed("call-purchase") || cmd.Flags().Changed("put-purchase") {
				callPurchase, _ := cmd.Flags().GetFloat64("call-purchase")
				putPurchase, _ := cmd.Flags().GetFloat64("put-purchase")
				callPnL, putPnL, err := res.PnL(callPurchase, putPurchase)
				if err != nil {
					glog.Errorf("pnl call=%v put=%v: %v", callPurchase, putPurchase, err)
					return err
				}
				report.CallPnL, report.PutPnL = &callPnL, &putPnL
			}

			switch {
			case output.IsJSON():
				return output.JSON(report)
			case output.IsCSV():
				return output.CSV([]priceReport{report})
			}

			displayParameters(output, p)
			output.Println("Prices")
			output.Field("Call", output.Num(res.CallPrice))
			output.Field("Put", output.Num(res.PutPrice))
			if report.CallPnL != nil {
				output.Println("PnL")
				output.Field("Call", report.CallPnL.StringFixed(int32(output.precision)))
				output.Field("Put", report.PutPnL.StringFixed(int32(output.precision)))
			}
			return nil
		},
	}

	addOptionFlags(cmd.Flags())
	cmd.Flags().Float64("call-purchase", 0, "purchase price of the call, enables PnL output")
	cmd.Flags().Float64("put-purchase", 0, "purchase price of the put, enables PnL output")

	return cmd
}

type greeksReport struct {
	ParameterReport
	CallDelta float64 `json:"call_delta" csv:"call_delta"`
	PutDelta  float64 `json:"put_delta" csv:"put_delta"`
	Gamma     float64 `json:"gamma" csv:"gamma"`
	Vega      float64 `json:"vega" csv:"vega"`
	CallTheta float64 `json:"call_theta" csv:"call_theta"`
	PutTheta  float64 `json:"put_theta" csv:"put_theta"`
	CallRho   float64 `json:"call_rho" csv:"call_rho"`
	PutRho    float64 `json:"put_rho" csv:"put_rho"`
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Show option sensitivities",
		Long: `Show delta, gamma, vega, theta and rho for the call and the put.

Vega and rho are per 1% change, theta is per calendar day.`,
		Example: `  bsmodel greeks --spot 95 --strike 100 --maturity 0.5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			p := optionParams(cmd, app.Config)

			g, err := bsm.ComputeGreeks(p)
			if err != nil {
				glog.Errorf("greeks %+v: %v", p, err)
				return err
			}

			report := greeksReport{
				ParameterReport: newParameterReport(p),
				CallDelta:       g.CallDelta,
				PutDelta:        g.PutDelta,
				Gamma:           g.Gamma,
				Vega:            g.Vega,
				CallTheta:       g.CallTheta,
				PutTheta:        g.PutTheta,
				CallRho:         g.CallRho,
				PutRho:          g.PutRho,
			}
			switch {
			case output.IsJSON():
				return output.JSON(report)
			case output.IsCSV():
				return output.CSV([]greeksReport{report})
			}

			displayParameters(output, p)
			output.Println("Greeks")
			output.Field("Call Delta", fmt.Sprintf("%.4f", g.CallDelta))
			output.Field("Put Delta", fmt.Sprintf("%.4f", g.PutDelta))
			output.Field("Gamma", fmt.Sprintf("%.4f", g.Gamma))
			output.Field("Vega", fmt.Sprintf("%.4f", g.Vega))
			output.Field("Call Theta", fmt.Sprintf("%.4f", g.CallTheta))
			output.Field("Put Theta", fmt.Sprintf("%.4f", g.PutTheta))
			output.Field("Call Rho", fmt.Sprintf("%.4f", g.CallRho))
			output.Field("Put Rho", fmt.Sprintf("%.4f", g.PutRho))
			return nil
		},
	}

	addOptionFlags(cmd.Flags())
	return cmd
}

type pnlReport struct {
	OptionType    string          `json:"option_type" csv:"option_type"`
	PurchasePrice float64         `json:"purchase_price" csv:"purchase_price"`
	CurrentPrice  float64         `json:"current_price" csv:"current_price"`
	PnL           decimal.Decimal `json:"pnl" csv:"pnl"`
}

func newPnLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pnl <call|put> <purchase-price> <current-price>",
		Short: "Profit or loss of an option position",
		Example: `  bsmodel pnl call 5 8
  bsmodel pnl put 5 2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)

			purchase, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid purchase price %q: %w", args[1], err)
			}
			current, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid current price %q: %w", args[2], err)
			}

			pnl, err := bsm.CalculatePnL(args[0], purchase, current)
			if err != nil {
				glog.Errorf("pnl %v: %v", args, err)
				return err
			}

			report := pnlReport{
				OptionType:    args[0],
				PurchasePrice: purchase,
				CurrentPrice:  current,
				PnL:           pnl,
			}
			switch {
			case output.IsJSON():
				return output.JSON(report)
			case output.IsCSV():
				return output.CSV([]pnlReport{report})
			}

			output.Field("PnL", pnl.StringFixed(int32(output.precision)))
			return nil
		},
	}
}

func displayParameters(output *Output, p bsm.OptionParameters) {
	output.Println("Parameters")
	output.Field("Spot", output.Num(p.Spot))
	output.Field("Strike", output.Num(p.Strike))
	output.Field("Maturity", fmt.Sprintf("%g years", p.TimeToMaturity))
	output.Field("Volatility", fmt.Sprintf("%g", p.Volatility))
	output.Field("Rate", fmt.Sprintf("%g", p.InterestRate))
	output.Println()
}
