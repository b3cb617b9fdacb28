package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/require"

	bsm "github.com/joshi-prasad/go_bsmodel"
)

// run executes the CLI in-process against an empty config directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPriceCommandUsesConfigDefaults(t *testing.T) {
	out, err := run(t, "price")
	require.NoError(t, err)
	require.Contains(t, out, "10.45")
	require.Contains(t, out, "5.57")
	require.NotContains(t, out, "PnL")
}

func TestPriceCommandJSONWithPnL(t *testing.T) {
	out, err := run(t, "price", "--format", "json",
		"--spot", "100", "--strike", "100", "--maturity", "1", "--volatility", "0.2", "--rate", "0.05",
		"--call-purchase", "8", "--put-purchase", "6")
	require.NoError(t, err)

	var got struct {
		Spot      float64 `json:"spot"`
		CallPrice float64 `json:"call_price"`
		PutPrice  float64 `json:"put_price"`
		CallPnL   string  `json:"call_pnl"`
		PutPnL    string  `json:"put_pnl"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 100.0, got.Spot)
	require.InDelta(t, 10.4506, got.CallPrice, 1e-4)
	require.InDelta(t, 5.5735, got.PutPrice, 1e-4)
	require.True(t, strings.HasPrefix(got.CallPnL, "2.45"), got.CallPnL)
	require.True(t, strings.HasPrefix(got.PutPnL, "-0.42"), got.PutPnL)
}

func TestPriceCommandRejectsInvalidSpot(t *testing.T) {
	_, err := run(t, "price", "--spot", "-1")
	require.Error(t, err)
	require.True(t, errors.Is(err, bsm.ErrInvalidParameters))
}

func TestPriceCommandRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "price", "--format", "xml")
	require.Error(t, err)
}

func TestPriceCommandRejectsNonFinitePurchase(t *testing.T) {
	for _, v := range []string{"Inf", "-Inf", "NaN"} {
		_, err := run(t, "price", "--call-purchase", v)
		require.ErrorIs(t, err, bsm.ErrInvalidParameters, v)

		_, err = run(t, "price", "--put-purchase", v)
		require.ErrorIs(t, err, bsm.ErrInvalidParameters, v)
	}
}

func TestGreeksCommand(t *testing.T) {
	out, err := run(t, "greeks")
	require.NoError(t, err)
	require.Contains(t, out, "Call Delta:")
	require.Contains(t, out, "0.6368")
	require.Contains(t, out, "-0.3632")
	require.Contains(t, out, "0.0188")
}

func TestGreeksCommandCSV(t *testing.T) {
	out, err := run(t, "greeks", "--format", "csv", "--spot", "110")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "spot,strike,time_to_maturity,volatility,interest_rate,call_delta"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "110,100,"), lines[1])
}

func TestSurfaceCommandTable(t *testing.T) {
	out, err := run(t, "surface", "--points", "3", "--spot-min", "90", "--spot-max", "110",
		"--vol-min", "0.1", "--vol-max", "0.3")
	require.NoError(t, err)
	require.Contains(t, out, "CALL prices")
	require.Contains(t, out, "PUT prices")
	require.Contains(t, out, "100.00")
	// Spot 100, vol 0.2 is the middle cell.
	require.Contains(t, out, "10.45")
	require.Contains(t, out, "5.57")
}

func TestSurfaceCommandJSON(t *testing.T) {
	out, err := run(t, "surface", "--format", "json", "--points", "4", "--workers", "3")
	require.NoError(t, err)

	var got surfaceReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.SpotSamples, 4)
	require.Len(t, got.VolSamples, 4)
	require.Len(t, got.Call, 4)
	require.Len(t, got.Call[0], 4)
	require.InDelta(t, 80, got.SpotSamples[0], 1e-9)
	require.InDelta(t, 120, got.SpotSamples[3], 1e-9)
	require.InDelta(t, 0.1, got.VolSamples[0], 1e-9)
	require.InDelta(t, 0.3, got.VolSamples[3], 1e-9)

	want, err := bsm.GenerateSurface(bsm.OptionParameters{
		Strike: 100, TimeToMaturity: 1, InterestRate: 0.05,
	}, got.SpotSamples, got.VolSamples)
	require.NoError(t, err)
	require.Equal(t, want.Call, got.Call)
	require.Equal(t, want.Put, got.Put)
}

func TestSurfaceCommandCSV(t *testing.T) {
	out, err := run(t, "surface", "--format", "csv", "--points", "2")
	require.NoError(t, err)

	var cells []bsm.SurfaceCell
	require.NoError(t, gocsv.UnmarshalString(out, &cells))
	require.Len(t, cells, 4)
	require.InDelta(t, 0.1, cells[0].Volatility, 1e-9)
	require.InDelta(t, 80, cells[0].Spot, 1e-9)
	require.InDelta(t, 0.3, cells[3].Volatility, 1e-9)
	require.InDelta(t, 120, cells[3].Spot, 1e-9)
}

func TestSurfaceCommandRejectsInvalidCell(t *testing.T) {
	_, err := run(t, "surface", "--points", "3", "--spot-min", "-10", "--spot-max", "10")
	require.ErrorIs(t, err, bsm.ErrInvalidParameters)
}

func TestSurfaceCommandExplicitSpotBoundsIgnoreConfiguredSpot(t *testing.T) {
	t.Setenv("BSMODEL_DEFAULTS_SPOT", "-1")

	out, err := run(t, "surface", "--format", "json", "--points", "3", "--spot-min", "90", "--spot-max", "110")
	require.NoError(t, err)

	var got surfaceReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []float64{90, 100, 110}, got.SpotSamples)

	// One bound still needs the configured range for the other.
	_, err = run(t, "surface", "--points", "3", "--spot-min", "90")
	require.ErrorIs(t, err, bsm.ErrInvalidParameters)
}

func TestPnLCommand(t *testing.T) {
	out, err := run(t, "pnl", "call", "5", "8")
	require.NoError(t, err)
	require.Contains(t, out, "3.00")

	out, err = run(t, "pnl", "put", "5", "2", "--format", "json")
	require.NoError(t, err)
	var got pnlReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "-3", got.PnL.String())

	_, err = run(t, "pnl", "invalid", "1", "2")
	require.ErrorIs(t, err, bsm.ErrInvalidOptionType)

	_, err = run(t, "pnl", "CALL", "1", "2")
	require.ErrorIs(t, err, bsm.ErrInvalidOptionType)

	_, err = run(t, "pnl", "call", "abc", "2")
	require.Error(t, err)

	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		_, err = run(t, "pnl", "--", "call", "5", v)
		require.ErrorIs(t, err, bsm.ErrInvalidParameters, v)

		_, err = run(t, "pnl", "--", "put", v, "5")
		require.ErrorIs(t, err, bsm.ErrInvalidParameters, v)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, Version)
}
