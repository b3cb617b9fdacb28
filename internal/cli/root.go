// Package cli provides the command-line interface for the option pricer.
package cli

import (
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/joshi-prasad/go_bsmodel/internal/config"
)

// Version information
const (
	Version   = "0.2.0"
	BuildDate = "2024-09-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
}

// NewRootCmd creates the root command for the CLI. Configuration is loaded
// before any subcommand runs, from the directory named by --config.
func NewRootCmd() *cobra.Command {
	app := &App{Config: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "bsmodel",
		Short: "Black-Scholes European option pricer",
		Long: `bsmodel prices European call and put options with the Black-Scholes
closed-form model, reports their Greeks, builds price surfaces over spot and
volatility, and computes profit or loss against a purchase price.

Unset option inputs fall back to bsmodel.toml in the config directory and
BSMODEL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(dir)
			if err != nil {
				glog.Errorf("loading configuration: %v", err)
				return err
			}
			app.Config = cfg

			if format, _ := cmd.Flags().GetString("format"); format != "" {
				if err := config.ValidateFormat(format); err != nil {
					return err
				}
			}
			glog.V(1).Infof("configuration loaded: %+v", *cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/bsmodel)")
	rootCmd.PersistentFlags().String("format", "", "output format: table, json or csv (default from config)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newSurfaceCmd(app))
	rootCmd.AddCommand(newPnLCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, nil)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
				return
			}
			output.Printf("bsmodel v%s (%s)\n", Version, BuildDate)
		},
	}
}
