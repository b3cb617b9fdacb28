// Command bsmodel prices European options with the Black-Scholes model.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/joshi-prasad/go_bsmodel/internal/cli"
)

func main() {
	// glog registers -v, -logtostderr and friends on the standard flag set.
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	// Values arrive through pflag; this only marks the Go set as parsed.
	_ = flag.CommandLine.Parse(nil)

	rootCmd := cli.NewRootCmd()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
