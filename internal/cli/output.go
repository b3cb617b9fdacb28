package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/joshi-prasad/go_bsmodel/internal/config"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer    io.Writer
	format    string
	precision int
}

// NewOutput creates a new Output instance. The --format flag wins over the
// configured format; a nil cfg means built-in defaults.
func NewOutput(cmd *cobra.Command, cfg *config.Config) *Output {
	if cfg == nil {
		cfg = config.Default()
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	return &Output{
		writer:    cmd.OutOrStdout(),
		format:    format,
		precision: cfg.Output.Precision,
	}
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.format == "json"
}

// IsCSV returns true if CSV output mode is enabled.
func (o *Output) IsCSV() bool {
	return o.format == "csv"
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// CSV outputs a slice of structs as CSV with a header row.
func (o *Output) CSV(rows interface{}) error {
	return gocsv.Marshal(rows, o.writer)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Num formats a float with the configured precision.
func (o *Output) Num(v float64) string {
	return fmt.Sprintf("%.*f", o.precision, v)
}

// Field prints an aligned "label: value" line.
func (o *Output) Field(label string, value string) {
	fmt.Fprintf(o.writer, "  %-12s %s\n", label+":", value)
}
