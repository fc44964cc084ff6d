// Command tabular reads delimited, spreadsheet, JSON and HTML table files,
// infers their schema and reports data quality.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tabular/internal/logging"
	"tabular/internal/metrics"
	ddmetrics "tabular/internal/metrics/datadog"
	"tabular/internal/reader"
)

var (
	logLevel  string
	logFormat string

	ddEnabled bool
	ddJobName string
	ddTags    string

	// Shared read options.
	flagSheet      string
	flagDelimiter  string
	flagEncoding   string
	flagSkipRows   int
	flagHeaderRow  int
	flagMaxRows    int
	flagSampleRate float64
	flagDecimalSep string
	flagStreaming  bool
)

var rootCmd = &cobra.Command{
	Use:   "tabular",
	Short: "Tabular file reader and profiler",
	Long: `Reads CSV, TSV, Excel, JSON and HTML table files, infers column
types and reports data quality metrics.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, logFormat)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.BoolVar(&ddEnabled, "dd-metrics", false, "submit metrics to Datadog")
	pf.StringVar(&ddJobName, "dd-job", "tabular", "Datadog job tag")
	pf.StringVar(&ddTags, "dd-tags", "", "extra Datadog tags, comma-separated (env:prod,service:ingest)")
}

// addReadFlags registers the per-read flags on commands that parse files.
func addReadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagSheet, "sheet", "", "workbook sheet name (default first)")
	f.StringVar(&flagDelimiter, "delimiter", "", "field delimiter (default sniffed)")
	f.StringVar(&flagEncoding, "encoding", "", "character encoding (IANA name)")
	f.IntVar(&flagSkipRows, "skip-rows", 0, "rows to skip before the header")
	f.IntVar(&flagHeaderRow, "header-row", 0, "1-based header row in a sheet")
	f.IntVar(&flagMaxRows, "max-rows", 0, "maximum data rows to read (0 = all)")
	f.Float64Var(&flagSampleRate, "sample-rate", 0, "row sampling rate when streaming (0,1)")
	f.StringVar(&flagDecimalSep, "decimal-separator", "", `decimal separator ("." or ",")`)
	f.BoolVar(&flagStreaming, "streaming", false, "force the streaming strategy")
}

func readOptions() reader.Options {
	opt := reader.Options{
		Sheet:            flagSheet,
		Encoding:         flagEncoding,
		SkipRows:         flagSkipRows,
		HeaderRow:        flagHeaderRow,
		MaxRows:          flagMaxRows,
		SampleRate:       flagSampleRate,
		DecimalSeparator: flagDecimalSep,
		Streaming:        flagStreaming,
	}
	if flagDelimiter != "" {
		opt.Delimiter = []rune(flagDelimiter)[0]
	}
	return opt
}

// newService builds the reader with the configured metrics backend. The
// returned closer flushes buffered metrics; call it before exit.
func newService(ctx context.Context) (*reader.Service, func()) {
	backend := metrics.Backend(metrics.Noop{})
	closer := func() {}

	if ddEnabled {
		dd, err := ddmetrics.NewBackend(ctx, ddmetrics.Options{
			JobName:    ddJobName,
			Tags:       ddmetrics.ParseTagsCSV(ddTags),
			FlushEvery: 30 * time.Second,
		})
		if err == nil {
			backend = dd
			closer = func() { _ = dd.Close() }
		}
	}

	return reader.NewService(reader.WithMetrics(backend)), closer
}
