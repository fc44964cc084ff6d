package reader

import (
	"context"
	"log/slog"
	"os"
	"time"

	"tabular/internal/format"
	"tabular/internal/metrics"
	"tabular/internal/parser/delimited"
	"tabular/internal/parser/htmltable"
	"tabular/internal/parser/jsontab"
	"tabular/internal/parser/sheet"
	"tabular/internal/probe"
	"tabular/internal/quality"
	"tabular/internal/schema"
	"tabular/pkg/frame"
)

// Result bundles everything a single read produces.
type Result struct {
	Frame   *frame.DataFrame `json:"-"`
	Schema  *schema.Schema   `json:"schema"`
	Quality *quality.Report  `json:"quality"`
}

// Service reads tabular files. Construct with NewService; without options
// it logs to the default logger and discards metrics.
type Service struct {
	log     *slog.Logger
	backend metrics.Backend

	// strategyHook, when set, observes which parse strategy a read chose.
	// Test seam only.
	strategyHook func(strategy string)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics sets the metrics backend reads report to.
func WithMetrics(b metrics.Backend) Option {
	return func(s *Service) { s.backend = b }
}

// NewService builds a Service with the given options.
func NewService(opts ...Option) *Service {
	s := &Service{
		log:     slog.Default(),
		backend: metrics.Noop{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Read parses the file at path, infers its schema and analyzes quality.
//
// Strategy:
//   - delimited files stream when opt.Streaming is set or the file exceeds
//     the streaming threshold; otherwise they load whole;
//   - workbook, JSON and HTML files always load whole.
//
// Errors:
//   - format.UnsupportedFormatError for unknown extensions;
//   - parser-specific errors (delimited.ParseError, sheet.SheetNotFoundError,
//     jsontab.FileTooLargeError, ...) pass through unwrapped.
func (s *Service) Read(ctx context.Context, path string, opt Options) (*Result, error) {
	start := time.Now()

	f, err := format.Detect(path)
	if err != nil {
		s.count(metrics.ReadsTotal, "unknown", "error")
		return nil, err
	}

	df, err := s.parse(ctx, path, f, opt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.count(metrics.ReadsTotal, string(f), status)
	s.backend.ObserveHistogram(metrics.ReadDurationSeconds, time.Since(start).Seconds(),
		metrics.Labels{"format": string(f), "status": status})
	if err != nil {
		return nil, err
	}

	var size int64
	if fi, statErr := os.Stat(path); statErr == nil {
		size = fi.Size()
		s.backend.ObserveHistogram(metrics.ReadBytes, float64(size), metrics.Labels{"format": string(f)})
	}
	s.backend.IncCounter(metrics.RowsTotal, float64(df.RowCount), metrics.Labels{"format": string(f)})

	sch := schema.Infer(df, size, f)
	rep := quality.Analyze(df, sch)

	s.log.Debug("read complete",
		"path", path,
		"format", string(f),
		"rows", df.RowCount,
		"columns", len(df.Columns),
		"duration", time.Since(start))

	return &Result{Frame: df, Schema: sch, Quality: rep}, nil
}

// parse dispatches to the per-format parser, choosing batch or streaming
// for delimited files.
func (s *Service) parse(ctx context.Context, path string, f format.Format, opt Options) (*frame.DataFrame, error) {
	po := opt.parserOptions()

	switch {
	case f.Spreadsheet():
		s.chose("sheet")
		return sheet.Read(path, po)

	case f == format.JSON:
		s.chose("json")
		return jsontab.Read(path, po)

	case f == format.HTML:
		s.chose("html")
		return htmltable.Read(path, po)

	default:
		if f == format.TSV && opt.Delimiter == 0 {
			po["delimiter"] = '\t'
		}
		if s.shouldStream(path, opt) {
			s.chose("stream")
			return delimited.Stream(ctx, path, po)
		}
		s.chose("batch")
		return delimited.Read(path, po)
	}
}

// shouldStream decides the delimited strategy. Stat failure falls back to
// batch so the parser can surface the open error itself.
func (s *Service) shouldStream(path string, opt Options) bool {
	if opt.Streaming {
		return true
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Size() > opt.streamingThreshold()
}

// FileStatistics probes the file's shape without a full parse, adding a
// schema inferred from a bounded sample read.
func (s *Service) FileStatistics(ctx context.Context, path string, opt Options) (*probe.Stats, error) {
	return probe.Probe(ctx, path, probe.Options{
		Sheet:      opt.Sheet,
		Delimiter:  opt.Delimiter,
		Encoding:   opt.Encoding,
		SampleRows: opt.MaxRows,
		Sample: func(ctx context.Context, path string, maxRows int) (*frame.DataFrame, error) {
			sampleOpt := opt
			sampleOpt.MaxRows = maxRows
			res, err := s.Read(ctx, path, sampleOpt)
			if err != nil {
				return nil, err
			}
			return res.Frame, nil
		},
	})
}

// ListSheets enumerates workbook sheets with their dimensions.
func (s *Service) ListSheets(path string) ([]sheet.Info, error) {
	f, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	if !f.Spreadsheet() {
		return nil, &format.UnsupportedFormatError{Path: path, Ext: "." + string(f)}
	}
	return sheet.List(path)
}

func (s *Service) chose(strategy string) {
	if s.strategyHook != nil {
		s.strategyHook(strategy)
	}
}

func (s *Service) count(name, format, status string) {
	s.backend.IncCounter(name, 1, metrics.Labels{"format": format, "status": status})
}
