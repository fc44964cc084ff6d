// Package metrics defines the minimal backend interface the reader emits
// operational metrics through. Core code depends only on Backend; concrete
// sinks live in subpackages.
package metrics

// Labels are metric dimensions, e.g. {"format": "csv", "status": "ok"}.
type Labels map[string]string

// Backend receives counter increments and histogram observations.
// Implementations must be safe for concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Metric names emitted by the reader.
const (
	ReadsTotal          = "tabular_reads_total"
	RowsTotal           = "tabular_rows_total"
	ReadDurationSeconds = "tabular_read_duration_seconds"
	ReadBytes           = "tabular_read_bytes"
)

// Noop discards all metrics. Used when no backend is configured.
type Noop struct{}

func (Noop) IncCounter(string, float64, Labels)       {}
func (Noop) ObserveHistogram(string, float64, Labels) {}

var _ Backend = Noop{}
