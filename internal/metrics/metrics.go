// Package metrics exports the totals of a patch run in Prometheus format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
)

// Recorder holds the metrics of one run on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	records  *prometheus.CounterVec
	units    prometheus.Counter
	patches  prometheus.Counter
	skipped  *prometheus.CounterVec
	plugins  prometheus.Gauge
	duration prometheus.Gauge
}

// NewRecorder returns a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loadpatch_records_patched_total",
			Help: "Records that received an override, by record type",
		}, []string{"record_type"}),
		units: f.NewCounter(prometheus.CounterOpts{
			Name: "loadpatch_units_patched_total",
			Help: "Patching units touched across all records",
		}),
		patches: f.NewCounter(prometheus.CounterOpts{
			Name: "loadpatch_patch_calls_total",
			Help: "Patch calls made by all policies",
		}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loadpatch_records_skipped_total",
			Help: "Source records skipped, by reason",
		}, []string{"reason"}),
		plugins: f.NewGauge(prometheus.GaugeOpts{
			Name: "loadpatch_plugins_loaded",
			Help: "Plugins activated by the load order",
		}),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Name: "loadpatch_run_duration_seconds",
			Help: "Wall time of the run",
		}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe adds the totals of report.
func (r *Recorder) Observe(report *pipeline.Report) {
	for _, e := range report.Entries() {
		r.records.WithLabelValues(e.RecordType).Inc()
	}
	r.units.Add(float64(report.UnitCount()))
	r.patches.Add(float64(report.PatchCount()))
	for _, s := range report.Skipped() {
		r.skipped.WithLabelValues(s.Reason).Inc()
	}
}

// SetPlugins records how many plugins were activated.
func (r *Recorder) SetPlugins(n int) { r.plugins.Set(float64(n)) }

// SetDuration records the run's wall time.
func (r *Recorder) SetDuration(d time.Duration) { r.duration.Set(d.Seconds()) }

// WriteTextfile writes the registry to path in the text exposition format,
// replacing the file atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
