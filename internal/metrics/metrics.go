package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	snapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rip",
		Name:      "snapshot_duration_seconds",
		Help:      "Latency of process snapshot acquisition in seconds.",
	})

	snapshotErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rip",
		Name:      "snapshot_errors_total",
		Help:      "Total number of failed or timed out snapshot attempts.",
	})

	snapshotProcesses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rip",
		Name:      "snapshot_processes",
		Help:      "Number of processes in the most recent snapshot.",
	})

	signalsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rip",
		Name:      "signals_total",
		Help:      "Total number of signal delivery attempts by signal and result.",
	}, []string{"signal", "result"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rip",
		Name:      "build_info",
		Help:      "Build metadata for the running rip binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(snapshotDuration, snapshotErrors, snapshotProcesses, signalsSent, buildInfo)
}

// Registry returns the Prometheus registry containing all rip metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveSnapshot records a successful snapshot.
func ObserveSnapshot(d time.Duration, processes int) {
	snapshotDuration.Observe(d.Seconds())
	snapshotProcesses.Set(float64(processes))
}

// IncSnapshotError counts a failed snapshot attempt.
func IncSnapshotError() {
	snapshotErrors.Inc()
}

// ObserveSignal counts one signal delivery attempt.
func ObserveSignal(signal string, ok bool) {
	if signal == "" {
		signal = "unknown"
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	signalsSent.WithLabelValues(signal, result).Inc()
}

// WriteTextfile writes the registry to path in the Prometheus text format,
// suitable for the node exporter's textfile collector. An empty path is a
// no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, registry)
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}

// Version returns the module version recorded in the build info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
