package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/Paintersrp/rip/internal/config"
	"github.com/Paintersrp/rip/internal/exitcode"
	"github.com/Paintersrp/rip/internal/rank"
	"github.com/Paintersrp/rip/internal/signals"
)

// options holds raw flag values.
type options struct {
	filter      string
	signal      string
	sort        string
	live        bool
	ports       bool
	port        uint16
	interval    time.Duration
	containers  bool
	configPath  string
	logFile     string
	metricsFile string
}

func (o *options) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.filter, "filter", "f", "", "Initial search query")
	flags.StringVarP(&o.signal, "signal", "s", "KILL", "Signal to send (KILL, TERM, INT, HUP, QUIT, USR1, USR2, STOP, CONT or a number)")
	flags.StringVar(&o.sort, "sort", "cpu", "Sort field (cpu, mem, pid, name, port)")
	flags.BoolVarP(&o.live, "live", "l", false, "Refresh the list periodically and confirm before signalling")
	flags.BoolVar(&o.ports, "ports", false, "Show listening ports and match the query against them")
	flags.Uint16Var(&o.port, "port", 0, "Only show processes listening on this port (implies --ports)")
	flags.DurationVar(&o.interval, "interval", config.DefaultInterval, "Refresh interval in live mode")
	flags.BoolVar(&o.containers, "containers", false, "Attribute published Docker container ports to their processes")
	flags.StringVar(&o.configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/rip/config.yaml)")
	flags.StringVar(&o.logFile, "log-file", "", "Append structured JSON logs to this file")
	flags.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// settings is the fully resolved run configuration.
type settings struct {
	Filter          string
	Signal          signals.Signal
	Sort            rank.SortField
	Live            bool
	Interval        time.Duration
	Ports           bool
	Port            uint16
	HidePortless    bool
	Containers      bool
	SnapshotTimeout time.Duration
	CPUSample       time.Duration
	LogFile         string
	MetricsFile     string
}

// resolve merges the config file, RIP_* environment variables and flags, in
// increasing precedence. Only flags the user actually set override config.
func (o *options) resolve(flags *pflag.FlagSet) (settings, error) {
	cfg, path, err := config.Resolve(o.configPath)
	if err != nil {
		return settings{}, exitcode.Wrap(exitcode.ErrUsage, "load config", err)
	}
	cfg.ApplyEnv()

	if flags.Changed("signal") {
		cfg.Signal = o.signal
	}
	if flags.Changed("sort") {
		cfg.Sort = o.sort
	}
	if flags.Changed("live") {
		cfg.Live = o.live
	}
	if flags.Changed("ports") {
		cfg.Ports = o.ports
	}
	if flags.Changed("interval") {
		cfg.Interval.Duration = o.interval
	}
	if flags.Changed("containers") {
		cfg.Containers = o.containers
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		if path != "" {
			err = fmt.Errorf("%s: %w", path, err)
		}
		return settings{}, exitcode.Usage(err)
	}

	if flags.Changed("port") && o.port == 0 {
		return settings{}, exitcode.Usage(fmt.Errorf("--port must be between 1 and 65535"))
	}

	sig, _ := signals.ParseSignal(cfg.Signal)
	field, _ := rank.ParseSortField(cfg.Sort)

	return settings{
		Filter:          o.filter,
		Signal:          sig,
		Sort:            field,
		Live:            cfg.Live,
		Interval:        cfg.Interval.Duration,
		Ports:           cfg.Ports || cfg.Containers || o.port != 0,
		Port:            o.port,
		HidePortless:    cfg.HidesPortless(),
		Containers:      cfg.Containers,
		SnapshotTimeout: cfg.SnapshotTimeout.Duration,
		CPUSample:       cfg.CPUSample.Duration,
		LogFile:         cfg.LogFile,
		MetricsFile:     cfg.MetricsFile,
	}, nil
}
