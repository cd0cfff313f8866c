package config

import "time"

// Source kinds supported by the monitor.
const (
	// KindStream follows the combined output stream of a running docker service.
	KindStream = "stream"
	// KindFile tails an externally rotated log file on disk.
	KindFile = "file"
)

// Config represents the complete monitor.yaml configuration file.
type Config struct {
	Sources     map[string]Source `yaml:"sources" mapstructure:"sources"`
	Coordinator Coordinator       `yaml:"coordinator" mapstructure:"coordinator"`
	Resources   Resources         `yaml:"resources" mapstructure:"resources"`
	Dashboard   Dashboard         `yaml:"dashboard" mapstructure:"dashboard"`
}

// Source maps a logical service name to one tailed log origin.
type Source struct {
	// Kind is one of KindStream or KindFile.
	Kind string `yaml:"kind" mapstructure:"kind"`

	// Location is a container name for stream sources or a path for file sources.
	Location string `yaml:"location" mapstructure:"location"`

	// Parser is the parser id resolved at startup (e.g. "uvicorn", "nginx-access").
	// Unknown lines never pick their own parser at runtime.
	Parser string `yaml:"parser" mapstructure:"parser"`

	// FromStart replays a file source from the beginning instead of seeking
	// to the end. Ignored for stream sources.
	FromStart bool `yaml:"from_start" mapstructure:"from_start"`
}

// Coordinator configures polling of the coordinator's worker-stats endpoint.
type Coordinator struct {
	// URL is the coordinator base URL; /worker-stats is appended.
	URL string `yaml:"url" mapstructure:"url"`

	// PollInterval is how often worker stats are fetched.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// StaleAfter is the number of consecutive poll failures before the
	// displayed stats are flagged stale.
	StaleAfter int `yaml:"stale_after" mapstructure:"stale_after"`
}

// Resources configures host resource sampling.
type Resources struct {
	// SampleInterval is how often CPU, memory, and disk are sampled.
	SampleInterval time.Duration `yaml:"sample_interval" mapstructure:"sample_interval"`

	// Mount is the filesystem mount point measured for disk usage.
	Mount string `yaml:"mount" mapstructure:"mount"`
}

// Dashboard configures rendering and the bounded in-memory views.
type Dashboard struct {
	// RenderInterval is the redraw cadence.
	RenderInterval time.Duration `yaml:"render_interval" mapstructure:"render_interval"`

	// MaxErrors is the capacity of the recent-errors ring.
	MaxErrors int `yaml:"max_errors" mapstructure:"max_errors"`

	// MaxTail is the capacity of the interleaved live-tail ring.
	MaxTail int `yaml:"max_tail" mapstructure:"max_tail"`

	// Window is the request-stats window; counters reset at rollover.
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// DefaultConfig returns a Config with sensible defaults.
// Sources are intentionally empty; a monitor with nothing to watch is a
// validation error, not a silent no-op.
func DefaultConfig() *Config {
	return &Config{
		Sources: make(map[string]Source),
		Coordinator: Coordinator{
			PollInterval: time.Second,
			StaleAfter:   3,
		},
		Resources: Resources{
			SampleInterval: 2 * time.Second,
			Mount:          "/",
		},
		Dashboard: Dashboard{
			RenderInterval: time.Second,
			MaxErrors:      10,
			MaxTail:        5,
			Window:         time.Minute,
		},
	}
}
