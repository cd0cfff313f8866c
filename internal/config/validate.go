package config

import (
	"fmt"

	"github.com/lookuply/infrastructure/internal/errors"
)

// Validate checks a loaded config for problems that would make the monitor
// misbehave at runtime. Validation failures are fatal: they are the only
// class of error allowed to abort the process, and they happen before any
// source starts.
func Validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return errors.New(errors.ErrConfig,
			"No log sources configured",
			"Add at least one entry under 'sources' in monitor.yaml")
	}

	for name, src := range cfg.Sources {
		if src.Kind != KindStream && src.Kind != KindFile {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Source %q has unknown kind %q", name, src.Kind),
				"Valid kinds are 'stream' and 'file'")
		}
		if src.Location == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Source %q has no location", name),
				"Set a container name for stream sources or a path for file sources")
		}
		if src.Parser == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Source %q has no parser", name),
				"Set a parser id, or 'plain' to pass lines through unparsed")
		}
		if src.FromStart && src.Kind != KindFile {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Source %q sets from_start but is not a file source", name),
				"from_start only applies to kind: file")
		}
	}

	if cfg.Coordinator.URL != "" && cfg.Coordinator.PollInterval <= 0 {
		return errors.New(errors.ErrConfig,
			"coordinator.poll_interval must be positive",
			"Use a duration like 1s or 500ms")
	}
	if cfg.Coordinator.StaleAfter < 1 {
		return errors.New(errors.ErrConfig,
			"coordinator.stale_after must be at least 1",
			"Stats can only go stale after at least one failed poll")
	}

	if cfg.Resources.SampleInterval <= 0 {
		return errors.New(errors.ErrConfig,
			"resources.sample_interval must be positive",
			"Use a duration like 2s")
	}

	if cfg.Dashboard.RenderInterval <= 0 {
		return errors.New(errors.ErrConfig,
			"dashboard.render_interval must be positive",
			"Use a duration like 250ms or 1s")
	}
	if cfg.Dashboard.MaxErrors < 1 || cfg.Dashboard.MaxTail < 1 {
		return errors.New(errors.ErrConfig,
			"dashboard.max_errors and dashboard.max_tail must be at least 1",
			"Ring buffers need a positive capacity")
	}
	if cfg.Dashboard.Window <= 0 {
		return errors.New(errors.ErrConfig,
			"dashboard.window must be positive",
			"Use a duration like 60s")
	}

	return nil
}
