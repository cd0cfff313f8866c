package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lookuply/infrastructure/internal/config"
	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/logger"
	"github.com/lookuply/infrastructure/internal/monitor"
	"github.com/lookuply/infrastructure/internal/monitor/parsers"
)

var configFlag string

// rootCmd starts the monitoring dashboard.
var rootCmd = &cobra.Command{
	Use:   "lookuply-monitor [config]",
	Short: "Real-time dashboard for lookuply services",
	Long: `Start an interactive terminal dashboard that tails the log streams of a
running lookuply deployment.

The dashboard follows docker service streams and rotating log files, parses
each line into a structured entry, and renders live panels for source health,
AI evaluation progress, recent errors, request statistics, host resources,
and an interleaved tail.

Configuration is read from the first of: the positional argument, --config,
./monitor.yaml, or ~/.config/lookuply/monitor.yaml.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  c           Clear the recent errors panel
  p           Pause / resume the live tail

Examples:
  lookuply-monitor
  lookuply-monitor /etc/lookuply/monitor.yaml
  lookuply-monitor --config ./monitor.yaml`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		explicit := configFlag
		if len(args) == 1 {
			explicit = args[0]
		}
		return runDashboard(explicit)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFlag, "config", "", "path to monitor.yaml")
}

// runDashboard loads config, wires the pipeline, and blocks until the user
// quits or the process is signalled.
func runDashboard(explicitConfig string) error {
	log := logger.Default()

	path, err := config.Find(explicitConfig)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Create ./monitor.yaml or pass a path: lookuply-monitor /path/to/monitor.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log.Debug("loaded config from %s (%d sources)", path, len(cfg.Sources))

	dash, err := monitor.NewDashboard(cfg, parsers.ForID, log)
	if err != nil {
		return err
	}

	// SIGINT and SIGTERM are a normal way to leave a fullscreen dashboard;
	// they cancel the pipeline and exit cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return dash.Run(ctx)
}

// Execute runs the root command. Errors print in their structured form and
// set a non-zero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
