// Package cli implements the lookuply-monitor command-line interface.
//
// The binary is single-purpose: the root command loads configuration, wires
// the monitoring pipeline, and runs the fullscreen dashboard until the user
// quits or the process is signalled.
//
// # Command Structure
//
//	lookuply-monitor [config]   - Start the dashboard
//	lookuply-monitor version    - Print version information
//
// # Configuration Resolution
//
// The config path is resolved in order: the positional argument, the
// --config flag, ./monitor.yaml, then ~/.config/lookuply/monitor.yaml.
// A config error is the only error class that aborts the process; source,
// poll, and sampling failures surface as dashboard state instead.
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the pipeline context; the dashboard tears down
// its sources and exits with status 0. Interrupting a monitoring session is
// the normal way to end it, not a failure.
package cli
