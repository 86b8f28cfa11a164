// intcode runs Intcode programs: single machines, amplifier chains and
// packet networks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/config"
	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/telemetry"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// globals are the persistent flags shared by every command.
type globals struct {
	configPath   string
	logLevel     string
	logModules   string
	otlpEndpoint string
	telemetryLog string
	logJSON      bool

	cfg      *config.Config
	shutdown func(context.Context) error
	sink     *os.File
}

func newRootCmd(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "intcode",
		Short:         "Intcode virtual machine and packet network",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return g.teardown()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to a TOML configuration file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, crit")
	pf.StringVar(&g.logModules, "log-modules", "", "Comma separated modules with trace/debug logging enabled, or \"all\"")
	pf.StringVar(&g.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector host:port for span export")
	pf.StringVar(&g.telemetryLog, "telemetry-log", "", "Append telemetry events as JSON lines to this file")
	pf.BoolVar(&g.logJSON, "log-json", false, "Write log records to stderr as JSON")

	rootCmd.AddCommand(
		newRunCmd(g),
		newDisasmCmd(g),
		newNetworkCmd(g),
		newAmplifyCmd(g),
		newConsoleCmd(g),
		newScriptCmd(g),
		newTraceCmd(g),
	)
	return rootCmd
}

// setup loads the configuration, lets explicit flags override it and starts
// logging and tracing.
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-modules") {
		cfg.Log.Modules = g.logModules
	}
	if flags.Changed("otlp-endpoint") {
		cfg.Telemetry.Endpoint = g.otlpEndpoint
	}
	if flags.Changed("telemetry-log") {
		cfg.Telemetry.Log = g.telemetryLog
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	}
	var sink io.Writer
	if cfg.Telemetry.Log != "" {
		f, err := os.OpenFile(cfg.Telemetry.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("telemetry log: %w", err)
		}
		g.sink, sink = f, f
	}
	if err := log.InitLoggerWithTelemetry(cfg.Log.Level, cfg.Log.JSON, sink); err != nil {
		g.teardown()
		return err
	}
	log.EnableModules(cfg.Log.Modules)

	g.shutdown, err = telemetry.InitTracer(cmd.Context(), cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	g.cfg = cfg
	log.Debug(log.CLIMonitoring, "configuration loaded", "path", cfg.Path, "level", cfg.Log.Level)
	return nil
}

// teardown flushes spans and closes the telemetry log.
func (g *globals) teardown() error {
	var errs []error
	if g.shutdown != nil {
		errs = append(errs, g.shutdown(context.Background()))
	}
	if g.sink != nil {
		errs = append(errs, g.sink.Close())
		g.sink = nil
		log.SetDefault(log.NewLogger(log.DiscardHandler()))
	}
	return errors.Join(errs...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &globals{}
	if err := newRootCmd(g).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
