package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresengine"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

const instrumentationName = "github.com/AntonStoeckl/library-circulation-go"

// StoreOpener opens the store used by one CLI invocation. The returned function releases it.
type StoreOpener func(ctx context.Context, opts *RootOptions) (circulation.Store, func(), error)

// ConfigLoader loads the configuration, envFile may be empty.
type ConfigLoader func(envFile string) (config.Config, error)

// RootOptions holds global flags and the dependencies shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string
	EnvFile string

	loadConfig ConfigLoader
	openStore  StoreOpener
	clock      func() time.Time
	stderr     io.Writer

	config           config.Config
	logger           *slog.Logger
	contextualLogger *oteladapters.SlogBridgeLogger
	tracing          *oteladapters.TracingCollector
	metrics          *oteladapters.MetricsCollector
	output           OutputFormatter
}

func defaultRootOptions() *RootOptions {
	return &RootOptions{
		loadConfig: loadConfigFromEnv,
		openStore:  openPostgresStore,
		clock:      time.Now,
	}
}

func loadConfigFromEnv(envFile string) (config.Config, error) {
	if envFile == "" {
		return config.Load()
	}

	return config.Load(envFile)
}

func openPostgresStore(ctx context.Context, opts *RootOptions) (circulation.Store, func(), error) {
	store, closeStore, err := config.OpenStore(ctx, opts.config,
		postgresengine.WithContextualLogger(opts.contextualLogger),
		postgresengine.WithTracing(opts.tracing),
		postgresengine.WithMetrics(opts.metrics),
	)
	if err != nil {
		return nil, nil, err
	}

	return store, closeStore, nil
}

// NewRootCommand creates the root command of the circulation CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRootOptions())
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "circulation",
		Short:         "Library circulation manager",
		Long:          "Manage library cards, deposits, copies, borrow requests, returns and fines.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errInvalidFlag, err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to read before the environment (default .env)")

	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newCardCommand(opts))
	cmd.AddCommand(newDepositCommand(opts))
	cmd.AddCommand(newCopyCommand(opts))
	cmd.AddCommand(newRequestCommand(opts))
	cmd.AddCommand(newFineCommand(opts))
	cmd.AddCommand(newOverdueCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))

	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	o.output = OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}

	if !isValidFormat(o.Format) {
		o.output.Format = formatText
		return fmt.Errorf("%w: format %q must be one of %v", errInvalidFlag, o.Format, ValidFormats)
	}

	cfg, err := o.loadConfig(o.EnvFile)
	if err != nil {
		return err
	}

	o.config = cfg

	level := cfg.LogLevel
	if o.Verbose {
		level = slog.LevelDebug
	}

	stderr := o.stderr
	if stderr == nil {
		stderr = cmd.ErrOrStderr()
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(stderr, handlerOptions)
	if cfg.LogFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(stderr, handlerOptions)
	}

	o.logger = slog.New(handler)
	o.contextualLogger = oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	o.tracing = oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))
	o.metrics = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))

	return nil
}

// withStore opens the store, runs fn with a fresh correlation id and releases the store.
func (o *RootOptions) withStore(cmd *cobra.Command, fn func(ctx context.Context, store circulation.Store) error) error {
	ctx := shell.WithCorrelationID(cmd.Context(), shell.NewID())

	store, closeStore, err := o.openStore(ctx, o)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			return err
		}

		return WrapExitError(ExitUnavailable, "opening the circulation store failed", err)
	}
	defer closeStore()

	return fn(ctx, store)
}

func (o *RootOptions) now() time.Time {
	return o.clock()
}
