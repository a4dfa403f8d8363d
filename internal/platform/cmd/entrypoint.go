// Package cmd holds the startup plumbing shared by command entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/louisbranch/kisheet/internal/platform/config"
	"github.com/louisbranch/kisheet/internal/platform/otel"
)

const defaultShutdownTimeout = 5 * time.Second

// ServiceSheet identifies the character sheet command in telemetry and logs.
const ServiceSheet = "sheet"

// Option adjusts RunWithTelemetry.
type Option func(*runOptions)

type runOptions struct {
	shutdownTimeout time.Duration
	command         string
}

// WithShutdownTimeout bounds the telemetry flush after run returns.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *runOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithCommand records the subcommand name on the run span.
func WithCommand(name string) Option {
	return func(o *runOptions) {
		o.command = name
	}
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// SplitCommand returns the subcommand name and its arguments from the
// positional arguments left over after flag parsing.
func SplitCommand(positional []string) (string, []string) {
	if len(positional) == 0 {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(positional[0])), positional[1:]
}

// RunWithTelemetry configures tracing, then executes run inside a root span
// named after service.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, opts ...Option) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	options := runOptions{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), options.shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()

	ctx, span := gootel.Tracer(service).Start(ctx, service+".run")
	defer span.End()
	if options.command != "" {
		span.SetAttributes(attribute.String("command", options.command))
	}
	if err := run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
