package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Digital-Shane/movie-tidy/internal/config"
	"github.com/Digital-Shane/movie-tidy/internal/core"
	"github.com/Digital-Shane/movie-tidy/internal/log"
	"github.com/Digital-Shane/movie-tidy/internal/mux"
	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"github.com/Digital-Shane/movie-tidy/internal/provider/ffprobe"
	"github.com/Digital-Shane/movie-tidy/internal/provider/omdb"
	"github.com/Digital-Shane/movie-tidy/internal/provider/tmdb"
	"github.com/Digital-Shane/movie-tidy/internal/theme"
	"github.com/spf13/cobra"
)

func runTidy(cmd *cobra.Command, args []string) error {
	source := "."
	if len(args) == 1 {
		source = args[0]
	}
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source %s: %w", source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", source)
	}

	cfg, err := loadConfig(providerFlag)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, verbose)
	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	if err := log.StartSession("movie-tidy", os.Args[1:]); err != nil {
		logger.Warn().Err(err).Msg("operation log disabled for this run")
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			logger.Warn().Err(err).Msg("failed to write operation log")
		}
	}()

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}
	defer resolver.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ffprobe.UseBinary(cfg.FFprobePath)
	pipeline := core.NewPipeline(
		resolver,
		ffprobe.New(cfg.ProbeTimeout()),
		mux.NewMuxer(cfg.FFmpegPath, cfg.MuxTimeout(), logger),
		core.Options{
			Dest:               destPath,
			DeleteSource:       deleteSource,
			ProbeFailurePolicy: core.ProbeFailurePolicy(cfg.ProbeFailurePolicy),
		},
		logger,
	)

	return runPipeline(ctx, cmd.OutOrStdout(), pipeline, source, theme.Default())
}

// loadConfig reads the config file, applies environment and flag overrides
// and validates the result.
func loadConfig(providerOverride string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if providerOverride != "" {
		cfg.Provider = providerOverride
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRegistry registers every title lookup provider movie-tidy ships.
func newRegistry() (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, p := range []provider.Provider{tmdb.New(), omdb.New()} {
		if err := registry.Register(p.Name(), p, p.Capabilities().Priority); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// newResolver configures the provider selected in cfg and binds a resolver to
// it. The caller owns the resolver and must Close it.
func newResolver(cfg *config.Config) (*provider.Resolver, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	name := cfg.Provider
	if cfg.APIKey(name) == "" {
		return nil, fmt.Errorf("no API key configured for %s: set %s_API_KEY or run 'movie-tidy config init'", name, envPrefix(name))
	}
	if err := registry.Configure(name, cfg.ProviderConfig(name)); err != nil {
		return nil, err
	}
	if err := registry.Enable(name); err != nil {
		return nil, err
	}

	p, err := registry.Enabled(name)
	if err != nil {
		return nil, err
	}
	return provider.NewResolver(p, cfg.TMDBLanguage), nil
}

func envPrefix(name string) string {
	switch name {
	case config.ProviderOMDB:
		return "OMDB"
	default:
		return "TMDB"
	}
}

// runPipeline processes source and prints one entry per unit followed by a
// summary. It fails when any unit failed.
func runPipeline(ctx context.Context, out io.Writer, pipeline *core.Pipeline, source string, th theme.Theme) error {
	r := newReporter(out, th, filepath.Clean(source))

	results, err := pipeline.Run(ctx, source, r.unit)
	r.summary(results)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted after %d entries", len(results))
		}
		return err
	}
	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(results))
	}
	return nil
}

func countFailed(results []core.Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
