package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Digital-Shane/movie-tidy/internal/config"
	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the movie-tidy configuration",
	Long: `Inspect and initialize ~/.movie-tidy/config.json.

API keys may also be supplied through the TMDB_API_KEY and OMDB_API_KEY
environment variables, which take precedence over the file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.ApplyEnv(os.Getenv)
		if err := printConfig(cmd, cfg); err != nil {
			return err
		}

		registry, err := newRegistry()
		if err != nil {
			return err
		}
		printProviders(cmd.OutOrStdout(), registry.List(), cfg)
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		return initConfig(cmd, path, configInitForce)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func printConfig(cmd *cobra.Command, cfg *config.Config) error {
	masked := *cfg
	masked.TMDBAPIKey = maskSecret(cfg.TMDBAPIKey)
	masked.OMDBAPIKey = maskSecret(cfg.OMDBAPIKey)

	data, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printProviders lists the lookup providers, marking the selected one and
// whether an API key is available for each.
func printProviders(out io.Writer, providers []provider.Provider, cfg *config.Config) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Providers:")
	for _, p := range providers {
		marker := " "
		if p.Name() == cfg.Provider {
			marker = "*"
		}
		key := "api key set"
		if cfg.APIKey(p.Name()) == "" {
			key = "no api key"
		}
		fmt.Fprintf(out, "  %s %-5s %s (%s)\n", marker, p.Name(), p.Description(), key)
	}
}

// maskSecret keeps the last four characters of keys long enough to hide the rest.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
