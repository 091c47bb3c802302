// Package cli provides the command-line interface for datalist.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebelice/datalist/internal/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// Version is set by the main package at startup
var Version = "dev"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "datalist",
		Short: "Browse paginated data providers in the terminal",
		Long: `datalist ` + Version + `
Terminal browser for paginated, searchable, filterable data endpoints.

  datalist browse   open the browser on a data URL
  datalist serve    expose PostgreSQL tables as data endpoints
  datalist bookmarks manage saved views`,
		SilenceUsage: true,
		Version:      Version,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBookmarksCmd())
	return rootCmd
}

// loadConfig reads the configuration named by --config, or the default locations
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	return cfg, nil
}

// parseParams turns key=value pairs into URL template replacers
func parseParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

// cachePath joins name onto the datalist cache directory
func cachePath(name string) (string, error) {
	dir, err := config.GetCachePath()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
