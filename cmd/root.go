package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/bookstats/internal/config"
	"github.com/KaramelBytes/bookstats/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics go to stderr; command output goes to cmd.OutOrStdout().
	logger = logging.New("info", "text", os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "bookstats",
	Short: "Bookstore analytics: identity resolution, revenue and author metrics",
	Long: `bookstats loads bookstore exports (books, orders, users), resolves customer
records that belong to the same person, and reports revenue, author and
best-buyer metrics. It can also load the book catalog into SQLite.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bookstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		warnf(os.Stderr, "failed to load config: %v", err)
		return
	}
	cfg = c
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.New(level, cfg.LogFormat, os.Stderr)
	logger.Debug("config loaded", slog.String("datasets_dir", cfg.DatasetsDir), slog.String("database_path", cfg.DatabasePath))
}

// currentConfig returns the loaded config or built-in defaults.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		DatabasePath: "books.db",
		OutputFormat: cfgpkg.FormatMarkdown,
		TopDays:      5,
	}
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func successf(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func warnf(w io.Writer, format string, a ...any) {
	warnColor.Fprintf(w, "⚠ Warning: "+format+"\n", a...)
}

// pickFormat resolves an output format flag against the configured default.
func pickFormat(flag string) (string, error) {
	f := flag
	if f == "" {
		f = currentConfig().OutputFormat
	}
	if !cfgpkg.ValidFormat(f) {
		return "", fmt.Errorf("unsupported --format: %s (use markdown, table or json)", f)
	}
	return f, nil
}
