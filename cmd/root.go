package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/paludash/internal/config"
	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/logging"
	"github.com/KaramelBytes/paludash/internal/report"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataPath string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "paludash",
	Short: "Paludash: malaria surveillance dashboard over DHIS2 exports",
	Long: `Paludash loads a DHIS2 pivot export (CSV or XLSX) whose columns are named
"<indicator> <month> <structure>" and serves an interactive dashboard:
per-indicator rankings, a map of the reporting units, month-to-month
comparison and spreadsheet downloads.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.paludash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file, CSV or XLSX (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

// requireConfig returns the loaded configuration, loading it now when the
// initializer could not.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		c.DataPath = dataPath
	}
	cfg = c
	return cfg, nil
}

func newLogger(c *cfgpkg.Global, w io.Writer) *slog.Logger {
	return logging.New(c.LogLevel, c.LogFormat, w)
}

// newCache builds the dataset cache described by the configuration.
func newCache(c *cfgpkg.Global) (*dataset.Cache, error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return nil, err
	}
	return dataset.NewCache(c.DataPath, dataset.Options{Delimiter: delim, SheetName: c.SheetName}, c.MetaColumns), nil
}

func reportOptions(c *cfgpkg.Global) (report.Options, error) {
	dec, err := c.DecimalRune()
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{NameColumn: c.NameColumn, DecimalSeparator: dec}, nil
}
