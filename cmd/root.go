package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/gapminder-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostic logger; a no-op unless --debug is set
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "gapminder",
	Short: "Align gapminder indicator spreadsheets by year and country",
	Long: `gapminder loads employment, HIV prevalence, life expectancy, population and GDP per capita
spreadsheets, keeps the years inside a window, restricts every table to the countries they share,
and exports a per-year record index ready for scatter visualizations.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gapminder/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	if debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		} else {
			fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build debug logger: %v\n", err)
		}
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: flags can still supply everything
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	logger.Debug("config loaded", zap.String("file", cfgFile))
}

// currentConfig returns the loaded configuration or built-in defaults.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{YearStart: 1991, YearEnd: 2015, ScaleFactor: 200, MinSize: 3, RegionColumn: "Group", SheetIndex: 1, OutputDir: "."}
}
