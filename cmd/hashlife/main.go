package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hashlife/internal/config"
	"hashlife/internal/core"
	"hashlife/internal/rle"
	"hashlife/internal/rule"
	"hashlife/internal/universe"
)

func main() {
	var (
		configPath   string
		maxNodes     int
		ruleOverride string
		verbose      bool
	)

	rootCmd := &cobra.Command{
		Use:   "hashlife [pattern.rle]",
		Short: "Interactive HashLife viewer",
		Long: "hashlife loads a run-length-encoded pattern and simulates it with the\n" +
			"memoized quadtree algorithm. Space steps, enter free-runs, +/- change\n" +
			"the step size, r reloads, q quits.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if maxNodes > 0 {
				cfg.MaxNodes = maxNodes
			}
			pattern := cfg.Pattern
			if len(args) == 1 {
				pattern = args[0]
			}
			override, err := resolveRule(ruleOverride)
			if err != nil {
				return err
			}
			u, err := loadPattern(pattern, cfg.MaxNodes, override)
			if err != nil {
				return err
			}
			slog.Info("pattern loaded", "path", pattern, "population", u.Population())
			return runViewer(cfg, u, pattern)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "node store ceiling (overrides config)")
	rootCmd.Flags().StringVar(&ruleOverride, "rule", "",
		"override the pattern's rule (a name like 'highlife' or a B/S string)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadPattern(path string, maxNodes int, override *rule.Table) (*universe.Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rle.ReadWithRule(f, maxNodes, override)
}

// resolveRule turns a --rule value into a table: registered names first,
// then literal B/S strings. Empty means no override.
func resolveRule(s string) (*rule.Table, error) {
	if s == "" {
		return nil, nil
	}
	if named, ok := core.NamedRule(s); ok {
		s = named
	}
	return rule.Parse(s)
}
