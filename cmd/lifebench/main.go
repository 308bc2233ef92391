// lifebench steps a pattern headlessly across a range of log step sizes
// and reports timing and store statistics as CSV, the companion tool for
// judging how well a pattern memoizes. With --metrics-addr it also serves
// the engine's Prometheus metrics while it runs.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hashlife/internal/config"
	"hashlife/internal/rle"
	"hashlife/internal/universe"
)

func main() {
	var (
		configPath  string
		maxNodes    int
		steps       int
		minLogStep  int
		maxLogStep  int
		metricsAddr string
	)

	rootCmd := &cobra.Command{
		Use:   "lifebench [pattern.rle]",
		Short: "Headless HashLife step benchmark",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if minLogStep < 0 || maxLogStep < minLogStep {
				return fmt.Errorf("bad log step range [%d, %d]", minLogStep, maxLogStep)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler()}
				g.Go(func() error {
					slog.Info("serving metrics", "addr", metricsAddr)
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					return srv.Shutdown(context.Background())
				})
			}

			g.Go(func() error {
				defer cancel()
				return sweep(pattern, cfg, steps, minLogStep, maxLogStep)
			})
			return g.Wait()
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "node store ceiling (overrides config)")
	rootCmd.Flags().IntVar(&steps, "steps", 16, "steps per log step size")
	rootCmd.Flags().IntVar(&minLogStep, "min-log-step", 0, "smallest log step size")
	rootCmd.Flags().IntVar(&maxLogStep, "max-log-step", 10, "largest log step size")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sweep loads the pattern fresh for each log step size and writes one CSV
// row per run.
func sweep(pattern string, cfg config.Config, steps, minLogStep, maxLogStep int) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{
		"log_step", "steps", "generations", "elapsed_ms", "population", "nodes", "root_level",
	}); err != nil {
		return err
	}

	for logStep := minLogStep; logStep <= maxLogStep; logStep++ {
		u, err := load(pattern, cfg.MaxNodes)
		if err != nil {
			return err
		}
		start := time.Now()
		for i := 0; i < steps; i++ {
			u.Step(logStep)
		}
		elapsed := time.Since(start)
		generations := uint64(steps) << uint(logStep)

		if err := w.Write([]string{
			fmt.Sprint(logStep),
			fmt.Sprint(steps),
			fmt.Sprint(generations),
			fmt.Sprintf("%.2f", float64(elapsed.Microseconds())/1000),
			fmt.Sprint(u.Population()),
			fmt.Sprint(u.Store().NodeCount()),
			fmt.Sprint(u.Root().Level()),
		}); err != nil {
			return err
		}
		w.Flush()
		slog.Info("sweep point done",
			"log_step", logStep, "generations", generations, "elapsed", elapsed)
	}
	return nil
}

func load(path string, maxNodes int) (*universe.Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rle.Read(f, maxNodes)
}
