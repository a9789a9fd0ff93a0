package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/okian/vitalis/internal/simulate"
	"github.com/okian/vitalis/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultSimulateTimeout = 10 * time.Minute

func newSimulateCmd() *cobra.Command {
	cfg := &simulate.Config{}
	var (
		verbose bool
		limit   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive concurrent assessments against a running server and verify the results",
		Example: `  vitalis simulate
  vitalis simulate --sessions 5000 --concurrency 32 --url http://localhost:8080
  vitalis simulate --seed 42 --retreat-rate 0.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w io.Writer = io.Discard
			if verbose {
				w = os.Stderr
			}
			if err := logger.InitWithOptions(logger.WithWriter(w)); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}

			ctx := cmd.Context()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			stats, err := simulate.Run(ctx, cfg)
			if stats != nil {
				printSummary(cmd.OutOrStdout(), stats)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&cfg.Sessions, "sessions", simulate.DefaultSessions, "Number of assessments to walk")
	f.IntVar(&cfg.Users, "users", simulate.DefaultUsers, "Number of distinct users")
	f.IntVar(&cfg.Concurrency, "concurrency", runtime.NumCPU()*2, "Number of concurrent walkers")
	f.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "Seed for answer selection")
	f.DurationVar(&cfg.Timeout, "timeout", simulate.DefaultTimeout, "HTTP request timeout")
	f.Float64Var(&cfg.ReanswerRate, "reanswer-rate", simulate.DefaultReanswerRate, "Probability of changing an answer")
	f.Float64Var(&cfg.RetreatRate, "retreat-rate", simulate.DefaultRetreatRate, "Probability of stepping back after advancing")
	f.StringVar(&cfg.UserPrefix, "user-prefix", simulate.DefaultUserPrefix, "Prefix for generated user ids")
	f.DurationVar(&limit, "limit", defaultSimulateTimeout, "Overall time limit, 0 for none")
	f.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	return cmd
}

func printSummary(w io.Writer, stats *simulate.Stats) {
	fmt.Fprintf(w, "sessions: %d started, %d verified, %d failed, %d mismatched\n",
		stats.SessionsStarted, stats.SessionsCompleted, stats.SessionsFailed, stats.Mismatches)
	fmt.Fprintf(w, "requests: %d (%d re-answers, %d retreats) in %s\n",
		stats.Requests, stats.Reanswers, stats.Retreats, stats.Duration.Round(time.Millisecond))

	cats := make([]string, 0, len(stats.Categories))
	for c := range stats.Categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	fmt.Fprintln(w, "categories:")
	for _, c := range cats {
		fmt.Fprintf(w, "  %-14s %d\n", c, stats.Categories[c])
	}
}
