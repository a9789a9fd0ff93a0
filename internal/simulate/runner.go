// Package simulate drives concurrent assessments against a running vitalis
// service and checks every result against a local recomputation.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/vitalis/internal/domain/types"
	"github.com/okian/vitalis/pkg/logger"
)

// ErrVerification is returned when the service disagreed with the locally
// computed outcome of at least one walk.
var ErrVerification = errors.New("verification failed")

func (c *Config) withDefaults() {
	if c.Sessions <= 0 {
		c.Sessions = DefaultSessions
	}
	if c.Users <= 0 {
		c.Users = DefaultUsers
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserPrefix == "" {
		c.UserPrefix = DefaultUserPrefix
	}
}

// Run executes a complete simulation and returns its statistics. A non-nil
// Stats is returned alongside ErrVerification so callers can report it.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	config.withDefaults()
	log := logger.Get().Named("simulate")
	stats := newStats()

	log.Info(ctx, "starting vitalis simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("users", config.Users),
		logger.Int("concurrency", config.Concurrency),
		logger.Any("seed", config.Seed))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := client.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	cat, err := client.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog retrieval failed: %w", err)
	}
	if len(cat.Questions) == 0 {
		return nil, errors.New("catalog retrieval failed: no questions")
	}

	results := walkAll(ctx, client, cat, config, stats)

	var problems []error
	for _, w := range results {
		if w.err != nil {
			problems = append(problems, fmt.Errorf("walk %s: %w", w.userID, w.err))
		}
		if w.mismatch != nil {
			problems = append(problems, fmt.Errorf("%w: %w", ErrVerification, w.mismatch))
		}
	}
	if err := checkHistories(ctx, client, results); err != nil {
		stats.Mismatches++
		problems = append(problems, fmt.Errorf("%w: %w", ErrVerification, err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	for _, p := range problems {
		log.Warn(ctx, "simulation problem", logger.Error(p))
	}
	if err := errors.Join(problems...); err != nil {
		return stats, err
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// walkAll fans the walks out over config.Concurrency goroutines.
func walkAll(ctx context.Context, client *httpClient, cat types.Catalog, config *Config, stats *Stats) []walkStats {
	jobs := make(chan int, config.Concurrency*2)
	out := make([]walkStats, config.Sessions)
	var wg sync.WaitGroup

	for range config.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				w := newWalker(client, cat, config, n).run(ctx)
				out[n] = w
				stats.record(w)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := range config.Sessions {
			select {
			case <-ctx.Done():
				return
			case jobs <- n:
			}
		}
	}()

	wg.Wait()
	return out
}

// checkHistories waits for every completed result to reach the store and
// checks no result was stored twice.
func checkHistories(ctx context.Context, client *httpClient, walks []walkStats) error {
	want := make(map[string]map[string]struct{})
	for _, w := range walks {
		if w.resultID == "" {
			continue
		}
		if want[w.userID] == nil {
			want[w.userID] = make(map[string]struct{})
		}
		want[w.userID][w.resultID] = struct{}{}
	}

	limit, err := client.historyLimit(ctx)
	if err != nil {
		return err
	}

	users := make([]string, 0, len(want))
	for u := range want {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, user := range users {
		var lastErr error
		for range historyPollAttempts {
			stored, err := client.history(ctx, user)
			if err != nil {
				return err
			}
			if lastErr = verifyHistory(stored, want[user], limit); lastErr == nil {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(historyPollInterval):
			}
		}
		if lastErr != nil {
			return fmt.Errorf("user %s: %w", user, lastErr)
		}
	}
	return nil
}

// displayFinalStats logs the final statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, sessionsPerSecond float64
	if stats.SessionsStarted > 0 {
		successRate = float64(stats.SessionsCompleted) / float64(stats.SessionsStarted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsCompleted) / stats.Duration.Seconds()
	}

	fields := []logger.Field{
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("sessionsCompleted", stats.SessionsCompleted),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Int("reanswers", stats.Reanswers),
		logger.Int("retreats", stats.Retreats),
		logger.Int("requests", stats.Requests),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("sessionsPerSecond", sessionsPerSecond),
	}
	cats := make([]string, 0, len(stats.Categories))
	for cat := range stats.Categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fields = append(fields, logger.Int("category_"+cat, stats.Categories[cat]))
	}
	log.Info(ctx, "final statistics", fields...)
}
