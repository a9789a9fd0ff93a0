package simulate

import (
	"sync"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Sessions     int           // Number of assessments to walk
	Users        int           // Number of distinct users the sessions are spread over
	Concurrency  int           // Number of concurrent walkers
	Seed         int64         // Seed for answer selection; equal seeds replay the same walks
	Timeout      time.Duration // HTTP request timeout
	ReanswerRate float64       // Probability of changing an answer before advancing
	RetreatRate  float64       // Probability of stepping back after advancing
	UserPrefix   string        // Prefix for generated user ids
}

// Stats holds run statistics.
type Stats struct {
	mu sync.Mutex

	SessionsStarted   int
	SessionsCompleted int
	SessionsFailed    int
	Mismatches        int
	Reanswers         int
	Retreats          int
	Requests          int
	Categories        map[string]int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

func newStats() *Stats {
	return &Stats{
		Categories: make(map[string]int),
		StartTime:  time.Now(),
	}
}

func (s *Stats) record(w walkStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SessionsStarted++
	s.Requests += w.requests
	s.Reanswers += w.reanswers
	s.Retreats += w.retreats
	switch {
	case w.err != nil:
		s.SessionsFailed++
	case w.mismatch != nil:
		s.Mismatches++
	default:
		s.SessionsCompleted++
		s.Categories[w.category]++
	}
}
