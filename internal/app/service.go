// Package service hosts many assessment sessions behind the operations the
// HTTP API and the simulator use.
//
// Each session owns one assessment.Assessment and serializes access to it
// with its own mutex. Completed results are published once per completion
// through a bounded queue to a worker pool that writes them to the result
// store.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vitalis/internal/adapters/mq/queue"
	"github.com/okian/vitalis/internal/adapters/mq/worker"
	"github.com/okian/vitalis/internal/adapters/repository"
	"github.com/okian/vitalis/internal/domain/assessment"
	"github.com/okian/vitalis/internal/domain/catalog"
	"github.com/okian/vitalis/internal/domain/dedupe"
	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/internal/domain/navigation"
	"github.com/okian/vitalis/internal/domain/report"
	"github.com/okian/vitalis/internal/domain/responses"
	"github.com/okian/vitalis/internal/domain/types"
	"github.com/okian/vitalis/pkg/logger"
	"github.com/okian/vitalis/pkg/metrics"
)

const (
	maxJanitorInterval = time.Minute
	stopTimeout        = 10 * time.Second
)

type session struct {
	mu sync.Mutex

	id        string
	userID    string
	createdAt time.Time
	lastSeen  atomic.Int64 // unix nanos

	a *assessment.Assessment

	// set on each completion, cleared by Reset
	completions int
	resultID    string
	completedAt time.Time
	published   bool
}

// Service implements the API dependencies for the assessment system.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	catalog *catalog.Catalog
	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	maxSessions  int
	sessionTTL   time.Duration
	historyLimit int

	completed atomic.Int64

	now     func() time.Time
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:     make(map[string]*session),
		catalog:      catalog.Default(),
		workerCount:  runtime.NumCPU(),
		queueSize:    10_000,
		dedupeSize:   100_000,
		maxSessions:  100_000,
		sessionTTL:   time.Hour,
		historyLimit: 50,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the result pipeline and the idle-session
// janitor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithHistoryLimit(s.historyLimit))
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)
	// Workers drain the queue on Stop, so they must outlive ctx.
	s.pool.Start(context.WithoutCancel(ctx))

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.janitor()

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("max_sessions", s.maxSessions),
		logger.Duration("session_ttl", s.sessionTTL),
		logger.Int("questions", s.catalog.Count()),
	)
	return nil
}

// Stop drains pending results into the store and shuts the service down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	stopCh, doneCh, pool, store := s.stopCh, s.doneCh, s.pool, s.store
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping assessment service...")
	close(stopCh)
	<-doneCh

	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	var errs []error
	if err := pool.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	s.logger.Info(ctx, "assessment service stopped")
	return errors.Join(errs...)
}

// Catalog returns the questionnaire with option values and the maximum score.
func (s *Service) Catalog() types.Catalog {
	qs := s.catalog.Questions()
	out := types.Catalog{
		Questions: make([]types.Question, len(qs)),
		MaxScore:  s.catalog.MaxPossibleScore(),
	}
	for i, q := range qs {
		out.Questions[i] = *questionView(q)
	}
	return out
}

// StartSession opens a new assessment for userID at the first question.
func (s *Service) StartSession(ctx context.Context, userID string) (types.Session, error) {
	if userID == "" {
		return types.Session{}, ErrInvalidUser
	}

	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		userID:    userID,
		createdAt: now,
		a:         assessment.New(s.catalog),
	}
	sess.lastSeen.Store(now.UnixNano())

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return types.Session{}, ErrNotStarted
	}
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		metrics.RecordRejection("capacity")
		return types.Session{}, fmt.Errorf("%w: %d live sessions", ErrCapacity, s.maxSessions)
	}
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.RecordSessionStarted()
	metrics.UpdateActiveSessions(active)
	s.logger.Debug(ctx, "session started",
		logger.String("session_id", sess.id),
		logger.String("user_id", userID),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// Session returns the current view of a session.
func (s *Service) Session(_ context.Context, id string) (types.Session, error) {
	var out types.Session
	err := s.withSession(id, func(sess *session) error {
		out = s.view(sess)
		return nil
	})
	return out, err
}

// Answer records optionID for questionID and returns the view with the
// score delta.
func (s *Service) Answer(ctx context.Context, id string, questionID int, optionID string) (types.Session, error) {
	var out types.Session
	err := s.withSession(id, func(sess *session) error {
		delta, err := sess.a.RecordAnswer(questionID, optionID)
		if err != nil {
			return s.reject(ctx, sess, "answer", err)
		}
		metrics.RecordAnswer()
		out = s.view(sess)
		out.Delta = &delta
		return nil
	})
	return out, err
}

// Advance moves the session forward. Reaching the end completes the
// assessment and publishes its result.
func (s *Service) Advance(ctx context.Context, id string) (types.Session, error) {
	var out types.Session
	err := s.withSession(id, func(sess *session) error {
		st, err := sess.a.Advance()
		if err != nil {
			return s.reject(ctx, sess, "advance", err)
		}
		if st.Completed() {
			s.complete(ctx, sess)
		}
		out = s.view(sess)
		return nil
	})
	return out, err
}

// Retreat moves the session back one question.
func (s *Service) Retreat(ctx context.Context, id string) (types.Session, error) {
	var out types.Session
	err := s.withSession(id, func(sess *session) error {
		if _, err := sess.a.Retreat(); err != nil {
			return s.reject(ctx, sess, "retreat", err)
		}
		out = s.view(sess)
		return nil
	})
	return out, err
}

// Reset clears the session's answers and score and returns it to the first
// question. It is the only way out of the completed state.
func (s *Service) Reset(ctx context.Context, id string) (types.Session, error) {
	var out types.Session
	err := s.withSession(id, func(sess *session) error {
		sess.a.Reset()
		sess.resultID = ""
		sess.completedAt = time.Time{}
		sess.published = false
		metrics.RecordSessionReset()
		s.logger.Debug(ctx, "session reset", logger.String("session_id", sess.id))
		out = s.view(sess)
		return nil
	})
	return out, err
}

// Result returns the classified outcome of a completed session.
func (s *Service) Result(ctx context.Context, id string) (types.Result, error) {
	var out types.Result
	err := s.withSession(id, func(sess *session) error {
		r, err := s.result(sess)
		if err != nil {
			return err
		}
		// a result the queue refused earlier gets another chance
		if !sess.published {
			s.publish(ctx, sess)
		}
		out = r
		return nil
	})
	return out, err
}

// Report renders the completed session as the plain-text results document.
func (s *Service) Report(_ context.Context, id string) (string, error) {
	var out string
	err := s.withSession(id, func(sess *session) error {
		o, err := sess.a.Outcome()
		if err != nil {
			return err
		}
		out = report.Render(report.Input{
			Score:       o.Score,
			MaxScore:    o.MaxScore,
			Percentage:  o.Percentage,
			Category:    o.Category,
			CompletedAt: sess.completedAt,
		})
		return nil
	})
	return out, err
}

// History returns a user's stored results, newest first. limit <= 0 or above
// the configured history limit is clamped to it.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]types.Result, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	s.mu.RLock()
	started, store := s.started, s.store
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	stored, err := store.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.Result, len(stored))
	for i := range stored {
		out[i] = storedResultView(&stored[i])
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":           s.started,
		"questions":         s.catalog.Count(),
		"max_score":         s.catalog.MaxPossibleScore(),
		"active_sessions":   len(s.sessions),
		"max_sessions":      s.maxSessions,
		"completed_total":   s.completed.Load(),
		"worker_count":      s.workerCount,
		"queue_capacity":    s.queueSize,
		"session_ttl_sec":   int(s.sessionTTL.Seconds()),
		"history_limit":     s.historyLimit,
		"dedupe_cache_size": 0,
	}
	if !s.started {
		return stats
	}

	queueLen := s.queue.Len()
	stats["queue_length"] = queueLen
	stats["dedupe_cache_size"] = s.deduper.Size()
	metrics.UpdateQueueSize(queueLen, s.queue.Cap())
	metrics.UpdateActiveSessions(len(s.sessions))

	if n, err := s.store.Count(ctx); err == nil {
		stats["stored_results"] = n
		metrics.UpdateStoredResults(n)
	} else {
		s.logger.Warn(ctx, "store count failed", logger.Error(err))
	}
	return stats
}

// EvictIdle removes sessions idle for longer than the session TTL and
// returns how many were removed.
func (s *Service) EvictIdle(ctx context.Context) int {
	if s.sessionTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.sessionTTL).UnixNano()

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		metrics.RecordSessionsExpired(evicted)
		metrics.UpdateActiveSessions(active)
		if s.logger != nil {
			s.logger.Info(ctx, "evicted idle sessions",
				logger.Int("evicted", evicted),
				logger.Int("active", active),
			)
		}
	}
	return evicted
}

func (s *Service) janitor() {
	defer close(s.doneCh)
	if s.sessionTTL <= 0 {
		<-s.stopCh
		return
	}

	ticker := time.NewTicker(min(s.sessionTTL/2, maxJanitorInterval))
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.EvictIdle(context.Background())
		}
	}
}

// withSession runs fn while holding the session's lock.
func (s *Service) withSession(id string, fn func(*session) error) error {
	s.mu.RLock()
	started := s.started
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen.Store(s.now().UnixNano())
	return fn(sess)
}

func (s *Service) reject(ctx context.Context, sess *session, op string, err error) error {
	metrics.RecordRejection(rejectionReason(err))
	s.logger.Debug(ctx, "operation rejected",
		logger.String("op", op),
		logger.String("session_id", sess.id),
		logger.String("state", sess.a.State().String()),
		logger.Error(err),
	)
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, navigation.ErrAnswerRequired):
		return "answer_required"
	case errors.Is(err, assessment.ErrCompleted):
		return "completed"
	case errors.Is(err, responses.ErrUnknownQuestion):
		return "unknown_question"
	case errors.Is(err, responses.ErrUnknownOption):
		return "unknown_option"
	default:
		return "other"
	}
}

// complete stamps a fresh completion on sess and publishes its result.
// Callers hold sess.mu.
func (s *Service) complete(ctx context.Context, sess *session) {
	sess.completions++
	sess.resultID = uuid.NewString()
	sess.completedAt = s.now().UTC()
	sess.published = false
	s.completed.Add(1)

	if o, err := sess.a.Outcome(); err == nil {
		metrics.RecordCompletion(o.Category.String(), o.Percentage)
		s.logger.Info(ctx, "assessment completed",
			logger.String("session_id", sess.id),
			logger.String("user_id", sess.userID),
			logger.Int("score", o.Score),
			logger.Int("percentage", o.Percentage),
			logger.String("category", o.Category.String()),
		)
	}
	s.publish(ctx, sess)
}

// publish hands the current completion to the result queue at most once.
// Callers hold sess.mu.
func (s *Service) publish(ctx context.Context, sess *session) {
	o, err := sess.a.Outcome()
	if err != nil {
		return
	}

	key := fmt.Sprintf("%s:%d", sess.id, sess.completions)
	if s.deduper.SeenAndRecord(ctx, key) {
		sess.published = true
		return
	}

	r := model.Result{
		ResultID:    sess.resultID,
		SessionID:   sess.id,
		UserID:      sess.userID,
		Score:       o.Score,
		MaxScore:    o.MaxScore,
		Percentage:  o.Percentage,
		Category:    o.Category,
		Answers:     sess.a.Answers(),
		CompletedAt: sess.completedAt,
	}
	if !s.queue.Enqueue(ctx, r) {
		s.deduper.Unrecord(ctx, key)
		s.logger.Warn(ctx, "result queue rejected completion",
			logger.String("session_id", sess.id),
			logger.Int("queue_length", s.queue.Len()),
		)
		return
	}
	sess.published = true
}

func (s *Service) result(sess *session) (types.Result, error) {
	o, err := sess.a.Outcome()
	if err != nil {
		return types.Result{}, err
	}
	d := o.Category.Details()
	return types.Result{
		ResultID:        sess.resultID,
		SessionID:       sess.id,
		Score:           o.Score,
		MaxScore:        o.MaxScore,
		Percentage:      o.Percentage,
		Category:        o.Category.String(),
		Title:           d.Title,
		Description:     d.Description,
		Recommendations: d.Recommendations,
		CompletedAt:     sess.completedAt,
	}, nil
}

// view builds the host-facing snapshot. Callers hold sess.mu.
func (s *Service) view(sess *session) types.Session {
	a := sess.a
	st := a.State()
	v := types.Session{
		SessionID: sess.id,
		UserID:    sess.userID,
		Status:    string(st.Status),
		Index:     st.Index,
		Total:     s.catalog.Count(),
		Progress:  a.Progress(),
		Answers:   a.Answers(),
		Score:     a.CurrentScore(),
	}

	if st.Completed() {
		v.Index = v.Total
		if r, err := s.result(sess); err == nil {
			v.Result = &r
		}
		return v
	}

	if q, err := a.CurrentQuestion(); err == nil {
		v.Question = questionView(q)
		if opt, err := a.AnswerFor(q.ID); err == nil {
			v.CurrentAnswer = opt
		}
	}
	return v
}

func questionView(q catalog.Question) *types.Question {
	out := &types.Question{
		ID:      q.ID,
		Text:    q.Text,
		Options: make([]types.Option, len(q.Options)),
	}
	for i, o := range q.Options {
		out.Options[i] = types.Option{ID: o.ID, Text: o.Text, Value: o.Value}
	}
	return out
}

func storedResultView(r *model.Result) types.Result {
	d := r.Category.Details()
	return types.Result{
		ResultID:        r.ResultID,
		SessionID:       r.SessionID,
		Score:           r.Score,
		MaxScore:        r.MaxScore,
		Percentage:      r.Percentage,
		Category:        r.Category.String(),
		Title:           d.Title,
		Description:     d.Description,
		Recommendations: d.Recommendations,
		CompletedAt:     r.CompletedAt,
	}
}
