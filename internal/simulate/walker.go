package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/okian/vitalis/internal/domain/types"
)

// walkStats is what one walker reports back to the runner.
type walkStats struct {
	userID    string
	resultID  string
	category  string
	requests  int
	reanswers int
	retreats  int
	err       error // transport or protocol failure
	mismatch  error // the service disagreed with the local computation
}

// walker drives one assessment from start to result.
type walker struct {
	client  *httpClient
	catalog types.Catalog
	rng     *rand.Rand
	cfg     *Config

	answers map[int]types.Option
	stats   walkStats
}

func newWalker(client *httpClient, cat types.Catalog, cfg *Config, n int) *walker {
	return &walker{
		client:  client,
		catalog: cat,
		rng:     rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(n))), //nolint:gosec // reproducible walks
		cfg:     cfg,
		answers: make(map[int]types.Option, len(cat.Questions)),
		stats:   walkStats{userID: fmt.Sprintf("%s%d", cfg.UserPrefix, n%cfg.Users)},
	}
}

func (w *walker) pick(q types.Question) types.Option {
	return q.Options[w.rng.IntN(len(q.Options))]
}

func (w *walker) expectedScore() int {
	sum := 0
	for _, o := range w.answers {
		sum += o.Value
	}
	return sum
}

func (w *walker) mismatchf(format string, args ...any) walkStats {
	w.stats.mismatch = fmt.Errorf(format, args...)
	return w.stats
}

func (w *walker) fail(err error) walkStats {
	w.stats.err = err
	return w.stats
}

// run walks every question, occasionally re-answering and stepping back,
// then checks the classified result against the locally computed one.
func (w *walker) run(ctx context.Context) walkStats {
	sess, err := w.client.startSession(ctx, w.stats.userID)
	w.stats.requests++
	if err != nil {
		return w.fail(err)
	}
	id := sess.SessionID

	for idx, q := range w.catalog.Questions {
		if sess.Index != idx {
			return w.mismatchf("session %s: at index %d, expected %d", id, sess.Index, idx)
		}

		opt := w.pick(q)
		if sess, err = w.answer(ctx, id, q, opt); err != nil {
			return w.fail(err)
		}
		if w.stats.mismatch != nil {
			return w.stats
		}

		if w.rng.Float64() < w.cfg.ReanswerRate {
			w.stats.reanswers++
			if sess, err = w.answer(ctx, id, q, w.pick(q)); err != nil {
				return w.fail(err)
			}
			if w.stats.mismatch != nil {
				return w.stats
			}
		}

		sess, err = w.client.step(ctx, id, "advance")
		w.stats.requests++
		if err != nil {
			return w.fail(err)
		}

		last := idx == len(w.catalog.Questions)-1
		if !last && w.rng.Float64() < w.cfg.RetreatRate {
			w.stats.retreats++
			back, err := w.client.step(ctx, id, "retreat")
			w.stats.requests++
			if err != nil {
				return w.fail(err)
			}
			if back.Index != idx || back.CurrentAnswer != w.answers[q.ID].ID {
				return w.mismatchf("session %s: retreat landed on %d with answer %q", id, back.Index, back.CurrentAnswer)
			}
			sess, err = w.client.step(ctx, id, "advance")
			w.stats.requests++
			if err != nil {
				return w.fail(err)
			}
		}
	}

	if sess.Status != "completed" {
		return w.mismatchf("session %s: status %q after the last question", id, sess.Status)
	}

	res, err := w.client.result(ctx, id)
	w.stats.requests++
	if err != nil {
		return w.fail(err)
	}
	if err := verifyResult(res, w.expectedScore(), w.catalog.MaxScore); err != nil {
		return w.mismatchf("session %s: %w", id, err)
	}
	w.stats.resultID = res.ResultID
	w.stats.category = res.Category
	return w.stats
}

// answer records opt and checks the reported delta and running score.
func (w *walker) answer(ctx context.Context, id string, q types.Question, opt types.Option) (types.Session, error) {
	prev, had := w.answers[q.ID]

	sess, err := w.client.answer(ctx, id, q.ID, opt.ID)
	w.stats.requests++
	if err != nil {
		return sess, err
	}
	w.answers[q.ID] = opt

	want := opt.Value
	if had {
		want -= prev.Value
	}
	switch {
	case sess.Delta == nil || *sess.Delta != want:
		w.mismatchf("session %s: question %d delta %v, expected %d", id, q.ID, sess.Delta, want)
	case sess.Score != w.expectedScore():
		w.mismatchf("session %s: running score %d, expected %d", id, sess.Score, w.expectedScore())
	}
	return sess, nil
}
