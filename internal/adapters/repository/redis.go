package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/pkg/metrics"
)

// RedisStore keeps each user's history in a Redis list, newest first.
//
// Keys:
//
//	<prefix>results:<user_id>  list of JSON results
//	<prefix>result:<result_id> marker making Save idempotent
//	<prefix>results:count      results accepted
type RedisStore struct {
	client redis.UniversalClient
	opts   options
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	return &RedisStore{client: client, opts: newOptions(opts)}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string, db int, opts ...Option) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStore, addr, err)
	}
	return NewRedisStore(client, opts...), nil
}

func (s *RedisStore) userKey(userID string) string {
	return s.opts.keyPrefix + "results:" + userID
}

func (s *RedisStore) markerKey(resultID string) string {
	return s.opts.keyPrefix + "result:" + resultID
}

func (s *RedisStore) countKey() string {
	return s.opts.keyPrefix + "results:count"
}

func (s *RedisStore) fail(op string, err error) error {
	metrics.RecordStoreError(op)
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// Save pushes r onto its user's list and trims the list to the history limit.
func (s *RedisStore) Save(ctx context.Context, r model.Result) error { //nolint:gocritic // Store contract
	defer observe("save", time.Now())

	if err := r.Validate(); err != nil {
		metrics.RecordStoreError("save")
		return err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return s.fail("save", err)
	}

	fresh, err := s.client.SetNX(ctx, s.markerKey(r.ResultID), r.UserID, s.opts.markerTTL).Result()
	if err != nil {
		return s.fail("save", err)
	}
	if !fresh {
		return nil
	}

	var total *redis.IntCmd
	userKey := s.userKey(r.UserID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, userKey, payload)
		p.LTrim(ctx, userKey, 0, int64(s.opts.historyLimit-1))
		total = p.Incr(ctx, s.countKey())
		return nil
	})
	if err != nil {
		// let a retry through
		_ = s.client.Del(ctx, s.markerKey(r.ResultID)).Err()
		return s.fail("save", err)
	}

	metrics.RecordStoreWrite()
	metrics.UpdateStoredResults(int(total.Val()))
	return nil
}

// Latest returns the head of the user's list.
func (s *RedisStore) Latest(ctx context.Context, userID string) (model.Result, error) {
	defer observe("latest", time.Now())

	raw, err := s.client.LIndex(ctx, s.userKey(userID), 0).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Result{}, fmt.Errorf("%w: user %q", ErrNotFound, userID)
	}
	if err != nil {
		return model.Result{}, s.fail("latest", err)
	}

	var r model.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Result{}, s.fail("latest", err)
	}
	return r, nil
}

// History returns up to limit results, newest first.
func (s *RedisStore) History(ctx context.Context, userID string, limit int) ([]model.Result, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	defer observe("history", time.Now())

	raws, err := s.client.LRange(ctx, s.userKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, s.fail("history", err)
	}

	out := make([]model.Result, 0, len(raws))
	for _, raw := range raws {
		var r model.Result
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, s.fail("history", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Count returns the number of results accepted.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	raw, err := s.client.Get(ctx, s.countKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, s.fail("count", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, s.fail("count", err)
	}
	return n, nil
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
