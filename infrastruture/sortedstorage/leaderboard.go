// Package sortedstorage keeps the escape leaderboards in Redis sorted sets.
package sortedstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/glade/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "glade:leaderboard:"

// RedisLeaderboard ranks players by their fastest escape, lowest time first.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a leaderboard on the given client. Keys expire ttl after
// their first entry.
func NewRedisLeaderboard(client *redis.Client, ttl time.Duration) *RedisLeaderboard {
	pool := goredis.NewPool(client)
	return &RedisLeaderboard{
		client: client,
		locker: redsync.New(pool),
		ttl:    ttl,
	}
}

func key(difficulty string) string {
	return keyPrefix + difficulty
}

// Submit records an escape time and reports whether it became the player's best.
func (l *RedisLeaderboard) Submit(ctx context.Context, difficulty, username string, elapsedMs int64) (bool, error) {
	k := key(difficulty)
	mutex := l.locker.NewMutex(k + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return false, fmt.Errorf("locking leaderboard: %w", err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	best, err := l.client.ZScore(ctx, k, username).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return false, err
	case int64(best) <= elapsedMs:
		return false, nil
	}

	if err := l.client.ZAdd(ctx, k, redis.Z{Score: float64(elapsedMs), Member: username}).Err(); err != nil {
		return false, err
	}

	// Set expiration only if it's not already set
	ttl, err := l.client.TTL(ctx, k).Result()
	if err == nil && ttl == -1 {
		_ = l.client.Expire(ctx, k, l.ttl).Err()
	}

	return true, nil
}

// Top returns up to limit entries, fastest first.
func (l *RedisLeaderboard) Top(ctx context.Context, difficulty string, limit int64) ([]dmn.LeaderboardEntry, error) {
	if limit <= 0 {
		return []dmn.LeaderboardEntry{}, nil
	}
	zs, err := l.client.ZRangeWithScores(ctx, key(difficulty), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.LeaderboardEntry, 0, len(zs))
	for idx, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, dmn.LeaderboardEntry{
			Rank:      int64(idx) + 1,
			Username:  member,
			ElapsedMs: int64(z.Score),
		})
	}
	return entries, nil
}

// Count returns the number of ranked players on a difficulty.
func (l *RedisLeaderboard) Count(ctx context.Context, difficulty string) (int64, error) {
	return l.client.ZCard(ctx, key(difficulty)).Result()
}
