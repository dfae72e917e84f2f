package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/utils"
)

// LeaderboardService keeps a ranked view of credibility scores. It is a
// derived, best-effort cache: the user row stays the source of truth and a
// failed publish never fails the scoring transaction.
type LeaderboardService interface {
	RecordScore(ctx context.Context, userID uuid.UUID, score float64) error
	Top(ctx context.Context, limit int64) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (int64, error)
	Close() error
}

type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Score  float64   `json:"score"`
}

type redisLeaderboard struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

func NewLeaderboardService(log *logger.Logger) (LeaderboardService, error) {
	serviceLog := log.With("service", "LeaderboardService")

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(utils.GetEnv("REDIS_LEADERBOARD_KEY", "credibility:leaderboard", log))

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	serviceLog.Info("Leaderboard connected to redis", "addr", addr, "key", key)
	return &redisLeaderboard{log: serviceLog, rdb: rdb, key: key}, nil
}

func (l *redisLeaderboard) RecordScore(ctx context.Context, userID uuid.UUID, score float64) error {
	return l.rdb.ZAdd(ctx, l.key, goredis.Z{
		Score:  score,
		Member: userID.String(),
	}).Err()
}

func (l *redisLeaderboard) Top(ctx context.Context, limit int64) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.rdb.ZRevRangeWithScores(ctx, l.key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			l.log.Warn("Skipping malformed leaderboard member", "member", member)
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: id, Score: row.Score})
	}
	return entries, nil
}

func (l *redisLeaderboard) Rank(ctx context.Context, userID uuid.UUID) (int64, error) {
	rank, err := l.rdb.ZRevRank(ctx, l.key, userID.String()).Result()
	if err != nil {
		return 0, err
	}
	// Ranks are presented 1-based.
	return rank + 1, nil
}

func (l *redisLeaderboard) Close() error {
	return l.rdb.Close()
}
