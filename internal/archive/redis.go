package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pie-flavor/yahtzee/internal/game"
)

const (
	// Key prefixes for Redis
	scorecardKeyPrefix = "scorecard:"
	recentKey          = "scorecards:recent"
)

// RedisConfig holds configuration for the Redis archive
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client
}

// Redis implements Archive on top of a Redis server. Each scorecard is a JSON
// string written with SETNX; a sorted set indexes ids by archive time.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed archive
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: cfg.RedisClient}, nil
}

func (r *Redis) Save(ctx context.Context, id string, card game.Scorecard) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard: %w", err)
	}

	ok, err := r.client.SetNX(ctx, scorecardKeyPrefix+id, raw, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save scorecard: %w", err)
	}
	if !ok {
		return ErrAlreadyArchived
	}

	// The record is already durable; a missed index entry only hides it from List.
	if err := r.client.ZAdd(ctx, recentKey, redis.Z{
		Score:  float64(time.Now().UnixMilli()),
		Member: id,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index scorecard: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string) (game.Scorecard, error) {
	raw, err := r.client.Get(ctx, scorecardKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return game.Scorecard{}, ErrNotFound
		}
		return game.Scorecard{}, fmt.Errorf("failed to get scorecard: %w", err)
	}

	var card game.Scorecard
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return game.Scorecard{}, fmt.Errorf("failed to unmarshal scorecard: %w", err)
	}
	return card, nil
}

// List reads the newest ids from the index and loads each card for its total.
func (r *Redis) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	members, err := r.client.ZRevRangeWithScores(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scorecards: %w", err)
	}

	out := make([]Summary, 0, len(members))
	for _, z := range members {
		id, _ := z.Member.(string)
		card, err := r.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:        id,
			Total:     card.Total,
			CreatedAt: time.UnixMilli(int64(z.Score)).UTC(),
		})
	}
	return out, nil
}
