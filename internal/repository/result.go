package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const resultsKey = "game:results"

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	Recent(ctx context.Context, limit int) ([]entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client

	// historyLimit bounds the archive; older entries are trimmed away.
	historyLimit int
}

func NewResultRepository(client *redis.Client, historyLimit int) ResultRepository {
	return &dbResult{
		client:       client,
		historyLimit: historyLimit,
	}
}

// Save prepends the result to the archive list and trims it to the
// configured history limit.
func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal game result: %w", err)
	}

	if err = that.client.LPush(ctx, resultsKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push game result: %w", err)
	}

	if err = that.client.LTrim(ctx, resultsKey, 0, int64(that.historyLimit)-1).Err(); err != nil {
		return fmt.Errorf("failed to trim game results: %w", err)
	}

	return nil
}

// Recent returns up to limit results, newest first.
func (that *dbResult) Recent(ctx context.Context, limit int) ([]entity.GameResult, error) {
	entries, err := that.client.LRange(ctx, resultsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game results: %w", err)
	}

	results := make([]entity.GameResult, 0, len(entries))
	for _, entry := range entries {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
		}

		results = append(results, result)
	}

	return results, nil
}
