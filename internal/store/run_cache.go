package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis run-progress caching.
func penaltyMapKey(runID string) string { return "run:" + runID + ":penalty_map" }
func clauseCountKey(runID string) string { return "run:" + runID + ":clause_count" }
func phaseKey(runID string) string      { return "run:" + runID + ":phase" }

// SetPenaltyMap caches the agent's most recent minimum-penalty map as JSON,
// so a remote observer can poll run progress without touching the running
// goroutine's memory directly.
func (c *Client) SetPenaltyMap(ctx context.Context, runID string, m json.RawMessage) error {
	return c.rdb.Set(ctx, penaltyMapKey(runID), []byte(m), time.Hour).Err()
}

// GetPenaltyMap retrieves the cached penalty map, or nil if none is cached.
func (c *Client) GetPenaltyMap(ctx context.Context, runID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, penaltyMapKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get penalty map: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetClauseCount records the current size of the shared clause list.
func (c *Client) SetClauseCount(ctx context.Context, runID string, n int) error {
	return c.rdb.Set(ctx, clauseCountKey(runID), n, time.Hour).Err()
}

// SetPhase records which phase ("phase1"/"phase2") a run is currently in.
func (c *Client) SetPhase(ctx context.Context, runID, phase string) error {
	return c.rdb.Set(ctx, phaseKey(runID), phase, time.Hour).Err()
}

// GetPhase retrieves the current phase of a run, or "" if unknown.
func (c *Client) GetPhase(ctx context.Context, runID string) (string, error) {
	v, err := c.rdb.Get(ctx, phaseKey(runID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get phase: %w", err)
	}
	return v, nil
}

// ClearRun removes all cached keys for a finished run.
func (c *Client) ClearRun(ctx context.Context, runID string) error {
	return c.rdb.Del(ctx, penaltyMapKey(runID), clauseCountKey(runID), phaseKey(runID)).Err()
}
