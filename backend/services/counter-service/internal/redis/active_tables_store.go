package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveTable is the cross-instance claim on a billiard table. SessionID is zero while the
// claiming instance is still creating the session row.
type ActiveTable struct {
	SessionID  int64     `json:"session_id"`
	Table      string    `json:"table"`
	ClientName string    `json:"client_name"`
	StartTime  time.Time `json:"start_time"`
}

// Store manages active table claims.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(table string) string {
	return fmt.Sprintf("tables:active:%s", table)
}

// Claim sets the claim only if the table is not claimed yet.
func (s *Store) Claim(ctx context.Context, claim ActiveTable) (bool, error) {
	data, err := json.Marshal(claim)
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, s.key(claim.Table), data, s.ttl).Result()
}

// Save overwrites the claim, e.g. to record the session id or to take over a stale claim.
func (s *Store) Save(ctx context.Context, claim ActiveTable) error {
	data, err := json.Marshal(claim)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(claim.Table), data, s.ttl).Err()
}

// Get returns the current claim, or nil when the table is free.
func (s *Store) Get(ctx context.Context, table string) (*ActiveTable, error) {
	result, err := s.client.Get(ctx, s.key(table)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var claim ActiveTable
	if err := json.Unmarshal([]byte(result), &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Release removes the claim.
func (s *Store) Release(ctx context.Context, table string) error {
	return s.client.Del(ctx, s.key(table)).Err()
}
