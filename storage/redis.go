package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("not found")

const (
	sentTTL     = 48 * time.Hour
	scheduleKey = "schedule:"
)

type Storage struct {
	client *redis.Client
}

func New(addr, password string, db int) *Storage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,     // "localhost:6379" or a hosted instance
		Password: password, // may be empty
		DB:       db,
	})
	return &Storage{client: rdb}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// ===== Schedules =====

// SaveSchedule validates and stores a schedule under its ID.
func (s *Storage) SaveSchedule(ctx context.Context, sched *Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(sched)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, scheduleKey+sched.ID, data, 0).Err()
}

// GetSchedule returns ErrNotFound when the id is unknown.
func (s *Storage) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	val, err := s.client.Get(ctx, scheduleKey+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sched Schedule
	if err := json.Unmarshal([]byte(val), &sched); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", id, err)
	}
	return &sched, nil
}

// ListSchedules returns every stored schedule. Entries that fail to decode
// are skipped.
func (s *Storage) ListSchedules(ctx context.Context) ([]*Schedule, error) {
	var scheds []*Schedule
	iter := s.client.Scan(ctx, 0, scheduleKey+"*", 100).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		var sched Schedule
		if json.Unmarshal([]byte(val), &sched) == nil {
			scheds = append(scheds, &sched)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return scheds, nil
}

func (s *Storage) DeleteSchedule(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, scheduleKey+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== Send markers =====

// ClaimSend marks a schedule as sent for a day. It returns false when
// another run already claimed it, so two instances never send twice.
func (s *Storage) ClaimSend(ctx context.Context, scheduleID, day string) (bool, error) {
	return s.client.SetNX(ctx, sentKey(scheduleID, day), time.Now().Unix(), sentTTL).Result()
}

// ReleaseSend drops a claim after a failed delivery so the next run retries.
func (s *Storage) ReleaseSend(ctx context.Context, scheduleID, day string) error {
	return s.client.Del(ctx, sentKey(scheduleID, day)).Err()
}

func sentKey(scheduleID, day string) string {
	return fmt.Sprintf("sent:%s:%s", scheduleID, day)
}

// ===== Payload cache =====

// GetPayload returns nil, nil on a cache miss.
func (s *Storage) GetPayload(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, "payload:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Storage) SavePayload(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, "payload:"+key, data, ttl).Err()
}
