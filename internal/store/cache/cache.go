// Package cache — read-through кэш поверх любого store.Reader на Redis.
// Кэшированная копия — денормализованная проекция, никогда не источник
// истины: TTL короткий, любая ошибка Redis означает «идём в базу».
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/davomat-uz/davomat-server/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Second

type Store struct {
	inner store.Store
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func New(inner store.Store, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func key(kind, ownerID, sub string, studentIDs []string) string {
	k := "davomat:" + kind + ":" + ownerID
	if sub != "" {
		k += ":" + sub
	}
	if len(studentIDs) > 0 {
		k += ":" + strings.Join(studentIDs, ",")
	}
	return k
}

// readThrough возвращает true, если значение взято из кэша.
func readThrough[T any](ctx context.Context, s *Store, k string, out *T, fetch func() (T, error)) error {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, k).Bytes()
		if err == nil {
			if json.Unmarshal(raw, out) == nil {
				return nil
			}
		} else if err != redis.Nil {
			s.log.Debug("redis get failed", zap.String("key", k), zap.Error(err))
		}
	}

	v, err := fetch()
	if err != nil {
		return err
	}
	*out = v

	if s.rdb != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			if err := s.rdb.Set(ctx, k, raw, s.ttl).Err(); err != nil {
				s.log.Debug("redis set failed", zap.String("key", k), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Store) FetchStudents(ctx context.Context, ownerID, groupID string) ([]models.Student, error) {
	var out []models.Student
	err := readThrough(ctx, s, key("students", ownerID, groupID, nil), &out, func() ([]models.Student, error) {
		return s.inner.FetchStudents(ctx, ownerID, groupID)
	})
	return out, err
}

func (s *Store) FetchGroups(ctx context.Context, ownerID string) ([]models.Group, error) {
	var out []models.Group
	err := readThrough(ctx, s, key("groups", ownerID, "", nil), &out, func() ([]models.Group, error) {
		return s.inner.FetchGroups(ctx, ownerID)
	})
	return out, err
}

func (s *Store) FetchAttendance(ctx context.Context, ownerID string, studentIDs []string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	err := readThrough(ctx, s, key("att", ownerID, "", studentIDs), &out, func() ([]models.AttendanceRecord, error) {
		return s.inner.FetchAttendance(ctx, ownerID, studentIDs)
	})
	return out, err
}

func (s *Store) FetchRewardEvents(ctx context.Context, ownerID string, studentIDs []string) ([]models.RewardEvent, error) {
	var out []models.RewardEvent
	err := readThrough(ctx, s, key("rew", ownerID, "", studentIDs), &out, func() ([]models.RewardEvent, error) {
		return s.inner.FetchRewardEvents(ctx, ownerID, studentIDs)
	})
	return out, err
}

// UpsertAttendance пишет сквозь кэш и сбрасывает проекции владельца.
func (s *Store) UpsertAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	if err := s.inner.UpsertAttendance(ctx, rec); err != nil {
		return err
	}
	s.invalidate(ctx, rec.OwnerID)
	return nil
}

func (s *Store) AppendRewardEvent(ctx context.Context, ev models.RewardEvent) error {
	if err := s.inner.AppendRewardEvent(ctx, ev); err != nil {
		return err
	}
	s.invalidate(ctx, ev.OwnerID)
	return nil
}

func (s *Store) invalidate(ctx context.Context, ownerID string) {
	if s.rdb == nil {
		return
	}
	pattern := fmt.Sprintf("davomat:*:%s*", ownerID)
	iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Debug("redis scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			s.log.Debug("redis del failed", zap.Error(err))
		}
	}
}
