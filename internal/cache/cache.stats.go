// Package cache bọc Redis làm cache cho thống kê kênh.
// *StatsCache nil là hợp lệ: mọi thao tác thành no-op (cache bị tắt).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/config"
	"vidtube/internal/logger"
)

const channelStatsKey = "channel:stats:%s"

// StatsCache cache JSON trên Redis với TTL cố định
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache kết nối Redis theo cấu hình. REDIS_ADDR rỗng => trả về nil (tắt cache).
func NewStatsCache(ctx context.Context, cfg *config.Configuration) (*StatsCache, error) {
	if cfg.Redis_Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis_Addr,
		Password: cfg.Redis_Password,
		DB:       cfg.Redis_DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis_Addr, err)
	}

	ttl := time.Duration(cfg.StatsCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return NewStatsCacheWithClient(client, ttl), nil
}

// NewStatsCacheWithClient tạo cache từ client có sẵn
func NewStatsCacheWithClient(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// ChannelStatsKey key cache thống kê của một kênh
func ChannelStatsKey(owner primitive.ObjectID) string {
	return fmt.Sprintf(channelStatsKey, owner.Hex())
}

// GetJSON đọc key vào out. found = false khi cache tắt hoặc key không tồn tại.
func (s *StatsCache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if s == nil {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON ghi value dạng JSON với TTL của cache
func (s *StatsCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Delete xóa các key
func (s *StatsCache) Delete(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// InvalidateChannel xóa thống kê đã cache của kênh. Lỗi chỉ được log.
func (s *StatsCache) InvalidateChannel(ctx context.Context, owner primitive.ObjectID) {
	if s == nil || owner.IsZero() {
		return
	}
	if err := s.Delete(ctx, ChannelStatsKey(owner)); err != nil {
		logger.WithModule(ctx, "cache").WithError(err).WithField("owner", owner.Hex()).Warn("Failed to invalidate channel stats")
	}
}

// Close đóng kết nối Redis
func (s *StatsCache) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
