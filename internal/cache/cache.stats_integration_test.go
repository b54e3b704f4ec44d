package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/cache"
	"vidtube/internal/cache/cachetest"
)

type channelStats struct {
	TotalVideos int64 `json:"totalVideos"`
	TotalViews  int64 `json:"totalViews"`
}

func TestStatsCacheIntegration(t *testing.T) {
	stats := cachetest.StartRedis(t, time.Minute)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	key := cache.ChannelStatsKey(owner)

	var out channelStats
	found, err := stats.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, stats.SetJSON(ctx, key, channelStats{TotalVideos: 3, TotalViews: 40}))
	found, err = stats.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, channelStats{TotalVideos: 3, TotalViews: 40}, out)

	stats.InvalidateChannel(ctx, owner)
	found, err = stats.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, found)
}
