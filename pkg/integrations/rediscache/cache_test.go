package rediscache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type PriceCacheSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	cache *PriceCache
}

func TestPriceCacheSuite(t *testing.T) {
	suite.Run(t, new(PriceCacheSuite))
}

func (s *PriceCacheSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.cache = NewWithClient(client, DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *PriceCacheSuite) TearDownTest() {
	_ = s.cache.Close()
	s.mini.Close()
}

func (s *PriceCacheSuite) TestSetAndGet() {
	s.cache.Set(1, 3890250)

	price, ok := s.cache.Get(1)
	s.True(ok)
	s.Equal(3890250.0, price)

	_, ok = s.cache.Get(2)
	s.False(ok)
}

func (s *PriceCacheSuite) TestStoredAsHashField() {
	s.cache.Set(7, 1250.5)

	val := s.mini.HGet(DefaultConfig().Key, "7")
	s.Equal("1250.5", val)
}

func (s *PriceCacheSuite) TestKeysSnapshotAndLen() {
	s.cache.Set(1, 10)
	s.cache.Set(2, 20)

	s.ElementsMatch([]int64{1, 2}, s.cache.Keys())
	s.Equal(map[int64]float64{1: 10, 2: 20}, s.cache.Snapshot())
	s.Equal(2, s.cache.Len())
}

func (s *PriceCacheSuite) TestDeleteAndClear() {
	s.cache.Set(1, 10)
	s.cache.Set(2, 20)

	s.cache.Delete(1)
	_, ok := s.cache.Get(1)
	s.False(ok)
	s.Equal(1, s.cache.Len())

	s.cache.Clear()
	s.Zero(s.cache.Len())
	s.Empty(s.cache.Snapshot())
}

func (s *PriceCacheSuite) TestGetAfterServerGoneReportsMiss() {
	s.cache.Set(1, 10)
	s.mini.Close()

	_, ok := s.cache.Get(1)
	s.False(ok)
}

func (s *PriceCacheSuite) TestNewPingFailureReleasesConnections() {
	s.mini.RequireAuth("hunter2")

	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().Error(err)
	s.Contains(err.Error(), "redis ping failed")

	// The suite's own client never dialed, so every open connection came from New.
	s.Eventually(func() bool {
		return s.mini.CurrentConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}
