package leaderboard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type CacheSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	cache *Cache
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.cache = NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}))
	s.ctx = context.Background()
}

func (s *CacheSuite) TearDownTest() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

func (s *CacheSuite) TestColdCacheFallsBack() {
	rows, ok, err := s.cache.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.False(ok)
	s.Empty(rows)
}

func (s *CacheSuite) TestRecordAndTop() {
	s.Require().NoError(s.cache.Record(s.ctx, 1, "alice", 30))
	s.Require().NoError(s.cache.Record(s.ctx, 2, "bob", 50))
	s.Require().NoError(s.cache.Record(s.ctx, 3, "carol", 10))

	rows, ok, err := s.cache.Top(s.ctx, 2)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(rows, 2)
	s.Equal("bob", rows[0].DisplayName)
	s.Equal(int64(50), rows[0].Tokens)
	s.Equal("alice", rows[1].DisplayName)
}

func (s *CacheSuite) TestRecordOverwritesScore() {
	s.Require().NoError(s.cache.Record(s.ctx, 1, "alice", 30))
	s.Require().NoError(s.cache.Record(s.ctx, 1, "alice", 45))

	rows, ok, err := s.cache.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(rows, 1)
	s.Equal(int64(45), rows[0].Tokens)
}

func (s *CacheSuite) TestMissingNameFallsBackToID() {
	s.Require().NoError(s.cache.Record(s.ctx, 7, "gone", 10))
	s.mini.HDel(namesKey, "7")

	rows, ok, err := s.cache.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(rows, 1)
	s.Equal("player 7", rows[0].DisplayName)
}
