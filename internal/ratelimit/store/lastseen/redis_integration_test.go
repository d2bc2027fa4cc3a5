//go:build integration

package lastseen_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"geomark/internal/ratelimit/store/lastseen"
	"geomark/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	store *lastseen.RedisStore
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.store = lastseen.NewRedisStore(containers.StartRedis(s.T()))
}

func (s *RedisStoreSuite) TestAdmit() {
	window := 2 * time.Second
	now := time.Now()

	s.Run("first request admitted, burst denied", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:redis:burst", now, window)
		s.Require().NoError(err)
		s.True(admitted)

		admitted, err = s.store.Admit(s.ctx, "ip:redis:burst", now, window)
		s.Require().NoError(err)
		s.False(admitted)
	})

	s.Run("admitted again after the window elapses", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:redis:wait", now, 300*time.Millisecond)
		s.Require().NoError(err)
		s.Require().True(admitted)

		time.Sleep(400 * time.Millisecond)

		admitted, err = s.store.Admit(s.ctx, "ip:redis:wait", now, 300*time.Millisecond)
		s.Require().NoError(err)
		s.True(admitted)
	})

	s.Run("distinct keys independent", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:redis:a", now, window)
		s.Require().NoError(err)
		s.Require().True(admitted)

		admitted, err = s.store.Admit(s.ctx, "ip:redis:b", now, window)
		s.Require().NoError(err)
		s.True(admitted)
	})
}
