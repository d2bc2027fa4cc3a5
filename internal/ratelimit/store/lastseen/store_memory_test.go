package lastseen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const testWindow = 2 * time.Second

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestAdmit() {
	base := time.Unix(1700000000, 0)

	s.Run("unknown key admitted on first sight", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:first", base, testWindow)
		s.Require().NoError(err)
		s.True(admitted)
	})

	s.Run("second request inside window denied", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:burst", base, testWindow)
		s.Require().NoError(err)
		s.Require().True(admitted)

		admitted, err = s.store.Admit(s.ctx, "ip:burst", base.Add(testWindow-time.Millisecond), testWindow)
		s.Require().NoError(err)
		s.False(admitted)
	})

	s.Run("second request at window boundary admitted", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:spaced", base, testWindow)
		s.Require().NoError(err)
		s.Require().True(admitted)

		admitted, err = s.store.Admit(s.ctx, "ip:spaced", base.Add(testWindow), testWindow)
		s.Require().NoError(err)
		s.True(admitted)
	})

	s.Run("denied request does not push the window forward", func() {
		_, err := s.store.Admit(s.ctx, "ip:slide", base, testWindow)
		s.Require().NoError(err)

		// Denied attempt 1s in; must not reset the stored time.
		admitted, err := s.store.Admit(s.ctx, "ip:slide", base.Add(time.Second), testWindow)
		s.Require().NoError(err)
		s.Require().False(admitted)

		// 2s after the original accepted request the key is admitted again,
		// which would not hold if the denied attempt had updated state.
		admitted, err = s.store.Admit(s.ctx, "ip:slide", base.Add(testWindow), testWindow)
		s.Require().NoError(err)
		s.True(admitted)
	})

	s.Run("distinct keys are independent", func() {
		admitted, err := s.store.Admit(s.ctx, "ip:a", base, testWindow)
		s.Require().NoError(err)
		s.Require().True(admitted)

		admitted, err = s.store.Admit(s.ctx, "ip:b", base.Add(time.Millisecond), testWindow)
		s.Require().NoError(err)
		s.True(admitted)
	})
}

// TestConcurrentSameKey verifies two racing requests for one key inside the
// window cannot both be admitted.
func (s *InMemoryStoreSuite) TestConcurrentSameKey() {
	const attempts = 64
	now := time.Unix(1700000000, 0)

	var wg sync.WaitGroup
	admittedCount := make(chan bool, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := s.store.Admit(s.ctx, "ip:race", now, testWindow)
			s.NoError(err)
			admittedCount <- admitted
		}()
	}
	wg.Wait()
	close(admittedCount)

	total := 0
	for admitted := range admittedCount {
		if admitted {
			total++
		}
	}
	s.Equal(1, total)
}

// TestConcurrentDistinctKeys verifies different keys never block each other.
func (s *InMemoryStoreSuite) TestConcurrentDistinctKeys() {
	const keys = 64
	now := time.Unix(1700000000, 0)

	var wg sync.WaitGroup
	results := make(chan bool, keys)
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admitted, err := s.store.Admit(s.ctx, "ip:distinct:"+string(rune('a'+i%26))+string(rune('a'+i/26)), now, testWindow)
			s.NoError(err)
			results <- admitted
		}(i)
	}
	wg.Wait()
	close(results)

	for admitted := range results {
		s.True(admitted)
	}
}
