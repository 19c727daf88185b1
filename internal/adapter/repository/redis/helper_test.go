package redis

import (
	"context"
	"sync/atomic"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// newTestRedisClient returns a client bound to a fresh in-process redis.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})

	return client, mr
}

// countingSource is a PriceSource that records how often the cache missed.
type countingSource struct {
	calls atomic.Int32
	price decimal.NullDecimal
	err   error
	// onLoad runs after the price is read and before it is returned.
	onLoad func()
}

func (s *countingSource) LatestPrice(ctx context.Context, symbol string) (decimal.NullDecimal, error) {
	s.calls.Add(1)
	price, err := s.price, s.err
	if s.onLoad != nil {
		s.onLoad()
	}
	return price, err
}
