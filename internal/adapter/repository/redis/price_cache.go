package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/usecase"
)

// noPrice marks a symbol that has never been traded.
const noPrice = "none"

// errStaleLoad aborts a cache fill that raced with an invalidation.
var errStaleLoad = errors.New("price changed during load")

// PriceCache implements usecase.PriceSource and usecase.PriceInvalidator.
// It serves latest prices from Redis and falls through to source on a miss.
// Redis failures are logged and never fail the lookup.
//
// Every symbol has a generation counter under genPrefix that Invalidate bumps.
// A fill only lands if the generation is unchanged since the load started,
// so a price read before a trade committed is never cached after it.
type PriceCache struct {
	client    *redis.Client
	source    usecase.PriceSource
	prefix    string
	genPrefix string
	ttl       time.Duration
}

// NewPriceCache creates a new PriceCache in front of source.
func NewPriceCache(client *redis.Client, source usecase.PriceSource, ttl time.Duration) *PriceCache {
	return &PriceCache{
		client: client,
		source: source,
		prefix:    "price:",
		genPrefix: "price-gen:",
		ttl:       ttl,
	}
}

// LatestPrice returns the cached price of symbol, loading it from the source on a miss.
func (c *PriceCache) LatestPrice(ctx context.Context, symbol string) (decimal.NullDecimal, error) {
	key := c.prefix + symbol

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if price, ok := decodePrice(cached); ok {
			return price, nil
		}
		log.Warn().Str("symbol", symbol).Str("value", cached).Msg("discarding malformed cached price")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("symbol", symbol).Msg("price cache read failed")
		return c.source.LatestPrice(ctx, symbol)
	}

	gen, err := c.generation(ctx, c.client, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("price generation read failed")
		return c.source.LatestPrice(ctx, symbol)
	}

	price, err := c.source.LatestPrice(ctx, symbol)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	c.fill(ctx, symbol, gen, price)

	return price, nil
}

// fill caches price unless symbol was invalidated after generation gen was read.
func (c *PriceCache) fill(ctx context.Context, symbol string, gen int64, price decimal.NullDecimal) {
	genKey := c.genPrefix + symbol

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, symbol)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleLoad
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.prefix+symbol, encodePrice(price), c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("symbol", symbol).Msg("skipping stale price cache fill")
	default:
		log.Warn().Err(err).Str("symbol", symbol).Msg("price cache write failed")
	}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *PriceCache) generation(ctx context.Context, cmd stringGetter, symbol string) (int64, error) {
	gen, err := cmd.Get(ctx, c.genPrefix+symbol).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Invalidate drops the cached price of symbol and bumps its generation so
// in-flight loads do not write back an older price.
func (c *PriceCache) Invalidate(ctx context.Context, symbol string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genPrefix+symbol)
		pipe.Del(ctx, c.prefix+symbol)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate price %s: %w", symbol, err)
	}
	return nil
}

func encodePrice(price decimal.NullDecimal) string {
	if !price.Valid {
		return noPrice
	}
	return price.Decimal.String()
}

func decodePrice(value string) (decimal.NullDecimal, bool) {
	if value == noPrice {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}
