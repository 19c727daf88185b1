package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/infrastructure/postgres/generated"
)

// PriceRepository implements usecase.PriceSource from the trade history:
// the latest price of a symbol is the price of its most recent transaction
// in any account.
type PriceRepository struct {
	queries *generated.Queries
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return newPriceRepository(pool)
}

func newPriceRepository(db generated.DBTX) *PriceRepository {
	return &PriceRepository{queries: generated.New(db)}
}

// LatestPrice returns an invalid NullDecimal when the symbol was never traded.
func (r *PriceRepository) LatestPrice(ctx context.Context, symbol string) (decimal.NullDecimal, error) {
	price, err := r.queries.GetLatestPrice(ctx, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.NullDecimal{}, nil
		}

		return decimal.NullDecimal{}, err
	}

	return numericToNullDecimal(price), nil
}
