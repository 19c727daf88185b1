package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/tradeledger/internal/usecase"
)

// LotRepository implements usecase.LotRepository.
type LotRepository struct {
	queries *generated.Queries
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(pool *pgxpool.Pool) *LotRepository {
	return newLotRepository(pool)
}

func newLotRepository(db generated.DBTX) *LotRepository {
	return &LotRepository{queries: generated.New(db)}
}

// Create stores a new lot.
func (r *LotRepository) Create(ctx context.Context, tx usecase.Transaction, lot *domain.Lot) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateLot(ctx, generated.CreateLotParams{
		ID:               lot.ID,
		AccountID:        lot.AccountID,
		Symbol:           lot.Symbol,
		Quantity:         decimalToNumeric(lot.Quantity),
		AcquisitionPrice: decimalToNumeric(lot.AcquisitionPrice),
		CreatedAt:        timeToPgTimestamptz(lot.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(lot.UpdatedAt),
	})
}

// ListForSale returns the lots of symbol, cheapest first, read inside tx.
func (r *LotRepository) ListForSale(ctx context.Context, tx usecase.Transaction, accountID, symbol string) ([]*domain.Lot, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListLotsForSale(ctx, generated.ListLotsForSaleParams{
		AccountID: accountID,
		Symbol:    symbol,
	})
	if err != nil {
		return nil, err
	}

	return rowsToLots(rows), nil
}

// ListByAccount returns all open lots of an account ordered by symbol and price.
func (r *LotRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Lot, error) {
	rows, err := r.queries.ListLotsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToLots(rows), nil
}

// UpdateQuantity sets the remaining quantity of a lot.
func (r *LotRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateLotQuantity(ctx, generated.UpdateLotQuantityParams{
		ID:        id,
		Quantity:  decimalToNumeric(quantity),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// Delete removes a fully consumed lot.
func (r *LotRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.DeleteLot(ctx, id)
}

func rowsToLots(rows []generated.Lot) []*domain.Lot {
	lots := make([]*domain.Lot, 0, len(rows))
	for _, row := range rows {
		lots = append(lots, &domain.Lot{
			ID:               row.ID,
			AccountID:        row.AccountID,
			Symbol:           row.Symbol,
			Quantity:         numericToDecimal(row.Quantity),
			AcquisitionPrice: numericToDecimal(row.AcquisitionPrice),
			CreatedAt:        row.CreatedAt.Time,
			UpdatedAt:        row.UpdatedAt.Time,
		})
	}

	return lots
}
