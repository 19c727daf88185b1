package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/tradeledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Append inserts record and sets its Timestamp from the database clock.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	createdAt, err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:        record.ID,
		AccountID: record.AccountID,
		Symbol:    record.Symbol,
		Quantity:  decimalToNumeric(record.Quantity),
		Price:     decimalToNumeric(record.Price),
		Side:      string(record.Side),
	})
	if err != nil {
		return err
	}

	record.Timestamp = createdAt.Time
	return nil
}

// ListByAccount returns every record of the account, oldest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToRecords(rows), nil
}

// ListRecentByAccount returns one page of the account's records, newest first.
func (r *TransactionRepository) ListRecentByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error) {
	rows, err := r.queries.ListRecentTransactionsByAccount(ctx, generated.ListRecentTransactionsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToRecords(rows), nil
}

func rowsToRecords(rows []generated.Transaction) []*domain.TransactionRecord {
	records := make([]*domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.TransactionRecord{
			ID:        row.ID,
			AccountID: row.AccountID,
			Symbol:    row.Symbol,
			Quantity:  numericToDecimal(row.Quantity),
			Price:     numericToDecimal(row.Price),
			Side:      domain.Side(row.Side),
			Timestamp: row.CreatedAt.Time,
		})
	}

	return records
}
