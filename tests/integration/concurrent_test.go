package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/iho/tradeledger/internal/usecase"
)

func TestConcurrentTrades(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	t.Run("concurrent buys never overdraw", func(t *testing.T) {
		s.db.TruncateAll(ctx)
		s.db.CreateTestAccount(ctx, "alice", d("100"))

		numTrades := 20 // 20 * 10 = 200 > 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTrades)

		for range numTrades {
			go func() {
				defer wg.Done()

				if err := s.trades.Buy(ctx, tradeInput("alice", "BTC", "10", "1")); err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected exactly 10 successful buys, got %d (errors: %d)", successCount.Load(), errorCount.Load())
		}

		account, err := s.accounts.GetByName(ctx, "alice")
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		if !account.Balance.IsZero() {
			t.Errorf("expected balance 0, got %s", account.Balance)
		}
	})

	t.Run("concurrent sells never oversell", func(t *testing.T) {
		s.db.TruncateAll(ctx)
		s.db.CreateTestAccount(ctx, "bob", d("1000"))

		for _, price := range []string{"5", "3", "4"} {
			if err := s.trades.Buy(ctx, tradeInput("bob", "ETH", price, "2")); err != nil {
				t.Fatalf("seed buy failed: %v", err)
			}
		}

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(10)
		for range 10 {
			go func() {
				defer wg.Done()
				if err := s.trades.Sell(ctx, tradeInput("bob", "ETH", "6", "1")); err == nil {
					successCount.Add(1)
				}
			}()
		}
		wg.Wait()

		if successCount.Load() != 6 {
			t.Errorf("expected 6 successful sells, got %d", successCount.Load())
		}

		result, err := s.reconciliation.ReconcileAccount(ctx, "bob")
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if !result.IsReconciled {
			t.Errorf("expected reconciled account, got difference %s holdings %+v", result.Difference, result.HoldingDifferences)
		}
	})

	t.Run("accounts trade independently", func(t *testing.T) {
		s.db.TruncateAll(ctx)
		names := []string{"u1", "u2", "u3", "u4"}
		for _, name := range names {
			s.db.CreateTestAccount(ctx, name, d("50"))
		}

		var wg sync.WaitGroup
		for _, name := range names {
			for range 5 {
				wg.Add(1)
				go func(name string) {
					defer wg.Done()
					_ = s.trades.Buy(ctx, usecase.TradeInput{AccountName: name, Symbol: "SOL", Price: d("10"), Quantity: d("1")})
				}(name)
			}
		}
		wg.Wait()

		for _, name := range names {
			account, err := s.accounts.GetByName(ctx, name)
			if err != nil {
				t.Fatalf("get %s: %v", name, err)
			}
			if !account.Balance.IsZero() {
				t.Errorf("expected %s balance 0, got %s", name, account.Balance)
			}
		}
	})
}
