package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func TestConcurrentTransfers(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	t.Run("100 concurrent transfers between the same accounts", func(t *testing.T) {
		l.db.TruncateAll(ctx)

		source := l.account(t, "B1", "1000", domain.CategoryAsset, 1000)
		dest := l.account(t, "B1", "1001", domain.CategoryAsset, 0)

		numTransfers := 100
		transferAmount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTransfers)

		for i := range numTransfers {
			go func() {
				defer wg.Done()

				_, err := l.posting.Transfer(ctx, usecase.TransferInput{
					Branch:               branchContext("B1"),
					ReferenceID:          fmt.Sprintf("CTX-%03d", i),
					SourceAccountID:      source.ID,
					DestinationAccountID: dest.ID,
					Amount:               transferAmount,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d (errors: %d)", numTransfers, successCount.Load(), errorCount.Load())
		}

		l.requireBalance(t, source.ID, 0)
		l.requireBalance(t, dest.ID, 1000)
		l.requireConsistent(t)
	})

	t.Run("opposite directions do not deadlock", func(t *testing.T) {
		l.db.TruncateAll(ctx)

		a := l.account(t, "B1", "2000", domain.CategoryAsset, 500)
		b := l.account(t, "B1", "2001", domain.CategoryAsset, 500)

		numTransfers := 50

		var (
			wg         sync.WaitGroup
			errorCount atomic.Int32
		)

		wg.Add(numTransfers * 2)

		for i := range numTransfers {
			for dir, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
				go func() {
					defer wg.Done()

					_, err := l.posting.Transfer(ctx, usecase.TransferInput{
						Branch:               branchContext("B1"),
						ReferenceID:          fmt.Sprintf("XDIR-%d-%03d", dir, i),
						SourceAccountID:      pair[0],
						DestinationAccountID: pair[1],
						Amount:               decimal.NewFromInt(5),
					})
					if err != nil {
						errorCount.Add(1)
					}
				}()
			}
		}

		wg.Wait()

		if errorCount.Load() != 0 {
			t.Errorf("expected no failures, got %d", errorCount.Load())
		}

		l.requireBalance(t, a.ID, 500)
		l.requireBalance(t, b.ID, 500)
		l.requireConsistent(t)
	})

	t.Run("same reference posts exactly once", func(t *testing.T) {
		l.db.TruncateAll(ctx)

		source := l.account(t, "B1", "3000", domain.CategoryAsset, 1000)
		dest := l.account(t, "B1", "3001", domain.CategoryAsset, 0)

		attempts := 20

		var (
			wg         sync.WaitGroup
			successes  atomic.Int32
			duplicates atomic.Int32
			others     atomic.Int32
		)

		wg.Add(attempts)

		for range attempts {
			go func() {
				defer wg.Done()

				_, err := l.posting.Transfer(ctx, usecase.TransferInput{
					Branch:               branchContext("B1"),
					ReferenceID:          "SAME-REF",
					SourceAccountID:      source.ID,
					DestinationAccountID: dest.ID,
					Amount:               decimal.NewFromInt(100),
				})

				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, domain.ErrDuplicateTransaction):
					duplicates.Add(1)
				default:
					others.Add(1)
				}
			}()
		}

		wg.Wait()

		if successes.Load() != 1 {
			t.Errorf("expected exactly one successful posting, got %d", successes.Load())
		}

		if duplicates.Load() != int32(attempts-1) || others.Load() != 0 {
			t.Errorf("expected %d duplicates and no other errors, got %d duplicates and %d others",
				attempts-1, duplicates.Load(), others.Load())
		}

		l.requireBalance(t, source.ID, 900)
		l.requireBalance(t, dest.ID, 100)
	})
}
