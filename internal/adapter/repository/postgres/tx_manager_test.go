package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

// Commit and rollback wait this long in the mock, so a finished context
// is observed before they complete.
const settleDelay = 20 * time.Millisecond

func TestTxManager_BeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBegin().WillReturnError(mockErr)

	tx, err := NewTxManager(mockPool).Begin(context.Background())
	if !errors.Is(err, mockErr) {
		t.Fatalf("expected begin error, got err=%v tx=%v", err, tx)
	}

	assertExpectations(t, mockPool)
}

func TestTx_QueriesRunInsideTransaction(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE accounts SET balance").
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	tx, err := NewTxManager(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if _, ok := tx.(*Tx); !ok {
		t.Fatalf("expected *Tx, got %T", tx)
	}

	if err := NewAccountRepository(mockPool).UpdateBalance(context.Background(), tx, "acc-1", decimal.NewFromInt(10), time.Now()); err != nil {
		t.Fatalf("update in tx failed: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTx_CommitWithExpiredContextFails(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit().WillDelayFor(settleDelay)

	tx, err := NewTxManager(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tx.Commit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected commit to observe cancellation, got %v", err)
	}
}

func TestTx_DetachedCommitOutlivesDeadline(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit().WillDelayFor(settleDelay)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	tx, err := NewTxManager(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	<-ctx.Done()

	if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
		t.Fatalf("detached commit failed after the deadline: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTx_DetachedRollbackOutlivesCancellation(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectRollback().WillDelayFor(settleDelay)

	ctx, cancel := context.WithCancel(context.Background())

	tx, err := NewTxManager(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	cancel()

	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		t.Fatalf("detached rollback failed after cancellation: %v", err)
	}

	assertExpectations(t, mockPool)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
