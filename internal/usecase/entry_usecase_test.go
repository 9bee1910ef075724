package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func TestEntryUseCase_GetEntriesByAccount(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository(
		&domain.Entry{ID: "e1", AccountID: "acc-1", Amount: decimal.NewFromInt(100)},
		&domain.Entry{ID: "e2", AccountID: "acc-1", Amount: decimal.NewFromInt(-50)},
		&domain.Entry{ID: "e3", AccountID: "acc-2", Amount: decimal.NewFromInt(50)},
	)

	uc := usecase.NewEntryUseCase(entryRepo, mocks.NewMockPostingRepository(), nil)

	entries, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{
		AccountID: "acc-1",
		Limit:     10,
		Offset:    0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestEntryUseCase_GetTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.posting.Transfer(ctx, usecase.TransferInput{
		Branch: branchB1, ReferenceID: "TX1", SourceAccountID: "acc-a", DestinationAccountID: "acc-b", Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	_, err = f.reversal.Reverse(ctx, usecase.ReverseInput{Branch: branchB1, ReferenceID: "TX1"})
	require.NoError(t, err)

	view, err := f.entry.GetTransaction(ctx, "TX1")
	require.NoError(t, err)
	assert.Equal(t, domain.OperationTransfer, view.Posting.Operation)
	require.Len(t, view.Entries, 2)
	for _, e := range view.Entries {
		assert.True(t, e.IsDeleted)
	}

	reversal, err := f.entry.GetTransaction(ctx, "TX1-R")
	require.NoError(t, err)
	assert.Equal(t, "TX1", reversal.Posting.ReversalOf)
	assert.Len(t, reversal.Entries, 2)

	trail, err := f.entry.GetAuditTrail(ctx, "TX1")
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestEntryUseCase_Lookups(t *testing.T) {
	uc := usecase.NewEntryUseCase(mocks.NewMockEntryRepository(), mocks.NewMockPostingRepository(), nil)
	ctx := context.Background()

	_, err := uc.GetTransaction(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrEntriesNotFound)

	_, err = uc.GetEntriesByReference(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrEntriesNotFound)

	exists, err := uc.TransactionExists(ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = uc.TransactionExists(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	trail, err := uc.GetAuditTrail(ctx, "NOPE")
	require.NoError(t, err)
	assert.Empty(t, trail)
}
