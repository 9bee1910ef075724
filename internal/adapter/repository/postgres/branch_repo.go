package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// BranchRepository implements usecase.BranchRepository.
type BranchRepository struct {
	queries *generated.Queries
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(pool Pool) *BranchRepository {
	return &BranchRepository{
		queries: generated.New(pool),
	}
}

// ListByZone returns the branches of a zone ordered by code.
func (r *BranchRepository) ListByZone(ctx context.Context, zoneID string) ([]*domain.Branch, error) {
	rows, err := r.queries.ListBranchesByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	branches := make([]*domain.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, &domain.Branch{
			ID:     row.ID,
			Code:   row.Code,
			Name:   row.Name,
			ZoneID: row.ZoneID,
		})
	}

	return branches, nil
}

// Upsert creates or updates a branch directory row.
func (r *BranchRepository) Upsert(ctx context.Context, branch *domain.Branch) error {
	return r.queries.UpsertBranch(ctx, generated.UpsertBranchParams{
		ID:     branch.ID,
		Code:   branch.Code,
		Name:   branch.Name,
		ZoneID: branch.ZoneID,
	})
}
