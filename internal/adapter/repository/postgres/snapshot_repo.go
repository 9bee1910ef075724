package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// ReportSnapshotRepository implements usecase.ReportSnapshotRepository.
type ReportSnapshotRepository struct {
	queries *generated.Queries
}

// NewReportSnapshotRepository creates a new ReportSnapshotRepository.
func NewReportSnapshotRepository(pool Pool) *ReportSnapshotRepository {
	return &ReportSnapshotRepository{
		queries: generated.New(pool),
	}
}

// Create appends a snapshot.
func (r *ReportSnapshotRepository) Create(ctx context.Context, snapshot *domain.ReportSnapshot) error {
	return r.queries.CreateReportSnapshot(ctx, generated.CreateReportSnapshotParams{
		ID:         snapshot.ID,
		Kind:       string(snapshot.Kind),
		EntityID:   snapshot.EntityID,
		EntityType: string(snapshot.EntityType),
		PeriodFrom: timeToPgTimestamptz(snapshot.Period.From),
		PeriodTo:   timeToPgTimestamptz(snapshot.Period.To),
		Payload:    snapshot.Payload,
		CreatedAt:  timeToPgTimestamptz(snapshot.CreatedAt),
	})
}

// List returns snapshots of a kind, newest first.
func (r *ReportSnapshotRepository) List(ctx context.Context, kind domain.ReportKind, limit int) ([]*domain.ReportSnapshot, error) {
	rows, err := r.queries.ListReportSnapshots(ctx, generated.ListReportSnapshotsParams{
		Kind:  string(kind),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]*domain.ReportSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, &domain.ReportSnapshot{
			ID:         row.ID,
			Kind:       domain.ReportKind(row.Kind),
			EntityID:   row.EntityID,
			EntityType: domain.QueryLevel(row.EntityType),
			Period:     domain.ReportPeriod{From: row.PeriodFrom.Time, To: row.PeriodTo.Time},
			Payload:    row.Payload,
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	return snapshots, nil
}
