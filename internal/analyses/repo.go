package analyses

import (
	"context"

	"ats-backend/internal/contract"
)

// Repo defines persistence operations for analyses. Records are append-only.
type Repo interface {
	// Create stores the analysis and returns it with its assigned id and createdAt.
	Create(ctx context.Context, analysis NewAnalysis) (contract.AnalysisRecord, error)
	// List returns every analysis, newest first.
	List(ctx context.Context) ([]contract.AnalysisRecord, error)
	GetByID(ctx context.Context, id int64) (contract.AnalysisRecord, error)
}
