package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"ats-backend/internal/contract"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	records []contract.AnalysisRecord
	byID    map[int64]int
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo stamping records with the wall clock.
func NewMemoryRepo() *MemoryRepo {
	return NewMemoryRepoWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryRepoWithClock constructs a MemoryRepo that reads createdAt from now.
func NewMemoryRepoWithClock(now func() time.Time) *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[int64]int),
		now:  now,
	}
}

// Create stores the analysis under the next id.
func (r *MemoryRepo) Create(ctx context.Context, analysis NewAnalysis) (contract.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return contract.AnalysisRecord{}, err
	}
	if err := analysis.validate(); err != nil {
		return contract.AnalysisRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record := analysis.record(r.nextID, r.now())
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, record)
	return cloneRecord(record), nil
}

// List returns analyses newest first; ties on createdAt are broken by id.
func (r *MemoryRepo) List(ctx context.Context) ([]contract.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]contract.AnalysisRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, cloneRecord(record))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (contract.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return contract.AnalysisRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return contract.AnalysisRecord{}, ErrNotFound
	}
	return cloneRecord(r.records[idx]), nil
}
