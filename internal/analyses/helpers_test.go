package analyses

import (
	"context"
	"sync"
	"sync/atomic"

	"ats-backend/internal/contract"
	"ats-backend/internal/llm"
)

const sampleModelOutput = `{"atsScore": 83, "status": "ATS Friendly", "topIssues": [], "missingKeywords": ["Kubernetes"], "formattingProblems": [], "improvementSuggestions": ["Add metrics"], "finalVerdict": "YES - strong match."}`

func validRequest() contract.AnalysisRequest {
	return contract.AnalysisRequest{
		ResumeText:      "Jane Doe\nGo engineer, 6 years",
		JobRole:         "Backend Engineer",
		ExperienceLevel: contract.LevelFivePlus,
		TargetCountry:   contract.CountryUSA,
	}
}

func sampleResult() contract.AnalysisResult {
	return contract.AnalysisResult{
		ATSScore:               83,
		Status:                 contract.StatusATSFriendly,
		TopIssues:              []string{},
		MissingKeywords:        []string{"Kubernetes"},
		FormattingProblems:     []string{},
		ImprovementSuggestions: []string{"Add metrics"},
		FinalVerdict:           "YES - strong match.",
	}
}

// stubGenerator returns a fixed response and counts calls.
type stubGenerator struct {
	mu      sync.Mutex
	calls   atomic.Int32
	out     string
	err     error
	prompts []llm.Prompt
	block   bool
}

func (g *stubGenerator) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.out, g.err
}

// countingRepo wraps a Repo and counts Create calls.
type countingRepo struct {
	Repo
	creates   atomic.Int32
	createErr error
	listErr   error
}

func (r *countingRepo) Create(ctx context.Context, analysis NewAnalysis) (contract.AnalysisRecord, error) {
	r.creates.Add(1)
	if r.createErr != nil {
		return contract.AnalysisRecord{}, r.createErr
	}
	return r.Repo.Create(ctx, analysis)
}

func (r *countingRepo) List(ctx context.Context) ([]contract.AnalysisRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Repo.List(ctx)
}
