package analyses

import (
	"slices"
	"time"

	"ats-backend/internal/contract"
)

// NewAnalysis is the input to Repo.Create. ATSScore must equal Result.ATSScore.
type NewAnalysis struct {
	ResumeText      string
	JobRole         string
	ExperienceLevel string
	TargetCountry   string
	ATSScore        int
	Result          contract.AnalysisResult
}

func newAnalysis(req contract.AnalysisRequest, result contract.AnalysisResult) NewAnalysis {
	return NewAnalysis{
		ResumeText:      req.ResumeText,
		JobRole:         req.JobRole,
		ExperienceLevel: req.ExperienceLevel,
		TargetCountry:   req.TargetCountry,
		ATSScore:        result.ATSScore,
		Result:          result,
	}
}

func (n NewAnalysis) validate() error {
	if n.ATSScore != n.Result.ATSScore {
		return contract.ErrScoreMismatch
	}
	return nil
}

func (n NewAnalysis) record(id int64, createdAt time.Time) contract.AnalysisRecord {
	return contract.AnalysisRecord{
		ID:              id,
		ResumeText:      n.ResumeText,
		JobRole:         n.JobRole,
		ExperienceLevel: n.ExperienceLevel,
		TargetCountry:   n.TargetCountry,
		ATSScore:        n.ATSScore,
		AnalysisResult:  cloneResult(n.Result),
		CreatedAt:       createdAt,
	}
}

func cloneResult(r contract.AnalysisResult) contract.AnalysisResult {
	r.TopIssues = slices.Clone(r.TopIssues)
	r.MissingKeywords = slices.Clone(r.MissingKeywords)
	r.FormattingProblems = slices.Clone(r.FormattingProblems)
	r.ImprovementSuggestions = slices.Clone(r.ImprovementSuggestions)
	return r
}

func cloneRecord(r contract.AnalysisRecord) contract.AnalysisRecord {
	r.AnalysisResult = cloneResult(r.AnalysisResult)
	return r
}
