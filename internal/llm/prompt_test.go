package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ats-backend/internal/contract"
)

func TestBuildPromptEmbedsFieldsVerbatim(t *testing.T) {
	req := contract.AnalysisRequest{
		ResumeText:      "Jane Doe\n  - Built {payments} in Go  ",
		JobRole:         "Site Reliability Engineer",
		ExperienceLevel: contract.LevelThreeToFive,
		TargetCountry:   contract.CountryCanada,
	}
	p := BuildPrompt(req)

	if p.System != SystemPrompt {
		t.Fatalf("expected fixed system prompt")
	}
	for _, want := range []string{
		"Job Role: Site Reliability Engineer\n",
		"Experience Level: 3-5 Years\n",
		"Target Country: Canada\n",
		"Resume Content:\n" + req.ResumeText + "\n",
	} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	req := contract.AnalysisRequest{ResumeText: "r", JobRole: "j", ExperienceLevel: contract.LevelFresher, TargetCountry: contract.CountryUK}
	a, b := BuildPrompt(req), BuildPrompt(req)
	if a != b || a.Hash() != b.Hash() {
		t.Fatalf("expected identical prompts for identical requests")
	}
	req.TargetCountry = contract.CountryEU
	if BuildPrompt(req).Hash() == a.Hash() {
		t.Fatalf("expected hash to change with the request")
	}
}

func TestSystemPromptListsDimensionsAndShape(t *testing.T) {
	for _, want := range []string{
		"ATS Compatibility",
		"Keyword & Skill Matching",
		"Resume Structure & Formatting",
		"Content Quality",
		"Global Hiring Standards",
		`"atsScore"`,
		`"improvementSuggestions"`,
		`"finalVerdict"`,
	} {
		if !strings.Contains(SystemPrompt, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
}

func TestUnconfiguredAlwaysFails(t *testing.T) {
	_, err := Unconfigured{}.Generate(context.Background(), Prompt{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
