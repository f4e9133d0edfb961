package llm

import (
	"fmt"

	"ats-backend/internal/contract"
	"ats-backend/internal/shared/util"
)

// SystemPrompt is sent unchanged with every analysis request.
const SystemPrompt = `You are a professional ATS Resume Checker designed for the GLOBAL job market.
Your task is to analyze the given resume text and evaluate it based on international ATS and recruiter standards.

Evaluate on:
1. ATS Compatibility
2. Keyword & Skill Matching
3. Resume Structure & Formatting
4. Content Quality
5. Global Hiring Standards

Return a JSON object STRICTLY matching this structure:
{
  "atsScore": number (0-100),
  "status": "ATS Friendly" | "Needs Improvement",
  "topIssues": string[],
  "missingKeywords": string[],
  "formattingProblems": string[],
  "improvementSuggestions": string[],
  "finalVerdict": string (YES/MAYBE/NO and 2-3 short lines explanation)
}`

const userPromptTemplate = `
Job Role: %s
Experience Level: %s
Target Country: %s

Resume Content:
%s
`

// Prompt is a chat-style prompt: a fixed system instruction and a per-request user message.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt embeds the request fields verbatim. The output depends only on req.
func BuildPrompt(req contract.AnalysisRequest) Prompt {
	return Prompt{
		System: SystemPrompt,
		User:   fmt.Sprintf(userPromptTemplate, req.JobRole, req.ExperienceLevel, req.TargetCountry, req.ResumeText),
	}
}

// Hash identifies the prompt in logs.
func (p Prompt) Hash() string {
	return util.HashText("system: " + p.System + "\n\nuser: " + p.User)
}
