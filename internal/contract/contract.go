package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Experience levels accepted on submission.
const (
	LevelFresher     = "Fresher"
	LevelOneToThree  = "1-3 Years"
	LevelThreeToFive = "3-5 Years"
	LevelFivePlus    = "5+ Years"
)

// Target markets accepted on submission.
const (
	CountryGlobal    = "Global"
	CountryUSA       = "USA"
	CountryUK        = "UK"
	CountryEU        = "EU"
	CountryCanada    = "Canada"
	CountryAustralia = "Australia"
)

// Expected status labels. The model is free to return other text.
const (
	StatusATSFriendly      = "ATS Friendly"
	StatusNeedsImprovement = "Needs Improvement"
)

var (
	experienceLevels = []string{LevelFresher, LevelOneToThree, LevelThreeToFive, LevelFivePlus}
	targetCountries  = []string{CountryGlobal, CountryUSA, CountryUK, CountryEU, CountryCanada, CountryAustralia}
)

// ExperienceLevels returns the accepted experienceLevel values in display order.
func ExperienceLevels() []string {
	return append([]string(nil), experienceLevels...)
}

// TargetCountries returns the accepted targetCountry values in display order.
func TargetCountries() []string {
	return append([]string(nil), targetCountries...)
}

// AnalysisRequest is the payload a client submits for analysis. It is never stored as-is.
type AnalysisRequest struct {
	ResumeText      string `json:"resumeText" validate:"notblank"`
	JobRole         string `json:"jobRole" validate:"notblank,max=200"`
	ExperienceLevel string `json:"experienceLevel" validate:"experience_level"`
	TargetCountry   string `json:"targetCountry" validate:"target_country"`
}

// AnalysisResult is the assessment returned by the model provider.
type AnalysisResult struct {
	ATSScore               int      `json:"atsScore" validate:"min=0,max=100"`
	Status                 string   `json:"status" validate:"notblank"`
	TopIssues              []string `json:"topIssues" validate:"required"`
	MissingKeywords        []string `json:"missingKeywords" validate:"required"`
	FormattingProblems     []string `json:"formattingProblems" validate:"required"`
	ImprovementSuggestions []string `json:"improvementSuggestions" validate:"required"`
	FinalVerdict           string   `json:"finalVerdict" validate:"notblank"`
}

var resultKeys = []string{
	"atsScore",
	"status",
	"topIssues",
	"missingKeywords",
	"formattingProblems",
	"improvementSuggestions",
	"finalVerdict",
}

// UnmarshalJSON rejects payloads with missing or null keys so that a partially shaped
// object never decodes into zero values that would pass validation.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return typeError(err)
	}
	for _, key := range resultKeys {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return &FieldError{Field: key, Message: key + " is required"}
		}
	}

	type plain AnalysisResult
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return typeError(err)
	}
	*r = AnalysisResult(out)
	return nil
}

// AnalysisRecord is a persisted analysis. ATSScore mirrors AnalysisResult.ATSScore.
type AnalysisRecord struct {
	ID              int64          `json:"id" validate:"gt=0"`
	ResumeText      string         `json:"resumeText"`
	JobRole         string         `json:"jobRole"`
	ExperienceLevel string         `json:"experienceLevel"`
	TargetCountry   string         `json:"targetCountry"`
	ATSScore        int            `json:"atsScore" validate:"min=0,max=100"`
	AnalysisResult  AnalysisResult `json:"analysisResult"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// ErrorBody is the JSON body of every non-2xx API response.
type ErrorBody struct {
	Message string `json:"message"`
}

// FieldError reports the first field that violated the contract.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ErrScoreMismatch is returned when a record's atsScore disagrees with its result.
var ErrScoreMismatch = errors.New("atsScore does not match analysisResult.atsScore")

func typeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if i := strings.IndexAny(field, ".["); i > 0 {
			field = field[:i]
		}
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a %s", field, describeKind(typeErr.Type.Kind().String())),
		}
	}
	return err
}

func describeKind(kind string) string {
	switch kind {
	case "int", "int64":
		return "whole number"
	case "slice":
		return "list of strings"
	default:
		return kind
	}
}
