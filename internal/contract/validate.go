package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "experience_level", func(fl validator.FieldLevel) bool {
		return slices.Contains(experienceLevels, fl.Field().String())
	})
	mustRegister(v, "target_country", func(fl validator.FieldLevel) bool {
		return slices.Contains(targetCountries, fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("contract: register %s: %v", tag, err))
	}
}

// ValidateRequest checks an inbound submission and returns a *FieldError for the first
// violated field.
func ValidateRequest(req AnalysisRequest) error {
	return firstViolation(validate.Struct(req))
}

// ValidateResult checks a decoded model result.
func ValidateResult(result AnalysisResult) error {
	return firstViolation(validate.Struct(result))
}

// DecodeResult decodes model output and validates it against the result contract.
func DecodeResult(data []byte) (AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return AnalysisResult{}, err
	}
	if err := ValidateResult(result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// ValidateRecord checks a single record as returned by the API.
func ValidateRecord(record AnalysisRecord) error {
	if err := firstViolation(validate.Struct(record)); err != nil {
		return err
	}
	if record.ATSScore != record.AnalysisResult.ATSScore {
		return ErrScoreMismatch
	}
	return nil
}

// ValidateHistory checks every record of a history listing.
func ValidateHistory(records []AnalysisRecord) error {
	for i, record := range records {
		if err := ValidateRecord(record); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return nil
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fieldPath(fe)
	return &FieldError{Field: field, Message: describe(field, fe)}
}

// fieldPath drops the root struct name from the namespace: "AnalysisRecord.analysisResult.status"
// becomes "analysisResult.status".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be between 0 and %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be between %s and 100", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "experience_level":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(experienceLevels, ", "))
	case "target_country":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(targetCountries, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
