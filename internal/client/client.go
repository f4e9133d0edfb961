package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"ats-backend/internal/contract"
)

const (
	analyzePath = "/api/analyze"

	defaultTimeout = 90 * time.Second
)

// Client talks to the analysis API and keeps the history listing in a QueryCache.
type Client struct {
	http  *resty.Client
	cache *QueryCache
}

// New builds a Client for baseURL. A nil cache disables caching.
func New(baseURL string, cache *QueryCache) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, cache: cache}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.http.SetTimeout(d)
	return c
}

// FetchHistory returns every stored analysis, newest first. A cached listing is
// returned without a request.
func (c *Client) FetchHistory(ctx context.Context) ([]contract.AnalysisRecord, error) {
	if cached, ok := c.cache.Get(HistoryKey); ok {
		if records, ok := cached.([]contract.AnalysisRecord); ok {
			return cloneRecords(records), nil
		}
	}
	version := c.cache.Version(HistoryKey)

	resp, err := c.http.R().SetContext(ctx).Get(HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchHistory, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrFetchHistory, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrFetchHistory)
	}
	var records []contract.AnalysisRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchHistory, err)
	}
	if err := contract.ValidateHistory(records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchHistory, err)
	}

	c.cache.SetIfVersion(HistoryKey, version, cloneRecords(records))
	return records, nil
}

func cloneRecords(records []contract.AnalysisRecord) []contract.AnalysisRecord {
	out := make([]contract.AnalysisRecord, len(records))
	for i, r := range records {
		res := &r.AnalysisResult
		res.TopIssues = slices.Clone(res.TopIssues)
		res.MissingKeywords = slices.Clone(res.MissingKeywords)
		res.FormattingProblems = slices.Clone(res.FormattingProblems)
		res.ImprovementSuggestions = slices.Clone(res.ImprovementSuggestions)
		out[i] = r
	}
	return out
}

// Submit validates req locally, posts it, and returns the stored record. Errors are a
// *SubmitError for validation rejections, or wrap ErrAnalysisFailed or ErrTransport.
func (c *Client) Submit(ctx context.Context, req contract.AnalysisRequest) (contract.AnalysisRecord, error) {
	if err := contract.ValidateRequest(req); err != nil {
		return contract.AnalysisRecord{}, &SubmitError{Message: err.Error()}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(analyzePath)
	if err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		msg := gjson.GetBytes(resp.Body(), "message")
		if msg.Type != gjson.String || strings.TrimSpace(msg.Str) == "" {
			return contract.AnalysisRecord{}, fmt.Errorf("%w: 400 without a message", ErrAnalysisFailed)
		}
		return contract.AnalysisRecord{}, &SubmitError{Message: msg.Str}
	case !resp.IsSuccess():
		return contract.AnalysisRecord{}, fmt.Errorf("%w: status %d", ErrAnalysisFailed, resp.StatusCode())
	}

	var record contract.AnalysisRecord
	if err := json.Unmarshal(resp.Body(), &record); err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if err := contract.ValidateRecord(record); err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	c.cache.Invalidate(HistoryKey)
	return record, nil
}
