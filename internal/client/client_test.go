package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ats-backend/internal/contract"
)

func sampleRecord(id int64) contract.AnalysisRecord {
	return contract.AnalysisRecord{
		ID:              id,
		ResumeText:      "resume",
		JobRole:         "Backend Engineer",
		ExperienceLevel: contract.LevelOneToThree,
		TargetCountry:   contract.CountryEU,
		ATSScore:        70,
		AnalysisResult: contract.AnalysisResult{
			ATSScore:               70,
			Status:                 contract.StatusNeedsImprovement,
			TopIssues:              []string{"No summary"},
			MissingKeywords:        []string{},
			FormattingProblems:     []string{},
			ImprovementSuggestions: []string{"Add a summary"},
			FinalVerdict:           "MAYBE",
		},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func validRequest() contract.AnalysisRequest {
	return contract.AnalysisRequest{
		ResumeText:      "resume",
		JobRole:         "Backend Engineer",
		ExperienceLevel: contract.LevelOneToThree,
		TargetCountry:   contract.CountryEU,
	}
}

type fakeAPI struct {
	historyCalls atomic.Int32
	submitCalls  atomic.Int32
	history      func(w http.ResponseWriter)
	submit       func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		f.historyCalls.Add(1)
		f.history(w)
	})
	mux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		f.submitCalls.Add(1)
		f.submit(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchHistoryCachesUntilSubmit(t *testing.T) {
	api := &fakeAPI{
		history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, []contract.AnalysisRecord{sampleRecord(2), sampleRecord(1)})
		},
		submit: func(w http.ResponseWriter, r *http.Request) {
			var req contract.AnalysisRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode submit body: %v", err)
			}
			if req.JobRole != "Backend Engineer" {
				t.Errorf("unexpected jobRole %q", req.JobRole)
			}
			writeJSON(w, http.StatusOK, sampleRecord(3))
		},
	}
	srv := api.server(t)
	cache := NewQueryCache()
	c := New(srv.URL, cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		records, err := c.FetchHistory(ctx)
		if err != nil {
			t.Fatalf("FetchHistory: %v", err)
		}
		if len(records) != 2 || records[0].ID != 2 {
			t.Fatalf("unexpected records: %+v", records)
		}
	}
	if api.historyCalls.Load() != 1 {
		t.Fatalf("expected one history request, got %d", api.historyCalls.Load())
	}

	record, err := c.Submit(ctx, validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.ID != 3 {
		t.Fatalf("unexpected record %+v", record)
	}
	if _, ok := cache.Get(HistoryKey); ok {
		t.Fatalf("expected history cache invalidated after submit")
	}

	if _, err := c.FetchHistory(ctx); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if api.historyCalls.Load() != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", api.historyCalls.Load())
	}
}

func TestFetchHistoryFailures(t *testing.T) {
	tests := []struct {
		name    string
		history func(w http.ResponseWriter)
	}{
		{name: "server error", history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusInternalServerError, contract.ErrorBody{Message: "Failed to fetch history"})
		}},
		{name: "null body", history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, nil)
		}},
		{name: "object body", history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		}},
		{name: "score mismatch", history: func(w http.ResponseWriter) {
			bad := sampleRecord(1)
			bad.ATSScore = 99
			writeJSON(w, http.StatusOK, []contract.AnalysisRecord{bad})
		}},
		{name: "missing result field", history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "atsScore": 10, "analysisResult": map[string]any{"atsScore": 10}}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{history: tt.history}
			cache := NewQueryCache()
			c := New(api.server(t).URL, cache)

			_, err := c.FetchHistory(context.Background())
			if !errors.Is(err, ErrFetchHistory) {
				t.Fatalf("expected ErrFetchHistory, got %v", err)
			}
			if _, ok := cache.Get(HistoryKey); ok {
				t.Fatalf("failed fetch must not populate cache")
			}
		})
	}
}

func TestFetchHistoryTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).FetchHistory(context.Background())
	if !errors.Is(err, ErrFetchHistory) {
		t.Fatalf("expected ErrFetchHistory, got %v", err)
	}
}

func TestSubmitValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	c := New(api.server(t).URL, nil)
	req := validRequest()
	req.ExperienceLevel = "Intern"

	_, err := c.Submit(context.Background(), req)
	var se *SubmitError
	if !errors.As(err, &se) || se.Message == "" {
		t.Fatalf("expected *SubmitError, got %v", err)
	}
	if api.submitCalls.Load() != 0 {
		t.Fatalf("expected no request for an invalid submission")
	}
}

func TestSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantMsg string
		wantErr error
	}{
		{name: "validation message", status: http.StatusBadRequest, body: contract.ErrorBody{Message: "jobRole is required"}, wantMsg: "jobRole is required"},
		{name: "400 without message", status: http.StatusBadRequest, body: map[string]int{"message": 5}, wantMsg: GenericFailureMessage, wantErr: ErrAnalysisFailed},
		{name: "server error", status: http.StatusInternalServerError, body: contract.ErrorBody{Message: "Failed to analyze resume"}, wantMsg: GenericFailureMessage, wantErr: ErrAnalysisFailed},
		{name: "bad gateway", status: http.StatusBadGateway, body: "upstream", wantMsg: GenericFailureMessage, wantErr: ErrAnalysisFailed},
		{name: "malformed success", status: http.StatusOK, body: map[string]any{"id": 1}, wantMsg: GenericFailureMessage, wantErr: ErrAnalysisFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{submit: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}}
			cache := NewQueryCache()
			cache.Set(HistoryKey, []contract.AnalysisRecord{sampleRecord(1)})
			c := New(api.server(t).URL, cache)

			_, err := c.Submit(context.Background(), validRequest())
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := UserMessage(err); got != tt.wantMsg {
				t.Fatalf("expected user message %q, got %q", tt.wantMsg, got)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if _, ok := cache.Get(HistoryKey); !ok {
				t.Fatalf("failed submit must not invalidate history")
			}
		})
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Submit(context.Background(), validRequest())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if UserMessage(err) != GenericFailureMessage {
		t.Fatalf("unexpected user message %q", UserMessage(err))
	}
}

func TestSubmitDuringHistoryFetchDoesNotLeaveStaleCache(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var served atomic.Int32
	api := &fakeAPI{
		history: func(w http.ResponseWriter) {
			if served.Add(1) == 1 {
				close(entered)
				<-release
				writeJSON(w, http.StatusOK, []contract.AnalysisRecord{sampleRecord(1)})
				return
			}
			writeJSON(w, http.StatusOK, []contract.AnalysisRecord{sampleRecord(2), sampleRecord(1)})
		},
		submit: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, sampleRecord(2))
		},
	}
	srv := api.server(t)
	c := New(srv.URL, NewQueryCache())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.FetchHistory(ctx)
		done <- err
	}()
	<-entered

	if _, err := c.Submit(ctx, validRequest()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("in-flight FetchHistory: %v", err)
	}

	records, err := c.FetchHistory(ctx)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(records) != 2 || records[0].ID != 2 {
		t.Fatalf("expected history to include the submitted record, got %+v", records)
	}
	if api.historyCalls.Load() != 2 {
		t.Fatalf("expected a second history request, got %d", api.historyCalls.Load())
	}
}

func TestFetchHistoryReturnsIndependentCopies(t *testing.T) {
	api := &fakeAPI{
		history: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, []contract.AnalysisRecord{sampleRecord(1)})
		},
	}
	srv := api.server(t)
	c := New(srv.URL, NewQueryCache())
	ctx := context.Background()

	first, err := c.FetchHistory(ctx)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	first[0].AnalysisResult.TopIssues[0] = "changed"

	second, err := c.FetchHistory(ctx)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	second[0].AnalysisResult.ImprovementSuggestions[0] = "changed"

	third, err := c.FetchHistory(ctx)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if third[0].AnalysisResult.TopIssues[0] != "No summary" || third[0].AnalysisResult.ImprovementSuggestions[0] != "Add a summary" {
		t.Fatalf("cached history was mutated through a returned record: %+v", third[0].AnalysisResult)
	}
	if api.historyCalls.Load() != 1 {
		t.Fatalf("expected one history request, got %d", api.historyCalls.Load())
	}
}

func TestQueryCacheSetIfVersion(t *testing.T) {
	cache := NewQueryCache()
	v := cache.Version(HistoryKey)
	cache.Invalidate(HistoryKey)
	if cache.SetIfVersion(HistoryKey, v, "stale") {
		t.Fatalf("expected stale version to be refused")
	}
	if _, ok := cache.Get(HistoryKey); ok {
		t.Fatalf("expected no entry after refused set")
	}
	if !cache.SetIfVersion(HistoryKey, cache.Version(HistoryKey), "fresh") {
		t.Fatalf("expected current version to be stored")
	}
	if got, _ := cache.Get(HistoryKey); got != "fresh" {
		t.Fatalf("unexpected entry %v", got)
	}

	var nilCache *QueryCache
	if nilCache.SetIfVersion(HistoryKey, 0, "x") || nilCache.Version(HistoryKey) != 0 {
		t.Fatalf("nil cache must store nothing")
	}
}
