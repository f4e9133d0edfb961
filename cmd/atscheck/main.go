package main

// Submit a resume file to a running API and print the assessment:
//   go run ./cmd/atscheck submit -resume cv.pdf -role "Backend Engineer" -level "1-3 Years" -country USA
//   go run ./cmd/atscheck history

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ats-backend/internal/client"
	"ats-backend/internal/contract"
	"ats-backend/internal/extract"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "submit":
		runSubmit(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	_, _ = fmt.Fprintln(os.Stderr, "usage: atscheck <submit|history> [flags]")
}

func runSubmit(args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	resumePath := fs.String("resume", "", "Path to resume file (pdf, docx or txt)")
	role := fs.String("role", "", "Target job role")
	level := fs.String("level", contract.LevelFresher, "Experience level: "+strings.Join(contract.ExperienceLevels(), ", "))
	country := fs.String("country", contract.CountryGlobal, "Target country: "+strings.Join(contract.TargetCountries(), ", "))
	apiURL := fs.String("api", apiURLFromEnv(), "API base URL")
	asJSON := fs.Bool("json", false, "Print the raw record as JSON")
	timeout := fs.Duration("timeout", 90*time.Second, "Request timeout")
	_ = fs.Parse(args)

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	resumeText, err := extract.ExtractFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}

	c := client.New(*apiURL, nil).SetTimeout(*timeout)
	record, err := c.Submit(context.Background(), contract.AnalysisRequest{
		ResumeText:      resumeText,
		JobRole:         *role,
		ExperienceLevel: *level,
		TargetCountry:   *country,
	})
	if err != nil {
		exitErr(client.UserMessage(err))
	}

	if *asJSON {
		printJSON(os.Stdout, record)
		return
	}
	printRecord(os.Stdout, record)
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	apiURL := fs.String("api", apiURLFromEnv(), "API base URL")
	asJSON := fs.Bool("json", false, "Print the raw listing as JSON")
	_ = fs.Parse(args)

	records, err := client.New(*apiURL, nil).FetchHistory(context.Background())
	if err != nil {
		exitErr(err.Error())
	}
	if *asJSON {
		printJSON(os.Stdout, records)
		return
	}
	printHistory(os.Stdout, records)
}

func apiURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("ATS_API_URL")); v != "" {
		return v
	}
	return defaultAPIURL
}

func printRecord(w io.Writer, record contract.AnalysisRecord) {
	r := record.AnalysisResult
	fmt.Fprintf(w, "ATS score: %d/100\n", r.ATSScore)
	fmt.Fprintf(w, "Status:    %s\n", r.Status)
	fmt.Fprintf(w, "Role:      %s (%s, %s)\n", record.JobRole, record.ExperienceLevel, record.TargetCountry)

	printList(w, "Top issues", r.TopIssues, false)
	printList(w, "Missing keywords", r.MissingKeywords, false)
	printList(w, "Formatting problems", r.FormattingProblems, false)
	printList(w, "Improvement suggestions", r.ImprovementSuggestions, true)

	fmt.Fprintf(w, "\nFinal verdict:\n%s\n", r.FinalVerdict)
}

func printList(w io.Writer, title string, items []string, numbered bool) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, item := range items {
		if numbered {
			fmt.Fprintf(w, "  %d. %s\n", i+1, item)
			continue
		}
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func printHistory(w io.Writer, records []contract.AnalysisRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No analyses yet.")
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "#%d  %3d  %-18s  %s  %s\n",
			r.ID, r.ATSScore, r.AnalysisResult.Status, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.JobRole)
	}
}

func printJSON(w io.Writer, v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	_, _ = w.Write(append(pretty, '\n'))
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
