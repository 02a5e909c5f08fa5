package reporter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-api-tester/internal/config"
	"ai-api-tester/internal/executor"
	"ai-api-tester/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Reporter generates HTML test reports and optional email notifications
type Reporter struct {
	config config.ReportingConfig
}

// NewReporter creates a new reporter
func NewReporter(cfg config.ReportingConfig) *Reporter {
	return &Reporter{config: cfg}
}

// reportData is the template context for the HTML report
type reportData struct {
	APIName        string
	APIVersion     string
	GeneratedAt    string
	RunID          string
	TotalTests     int
	Passed         int
	Failed         int
	Skipped        int
	PassRate       string
	Duration       string
	Strategy       string
	Coverage       string
	TotalEndpoints int
	TypeCounts     map[string]int
	RiskAreas      []string
	CoverageGaps   []string
	Tests          []executor.TestOutcome
}

// GenerateReport renders the HTML report. The analysis is passed explicitly
// so the test-type breakdown always reflects the generation stage's output.
// Returns the path of the written report.
func (r *Reporter) GenerateReport(spec *types.APISpec, results *executor.Results, analysis *types.AnalysisResult, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = r.config.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	runID := uuid.New().String()[:8]
	data := reportData{
		APIName:        spec.Info.Title,
		APIVersion:     spec.Info.Version,
		GeneratedAt:    time.Now().Format("2006-01-02 15:04:05"),
		RunID:          runID,
		TotalTests:     results.TotalTests,
		Passed:         results.Passed,
		Failed:         results.Failed,
		Skipped:        results.Skipped,
		PassRate:       fmt.Sprintf("%.1f", results.PassRate),
		Duration:       fmt.Sprintf("%.2f", results.Duration),
		Strategy:       analysis.OverallStrategy,
		Coverage:       fmt.Sprintf("%.1f", analysis.CoveragePercentage),
		TotalEndpoints: analysis.TotalEndpoints,
		TypeCounts:     analysis.ScenarioCountsByType(),
		RiskAreas:      analysis.RiskAreas,
		CoverageGaps:   analysis.CoverageGaps,
		Tests:          results.Tests,
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	reportPath := filepath.Join(outputDir, fmt.Sprintf("test_report_%s_%s.html",
		time.Now().Format("20060102_150405"), runID))
	if err := os.WriteFile(reportPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().Str("path", reportPath).Msg("Report generated")
	return reportPath, nil
}

// SendEmailReport sends a summary notification pointing at the report file.
// No-op unless email reporting is enabled in configuration.
func (r *Reporter) SendEmailReport(reportPath string, results *executor.Results) error {
	email := r.config.Email
	if !email.Enabled {
		return nil
	}
	if email.SMTPHost == "" || email.From == "" || len(email.Recipients) == 0 {
		return fmt.Errorf("email reporting enabled but smtp_host, from or recipients missing")
	}

	subject := fmt.Sprintf("API Test Report: %d/%d passed", results.Passed, results.TotalTests)
	body := fmt.Sprintf(
		"Test run complete.\r\n\r\nTotal: %d\r\nPassed: %d\r\nFailed: %d\r\nSkipped: %d\r\nDuration: %.2fs\r\n\r\nReport: %s\r\n",
		results.TotalTests, results.Passed, results.Failed, results.Skipped, results.Duration, reportPath)

	msg := strings.Join([]string{
		"From: " + email.From,
		"To: " + strings.Join(email.Recipients, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", email.SMTPHost, email.SMTPPort)
	if err := smtp.SendMail(addr, nil, email.From, email.Recipients, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email report: %w", err)
	}

	log.Info().Strs("recipients", email.Recipients).Msg("Email report sent")
	return nil
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>API Test Report - {{.APIName}}</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2em; color: #222; }
h1, h2 { color: #1a4f8b; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #f0f4fa; }
.passed { color: #1a7f37; }
.failed { color: #b42318; }
.skipped { color: #9a6700; }
.summary { display: flex; gap: 2em; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 1em 2em; }
</style>
</head>
<body>
<h1>API Test Report</h1>
<p>{{.APIName}} v{{.APIVersion}} &mdash; generated {{.GeneratedAt}} (run {{.RunID}})</p>

<h2>Summary</h2>
<div class="summary">
<div class="card">Total<br><strong>{{.TotalTests}}</strong></div>
<div class="card passed">Passed<br><strong>{{.Passed}}</strong></div>
<div class="card failed">Failed<br><strong>{{.Failed}}</strong></div>
<div class="card skipped">Skipped<br><strong>{{.Skipped}}</strong></div>
<div class="card">Pass rate<br><strong>{{.PassRate}}%</strong></div>
<div class="card">Duration<br><strong>{{.Duration}}s</strong></div>
</div>

<h2>Test Strategy</h2>
<p>{{.Strategy}}</p>
<p>Endpoint coverage: {{.Coverage}}% of {{.TotalEndpoints}} endpoints</p>

<h2>Scenario Breakdown</h2>
<table>
<tr><th>Type</th><th>Scenarios</th></tr>
{{range $type, $count := .TypeCounts}}<tr><td>{{$type}}</td><td>{{$count}}</td></tr>
{{end}}</table>

{{if .RiskAreas}}<h2>Risk Areas</h2>
<ul>{{range .RiskAreas}}<li>{{.}}</li>{{end}}</ul>{{end}}

{{if .CoverageGaps}}<h2>Coverage Gaps</h2>
<ul>{{range .CoverageGaps}}<li>{{.}}</li>{{end}}</ul>{{end}}

{{if .Tests}}<h2>Test Results</h2>
<table>
<tr><th>Test</th><th>Outcome</th><th>Duration (s)</th></tr>
{{range .Tests}}<tr><td>{{.NodeID}}</td><td class="{{.Outcome}}">{{.Outcome}}</td><td>{{printf "%.3f" .Duration}}</td></tr>
{{end}}</table>{{end}}

</body>
</html>
`
