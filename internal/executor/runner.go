package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"ai-api-tester/internal/config"

	"github.com/rs/zerolog/log"
)

// TestOutcome represents the result of a single generated test
type TestOutcome struct {
	NodeID   string  `json:"nodeid"`
	Outcome  string  `json:"outcome"`
	Duration float64 `json:"duration"`
}

// Results represents the aggregated outcome of a test run
type Results struct {
	TotalTests int           `json:"total_tests"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	PassRate   float64       `json:"pass_rate"`
	Duration   float64       `json:"duration"`
	Tests      []TestOutcome `json:"tests"`
}

// TestExecutor runs the generated pytest suite and collects results
type TestExecutor struct {
	config     config.ExecutionConfig
	resultsDir string
}

// NewTestExecutor creates a new test executor
func NewTestExecutor(cfg config.ExecutionConfig) *TestExecutor {
	return &TestExecutor{
		config:     cfg,
		resultsDir: "test_results",
	}
}

// jsonReport mirrors the pytest-json-report file structure
type jsonReport struct {
	Duration float64 `json:"duration"`
	Summary  struct {
		Total   int `json:"total"`
		Passed  int `json:"passed"`
		Failed  int `json:"failed"`
		Skipped int `json:"skipped"`
		Error   int `json:"error"`
	} `json:"summary"`
	Tests []struct {
		NodeID  string `json:"nodeid"`
		Outcome string `json:"outcome"`
		Call    struct {
			Duration float64 `json:"duration"`
		} `json:"call"`
	} `json:"tests"`
}

// RunTests executes the generated test files with pytest and parses the
// JSON report. Test failures are reported in Results, not as an error;
// an error means the suite could not be run at all.
func (e *TestExecutor) RunTests(ctx context.Context, testFiles []string) (*Results, error) {
	if err := os.MkdirAll(e.resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	reportPath := filepath.Join(e.resultsDir, "report.json")
	args := e.buildPytestArgs(testFiles, reportPath)

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(e.config.TestTimeout)*time.Second)
	defer cancel()

	log.Info().Strs("args", args).Msg("Executing test suite")
	start := time.Now()

	cmd := exec.CommandContext(runCtx, "pytest", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	runErr := cmd.Run()
	duration := time.Since(start).Seconds()

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("test execution timed out after %ds", e.config.TestTimeout)
	}
	// pytest exits 1 when tests fail; that is a result, not an execution error
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) || exitErr.ExitCode() > 1 {
			return nil, fmt.Errorf("pytest execution failed: %w", runErr)
		}
	}

	results, err := e.parseReport(reportPath, duration)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("total", results.TotalTests).
		Int("passed", results.Passed).
		Int("failed", results.Failed).
		Msg("Test execution complete")

	return results, nil
}

// buildPytestArgs assembles the pytest invocation. When all test files live
// in one directory the directory itself is passed, letting pytest discover
// conftest.py naturally.
func (e *TestExecutor) buildPytestArgs(testFiles []string, reportPath string) []string {
	args := []string{
		"-v",
		"--tb=short",
		"--json-report",
		"--json-report-file=" + reportPath,
	}

	dirs := make(map[string]struct{})
	var paths []string
	for _, file := range testFiles {
		if filepath.Base(file) == "conftest.py" {
			continue
		}
		dirs[filepath.Dir(file)] = struct{}{}
		paths = append(paths, file)
	}

	if len(dirs) == 1 {
		for dir := range dirs {
			args = append(args, dir)
		}
	} else {
		args = append(args, paths...)
	}

	return args
}

func (e *TestExecutor) parseReport(reportPath string, duration float64) (*Results, error) {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pytest report: %w", err)
	}

	var report jsonReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse pytest report: %w", err)
	}

	results := &Results{
		TotalTests: report.Summary.Total,
		Passed:     report.Summary.Passed,
		Failed:     report.Summary.Failed + report.Summary.Error,
		Skipped:    report.Summary.Skipped,
		Duration:   duration,
	}
	if report.Duration > 0 {
		results.Duration = report.Duration
	}
	if results.TotalTests > 0 {
		results.PassRate = float64(results.Passed) / float64(results.TotalTests) * 100
	}

	for _, test := range report.Tests {
		results.Tests = append(results.Tests, TestOutcome{
			NodeID:   test.NodeID,
			Outcome:  test.Outcome,
			Duration: test.Call.Duration,
		})
	}

	return results, nil
}
