package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ai-api-tester/internal/config"
	"ai-api-tester/internal/executor"
	"ai-api-tester/internal/generator"
	"ai-api-tester/internal/llm"
	"ai-api-tester/internal/logger"
	"ai-api-tester/internal/parser"
	"ai-api-tester/internal/reporter"

	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	specSource := flag.String("spec", "", "OpenAPI spec URL or local file path (required)")
	configPath := flag.String("config", "config.yaml", "Configuration file path")
	generateOnly := flag.Bool("generate-only", false, "Only generate tests, do not execute")
	outputDir := flag.String("output-dir", "reports", "Output directory for reports")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	if *specSource == "" {
		fmt.Fprintln(os.Stderr, "Error: -spec is required")
		flag.Usage()
		return 1
	}

	logFile, err := logger.Setup("logs", *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer logFile.Close()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	log.Info().Str("path", *configPath).Msg("Configuration loaded")

	specParser := parser.NewSpecParser(*specSource)
	spec, err := specParser.Parse()
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse OpenAPI specification")
		return 1
	}

	analyzer, err := llm.NewAnalyzer(cfg.AI)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize AI analyzer")
		return 1
	}

	analysis, err := analyzer.AnalyzeSpec(context.Background(), spec)
	if err != nil {
		log.Error().Err(err).Msg("AI analysis failed")
		return 1
	}

	testGenerator := generator.NewGenerator(cfg.Testing)
	testFiles, err := testGenerator.GenerateTests(spec, analysis)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate tests")
		return 1
	}
	log.Info().Int("files", len(testFiles)).Str("dir", testGenerator.OutputDir()).Msg("Generated test files")

	if *generateOnly {
		log.Info().Msg("Test generation complete (-generate-only flag set)")
		return 0
	}

	testExecutor := executor.NewTestExecutor(cfg.Execution)
	results, err := testExecutor.RunTests(context.Background(), testFiles)
	if err != nil {
		log.Error().Err(err).Msg("Test execution failed")
		return 1
	}

	testReporter := reporter.NewReporter(cfg.Reporting)
	reportPath, err := testReporter.GenerateReport(spec, results, analysis, *outputDir)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate report")
		return 1
	}

	if cfg.Reporting.Email.Enabled {
		if err := testReporter.SendEmailReport(reportPath, results); err != nil {
			log.Error().Err(err).Msg("Failed to send email report")
		}
	}

	printSummary(results, reportPath)

	if results.Failed > 0 {
		return 1
	}
	return 0
}

func printSummary(results *executor.Results, reportPath string) {
	fmt.Println()
	fmt.Println("======================================================================")
	fmt.Println("TEST EXECUTION COMPLETE")
	fmt.Println("======================================================================")
	fmt.Printf("Total Tests:     %d\n", results.TotalTests)
	fmt.Printf("Passed:          %d (%.1f%%)\n", results.Passed, results.PassRate)
	fmt.Printf("Failed:          %d\n", results.Failed)
	fmt.Printf("Skipped:         %d\n", results.Skipped)
	fmt.Printf("Duration:        %.2fs\n", results.Duration)
	fmt.Printf("\nReport:          %s\n", reportPath)
	fmt.Println("======================================================================")
}
