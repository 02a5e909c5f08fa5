package llm

import (
	"context"
	"fmt"

	"ai-api-tester/internal/config"
	"ai-api-tester/internal/types"

	"github.com/rs/zerolog/log"
)

// Analyzer drives the scenario generation stage: it compiles the prompt,
// calls the generative backend once, and normalizes the reply into an
// AnalysisResult.
type Analyzer struct {
	config   config.AIConfig
	provider Provider
}

// NewAnalyzer creates an analyzer for the configured provider. Provider and
// credential problems surface here, before any generation attempt.
func NewAnalyzer(cfg config.AIConfig) (*Analyzer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{config: cfg, provider: provider}, nil
}

// AnalyzeSpec generates the test strategy for the given spec. Transport
// failures of the backend call are returned to the caller unchanged; a
// malformed reply is absorbed by the normalizer and never causes an error.
func (a *Analyzer) AnalyzeSpec(ctx context.Context, spec *types.APISpec) (*types.AnalysisResult, error) {
	log.Info().
		Str("provider", a.provider.Name()).
		Str("model", a.config.Model).
		Msg("Starting AI analysis of API specification")

	prompt := BuildAnalysisPrompt(spec, a.config.TestsPerEndpoint)

	response, err := a.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI API call failed: %w", err)
	}

	analysis := NormalizeResponse(response, spec)

	log.Info().
		Int("scenarios", len(analysis.TestScenarios)).
		Msg("AI analysis complete")

	return analysis, nil
}
