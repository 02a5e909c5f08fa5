package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"ai-api-tester/internal/config"
	"ai-api-tester/internal/types"

	"github.com/rs/zerolog/log"
)

// Generator compiles an analysis into runnable test modules on disk
type Generator struct {
	outputDir string
	renderer  Renderer
}

// NewGenerator creates a generator writing pytest modules to the configured
// output directory
func NewGenerator(cfg config.TestingConfig) *Generator {
	return &Generator{
		outputDir: cfg.OutputDirectory,
		renderer:  PythonRenderer{},
	}
}

// OutputDir returns the directory the generator writes to
func (g *Generator) OutputDir() string {
	return g.outputDir
}

// GenerateTests deterministically compiles the analysis into one test module
// per endpoint group plus the shared fixture module. Previously generated
// modules matching the renderer's naming convention are removed first so
// stale tests from earlier runs cannot accumulate. The returned paths start
// with the fixture module.
func (g *Generator) GenerateTests(spec *types.APISpec, analysis *types.AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := g.removeStaleModules(); err != nil {
		return nil, err
	}

	groups := GroupByEndpoint(analysis.TestScenarios)
	plan := BuildPlan(spec, groups)

	log.Info().
		Int("endpoints", groups.Len()).
		Int("scenarios", len(analysis.TestScenarios)).
		Msg("Generating test modules")
	for _, key := range groups.Keys() {
		log.Debug().Str("endpoint", key).Int("scenarios", len(groups.Get(key))).Msg("Endpoint group")
	}

	paths := make([]string, 0, len(plan.Modules)+1)

	fixturePath := filepath.Join(g.outputDir, g.renderer.FixtureFileName())
	if err := os.WriteFile(fixturePath, []byte(g.renderer.RenderFixture(plan.Fixture)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write fixture module: %w", err)
	}
	paths = append(paths, fixturePath)

	for _, module := range plan.Modules {
		modulePath := filepath.Join(g.outputDir, g.renderer.ModuleFileName(module))
		if err := os.WriteFile(modulePath, []byte(g.renderer.RenderModule(module)), 0644); err != nil {
			return nil, fmt.Errorf("failed to write test module for %s: %w", module.Endpoint, err)
		}
		log.Debug().Str("file", modulePath).Msg("Generated test module")
		paths = append(paths, modulePath)
	}

	log.Info().Int("files", len(paths)).Msg("Test generation complete")
	return paths, nil
}

// removeStaleModules deletes previously generated test modules
func (g *Generator) removeStaleModules() error {
	stale, err := filepath.Glob(filepath.Join(g.outputDir, g.renderer.StalePattern()))
	if err != nil {
		return fmt.Errorf("failed to scan for stale test modules: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale test module %s: %w", path, err)
		}
		log.Debug().Str("file", path).Msg("Removed stale test module")
	}
	return nil
}
