package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	AI        AIConfig        `yaml:"ai"`
	API       APIConfig       `yaml:"api"`
	Testing   TestingConfig   `yaml:"testing"`
	Execution ExecutionConfig `yaml:"execution"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// AIConfig holds configuration for the generative backend
type AIConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	// Temperature is a pointer so an explicit 0 can be told apart from an
	// absent key during validation.
	Temperature      *float64 `yaml:"temperature"`
	MaxTokens        int      `yaml:"max_tokens"`
	TimeoutSeconds   int      `yaml:"timeout"`
	TestsPerEndpoint int      `yaml:"tests_per_endpoint"`
}

// TemperatureValue returns the configured sampling temperature, or 0 when
// the field was never set.
func (c AIConfig) TemperatureValue() float64 {
	if c.Temperature == nil {
		return 0
	}
	return *c.Temperature
}

// APIConfig holds configuration for the API under test
type APIConfig struct {
	BaseURL string     `yaml:"base_url"`
	Auth    AuthConfig `yaml:"auth"`
}

// AuthConfig holds authentication configuration for the API under test
type AuthConfig struct {
	Type  string `yaml:"type"`
	Token string `yaml:"token"`
}

// TestingConfig holds test generation configuration
type TestingConfig struct {
	OutputDirectory string `yaml:"output_directory"`
}

// ExecutionConfig holds test execution configuration
type ExecutionConfig struct {
	TestTimeout int `yaml:"test_timeout"`
}

// ReportingConfig holds reporting configuration
type ReportingConfig struct {
	OutputDir string      `yaml:"output_dir"`
	Email     EmailConfig `yaml:"email"`
}

// EmailConfig holds email notification configuration
type EmailConfig struct {
	Enabled    bool     `yaml:"enabled"`
	SMTPHost   string   `yaml:"smtp_host"`
	SMTPPort   int      `yaml:"smtp_port"`
	From       string   `yaml:"from"`
	Recipients []string `yaml:"recipients"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig loads the configuration from a YAML file, substituting
// ${ENV_VAR} references before parsing, and validates it eagerly so that
// misconfiguration fails before any generation attempt.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	text := substituteEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(text), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// substituteEnvVars replaces ${VAR} patterns with environment variable
// values. Unset variables are left as-is.
func substituteEnvVars(text string) string {
	return envVarPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

func applyDefaults(config *Config) {
	if config.AI.TestsPerEndpoint == 0 {
		config.AI.TestsPerEndpoint = 4
	}
	if config.AI.TimeoutSeconds == 0 {
		config.AI.TimeoutSeconds = 120
	}
	if config.Testing.OutputDirectory == "" {
		config.Testing.OutputDirectory = "generated_tests"
	}
	if config.Execution.TestTimeout == 0 {
		config.Execution.TestTimeout = 300
	}
	if config.Reporting.OutputDir == "" {
		config.Reporting.OutputDir = "reports"
	}
}

// Validate checks that required fields are present and consistent.
// All violations are reported as *ConfigurationError.
func (c *Config) Validate() error {
	var missing []string
	if c.AI.Provider == "" {
		missing = append(missing, "ai.provider")
	}
	if c.AI.Model == "" {
		missing = append(missing, "ai.model")
	}
	if c.AI.APIKeyEnv == "" {
		missing = append(missing, "ai.api_key_env")
	}
	if c.AI.Temperature == nil {
		missing = append(missing, "ai.temperature")
	}
	if c.AI.MaxTokens == 0 {
		missing = append(missing, "ai.max_tokens")
	}
	if len(missing) > 0 {
		return &ConfigurationError{
			Message: fmt.Sprintf("missing required AI config fields: %s", strings.Join(missing, ", ")),
		}
	}

	if c.AI.TestsPerEndpoint < 1 {
		return &ConfigurationError{
			Message: fmt.Sprintf("ai.tests_per_endpoint must be >= 1, got %d", c.AI.TestsPerEndpoint),
		}
	}

	if os.Getenv(c.AI.APIKeyEnv) == "" {
		return &ConfigurationError{
			Message: fmt.Sprintf("required environment variable not set: %s", c.AI.APIKeyEnv),
		}
	}

	return nil
}

// ConfigurationError indicates invalid or incomplete configuration
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}
