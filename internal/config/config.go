package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/osland/kerneldeps/internal/depgraph"
	"github.com/osland/kerneldeps/internal/depviz"
	"github.com/osland/kerneldeps/internal/gate"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig  `mapstructure:"analysis"`
	Insight  InsightConfig   `mapstructure:"insight"`
	Gates    gate.GateConfig `mapstructure:"gates"`
	Graph    GraphConfig     `mapstructure:"graph"`
	Vector   VectorConfig    `mapstructure:"vector"`
	Tracing  TracingConfig   `mapstructure:"tracing"`
	Audit    AuditConfig     `mapstructure:"audit"`
	Log      LogConfig       `mapstructure:"log"`
}

// AnalysisConfig selects which base analyses run.
type AnalysisConfig struct {
	DetectCycles      bool `mapstructure:"detect_cycles"`
	SortTopologically bool `mapstructure:"sort_topologically"`
	CheckMissing      bool `mapstructure:"check_missing"`
}

// Options converts the section into analyzer options.
func (c AnalysisConfig) Options() depgraph.Options {
	return depgraph.Options{
		DetectCycles:      c.DetectCycles,
		SortTopologically: c.SortTopologically,
		CheckMissing:      c.CheckMissing,
	}
}

// InsightConfig tunes the insight analysis.
type InsightConfig struct {
	MaxStrength    float64 `mapstructure:"max_strength"`
	MinVisibility  float64 `mapstructure:"min_visibility"`
	DetectClusters bool    `mapstructure:"detect_clusters"`
	DetectCycles   bool    `mapstructure:"detect_cycles"`
}

// Options converts the section into insight analyzer options.
func (c InsightConfig) Options() depviz.Options {
	return depviz.Options{
		MaxStrength:    c.MaxStrength,
		MinVisibility:  c.MinVisibility,
		DetectClusters: c.DetectClusters,
		DetectCycles:   c.DetectCycles,
	}
}

// GraphConfig holds the Neo4j connection settings.
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// VectorConfig holds the Qdrant connection settings.
type VectorConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
}

// TracingConfig holds the OpenTelemetry export settings.
type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// AuditConfig holds the audit trail settings.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			DetectCycles:      true,
			SortTopologically: true,
			CheckMissing:      true,
		},
		Insight: InsightConfig{
			MaxStrength:    depviz.DefaultMaxStrength,
			MinVisibility:  depviz.DefaultMinVisibility,
			DetectClusters: true,
			DetectCycles:   true,
		},
		Gates: *gate.DefaultConfig(),
		Graph: GraphConfig{
			Username: "neo4j",
		},
		Vector: VectorConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "kerneldeps",
		},
		Tracing: TracingConfig{
			SampleRate: 1.0,
		},
		Audit: AuditConfig{
			Path: "kerneldeps-audit.jsonl",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Insight.MaxStrength < 0 {
		warnings = append(warnings, fmt.Sprintf("insight max_strength %.2f is negative", c.Insight.MaxStrength))
	}
	if c.Insight.MinVisibility < 0 {
		warnings = append(warnings, fmt.Sprintf("insight min_visibility %.2f is negative", c.Insight.MinVisibility))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside range [0.0, 1.0]", c.Tracing.SampleRate))
	}

	if c.Vector.Port < 0 || c.Vector.Port > 65535 {
		warnings = append(warnings, fmt.Sprintf("vector port %d is not a valid port number", c.Vector.Port))
	}

	if c.Graph.URI != "" && c.Graph.Password == "" {
		warnings = append(warnings, fmt.Sprintf("graph uri '%s' is configured but password is empty", c.Graph.URI))
	}

	return warnings
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("KERNELDEPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return cfg, nil
}
