package model

import "time"

// Config holds all tunable settings for a run
type Config struct {
	Cluster     ClusterConfig     `yaml:"cluster" mapstructure:"cluster"`
	Procedure   ProcedureConfig   `yaml:"procedure" mapstructure:"procedure"`
	Quantity    QuantityConfig    `yaml:"quantity" mapstructure:"quantity"`
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ClusterConfig controls block clustering
type ClusterConfig struct {
	YGapThreshold float64 `yaml:"y_gap_threshold" mapstructure:"y_gap_threshold"` // New block when y0 - prev_y1 exceeds this
	LabelMax      int     `yaml:"label_max" mapstructure:"label_max"`             // Block label truncation length
}

// ProcedureConfig controls step segmentation
type ProcedureConfig struct {
	YGapThreshold float64 `yaml:"y_gap_threshold" mapstructure:"y_gap_threshold"`
	MinSteps      int     `yaml:"min_steps" mapstructure:"min_steps"`
}

// QuantityConfig controls quantity normalization
type QuantityConfig struct {
	Discover bool `yaml:"discover" mapstructure:"discover"` // Scan span text for number-unit pairs
}

// GraphConfig controls output IRIs and serialization
type GraphConfig struct {
	DAAnalysisURI string `yaml:"da_analysis_uri" mapstructure:"da_analysis_uri"`
	MeaningRunURI string `yaml:"meaning_run_uri" mapstructure:"meaning_run_uri"`
	PGNamespace   string `yaml:"pg_namespace" mapstructure:"pg_namespace"` // Used when the input does not name one
	Format        string `yaml:"format" mapstructure:"format"`             // turtle, ntriples, json
}

// ValidationConfig controls conformance checking
type ValidationConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	DAShapes      string `yaml:"da_shapes" mapstructure:"da_shapes"`           // Empty = built-in shapes
	MeaningShapes string `yaml:"meaning_shapes" mapstructure:"meaning_shapes"` // Empty = built-in shapes
}

// CacheConfig controls the output cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

const (
	DefaultBlockGap     = 20.0
	DefaultProcedureGap = 40.0
	DefaultLabelMax     = 80
	DefaultMinSteps     = 2

	DefaultDAAnalysisURI = "http://example.org/layergraph/da/analysis/main"
	DefaultMeaningRunURI = "http://example.org/layergraph/meaning/run/main"
	DefaultPGNamespace   = "http://example.org/layergraph/pg#"
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			YGapThreshold: DefaultBlockGap,
			LabelMax:      DefaultLabelMax,
		},
		Procedure: ProcedureConfig{
			YGapThreshold: DefaultProcedureGap,
			MinSteps:      DefaultMinSteps,
		},
		Graph: GraphConfig{
			DAAnalysisURI: DefaultDAAnalysisURI,
			MeaningRunURI: DefaultMeaningRunURI,
			PGNamespace:   DefaultPGNamespace,
			Format:        "turtle",
		},
		Validation: ValidationConfig{
			Enabled: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".layergraph-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
