package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is the release version, overridden at link time
var Version = "v0.3.0"

// ExitNonConformance is the process exit code for output that fails its shapes
const ExitNonConformance = 2

// errBatchNonConformance is returned when every batch document ran but some failed their shapes
var errBatchNonConformance = errors.New("some documents do not conform to their shapes")

var (
	cfgFile    string
	verbose    bool
	format     string
	noCache    bool
	noValidate bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "layergraph",
	Short: "layergraph - layered, evidence-grounded graphs from document text spans",
	Long: `layergraph turns page-anchored text spans into a layered knowledge graph:

  DA layer       reading-order blocks, keyword observations, normalized quantities
  Meaning layer  claims and step-by-step procedures

Every derived node points back at the span it came from, identifiers are
content hashes, and output is byte-identical across runs. Each layer is
checked against its shapes before it is reported as conforming.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var nce *validate.NonConformanceError
	if errors.As(err, &nce) || errors.Is(err, errBatchNonConformance) {
		return ExitNonConformance
	}
	return 1
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "layergraph %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.layergraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: turtle, ntriples, json")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the output cache")
	rootCmd.PersistentFlags().BoolVar(&noValidate, "no-validate", false, "skip shape validation")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("graph.format", rootCmd.PersistentFlags().Lookup("format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".layergraph"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// LAYERGRAPH_CLUSTER_Y_GAP_THRESHOLD overrides cluster.y_gap_threshold
	viper.SetEnvPrefix("LAYERGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of cfg so env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, val := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := val.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
}

// loadConfig builds the effective configuration: flags > env > file > defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if format != "" {
		cfg.Graph.Format = format
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noValidate {
		cfg.Validation.Enabled = false
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// newLogger returns the structured logger handed to library packages
func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
