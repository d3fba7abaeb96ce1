package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/recruiter-copilot/internal/ai/gemini"
	"github.com/spigell/recruiter-copilot/internal/scoring"
)

const (
	app = "recruiter-copilot"
)

type Config struct {
	Scoring            *ScoringConfig    `mapstructure:"scoring"`
	Evaluation         *EvaluationConfig `mapstructure:"evaluation"`
	Report             *ReportConfig     `mapstructure:"report"`
	Filters            *FiltersConfig    `mapstructure:"filters"`
	AI                 *AIConfig         `mapstructure:"ai"`
	JobDescriptionFile string            `mapstructure:"job-description-file"`
}

type ScoringConfig struct {
	Weights scoring.Weights `mapstructure:"weights"`
}

type EvaluationConfig struct {
	// Year overrides the current year for technology-age checks.
	Year    int `mapstructure:"year"`
	Workers int `mapstructure:"workers"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

type FiltersConfig struct {
	MinimumScore    float64 `mapstructure:"minimum-score"`
	ExcludeCritical bool    `mapstructure:"exclude-critical"`
	// ExcludeFile lists candidates that were already reviewed.
	ExcludeFile string `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recruiter-copilot scores candidates from their résumé, code-hosting and network evidence",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"evaluation.year":        "RECRUITER_COPILOT_EVALUATION_YEAR",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("evaluation.workers", 4)
	viper.SetDefault("report.dir", "reports")
	viper.SetDefault("ai.provider", gemini.ProviderName)
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruiter-copilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only evaluate reads the config. The default file is optional.
	if evaluateCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Evaluation == nil {
		config.Evaluation = &EvaluationConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
