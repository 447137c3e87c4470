// Package config loads ga-runner's process configuration from the
// environment (and an optional .env file), the same way the rest of the
// ambient stack does.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/coursetable/ga-engine/internal/ga"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full set of process-level options for cmd/ga-runner.
type Config struct {
	Env string

	Log LogConfig

	InputPath  string
	OutputPath string

	Engine GAConfig

	Metrics MetricsConfig
}

// LogConfig controls zap's encoding/level.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig controls the optional Prometheus exporter.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// GAConfig mirrors ga.GAConfig's fields as plain env-loadable values; Load
// converts it into a ga.GAConfig via ToEngineConfig.
type GAConfig struct {
	PopulationSize         int
	EliteCount             int
	HeuristicInitRatio     float64
	CrossoverProbability   float64
	MutationProbability    float64
	SwapMutationRatio      float64
	TournamentSize         int
	MaxGenerations         int
	MaxStagnantGenerations int
	TargetFitness          float64
	MaxExecutionTime       time.Duration
	EnableRepair           bool
	StopOnFeasible         bool
	RandomSeed             *int64

	NumIslands        int
	MigrationInterval int
	MigrationSize     int
	MigrationStrategy string
}

// Load reads ga-runner's configuration from the environment, applying the
// defaults set in setDefaults when a variable is absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		InputPath:  v.GetString("GA_INPUT_PATH"),
		OutputPath: v.GetString("GA_OUTPUT_PATH"),
		Metrics: MetricsConfig{
			Enabled: v.GetBool("GA_METRICS_ENABLED"),
			Addr:    v.GetString("GA_METRICS_ADDR"),
		},
		Engine: GAConfig{
			PopulationSize:         v.GetInt("GA_POPULATION_SIZE"),
			EliteCount:             v.GetInt("GA_ELITE_COUNT"),
			HeuristicInitRatio:     v.GetFloat64("GA_HEURISTIC_INIT_RATIO"),
			CrossoverProbability:   v.GetFloat64("GA_CROSSOVER_PROBABILITY"),
			MutationProbability:    v.GetFloat64("GA_MUTATION_PROBABILITY"),
			SwapMutationRatio:      v.GetFloat64("GA_SWAP_MUTATION_RATIO"),
			TournamentSize:         v.GetInt("GA_TOURNAMENT_SIZE"),
			MaxGenerations:         v.GetInt("GA_MAX_GENERATIONS"),
			MaxStagnantGenerations: v.GetInt("GA_MAX_STAGNANT_GENERATIONS"),
			TargetFitness:          v.GetFloat64("GA_TARGET_FITNESS"),
			MaxExecutionTime:       parseDuration(v.GetString("GA_MAX_EXECUTION_TIME"), 60*time.Second),
			EnableRepair:           v.GetBool("GA_ENABLE_REPAIR"),
			StopOnFeasible:         v.GetBool("GA_STOP_ON_FEASIBLE"),
			NumIslands:             v.GetInt("GA_NUM_ISLANDS"),
			MigrationInterval:      v.GetInt("GA_MIGRATION_INTERVAL"),
			MigrationSize:          v.GetInt("GA_MIGRATION_SIZE"),
			MigrationStrategy:      v.GetString("GA_MIGRATION_STRATEGY"),
		},
	}

	if seedStr := v.GetString("GA_RANDOM_SEED"); seedStr != "" {
		seed := v.GetInt64("GA_RANDOM_SEED")
		cfg.Engine.RandomSeed = &seed
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GA_INPUT_PATH", "")
	v.SetDefault("GA_OUTPUT_PATH", "")

	v.SetDefault("GA_METRICS_ENABLED", false)
	v.SetDefault("GA_METRICS_ADDR", ":9090")

	def := ga.DefaultGAConfig()
	v.SetDefault("GA_POPULATION_SIZE", def.PopulationSize)
	v.SetDefault("GA_ELITE_COUNT", def.EliteCount)
	v.SetDefault("GA_HEURISTIC_INIT_RATIO", def.HeuristicInitRatio)
	v.SetDefault("GA_CROSSOVER_PROBABILITY", def.CrossoverProbability)
	v.SetDefault("GA_MUTATION_PROBABILITY", def.MutationProbability)
	v.SetDefault("GA_SWAP_MUTATION_RATIO", def.SwapMutationRatio)
	v.SetDefault("GA_TOURNAMENT_SIZE", def.TournamentSize)
	v.SetDefault("GA_MAX_GENERATIONS", def.MaxGenerations)
	v.SetDefault("GA_MAX_STAGNANT_GENERATIONS", def.MaxStagnantGenerations)
	v.SetDefault("GA_TARGET_FITNESS", def.TargetFitness)
	v.SetDefault("GA_MAX_EXECUTION_TIME", def.MaxExecutionTime.String())
	v.SetDefault("GA_ENABLE_REPAIR", def.EnableRepair)
	v.SetDefault("GA_STOP_ON_FEASIBLE", def.StopOnFeasible)
	v.SetDefault("GA_RANDOM_SEED", "")
	v.SetDefault("GA_NUM_ISLANDS", def.MultiThread.NumIslands)
	v.SetDefault("GA_MIGRATION_INTERVAL", def.MultiThread.MigrationInterval)
	v.SetDefault("GA_MIGRATION_SIZE", def.MultiThread.MigrationSize)
	v.SetDefault("GA_MIGRATION_STRATEGY", string(def.MultiThread.MigrationStrategy))
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// ToEngineConfig converts the flat, env-loadable GAConfig into a
// ga.GAConfig, filling ConstraintWeights with the package defaults.
func (c *Config) ToEngineConfig() ga.GAConfig {
	weights := ga.DefaultConstraintWeights()
	return ga.GAConfig{
		PopulationSize:         c.Engine.PopulationSize,
		EliteCount:             c.Engine.EliteCount,
		HeuristicInitRatio:     c.Engine.HeuristicInitRatio,
		CrossoverProbability:   c.Engine.CrossoverProbability,
		MutationProbability:    c.Engine.MutationProbability,
		SwapMutationRatio:      c.Engine.SwapMutationRatio,
		TournamentSize:         c.Engine.TournamentSize,
		MaxGenerations:         c.Engine.MaxGenerations,
		MaxStagnantGenerations: c.Engine.MaxStagnantGenerations,
		TargetFitness:          c.Engine.TargetFitness,
		MaxExecutionTime:       c.Engine.MaxExecutionTime,
		EnableRepair:           c.Engine.EnableRepair,
		StopOnFeasible:         c.Engine.StopOnFeasible,
		RandomSeed:             c.Engine.RandomSeed,
		ConstraintWeights:      weights,
		MultiThread: ga.MultiThreadConfig{
			NumIslands:        c.Engine.NumIslands,
			MigrationInterval: c.Engine.MigrationInterval,
			MigrationSize:     c.Engine.MigrationSize,
			MigrationStrategy: ga.MigrationStrategy(c.Engine.MigrationStrategy),
		},
	}
}
