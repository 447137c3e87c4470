// Command ga-runner loads a timetabling Snapshot from a JSON file, runs
// the genetic algorithm engine end to end, and writes the best
// chromosome found to an output JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/k0kubun/pp"
	"go.uber.org/zap"

	"github.com/coursetable/ga-engine/internal/config"
	"github.com/coursetable/ga-engine/internal/domain"
	"github.com/coursetable/ga-engine/internal/ga"
	"github.com/coursetable/ga-engine/internal/logging"
	"github.com/coursetable/ga-engine/internal/metrics"
)

func main() {
	debug := flag.Bool("debug", false, "pretty-print the loaded snapshot and the result")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	if err := run(cfg, logger, *debug); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, debug bool) error {
	snapshot, err := loadSnapshot(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if debug {
		pp.Println(snapshot)
	}

	idx, err := domain.NewInputData(snapshot)
	if err != nil {
		return fmt.Errorf("build input index: %w", err)
	}

	recorder := metrics.New()
	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, recorder, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineCfg := cfg.ToEngineConfig()

	onProgress := func(stats ga.GenerationStats) ga.ProgressSignal {
		recorder.Observe(stats)
		logger.Info("generation",
			zap.Int("generation", stats.Generation),
			zap.Float64("best_fitness", stats.BestFitness),
			zap.Bool("feasible", stats.IsFeasible),
		)
		select {
		case <-ctx.Done():
			return ga.ProgressSignal{Cancel: true}
		default:
			return ga.ProgressSignal{}
		}
	}

	var result ga.GAResult
	if engineCfg.MultiThread.NumIslands > 1 {
		runner, err := ga.NewIslandRunner(idx, engineCfg, logger)
		if err != nil {
			return fmt.Errorf("build island runner: %w", err)
		}
		result, err = runner.Run(ctx, onProgress)
		if err != nil {
			return fmt.Errorf("island run: %w", err)
		}
	} else {
		driver, err := ga.NewDriver(idx, engineCfg, logger)
		if err != nil {
			return fmt.Errorf("build driver: %w", err)
		}
		result, err = driver.Run(onProgress)
		if err != nil {
			return fmt.Errorf("driver run: %w", err)
		}
		recorder.SetCacheHitRatio(driver.CacheHitRate())
	}

	recorder.ObserveRun(result.TotalTime.Seconds())
	logger.Info("run complete",
		zap.Float64("best_fitness", result.BestFitness.Fitness),
		zap.Bool("feasible", result.BestFitness.IsFeasible),
		zap.Duration("total_time", result.TotalTime),
		zap.Bool("cancelled", result.Cancelled),
	)

	if debug {
		pp.Println(result)
	}

	if cfg.OutputPath == "" {
		return nil
	}
	return writeResult(cfg.OutputPath, result)
}

func loadSnapshot(path string) (domain.Snapshot, error) {
	if path == "" {
		return domain.Snapshot{}, fmt.Errorf("GA_INPUT_PATH is not set")
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer f.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func writeResult(path string, result ga.GAResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serveMetrics(addr string, recorder *metrics.Recorder, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
