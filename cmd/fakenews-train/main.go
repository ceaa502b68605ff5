package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mikey/fakenews-detector/internal/di"
	"github.com/mikey/fakenews-detector/internal/trainer"
	"go.uber.org/zap"
)

func main() {
	flags := &di.TrainerFlags{}
	flag.StringVar(&flags.DataDir, "data-dir", "", "Directory holding True.csv and Fake.csv")
	flag.StringVar(&flags.CSVPath, "csv", "", "Single CSV with text and label columns (overrides -data-dir)")
	flag.StringVar(&flags.ModelDir, "model-dir", "", "Directory to publish the model artifacts into")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.Parse()

	container, err := di.BuildTrainerContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, t *trainer.Trainer, source trainer.DataSource) error {
	defer logger.Sync()

	samples, err := source.Load()
	if err != nil {
		return err
	}
	logger.Info("Loaded training data", zap.Int("samples", len(samples)))

	report, err := t.Run(samples)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout)
}
