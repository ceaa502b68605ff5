package factory

import (
	"github.com/mikey/fakenews-detector/internal/artifact"
	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/detector"
	"github.com/mikey/fakenews-detector/internal/pipeline"
	"github.com/mikey/fakenews-detector/internal/trainer"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"go.uber.org/zap"
)

// ModelFactory creates the artifact store, the detector and the trainer
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// PipelineConfig maps the pipeline.* keys onto the algorithm configuration
func (f *ModelFactory) PipelineConfig() pipeline.Config {
	p := f.cfg.GetPipeline()
	return pipeline.Config{
		Vectorizer: vectorizer.Config{
			MaxFeatures: p.MaxFeatures,
			NGramMin:    p.NGramMin,
			NGramMax:    p.NGramMax,
		},
		Classifier: classifier.Config{
			C:            p.C,
			LearningRate: p.LearningRate,
			MaxIter:      p.MaxIter,
			Tolerance:    p.Tolerance,
		},
	}
}

// CreateStore creates the artifact store rooted at model.dir
func (f *ModelFactory) CreateStore() *artifact.Store {
	modelCfg := f.cfg.GetModel()
	return artifact.NewStore(modelCfg.Dir, modelCfg.KeepReleases, f.logger.Named("artifact"))
}

// CreateDetector loads the published pair or bootstraps the demo model
func (f *ModelFactory) CreateDetector() (*detector.Detector, error) {
	d, err := detector.New(f.CreateStore(), f.PipelineConfig(), f.cfg.GetModel().Strict, f.logger.Named("detector"))
	if err != nil {
		return nil, err
	}

	info := d.Info()
	f.logger.Info("Model ready",
		zap.String("mode", info.Mode),
		zap.String("pair_id", info.PairID),
		zap.Int("dimension", info.Dimension))
	return d, nil
}

// CreateTrainer creates a trainer publishing into the artifact store
func (f *ModelFactory) CreateTrainer() *trainer.Trainer {
	t := f.cfg.GetTrainer()
	return trainer.NewTrainer(f.CreateStore(), trainer.Config{
		Pipeline:  f.PipelineConfig(),
		MinWords:  t.MinWords,
		TestRatio: t.TestRatio,
		Seed:      t.Seed,
		TopTerms:  t.TopTerms,
	}, f.logger.Named("trainer"))
}

// DataSource returns the configured training data location. A CSV path takes
// precedence over the True.csv/Fake.csv directory layout.
func (f *ModelFactory) DataSource() trainer.DataSource {
	t := f.cfg.GetTrainer()
	if t.CSVPath != "" {
		return trainer.DataSource{
			CSVPath:     t.CSVPath,
			TextColumn:  t.TextColumn,
			LabelColumn: t.LabelColumn,
		}
	}
	ds := trainer.DirSource(t.DataDir)
	ds.TextColumn = t.TextColumn
	return ds
}
