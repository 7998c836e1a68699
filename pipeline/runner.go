package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/ufcpredictor/core/parallel"
	"github.com/YuminosukeSato/ufcpredictor/datasource"
	"github.com/YuminosukeSato/ufcpredictor/estimator"
	"github.com/YuminosukeSato/ufcpredictor/feature"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
	"github.com/YuminosukeSato/ufcpredictor/pkg/metrics"
	"github.com/YuminosukeSato/ufcpredictor/split"
)

//go:generate go tool mockgen -destination=mock_datasource_test.go -package=pipeline github.com/YuminosukeSato/ufcpredictor/datasource DataSource
//go:generate go tool mockgen -destination=mock_feature_test.go -package=pipeline github.com/YuminosukeSato/ufcpredictor/feature Builder
//go:generate go tool mockgen -destination=mock_split_test.go -package=pipeline github.com/YuminosukeSato/ufcpredictor/split Strategy
//go:generate go tool mockgen -destination=mock_estimator_test.go -package=pipeline github.com/YuminosukeSato/ufcpredictor/estimator Model

// Runner sequences a run. The zero configuration from NewRunner loads
// sources one at a time with a left join on the "outcome" column.
type Runner struct {
	logger   log.Logger
	metrics  *metrics.Manager
	parallel int
	outcome  string
	how      frame.JoinHow
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default is log.GetLogger().
func WithLogger(l log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records stage timings and run results on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithParallelLoads loads up to n sources concurrently. Merges still happen
// in the order the sources were given, so the table is the same as with
// sequential loads. n <= 1 means sequential.
func WithParallelLoads(n int) Option {
	return func(r *Runner) { r.parallel = n }
}

// WithOutcomeColumn sets the name of the target column.
func WithOutcomeColumn(name string) Option {
	return func(r *Runner) {
		if name != "" {
			r.outcome = name
		}
	}
}

// WithJoinHow sets how every source is joined onto the table.
func WithJoinHow(how frame.JoinHow) Option {
	return func(r *Runner) { r.how = how }
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:  log.GetLogger(),
		outcome: ColOutcome,
		how:     frame.JoinLeft,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a run with the default Runner.
func Run(ctx context.Context, inputs []BaseFightInput, sources []datasource.DataSource,
	builders []feature.Builder, strategy split.Strategy, model estimator.Model) (*TrainingResult, error) {
	return NewRunner().Run(ctx, inputs, sources, builders, strategy, model)
}

// Run seeds the table, augments it with sources in order, applies builders,
// splits, fits and predicts.
//
// Every builder's dependencies are checked before any builder runs, so a
// DependencyError for a later builder takes precedence over a Transform
// error from an earlier one. Errors from sources, builders, the strategy and
// the model are returned as they were produced.
func (r *Runner) Run(ctx context.Context, inputs []BaseFightInput, sources []datasource.DataSource,
	builders []feature.Builder, strategy split.Strategy, model estimator.Model) (res *TrainingResult, err error) {
	runID := uuid.NewString()
	logger := r.logger.With(log.RunIDKey, runID, log.ComponentKey, "pipeline")
	defer func() { r.metrics.RecordRun(err) }()

	if strategy == nil {
		return nil, errors.NewConfigurationError("pipeline", "a split strategy is required")
	}
	if model == nil {
		return nil, errors.NewConfigurationError("pipeline", "a model is required")
	}

	var table *frame.Frame
	if err := r.stage(logger, StageSeed, func() (err error) {
		table, err = BuildBaseTable(inputs)
		return err
	}); err != nil {
		return nil, err
	}
	logger.Debug("seed table built", log.SamplesKey, table.Len(), log.ColumnsKey, table.Columns())

	if err := r.stage(logger, StageAugment, func() (err error) {
		table, err = r.augment(ctx, logger, table, sources)
		return err
	}); err != nil {
		return nil, err
	}

	if err := r.stage(logger, StageFeatures, func() (err error) {
		table, err = r.applyBuilders(logger, table, sourceIDs(sources), builders)
		return err
	}); err != nil {
		return nil, err
	}
	r.metrics.SetTableShape(len(table.Columns()))

	var part split.Partition
	if err := r.stage(logger, StageSplit, func() error {
		if !table.Has(r.outcome) {
			return errors.NewMissingOutcomeColumnError(r.outcome)
		}
		y, err := table.Series(r.outcome)
		if err != nil {
			return err
		}
		X := table.Drop(r.outcome)
		part, err = strategy.Split(X, y)
		if err != nil {
			return err
		}
		return part.Validate(table.Index())
	}); err != nil {
		return nil, err
	}
	r.metrics.SetSplit(part.XTrain.Len(), part.XTest.Len())
	logger.Info("table split",
		log.TrainSamplesKey, part.XTrain.Len(),
		log.TestSamplesKey, part.XTest.Len(),
		log.FeaturesKey, len(part.XTrain.Columns()),
	)

	if err := r.stage(logger, StageFit, func() error {
		return model.Fit(part.XTrain, part.YTrain)
	}); err != nil {
		return nil, err
	}

	var output *frame.Frame
	if err := r.stage(logger, StagePredict, func() error {
		pred, err := model.Predict(part.XTest)
		if err != nil {
			return err
		}
		output, err = testOutput(pred, part.YTest)
		return err
	}); err != nil {
		return nil, err
	}

	res = &TrainingResult{
		runID:      runID,
		model:      model,
		table:      table,
		xTrain:     part.XTrain,
		xTest:      part.XTest,
		yTrain:     part.YTrain,
		yTest:      part.YTest,
		testOutput: output,
	}
	if acc, ok := res.Accuracy(); ok {
		r.metrics.SetAccuracy(acc)
		logger.Info("run finished", log.AccuracyKey, acc, log.TestSamplesKey, part.XTest.Len())
	} else {
		logger.Info("run finished", log.TestSamplesKey, part.XTest.Len())
	}
	return res, nil
}

// stage runs fn, timing it and reporting a failure under the stage name.
func (r *Runner) stage(logger log.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.metrics.ObserveStage(name, elapsed)
	if err != nil {
		r.metrics.RecordStageError(name, err)
		logger.Error("stage failed", err, log.StageKey, name, log.DurationMsKey, elapsed.Milliseconds())
		return err
	}
	logger.Debug("stage done", log.StageKey, name, log.DurationMsKey, elapsed.Milliseconds())
	return nil
}

type loaded struct {
	table *frame.Frame
	err   error
}

// augment joins every source onto table in order.
func (r *Runner) augment(ctx context.Context, logger log.Logger, table *frame.Frame,
	sources []datasource.DataSource) (*frame.Frame, error) {
	var preloaded []loaded
	if r.parallel > 1 && len(sources) > 1 {
		// Load errors are kept per source so that the error returned is the
		// one a sequential run would hit first.
		var err error
		preloaded, err = parallel.Map(ctx, len(sources), r.parallel,
			func(ctx context.Context, i int) (loaded, error) {
				t, err := sources[i].Load(ctx)
				return loaded{table: t, err: err}, nil
			})
		if err != nil {
			return nil, err
		}
	}

	for i, src := range sources {
		if err := datasource.CheckBaseKeys(src, table); err != nil {
			return nil, err
		}
		var features *frame.Frame
		if preloaded != nil {
			if preloaded[i].err != nil {
				return nil, preloaded[i].err
			}
			features = preloaded[i].table
		} else {
			var err error
			if features, err = src.Load(ctx); err != nil {
				return nil, err
			}
		}
		if features == nil {
			return nil, errors.NewValidationError("source", "load returned no table", src.ID())
		}
		r.metrics.SetSourceRows(src.ID(), features.Len())
		renamed := datasource.RenamedColumns(src, table, features)
		r.metrics.AddRenamedColumns(src.ID(), len(renamed))

		merged, err := datasource.Merge(src, table, features, r.how)
		if err != nil {
			return nil, err
		}
		table = merged
		logger.Info("data source merged",
			log.SourceIDKey, src.ID(),
			log.JoinKeysKey, src.JoinKeys(),
			log.RenamedColumnsKey, renamed,
			log.SamplesKey, features.Len(),
		)
	}
	return table, nil
}

// applyBuilders checks every builder's dependencies, then runs them in order.
func (r *Runner) applyBuilders(logger log.Logger, table *frame.Frame, available []string,
	builders []feature.Builder) (*frame.Frame, error) {
	if err := ValidateDependencies(available, builders); err != nil {
		return nil, err
	}
	index := table.Index()
	for _, b := range builders {
		out, err := b.Transform(table)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, errors.NewValidationError("builder", "transform returned no table", b.ID())
		}
		if out.Len() != table.Len() || !sameIndex(out.Index(), index) {
			return nil, errors.NewValidationError("builder", "transform must not add, drop or reorder rows", b.ID())
		}
		table = out
		r.metrics.RecordBuilder(b.ID())
		logger.Debug("feature builder applied", log.BuilderIDKey, b.ID(), log.FeaturesKey, len(table.Columns()))
	}
	return table, nil
}

// ValidateDependencies walks builders in order and reports the first one
// whose required sources are not in available or whose required features
// were not produced by an earlier builder.
func ValidateDependencies(available []string, builders []feature.Builder) error {
	sources := make(map[string]bool, len(available))
	for _, id := range available {
		sources[id] = true
	}
	produced := make(map[string]bool, len(builders))
	for _, b := range builders {
		if missing := difference(b.RequiredSources(), sources); len(missing) > 0 {
			return errors.NewMissingSourcesError(b.ID(), missing)
		}
		if missing := difference(b.RequiredFeatures(), produced); len(missing) > 0 {
			return errors.NewMissingFeaturesError(b.ID(), missing)
		}
		produced[b.ID()] = true
	}
	return nil
}

func difference(required []string, have map[string]bool) []string {
	var missing []string
	seen := make(map[string]bool, len(required))
	for _, id := range required {
		if have[id] || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}
	return missing
}

func sourceIDs(sources []datasource.DataSource) []string {
	ids := make([]string, len(sources))
	for i, s := range sources {
		ids[i] = s.ID()
	}
	return ids
}

func testOutput(pred, actual *frame.Series) (*frame.Frame, error) {
	if pred == nil {
		return nil, errors.NewValidationError("prediction", "model returned no predictions", nil)
	}
	if pred.Len() != actual.Len() {
		return nil, errors.NewDimensionError("Predict", actual.Len(), pred.Len(), 0)
	}
	return frame.NewWithIndex(actual.Index(),
		frame.Column{Name: ColPrediction, Values: pred.Values()},
		frame.Column{Name: ColActual, Values: actual.Values()},
	)
}

func sameIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
