package pipeline

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YuminosukeSato/ufcpredictor/datasource"
	"github.com/YuminosukeSato/ufcpredictor/estimator"
	"github.com/YuminosukeSato/ufcpredictor/feature"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
	"github.com/YuminosukeSato/ufcpredictor/pkg/metrics"
	"github.com/YuminosukeSato/ufcpredictor/sklearn/dummy"
	"github.com/YuminosukeSato/ufcpredictor/split"
)

func threeFights() []BaseFightInput {
	return []BaseFightInput{
		{EventID: StringID("E1"), Fighters: [2]FighterID{IntID(1), IntID(2)}, Outcome: RedWin, FightID: StringID("F1")},
		{EventID: StringID("E1"), Fighters: [2]FighterID{IntID(3), IntID(4)}, Outcome: BlueWin, FightID: StringID("F2")},
		{EventID: StringID("E2"), Fighters: [2]FighterID{IntID(5), IntID(6)}, Outcome: DrawNoContest, FightID: StringID("F3")},
	}
}

func heightSource(t *testing.T) *datasource.Static {
	t.Helper()
	table, err := frame.New(
		frame.Column{Name: "fight_id", Values: []any{"F3", "F1", "F2"}},
		frame.Column{Name: "height_diff", Values: []any{0.0, 5.0, -3.0}},
	)
	require.NoError(t, err)
	src, err := datasource.NewStatic("heights", []string{"fight_id"}, table)
	require.NoError(t, err)
	return src
}

func heightAdvantage(t *testing.T) feature.Builder {
	t.Helper()
	b, err := feature.Sign("height_advantage", feature.Requires{Sources: []string{"heights"}},
		"height_diff", "height_advantage")
	require.NoError(t, err)
	return b
}

// lastRowTest keeps the final row for testing.
var lastRowTest = split.Func(func(X *frame.Frame, y *frame.Series) (split.Partition, error) {
	n := X.Len()
	train := make([]int, n-1)
	for i := range train {
		train[i] = i
	}
	return split.Take(X, y, train, []int{n - 1})
})

// constantModel predicts zero for every row.
type constantModel struct {
	fitted *frame.Frame
}

func (m *constantModel) Fit(X *frame.Frame, y *frame.Series) error {
	m.fitted = X
	return nil
}

func (m *constantModel) Predict(X *frame.Frame) (*frame.Series, error) {
	values := make([]any, X.Len())
	for i := range values {
		values[i] = int64(0)
	}
	return frame.NewSeries(estimator.PredictionColumn, values, X.Index())
}

func quietRunner(opts ...Option) *Runner {
	return NewRunner(append([]Option{WithLogger(log.NewNopLogger())}, opts...)...)
}

func TestRunEndToEnd(t *testing.T) {
	inputs := threeFights()
	model := &constantModel{}

	res, err := quietRunner().Run(context.Background(), inputs,
		[]datasource.DataSource{heightSource(t)},
		[]feature.Builder{heightAdvantage(t)},
		split.Holdout{TestFraction: 0.34, Seed: 3, Shuffle: true}, model)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID())
	assert.Same(t, model, res.Model())
	assert.Equal(t, 3, res.XTrain().Len()+res.XTest().Len())
	assert.Equal(t, res.YTest().Index(), res.TestOutput().Index())
	assert.Equal(t, []string{ColPrediction, ColActual}, res.TestOutput().Columns())

	for i, label := range res.TestOutput().Index() {
		assert.Equal(t, int64(inputs[label].Outcome), res.TestOutput().At(i, ColActual))
	}

	table := res.Table()
	assert.Equal(t, []string{ColFightID, ColEventID, ColFighterA, ColFighterB, ColOutcome,
		"height_diff", "height_advantage"}, table.Columns())
	adv, _ := table.Values("height_advantage")
	assert.Equal(t, []any{int64(1), int64(-1), int64(0)}, adv)
	assert.False(t, res.XTrain().Has(ColOutcome))
	assert.Same(t, res.XTrain(), model.fitted)
}

func TestRunWithEstimatorPipeline(t *testing.T) {
	model := estimator.NewPipeline(dummy.NewDummyClassifier(), estimator.WithLogger(log.NewNopLogger()))
	res, err := quietRunner().Run(context.Background(), threeFights(),
		[]datasource.DataSource{heightSource(t)},
		[]feature.Builder{heightAdvantage(t)},
		lastRowTest, model)
	require.NoError(t, err)

	require.Equal(t, 1, res.TestOutput().Len())
	assert.Equal(t, []int{2}, res.TestOutput().Index())
	assert.Equal(t, int64(DrawNoContest), res.TestOutput().At(0, ColActual))
	_, ok := res.Accuracy()
	assert.True(t, ok)
}

func TestRunBuilderOrder(t *testing.T) {
	t.Run("dependency listed after its dependent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b1 := NewMockBuilder(ctrl)
		b1.EXPECT().ID().Return("B1").AnyTimes()
		b1.EXPECT().RequiredSources().Return(nil).AnyTimes()
		b1.EXPECT().RequiredFeatures().Return(nil).AnyTimes()
		b2 := NewMockBuilder(ctrl)
		b2.EXPECT().ID().Return("B2").AnyTimes()
		b2.EXPECT().RequiredSources().Return(nil).AnyTimes()
		b2.EXPECT().RequiredFeatures().Return([]string{"B1"}).AnyTimes()
		// No Transform expectations: any call fails the test.

		model := NewMockModel(ctrl)
		_, err := quietRunner().Run(context.Background(), threeFights(), nil,
			[]feature.Builder{b2, b1}, lastRowTest, model)
		require.Error(t, err)

		var dep *errors.DependencyError
		require.True(t, errors.As(err, &dep))
		assert.Equal(t, "B2", dep.Builder)
		assert.Equal(t, []string{"B1"}, dep.MissingFeatures)
		assert.Contains(t, err.Error(), "B2")
	})

	t.Run("dependency listed first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b1 := NewMockBuilder(ctrl)
		b1.EXPECT().ID().Return("B1").AnyTimes()
		b1.EXPECT().RequiredSources().Return(nil).AnyTimes()
		b1.EXPECT().RequiredFeatures().Return(nil).AnyTimes()
		b1.EXPECT().Transform(gomock.Any()).DoAndReturn(func(in *frame.Frame) (*frame.Frame, error) {
			return in.WithColumn("b1", make([]any, in.Len()))
		})
		b2 := NewMockBuilder(ctrl)
		b2.EXPECT().ID().Return("B2").AnyTimes()
		b2.EXPECT().RequiredSources().Return(nil).AnyTimes()
		b2.EXPECT().RequiredFeatures().Return([]string{"B1"}).AnyTimes()
		b2.EXPECT().Transform(gomock.Any()).DoAndReturn(func(in *frame.Frame) (*frame.Frame, error) {
			require.True(t, in.Has("b1"))
			return in.WithColumn("b2", make([]any, in.Len()))
		})

		res, err := quietRunner().Run(context.Background(), threeFights(), nil,
			[]feature.Builder{b1, b2}, lastRowTest, &constantModel{})
		require.NoError(t, err)
		assert.True(t, res.Table().Has("b1"))
		assert.True(t, res.Table().Has("b2"))
	})

	t.Run("later dependency error comes before earlier transform", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b1 := NewMockBuilder(ctrl)
		b1.EXPECT().ID().Return("B1").AnyTimes()
		b1.EXPECT().RequiredSources().Return(nil).AnyTimes()
		b1.EXPECT().RequiredFeatures().Return(nil).AnyTimes()
		b2 := NewMockBuilder(ctrl)
		b2.EXPECT().ID().Return("B2").AnyTimes()
		b2.EXPECT().RequiredSources().Return([]string{"weather"}).AnyTimes()
		b2.EXPECT().RequiredFeatures().Return(nil).AnyTimes()

		_, err := quietRunner().Run(context.Background(), threeFights(), nil,
			[]feature.Builder{b1, b2}, lastRowTest, &constantModel{})
		var dep *errors.DependencyError
		require.True(t, errors.As(err, &dep))
		assert.Equal(t, "B2", dep.Builder)
	})

	t.Run("missing source", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBuilder(ctrl)
		b.EXPECT().ID().Return("needs_odds").AnyTimes()
		b.EXPECT().RequiredSources().Return([]string{"odds", "heights", "elo"}).AnyTimes()
		b.EXPECT().RequiredFeatures().Return(nil).AnyTimes()

		_, err := quietRunner().Run(context.Background(), threeFights(),
			[]datasource.DataSource{heightSource(t)},
			[]feature.Builder{b}, lastRowTest, &constantModel{})
		var dep *errors.DependencyError
		require.True(t, errors.As(err, &dep))
		assert.Equal(t, []string{"elo", "odds"}, dep.MissingSources)
	})
}

func TestValidateDependencies(t *testing.T) {
	mk := func(id string, req feature.Requires) feature.Builder {
		b, err := feature.NewFunc(id, req, func(f *frame.Frame) (*frame.Frame, error) { return f, nil })
		require.NoError(t, err)
		return b
	}
	a := mk("a", feature.Requires{Sources: []string{"s"}})
	b := mk("b", feature.Requires{Features: []string{"a"}})

	assert.NoError(t, ValidateDependencies([]string{"s"}, []feature.Builder{a, b}))
	assert.True(t, errors.IsDependency(ValidateDependencies(nil, []feature.Builder{a})))
	assert.True(t, errors.IsDependency(ValidateDependencies([]string{"s"}, []feature.Builder{b, a})))
	assert.NoError(t, ValidateDependencies(nil, nil))
}

func TestRunDeterministic(t *testing.T) {
	src := heightSource(t)
	builder := heightAdvantage(t)
	strategy := split.Holdout{TestFraction: 0.34, Seed: 11, Shuffle: true}

	run := func() *TrainingResult {
		res, err := quietRunner().Run(context.Background(), threeFights(),
			[]datasource.DataSource{src}, []feature.Builder{builder}, strategy, &constantModel{})
		require.NoError(t, err)
		return res
	}
	first, second := run(), run()
	assert.True(t, first.TestOutput().Equal(second.TestOutput()))
	assert.NotEqual(t, first.RunID(), second.RunID())
}

func TestRunParallelLoadsMatchSequential(t *testing.T) {
	ages, err := frame.New(
		frame.Column{Name: "fight_id", Values: []any{"F1", "F2", "F3"}},
		frame.Column{Name: "event_id", Values: []any{"x", "y", "z"}},
		frame.Column{Name: "age_diff", Values: []any{1, 2, 3}},
	)
	require.NoError(t, err)
	ageSrc, err := datasource.NewStatic("ages", []string{"fight_id"}, ages)
	require.NoError(t, err)
	sources := []datasource.DataSource{heightSource(t), ageSrc}

	seq, err := quietRunner().Run(context.Background(), threeFights(), sources, nil, lastRowTest, &constantModel{})
	require.NoError(t, err)
	par, err := quietRunner(WithParallelLoads(4)).Run(context.Background(), threeFights(), sources, nil, lastRowTest, &constantModel{})
	require.NoError(t, err)

	assert.True(t, seq.Table().Equal(par.Table()))
	assert.True(t, par.Table().Has("ages_event_id"))
}

func TestRunParallelLoadsReportFirstErrorInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockDataSource(ctrl)
	first.EXPECT().ID().Return("first").AnyTimes()
	first.EXPECT().JoinKeys().Return([]string{"fight_id"}).AnyTimes()
	first.EXPECT().FeaturePrefix().Return("first").AnyTimes()
	first.EXPECT().Load(gomock.Any()).Return(nil, errors.NewLoadError("first", errors.New("disk gone")))
	second := NewMockDataSource(ctrl)
	second.EXPECT().ID().Return("second").AnyTimes()
	second.EXPECT().JoinKeys().Return([]string{"fight_id"}).AnyTimes()
	second.EXPECT().FeaturePrefix().Return("second").AnyTimes()
	second.EXPECT().Load(gomock.Any()).Return(nil, errors.NewLoadError("second", errors.New("timeout")))

	_, err := quietRunner(WithParallelLoads(2)).Run(context.Background(), threeFights(),
		[]datasource.DataSource{first, second}, nil, lastRowTest, &constantModel{})
	var le *errors.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "first", le.Source)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("load error is returned unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cause := errors.NewLoadError("odds", errors.New("no such file"))
		src := NewMockDataSource(ctrl)
		src.EXPECT().ID().Return("odds").AnyTimes()
		src.EXPECT().JoinKeys().Return([]string{"fight_id"}).AnyTimes()
		src.EXPECT().FeaturePrefix().Return("odds").AnyTimes()
		src.EXPECT().Load(gomock.Any()).Return(nil, cause)

		_, err := quietRunner().Run(ctx, threeFights(), []datasource.DataSource{src}, nil, lastRowTest, &constantModel{})
		assert.Same(t, cause, err)
	})

	t.Run("source that loads no table", func(t *testing.T) {
		for _, parallel := range []int{1, 2} {
			ctrl := gomock.NewController(t)
			empty := NewMockDataSource(ctrl)
			empty.EXPECT().ID().Return("empty").AnyTimes()
			empty.EXPECT().JoinKeys().Return([]string{"fight_id"}).AnyTimes()
			empty.EXPECT().FeaturePrefix().Return("empty").AnyTimes()
			empty.EXPECT().Load(gomock.Any()).Return(nil, nil)

			_, err := quietRunner(WithParallelLoads(parallel)).Run(ctx, threeFights(),
				[]datasource.DataSource{empty, heightSource(t)}, nil, lastRowTest, &constantModel{})
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "parallel=%d: %v", parallel, err)
			assert.Contains(t, err.Error(), "empty")
		}
	})

	t.Run("missing base key skips load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := NewMockDataSource(ctrl)
		src.EXPECT().ID().Return("odds").AnyTimes()
		src.EXPECT().JoinKeys().Return([]string{"bout_id"}).AnyTimes()
		src.EXPECT().FeaturePrefix().Return("odds").AnyTimes()

		_, err := quietRunner().Run(ctx, threeFights(), []datasource.DataSource{src}, nil, lastRowTest, &constantModel{})
		assert.True(t, errors.IsMissingJoinKey(err))
	})

	t.Run("missing outcome column", func(t *testing.T) {
		dropOutcome, err := feature.NewFunc("drop", feature.Requires{}, func(f *frame.Frame) (*frame.Frame, error) {
			return f.Drop(ColOutcome), nil
		})
		require.NoError(t, err)
		_, err = quietRunner().Run(ctx, threeFights(), nil, []feature.Builder{dropOutcome}, lastRowTest, &constantModel{})
		assert.True(t, errors.IsMissingOutcomeColumn(err))
	})

	t.Run("custom outcome column", func(t *testing.T) {
		_, err := quietRunner(WithOutcomeColumn("winner")).Run(ctx, threeFights(), nil, nil, lastRowTest, &constantModel{})
		var mo *errors.MissingOutcomeColumnError
		require.True(t, errors.As(err, &mo))
		assert.Equal(t, "winner", mo.Column)
	})

	t.Run("builder that drops rows", func(t *testing.T) {
		firstRow, err := feature.NewFunc("head", feature.Requires{}, func(f *frame.Frame) (*frame.Frame, error) {
			return f.Take([]int{0})
		})
		require.NoError(t, err)
		_, err = quietRunner().Run(ctx, threeFights(), nil, []feature.Builder{firstRow}, lastRowTest, &constantModel{})
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("overlapping partition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		strategy := NewMockStrategy(ctrl)
		strategy.EXPECT().Split(gomock.Any(), gomock.Any()).DoAndReturn(
			func(X *frame.Frame, y *frame.Series) (split.Partition, error) {
				return split.Take(X, y, []int{0, 1, 2}, []int{2})
			})
		model := NewMockModel(ctrl)

		_, err := quietRunner().Run(ctx, threeFights(), nil, nil, strategy, model)
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("fit and predict errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fitErr := errors.New("singular matrix")
		model := NewMockModel(ctrl)
		model.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(fitErr)
		_, err := quietRunner().Run(ctx, threeFights(), nil, nil, lastRowTest, model)
		assert.Same(t, fitErr, err)

		predErr := errors.New("bad input")
		model = NewMockModel(ctrl)
		model.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(nil)
		model.EXPECT().Predict(gomock.Any()).Return(nil, predErr)
		_, err = quietRunner().Run(ctx, threeFights(), nil, nil, lastRowTest, model)
		assert.Same(t, predErr, err)
	})

	t.Run("prediction length mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		model := NewMockModel(ctrl)
		model.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(nil)
		model.EXPECT().Predict(gomock.Any()).Return(frame.SeriesFromFloat64s("prediction", []float64{0, 1}, nil))
		_, err := quietRunner().Run(ctx, threeFights(), nil, nil, lastRowTest, model)
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("empty input and missing collaborators", func(t *testing.T) {
		_, err := quietRunner().Run(ctx, nil, nil, nil, lastRowTest, &constantModel{})
		assert.True(t, errors.IsConfiguration(err))
		_, err = quietRunner().Run(ctx, threeFights(), nil, nil, nil, &constantModel{})
		assert.True(t, errors.IsConfiguration(err))
		_, err = quietRunner().Run(ctx, threeFights(), nil, nil, lastRowTest, nil)
		assert.True(t, errors.IsConfiguration(err))
	})
}

func TestRunRecordsMetricsAndLogs(t *testing.T) {
	m := metrics.NewManager()
	logger, _ := log.NewTestLogger(log.LevelDebug)

	_, err := NewRunner(WithMetrics(m), WithLogger(logger)).Run(context.Background(), threeFights(),
		[]datasource.DataSource{heightSource(t)}, []feature.Builder{heightAdvantage(t)},
		lastRowTest, &constantModel{})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Registry(), "ufcpredictor_pipeline_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	n, err = testutil.GatherAndCount(m.Registry(), "ufcpredictor_pipeline_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, logger.ContainsMessage("data source merged"))
	assert.True(t, logger.ContainsField(log.SourceIDKey, "heights"))
	assert.True(t, logger.ContainsMessage("run finished"))
}

func TestPackageRun(t *testing.T) {
	log.SetLogger(log.NewNopLogger())
	res, err := Run(context.Background(), threeFights(), nil, nil, lastRowTest, &constantModel{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.YTrain().Len())
	acc, ok := res.Accuracy()
	require.True(t, ok)
	assert.Equal(t, 0.0, acc)
}
