package main

import (
	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/datasource"
	"github.com/YuminosukeSato/ufcpredictor/estimator"
	"github.com/YuminosukeSato/ufcpredictor/feature"
	"github.com/YuminosukeSato/ufcpredictor/pkg/config"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
	"github.com/YuminosukeSato/ufcpredictor/preprocessing"
	"github.com/YuminosukeSato/ufcpredictor/sklearn/dummy"
	linear "github.com/YuminosukeSato/ufcpredictor/sklearn/linear_model"
	"github.com/YuminosukeSato/ufcpredictor/split"
)

func buildSources(cfg *config.Config) ([]datasource.DataSource, error) {
	sources := make([]datasource.DataSource, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		var opts []datasource.Option
		if sc.Prefix != "" {
			opts = append(opts, datasource.WithPrefix(sc.Prefix))
		}
		var (
			src datasource.DataSource
			err error
		)
		switch sc.Kind {
		case config.SourceCSV:
			src, err = datasource.NewCSV(sc.ID, sc.Path, sc.JoinKeys, opts...)
		case config.SourceSQLite:
			src, err = datasource.NewSQLite(sc.ID, sc.Path, sc.Query, sc.JoinKeys, opts...)
		default:
			err = errors.NewConfigurationError(sc.ID, "unknown source kind "+sc.Kind)
		}
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func buildBuilders(cfg *config.Config) ([]feature.Builder, error) {
	builders := make([]feature.Builder, 0, len(cfg.Builders))
	for _, bc := range cfg.Builders {
		req := feature.Requires{Sources: bc.RequiresSources, Features: bc.RequiresFeatures}
		var (
			b   feature.Builder
			err error
		)
		switch bc.Kind {
		case config.BuilderDifference:
			b, err = feature.Difference(bc.ID, req, bc.Inputs[0], bc.Inputs[1], bc.Output)
		case config.BuilderSign:
			b, err = feature.Sign(bc.ID, req, bc.Inputs[0], bc.Output)
		case config.BuilderZScore:
			b, err = feature.ZScore(bc.ID, req, bc.Inputs...)
		default:
			err = errors.NewConfigurationError(bc.ID, "unknown builder kind "+bc.Kind)
		}
		if err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}
	return builders, nil
}

func buildStrategy(sc config.SplitConfig) (split.Strategy, error) {
	switch sc.Kind {
	case config.SplitHoldout:
		return split.Holdout{TestFraction: sc.TestFraction, Seed: sc.Seed, Shuffle: sc.Shuffle}, nil
	case config.SplitOrdered:
		return split.Ordered{TestFraction: sc.TestFraction}, nil
	case config.SplitStratified:
		return split.Stratified{TestFraction: sc.TestFraction, Seed: sc.Seed}, nil
	}
	return nil, errors.NewConfigurationError("split", "unknown split kind "+sc.Kind)
}

func buildModel(mc config.ModelConfig, logger log.Logger) (*estimator.Pipeline, error) {
	var final model.Estimator
	switch mc.Kind {
	case config.ModelLogistic:
		final = linear.NewLogisticRegression(
			linear.WithLRC(mc.C),
			linear.WithLRMaxIter(mc.MaxIter),
			linear.WithLRTol(mc.Tol),
			linear.WithLRRandomState(mc.Seed),
			linear.WithLRMultiClass(mc.MultiClass),
			linear.WithLRClassWeight(mc.ClassWeight),
		)
	case config.ModelDummy:
		final = dummy.NewDummyClassifier(dummy.WithStrategy(mc.Strategy))
	default:
		return nil, errors.NewConfigurationError("model", "unknown model kind "+mc.Kind)
	}

	var steps []model.Transformer
	if mc.Impute {
		steps = append(steps, preprocessing.NewSimpleImputer())
	}
	if mc.Scale {
		steps = append(steps, preprocessing.NewStandardScalerDefault())
	}
	opts := []estimator.Option{estimator.WithSteps(steps...), estimator.WithLogger(logger)}
	if len(mc.Columns) > 0 {
		opts = append(opts, estimator.WithColumns(mc.Columns...))
	}
	return estimator.NewPipeline(final, opts...), nil
}
