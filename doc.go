// Package ufcpredictor assembles fight-outcome training tables and trains
// classifiers on them.
//
// A run starts from one row per fight (event, red corner, blue corner,
// outcome), joins any number of per-fight or per-fighter data sources onto
// it, derives features with dependency-checked builders, splits the table
// and fits a model. The result keeps every intermediate table so that runs
// can be inspected and reported on.
//
// # Quick Start
//
//	inputs := []pipeline.BaseFightInput{
//	    {EventID: pipeline.StringID("ufc-300"), Fighters: [2]pipeline.FighterID{pipeline.IntID(10), pipeline.IntID(11)}, Outcome: pipeline.RedWin},
//	    {EventID: pipeline.StringID("ufc-300"), Fighters: [2]pipeline.FighterID{pipeline.IntID(12), pipeline.IntID(13)}, Outcome: pipeline.BlueWin},
//	}
//
//	odds, err := datasource.NewCSV("odds", "odds.csv", []string{"event_id", "fighter_id_a"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	clf := estimator.NewPipeline(dummy.NewDummyClassifier())
//	res, err := pipeline.NewRunner().Run(ctx, inputs,
//	    []datasource.DataSource{odds}, nil, split.Ordered{TestFraction: 0.5}, clf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.TestOutput())
//
// # Packages
//
//   - frame: immutable column table, Series and one-to-one joins
//   - datasource: DataSource contract, collision renaming, CSV/SQLite sources
//   - feature: Builder contract and numeric builders
//   - split: Strategy contract with holdout, ordered and stratified splits
//   - estimator: frame-facing model adapter over core/model estimators
//   - pipeline: base table assembly and the Runner orchestrator
//   - report: run summaries (YAML) and outcome plots
//   - metrics: classification metrics and drift detection
//   - preprocessing: scaling and imputation steps
//   - sklearn/linear_model, sklearn/dummy: classifiers
//   - pkg/config, pkg/log, pkg/errors, pkg/metrics: ambient infrastructure
//
// The ufcpredict command in cmd/ufcpredict wires all of the above from a
// YAML configuration file.
package ufcpredictor
