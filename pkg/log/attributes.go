// Package log defines standard attribute keys for pipeline runs.
//
// Keys follow a hierarchical naming convention ("pipeline.stage",
// "data.samples") so that log analysis can filter on them.

package log

// Run and stage context.
const (
	// RunIDKey identifies one pipeline run. Value is a UUID string.
	RunIDKey = "pipeline.run_id"

	// StageKey names the pipeline stage: seed, augment, features, split, fit, predict.
	StageKey = "pipeline.stage"

	// ComponentKey identifies which package is emitting the record.
	ComponentKey = "pipeline.component"

	// SourceIDKey identifies a data source.
	SourceIDKey = "source.id"

	// JoinKeysKey lists the join keys of a data source.
	JoinKeysKey = "source.join_keys"

	// RenamedColumnsKey lists columns renamed to avoid a collision.
	RenamedColumnsKey = "source.renamed_columns"

	// BuilderIDKey identifies a feature builder.
	BuilderIDKey = "builder.id"

	// ModelNameKey identifies the type of model being fitted.
	ModelNameKey = "model.name"

	// OperationKey specifies the estimator operation: fit, predict, transform.
	OperationKey = "ml.operation"
)

// Data shape.
const (
	// SamplesKey indicates the number of rows in a table.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// ColumnsKey lists column names.
	ColumnsKey = "data.columns"

	// TrainSamplesKey and TestSamplesKey describe the split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Performance and results.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records accuracy on the held-out partition.
	AccuracyKey = "metrics.accuracy"

	// IterationKey records the iteration count of an iterative solver.
	IterationKey = "training.iteration"
)

// Error context.
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
)
