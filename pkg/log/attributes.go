// Package log defines standard attribute keys for statistical operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in margins. Using these standard keys enables better
// log analysis, monitoring, and debugging of generation and modeling workflows.
//
// The attributes are organized into categories:
//   - Model and Operation Context
//   - Data Shape and Characteristics
//   - Performance Metrics
//   - Error Context
//
// These keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of statistical model or generator.
	// Examples: "Logit", "SurveyGenerator"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	// This is useful for tracking multiple instances of the same model type.
	// Examples: "logit-001", UUID strings
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "generate", "margins"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "survey", "glm", "metrics", "chart"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the pipeline.
	// Examples: "generation", "training", "inference"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	// This is crucial for understanding the scale of data being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	// Important for dimensionality tracking and debugging shape mismatches.
	FeaturesKey = "data.features"

	// VariablesKey lists the survey variable names in matrix order.
	// Examples: ["refer", "jobsat", "turnover"]
	VariablesKey = "data.variables"

	// DataTypeKey specifies the type of data being processed.
	// Examples: "float64", "int", "categorical"
	DataTypeKey = "data.type"
)

// Performance Metrics
// These attributes capture timing, accuracy, and convergence information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	// This is essential for performance monitoring and optimization.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy for evaluation operations.
	// Range typically [0.0, 1.0] for classification accuracy.
	AccuracyKey = "metrics.accuracy"

	// LossKey records loss value during training or evaluation.
	// Lower values typically indicate better model performance.
	LossKey = "metrics.loss"

	// DevianceKey records residual deviance from a fitted GLM.
	// The IRLS loop converges on relative change in this value.
	DevianceKey = "metrics.deviance"

	// IterationKey records the current iteration number during iterative processes.
	// Useful for tracking convergence in IRLS.
	IterationKey = "training.iteration"
)

// Prediction and Output Context
// These attributes describe prediction operations and their results.
const (
	// PredsKey indicates the number of predictions made.
	// Useful for throughput monitoring and grid size tracking.
	PredsKey = "preds.count"

	// ConfidenceKey records the confidence level used for interval bounds.
	// Range typically (0.0, 1.0), e.g. 0.95.
	ConfidenceKey = "preds.confidence"

	// ThresholdKey records decision thresholds used for classification.
	// Important for understanding confusion-matrix cut points.
	ThresholdKey = "preds.threshold"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "DEGENERATE_DISTRIBUTION"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "ConvergenceWarning", "ModelError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging functions.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Check correlation matrix shape", "Increase max_iter"
	SuggestionKey = "error.suggestion"
)

// Configuration and Reproducibility
// These attributes capture run configuration for reproducibility.
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	// Useful for tracking model configuration and reproducibility.
	HyperParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	// Essential for debugging and ensuring reproducible generation runs.
	RandomSeedKey = "config.random_seed"

	// RunIDKey records the manifest run identifier of a generation run.
	RunIDKey = "config.run_id"

	// InputPathKey records the parameter source read by an operation.
	// Examples: "params.yaml", "params.xlsx"
	InputPathKey = "io.input_path"

	// OutputPathKey records the file written by an operation.
	// Examples: "turnover.csv", "margins.png"
	OutputPathKey = "io.output_path"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard operations
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationGenerate = "generate"
	OperationMargins  = "margins"
	OperationProfile  = "profile"
	OperationRender   = "render"

	// Standard phases
	PhaseGeneration = "generation"
	PhaseTraining   = "training"
	PhaseInference  = "inference"

	// Standard error codes
	ErrorNotFitted              = "NOT_FITTED"
	ErrorDimensionMismatch      = "DIMENSION_MISMATCH"
	ErrorEmptyData              = "EMPTY_DATA"
	ErrorInvalidInput           = "INVALID_INPUT"
	ErrorConvergence            = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix         = "SINGULAR_MATRIX"
	ErrorDegenerateDistribution = "DEGENERATE_DISTRIBUTION"
)
