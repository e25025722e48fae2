// Package log defines standard attribute keys for prediction logging.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "http.status") so log pipelines can filter on prefixes.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the artifact type.
	// Examples: "StandardScaler", "MLPRegressor"
	ModelNameKey = "model.name"

	// ArtifactPathKey is the file an artifact was loaded from.
	ArtifactPathKey = "model.path"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	// Examples: "server", "inference", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase: "startup" or "inference".
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features per row.
	FeaturesKey = "data.features"

	// LayersKey indicates the number of dense layers in the network.
	LayersKey = "model.layers"
)

// Prediction Context
const (
	// PredictionKey is the truncated duration in minutes.
	PredictionKey = "preds.minutes"

	// RawOutputKey is the untruncated network output.
	RawOutputKey = "preds.raw"

	// StandardizedKey is the standardized feature vector.
	StandardizedKey = "preds.standardized"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MSEKey, RMSEKey, MAEKey and R2ScoreKey record evaluation results.
	MSEKey     = "metrics.mse"
	RMSEKey    = "metrics.rmse"
	MAEKey     = "metrics.mae"
	R2ScoreKey = "metrics.r2_score"
)

// HTTP Context
const (
	RequestIDKey = "http.request_id"
	MethodKey    = "http.method"
	PathKey      = "http.path"
	StatusKey    = "http.status"
	ClientIPKey  = "http.client_ip"
)

// Error Context
const (
	// ErrAttrKey is the conventional key for an error value.
	ErrAttrKey = "error"

	// StacktraceAttrKey receives the cockroachdb stack trace of ErrAttrKey.
	StacktraceAttrKey = "stacktrace"

	// ErrorDetailKey receives the zerolog object form of typed errors.
	ErrorDetailKey = "error.detail"

	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationLoad        = "load"
	OperationPredict     = "predict"
	OperationTransform   = "transform"
	OperationEvaluate    = "evaluate"
	OperationSweep       = "sweep"
	PhaseStartup         = "startup"
	PhaseInference       = "inference"
	ErrorShapeMismatch   = "SHAPE_MISMATCH"
	ErrorDegenerate      = "DEGENERATE_SCALER"
	ErrorModelLoad       = "MODEL_LOAD_FAILURE"
	ErrorInvalidInput    = "INVALID_INPUT"
	ErrorNumerical       = "NUMERICAL_INSTABILITY"
	ErrorInternal        = "INTERNAL"
)
