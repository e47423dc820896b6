// Package log defines standard attribute keys for machine learning operations.
//
// Using these keys keeps log output consistent across all SciGP packages and
// enables structured filtering (e.g. all records with ml.operation == "fit").
// The keys follow a hierarchical naming convention ("model.name",
// "data.samples") to support structured log analysis.
package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "SGPRRegressor", "MinMaxScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "gaussian_process", "preprocessing", "datasets"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	// Examples: "training", "inference", "preprocessing"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// DataSizeKey indicates the size of a dataset file in bytes.
	DataSizeKey = "data.size_bytes"

	// URLKey records the source URL of a downloaded dataset.
	URLKey = "data.url"

	// PathKey records the local cache path of a dataset file.
	PathKey = "data.path"
)

// Training and Model Structure
const (
	// IterationKey records the current iteration number during training.
	IterationKey = "training.iteration"

	// MaxIterKey records the configured iteration count.
	MaxIterKey = "training.max_iter"

	// LossKey records the negative log marginal likelihood (or other loss)
	// at a training iteration.
	LossKey = "metrics.loss"

	// LearningRateKey records the gradient-descent step size.
	LearningRateKey = "training.learning_rate"

	// InducingPointsKey records the number of inducing points of a sparse
	// Gaussian process model.
	InducingPointsKey = "model.inducing_points"

	// LengthscaleKey records the kernel lengthscale (natural space).
	LengthscaleKey = "model.lengthscale"

	// OutputScaleKey records the kernel output scale (natural space).
	OutputScaleKey = "model.output_scale"

	// NoiseKey records the observation noise variance (natural space).
	NoiseKey = "model.noise"
)

// Evaluation Metrics
const (
	// MAEKey records mean absolute error on a held-out set.
	MAEKey = "metrics.mae"

	// R2ScoreKey records the R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
