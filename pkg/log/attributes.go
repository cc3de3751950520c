// Package log defines standard attribute keys for training operations.
//
// Using these keys keeps log records from the dataset, loss and trainer
// packages filterable with the same field names.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "GDRegressor", "MinMaxScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "fit_stochastic", "predict", "score", "split"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "dataset", "preprocessing"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the workflow.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// TrainSamplesKey and TestSamplesKey record partition sizes after a split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"

	// TargetKey names the target column.
	TargetKey = "data.target"

	// BatchSizeKey indicates the size of mini-batches.
	BatchSizeKey = "data.batch_size"

	// DroppedRowsKey counts rows removed during cleaning.
	DroppedRowsKey = "data.dropped_rows"
)

// Training and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the loss value during training or evaluation.
	LossKey = "metrics.loss"

	// R2ScoreKey records the coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"

	// EpochsKey records the epoch budget of a fit call.
	EpochsKey = "training.epochs"

	// WeightsKey records the weight vector.
	WeightsKey = "training.weights"
)

// Hyperparameters and Configuration
const (
	// LossFunctionKey names the loss metric in use, e.g. "mse+l2".
	LossFunctionKey = "hyperparams.loss"

	// LearningRateKey records the learning rate.
	LearningRateKey = "hyperparams.learning_rate"

	// RegularizationKey records regularization strength.
	RegularizationKey = "hyperparams.regularization"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit           = "fit"
	OperationFitStochastic = "fit_stochastic"
	OperationPredict       = "predict"
	OperationScore         = "score"
	OperationSplit         = "split"
	OperationNormalize     = "normalize"
	OperationLoad          = "load"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhasePreprocessing = "preprocessing"
)
