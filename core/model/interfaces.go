// Package model provides the shared interfaces and state handling for
// estimators in SciGP. This file complements the interfaces in estimator.go
// and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// ProbabilisticRegressor combines interfaces for regression models that
// expose predictive uncertainty, such as Gaussian process regressors.
type ProbabilisticRegressor interface {
	Fitter
	UncertaintyPredictor
	Scorer
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
