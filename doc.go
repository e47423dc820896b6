// Package scigp provides Gaussian process regression for Go with a
// scikit-learn-like API, built on gonum.
//
// SciGP focuses on sparse Gaussian process regression: full GP training costs
// O(n³) in the number of samples, and SciGP's inducing-point approximation
// brings that down to O(n·m²) for m inducing points while keeping calibrated
// predictive uncertainty.
//
// # Quick Start
//
// Train a sparse GP on a regression dataset and report test accuracy:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigp/datasets"
//	    "github.com/YuminosukeSato/scigp/metrics"
//	    "github.com/YuminosukeSato/scigp/preprocessing"
//	    gp "github.com/YuminosukeSato/scigp/sklearn/gaussian_process"
//	)
//
//	func main() {
//	    X, y, err := datasets.FetchTable(dataURL, "data/table.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    scaler := preprocessing.NewMinMaxScaler([2]float64{-1, 1})
//	    XScaled, _ := scaler.FitTransform(X)
//	    XTrain, XTest, yTrain, yTest, _ := preprocessing.TrainTestSplit(XScaled, y, 0.8)
//
//	    model := gp.NewSGPRRegressor(gp.WithInducingPoints(500))
//	    if err := model.Fit(XTrain, yTrain); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, _ := model.Predict(XTest)
//	    mae, _ := metrics.MAEMatrix(yTest, pred)
//	    fmt.Printf("Test MAE: %v\n", mae)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - sklearn/gaussian_process: kernels, mean functions, and the sparse GP
//     regressor (SGPRRegressor)
//   - datasets: dataset download, caching, and CSV table loading
//   - preprocessing: MinMaxScaler and deterministic train/test splitting
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R²)
//   - core/model: core interfaces and base estimator types
//   - core/parallel: parallel processing utilities for kernel assembly
//   - pkg/errors: structured error types with stack traces
//   - pkg/log: structured logging
//
// # Uncertainty
//
// Unlike point-estimate regressors, every SciGP prediction carries a
// variance:
//
//	mean, std, err := model.PredictWithStd(XTest)
//	dist, err := model.PredictiveDistribution([]float64{0.5, -0.2})
//
// # Contributing
//
// Contributions are welcome! Please see our GitHub repository:
// https://github.com/YuminosukeSato/scigp
//
// # License
//
// SciGP is released under the MIT License.
package scigp
