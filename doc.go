// Package gdlinear trains linear regression models with gradient descent.
//
// A Dataset holds named numeric columns. It is preprocessed, split once into
// 80/20 train and test partitions, and handed to a GDRegressor together with a
// loss metric. The regressor runs a fixed number of full-batch or mini-batch
// updates and reports its weights and coefficient of determination.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gdlinear/dataset"
//	    "github.com/YuminosukeSato/gdlinear/linear"
//	    "github.com/YuminosukeSato/gdlinear/loss"
//	)
//
//	func main() {
//	    ds, err := dataset.LoadCSV("california_housing_train.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = ds.Normalize()
//	    _, _ = ds.DropNaN()
//	    _ = ds.AddConstantColumn("ones", 1)
//	    if err := ds.Split("median_house_value"); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    metric, _ := loss.NewRegularized(loss.MSE{}, loss.L2, 0.5, nil)
//	    model, err := linear.NewGDRegressor(ds, metric, linear.WithRandomState(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(300, 1e-5); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    r2, _ := model.CoefficientOfDetermination()
//	    fmt.Println(r2, model.Weights())
//	}
//
// # Packages
//
//   - dataset: named table, CSV loading, normalization, shuffling and splitting
//   - loss: MSE and MAE with optional L1/L2 penalties
//   - linear: GDRegressor (Fit, FitStochastic, Predict, R²)
//   - metrics: MSE, RMSE, MAE, R²
//   - preprocessing: MinMaxScaler
//   - report: loss-history and prediction plots
//   - core/model: estimator state and interfaces
//   - core/parallel: chunked parallel loops
//   - pkg/errors, pkg/log, pkg/config: error kinds, zerolog logging, viper configuration
//
// The gdlinear command wraps the same pipeline:
//
//	gdlinear train --data housing.csv --target median_house_value --penalty l2 --reg-coef 0.5
package gdlinear
