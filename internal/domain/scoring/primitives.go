// Package scoring computes per-era performance metrics of model predictions
// against labeled data.
package scoring

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Metric names understood by EraMetrics.Metric.
const (
	MetricLogLoss = "logloss"
	MetricAUC     = "auc"
	MetricAcc     = "acc"
	MetricYStd    = "ystd"
)

// Metrics lists the per-era metrics in report order.
var Metrics = []string{MetricLogLoss, MetricAUC, MetricAcc, MetricYStd}

const (
	probEpsilon = 1e-15 // log loss clipping bound
	threshold   = 0.5   // class boundary for targets and predictions
)

// LogLoss returns the mean binary cross-entropy of yhat against target.
// Predictions are clipped to [1e-15, 1-1e-15]. Empty input yields NaN.
func LogLoss(target, yhat []float64) float64 {
	if len(target) == 0 {
		return math.NaN()
	}
	losses := make([]float64, len(target))
	for i, y := range target {
		p := math.Min(math.Max(yhat[i], probEpsilon), 1-probEpsilon)
		losses[i] = -(y*math.Log(p) + (1-y)*math.Log(1-p))
	}
	return stat.Mean(losses, nil)
}

// AUC returns the area under the ROC curve of yhat as a classifier for
// target >= 0.5. Ties contribute half credit. Single-class input yields NaN.
func AUC(target, yhat []float64) float64 {
	if len(target) == 0 {
		return math.NaN()
	}
	y := slices.Clone(yhat)
	classes := make([]bool, len(target))
	for i, t := range target {
		classes[i] = t >= threshold
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// Accuracy returns the fraction of rows where yhat >= 0.5 agrees with
// target >= 0.5.
func Accuracy(target, yhat []float64) float64 {
	if len(target) == 0 {
		return math.NaN()
	}
	hits := make([]float64, len(target))
	for i, y := range target {
		if (yhat[i] >= threshold) == (y >= threshold) {
			hits[i] = 1
		}
	}
	return stat.Mean(hits, nil)
}

// YStd returns the population standard deviation of yhat.
func YStd(yhat []float64) float64 {
	if len(yhat) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(yhat, nil)
	return std
}

// Pearson returns the Pearson correlation of x and y. A constant input
// yields NaN.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// KS returns the two-sample Kolmogorov-Smirnov statistic, the largest gap
// between the empirical distribution functions of x and y.
func KS(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return math.NaN()
	}
	xs := slices.Clone(x)
	ys := slices.Clone(y)
	slices.Sort(xs)
	slices.Sort(ys)
	return stat.KolmogorovSmirnov(xs, nil, ys, nil)
}
