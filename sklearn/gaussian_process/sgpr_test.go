package gaussian_process

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	scigpErrors "github.com/YuminosukeSato/scigp/pkg/errors"
)

// sineData builds a noiseless single-feature regression problem on a smooth
// target, small enough for finite-difference training in tests. Rows are
// emitted in a strided order so that any prefix of them spans the input
// domain; inducing points are initialized from the first rows, and a sorted
// grid would leave them clustered at one end.
func sineData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		j := (7 * i) % n // 7 is coprime to every n used in these tests
		x := -3.0 + 6.0*float64(j)/float64(n-1)
		X.Set(i, 0, x)
		y.Set(i, 0, math.Sin(x))
	}
	return X, y
}

func TestNewSGPRRegressorDefaults(t *testing.T) {
	g := NewSGPRRegressor()

	params := g.GetParams()
	if params["num_inducing"] != 500 {
		t.Errorf("num_inducing = %v, want 500", params["num_inducing"])
	}
	if params["learning_rate"] != 0.1 {
		t.Errorf("learning_rate = %v, want 0.1", params["learning_rate"])
	}
	if params["max_iter"] != 50 {
		t.Errorf("max_iter = %v, want 50", params["max_iter"])
	}
	if math.Abs(params["noise_variance"].(float64)-1.0) > 1e-12 {
		t.Errorf("noise_variance = %v, want 1.0", params["noise_variance"])
	}
	if _, ok := g.Kernel().(*ScaleKernel); !ok {
		t.Errorf("default kernel = %T, want *ScaleKernel", g.Kernel())
	}
	if g.IsFitted() {
		t.Error("new model must not be fitted")
	}
}

func TestSGPRRegressorNotFitted(t *testing.T) {
	g := NewSGPRRegressor()
	X := mat.NewDense(2, 1, []float64{0.0, 1.0})

	var notFitted *scigpErrors.NotFittedError

	if _, err := g.Predict(X); !scigpErrors.As(err, &notFitted) {
		t.Errorf("Predict() before Fit: error = %v, want NotFittedError", err)
	}
	if _, _, err := g.PredictWithStd(X); !scigpErrors.As(err, &notFitted) {
		t.Errorf("PredictWithStd() before Fit: error = %v, want NotFittedError", err)
	}
	if _, err := g.PredictiveDistribution([]float64{0.0}); !scigpErrors.As(err, &notFitted) {
		t.Errorf("PredictiveDistribution() before Fit: error = %v, want NotFittedError", err)
	}
	if _, err := g.LogMarginalLikelihood(); !scigpErrors.As(err, &notFitted) {
		t.Errorf("LogMarginalLikelihood() before Fit: error = %v, want NotFittedError", err)
	}
}

func TestSGPRRegressorFitValidation(t *testing.T) {
	X, y := sineData(10)

	tests := []struct {
		name string
		g    *SGPRRegressor
		X    mat.Matrix
		y    mat.Matrix
	}{
		{
			name: "row count mismatch",
			g:    NewSGPRRegressor(WithInducingPoints(5), WithMaxIter(1)),
			X:    X,
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
		},
		{
			name: "y not a column vector",
			g:    NewSGPRRegressor(WithInducingPoints(5), WithMaxIter(1)),
			X:    X,
			y:    mat.NewDense(10, 2, nil),
		},
		{
			name: "non-positive inducing count",
			g:    NewSGPRRegressor(WithInducingPoints(0), WithMaxIter(1)),
			X:    X,
			y:    y,
		},
		{
			name: "non-positive learning rate",
			g:    NewSGPRRegressor(WithInducingPoints(5), WithLearningRate(0)),
			X:    X,
			y:    y,
		},
		{
			name: "non-positive max iter",
			g:    NewSGPRRegressor(WithInducingPoints(5), WithMaxIter(0)),
			X:    X,
			y:    y,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Fit(tt.X, tt.y); err == nil {
				t.Error("Fit() should return an error")
			}
		})
	}
}

func TestSGPRRegressorLossHistory(t *testing.T) {
	X, y := sineData(25)

	var seen []float64
	g := NewSGPRRegressor(
		WithInducingPoints(8),
		WithMaxIter(12),
		WithLearningRate(0.05),
		WithIterationCallback(func(iter int, loss float64) {
			if iter != len(seen) {
				t.Errorf("callback iteration = %d, want %d", iter, len(seen))
			}
			seen = append(seen, loss)
		}),
	)

	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	history := g.LossHistory()
	if len(history) != 12 {
		t.Fatalf("len(LossHistory()) = %d, want 12", len(history))
	}
	if len(seen) != 12 {
		t.Fatalf("callback invoked %d times, want 12", len(seen))
	}
	for i, loss := range history {
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			t.Errorf("loss[%d] = %v, want finite", i, loss)
		}
		if loss != seen[i] {
			t.Errorf("loss[%d] = %v, callback saw %v", i, loss, seen[i])
		}
	}

	// LossHistory returns a copy.
	history[0] = -1
	if g.LossHistory()[0] == -1 {
		t.Error("LossHistory() must return a copy")
	}
}

func TestSGPRRegressorRecoversSmoothFunction(t *testing.T) {
	X, y := sineData(40)

	g := NewSGPRRegressor(
		WithInducingPoints(15),
		WithMaxIter(25),
		WithLearningRate(0.05),
		WithNoiseVariance(0.01),
	)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := g.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	var sumAbs float64
	for i := 0; i < 40; i++ {
		sumAbs += math.Abs(pred.At(i, 0) - y.At(i, 0))
	}
	mae := sumAbs / 40
	if mae > 0.3 {
		t.Errorf("training MAE = %v, want <= 0.3", mae)
	}

	// Plain gradient descent can oscillate, so only the entry count is
	// guaranteed, not a monotone trend.
	if len(g.LossHistory()) != 25 {
		t.Errorf("len(LossHistory()) = %d, want 25", len(g.LossHistory()))
	}

	score, err := g.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score < 0.5 {
		t.Errorf("Score() = %v, want >= 0.5", score)
	}

	lml, err := g.LogMarginalLikelihood()
	if err != nil {
		t.Fatalf("LogMarginalLikelihood() error = %v", err)
	}
	if math.IsNaN(lml) || math.IsInf(lml, 0) {
		t.Errorf("LogMarginalLikelihood() = %v, want finite", lml)
	}
}

func TestSGPRRegressorPredictWithStd(t *testing.T) {
	X, y := sineData(30)

	g := NewSGPRRegressor(
		WithInducingPoints(10),
		WithMaxIter(5),
		WithLearningRate(0.05),
		WithNoiseVariance(0.01),
	)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	XTest := mat.NewDense(3, 1, []float64{-2.5, 0.0, 2.5})
	mean, std, err := g.PredictWithStd(XTest)
	if err != nil {
		t.Fatalf("PredictWithStd() error = %v", err)
	}

	r, c := mean.Dims()
	if r != 3 || c != 1 {
		t.Fatalf("mean Dims() = (%d, %d), want (3, 1)", r, c)
	}
	r, c = std.Dims()
	if r != 3 || c != 1 {
		t.Fatalf("std Dims() = (%d, %d), want (3, 1)", r, c)
	}
	for i := 0; i < 3; i++ {
		if s := std.At(i, 0); s <= 0 || math.IsNaN(s) {
			t.Errorf("std[%d] = %v, want positive", i, s)
		}
	}

	// Far outside the data the predictive variance must grow toward the
	// prior variance plus noise.
	XFar := mat.NewDense(1, 1, []float64{100.0})
	_, stdFar, err := g.PredictWithStd(XFar)
	if err != nil {
		t.Fatalf("PredictWithStd() far error = %v", err)
	}
	if stdFar.At(0, 0) <= std.At(1, 0) {
		t.Errorf("std far from data = %v, want > std at center %v", stdFar.At(0, 0), std.At(1, 0))
	}
}

func TestSGPRRegressorPredictiveDistribution(t *testing.T) {
	X, y := sineData(30)

	g := NewSGPRRegressor(
		WithInducingPoints(10),
		WithMaxIter(5),
		WithLearningRate(0.05),
		WithNoiseVariance(0.01),
	)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	dist, err := g.PredictiveDistribution([]float64{0.5})
	if err != nil {
		t.Fatalf("PredictiveDistribution() error = %v", err)
	}
	if dist.Sigma <= 0 {
		t.Errorf("Sigma = %v, want positive", dist.Sigma)
	}

	mean, std, err := g.PredictWithStd(mat.NewDense(1, 1, []float64{0.5}))
	if err != nil {
		t.Fatalf("PredictWithStd() error = %v", err)
	}
	if math.Abs(dist.Mu-mean.At(0, 0)) > 1e-12 {
		t.Errorf("Mu = %v, want %v", dist.Mu, mean.At(0, 0))
	}
	if math.Abs(dist.Sigma-std.At(0, 0)) > 1e-12 {
		t.Errorf("Sigma = %v, want %v", dist.Sigma, std.At(0, 0))
	}

	if _, err := g.PredictiveDistribution([]float64{0.5, 1.0}); err == nil {
		t.Error("PredictiveDistribution() with wrong dimension should return an error")
	}
}

func TestSGPRRegressorPredictDimensionMismatch(t *testing.T) {
	X, y := sineData(20)

	g := NewSGPRRegressor(WithInducingPoints(8), WithMaxIter(2))
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	bad := mat.NewDense(2, 3, nil)
	if _, err := g.Predict(bad); err == nil {
		t.Error("Predict() with wrong feature count should return an error")
	}
}

func TestSGPRRegressorClampsInducingPoints(t *testing.T) {
	X, y := sineData(12)

	g := NewSGPRRegressor(WithInducingPoints(100), WithMaxIter(3))
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	m, d := g.InducingPoints().Dims()
	if m != 12 || d != 1 {
		t.Errorf("InducingPoints Dims() = (%d, %d), want (12, 1)", m, d)
	}
}

func TestSGPRRegressorOptimizeInducing(t *testing.T) {
	X, y := sineData(25)

	g := NewSGPRRegressor(
		WithInducingPoints(6),
		WithMaxIter(8),
		WithLearningRate(0.02),
		WithNoiseVariance(0.01),
		WithOptimizeInducing(true),
	)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// The inducing coordinates are part of the parameter vector, so at
	// least one of them should have moved off its initial grid position.
	Z := g.InducingPoints()
	moved := false
	for i := 0; i < 6; i++ {
		if math.Abs(Z.At(i, 0)-X.At(i, 0)) > 1e-9 {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("inducing points did not move during joint optimization")
	}

	if len(g.LossHistory()) != 8 {
		t.Errorf("len(LossHistory()) = %d, want 8", len(g.LossHistory()))
	}
}

func TestSGPRRegressorBoundedRoot(t *testing.T) {
	X, y := sineData(40)

	exact := NewSGPRRegressor(
		WithInducingPoints(20),
		WithMaxIter(5),
		WithLearningRate(0.05),
		WithNoiseVariance(0.01),
	)
	bounded := NewSGPRRegressor(
		WithInducingPoints(20),
		WithMaxIter(5),
		WithLearningRate(0.05),
		WithNoiseVariance(0.01),
		WithMaxRootSize(15),
	)

	if err := exact.Fit(X, y); err != nil {
		t.Fatalf("Fit() exact error = %v", err)
	}
	if err := bounded.Fit(X, y); err != nil {
		t.Fatalf("Fit() bounded error = %v", err)
	}

	XTest := mat.NewDense(5, 1, []float64{-2.0, -1.0, 0.0, 1.0, 2.0})
	_, stdExact, err := exact.PredictWithStd(XTest)
	if err != nil {
		t.Fatalf("PredictWithStd() exact error = %v", err)
	}
	_, stdBounded, err := bounded.PredictWithStd(XTest)
	if err != nil {
		t.Fatalf("PredictWithStd() bounded error = %v", err)
	}

	// Both models train identically; the root only bounds the variance
	// correction, so the approximate std must stay close to and not exceed
	// far above the exact one.
	for i := 0; i < 5; i++ {
		se, sb := stdExact.At(i, 0), stdBounded.At(i, 0)
		if sb <= 0 {
			t.Errorf("bounded std[%d] = %v, want positive", i, sb)
		}
		if sb > se+0.5 {
			t.Errorf("bounded std[%d] = %v, exact = %v, want close", i, sb, se)
		}
	}
}

func TestSGPRRegressorString(t *testing.T) {
	g := NewSGPRRegressor(WithInducingPoints(7), WithMaxIter(2))
	if s := g.String(); s == "" {
		t.Error("String() before Fit is empty")
	}

	X, y := sineData(15)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if s := g.String(); s == "" {
		t.Error("String() after Fit is empty")
	}
}
