package gaussian_process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/scigp/core/model"
	"github.com/YuminosukeSato/scigp/metrics"
	"github.com/YuminosukeSato/scigp/pkg/errors"
	"github.com/YuminosukeSato/scigp/pkg/log"
)

// Variances this small are indistinguishable from rounding error; they are
// clamped before taking square roots.
const minVariance = 1e-12

// SGPRRegressor is a sparse Gaussian process regression model.
//
// The full GP covariance K_nn is replaced by the low-rank-plus-diagonal
// approximation Q_nn + σ²I with Q_nn = K_nm K_mm⁻¹ K_mn, where the m
// inducing points are a fixed-size subset of the training inputs. Training
// maximizes the marginal likelihood of the targets under this approximation
// by plain fixed-step gradient descent; gradients of the objective are
// computed by central finite differences (gonum diff/fd), so no kernel
// derivative code is required.
//
// By default the inducing points are the first m training rows and stay
// fixed during training, matching common tutorial practice. Passing
// WithOptimizeInducing(true) appends their coordinates to the trainable
// parameter vector, restoring the joint optimization of the original
// sparse-GP formulation.
type SGPRRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	kernel           Kernel
	mean             *ConstantMean
	logNoise         float64
	numInducing      int
	learningRate     float64
	maxIter          int
	optimizeInducing bool
	maxRootSize      int
	jitter           float64
	iterCallback     func(iter int, loss float64)

	// Learned parameters
	inducing_    *mat.Dense
	alpha_       *mat.VecDense
	cholKmm_     mat.Cholesky
	cholA_       mat.Cholesky
	root_        *mat.Dense
	noise_       float64
	lossHistory_ []float64
	lml_         float64

	// Statistical information
	nFeatures_ int
	nSamples_  int
}

// SGPRRegressorOption は設定オプション
type SGPRRegressorOption func(*SGPRRegressor)

// WithKernel sets the covariance kernel.
func WithKernel(k Kernel) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.kernel = k
	}
}

// WithInducingPoints sets the number of inducing points m. The inducing set
// is initialized from the first m training rows.
func WithInducingPoints(m int) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.numInducing = m
	}
}

// WithLearningRate sets the fixed gradient-descent step size.
func WithLearningRate(lr float64) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.learningRate = lr
	}
}

// WithMaxIter sets the number of training iterations. Iteration count is the
// sole termination criterion; there is no convergence check.
func WithMaxIter(maxIter int) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.maxIter = maxIter
	}
}

// WithNoiseVariance sets the initial observation noise variance σ².
func WithNoiseVariance(noise float64) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.logNoise = math.Log(noise)
	}
}

// WithOptimizeInducing controls whether the inducing-point coordinates are
// optimized jointly with the kernel hyperparameters.
func WithOptimizeInducing(optimize bool) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.optimizeInducing = optimize
	}
}

// WithMaxRootSize bounds the rank of the covariance root used for the
// predictive variance. Zero means exact. Smaller values trade accuracy for
// compute on large inducing sets.
func WithMaxRootSize(size int) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.maxRootSize = size
	}
}

// WithIterationCallback registers a function invoked with each iteration's
// loss, before the gradient step. Useful for progress reporting.
func WithIterationCallback(cb func(iter int, loss float64)) SGPRRegressorOption {
	return func(g *SGPRRegressor) {
		g.iterCallback = cb
	}
}

// NewSGPRRegressor は新しいスパースガウス過程回帰モデルを作成する
func NewSGPRRegressor(options ...SGPRRegressorOption) *SGPRRegressor {
	rbf, _ := NewRBF(1.0)
	g := &SGPRRegressor{
		kernel:       NewScaleKernel(rbf),
		mean:         NewConstantMean(),
		logNoise:     0, // σ² = 1
		numInducing:  500,
		learningRate: 0.1,
		maxIter:      50,
		jitter:       1e-6,
	}

	for _, opt := range options {
		opt(g)
	}

	return g
}

// Kernel returns the model's covariance kernel.
func (g *SGPRRegressor) Kernel() Kernel { return g.kernel }

// Mean returns the model's mean function.
func (g *SGPRRegressor) Mean() *ConstantMean { return g.mean }

// NoiseVariance returns the observation noise variance σ².
func (g *SGPRRegressor) NoiseVariance() float64 { return math.Exp(g.logNoise) }

// InducingPoints returns the learned inducing-point coordinates, one row per
// inducing point. It returns nil before Fit.
func (g *SGPRRegressor) InducingPoints() *mat.Dense { return g.inducing_ }

// LossHistory returns the per-iteration training losses. Its length equals
// the configured number of iterations after a successful Fit.
func (g *SGPRRegressor) LossHistory() []float64 {
	out := make([]float64, len(g.lossHistory_))
	copy(out, g.lossHistory_)
	return out
}

// LogMarginalLikelihood returns the total log marginal likelihood of the
// training targets at the learned hyperparameters.
func (g *SGPRRegressor) LogMarginalLikelihood() (float64, error) {
	if !g.IsFitted() {
		return 0, errors.NewNotFittedError("SGPRRegressor", "LogMarginalLikelihood")
	}
	return g.lml_, nil
}

// Fit はモデルを訓練データで学習させる
//
// 損失は近似モデル N(y; μ1, Q_nn + σ²I) の負の対数周辺尤度（サンプル平均）
// であり、固定ステップの勾配降下法で maxIter 回だけ更新される。
// 収束判定は行わず、損失履歴は常に maxIter 個になる。
func (g *SGPRRegressor) Fit(X, y mat.Matrix) error {
	n, d := X.Dims()
	yRows, yCols := y.Dims()

	if n == 0 || d == 0 {
		return errors.NewModelError("SGPRRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return errors.NewDimensionError("SGPRRegressor.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SGPRRegressor.Fit", "y must be a column vector")
	}
	if g.numInducing <= 0 {
		return errors.NewValidationError("numInducing", "must be positive", g.numInducing)
	}
	if g.learningRate <= 0 {
		return errors.NewValidationError("learningRate", "must be positive", g.learningRate)
	}
	if g.maxIter <= 0 {
		return errors.NewValidationError("maxIter", "must be positive", g.maxIter)
	}

	logger := log.GetLoggerWithName("gaussian_process.sgpr")

	m := g.numInducing
	if m > n {
		logger.Warn("Inducing point count exceeds sample count, clamping",
			log.InducingPointsKey, g.numInducing,
			log.SamplesKey, n,
		)
		m = n
	}

	g.nSamples_ = n
	g.nFeatures_ = d

	// Inducing points are initialized by truncation: the first m training rows.
	g.inducing_ = mat.NewDense(m, d, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			g.inducing_.Set(i, j, X.At(i, j))
		}
	}

	XDense := mat.DenseCopyOf(X)
	yVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	logger.Info("Training SGPR",
		log.OperationKey, "fit",
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.InducingPointsKey, m,
		log.MaxIterKey, g.maxIter,
		log.LearningRateKey, g.learningRate,
	)

	theta := g.packTheta()
	grad := make([]float64, len(theta))
	objective := func(t []float64) float64 {
		return g.evalObjective(t, XDense, yVec)
	}
	settings := &fd.Settings{Formula: fd.Central, Concurrent: true}

	g.lossHistory_ = make([]float64, 0, g.maxIter)
	for iter := 0; iter < g.maxIter; iter++ {
		loss := objective(theta)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return errors.NewNumericalInstabilityError("marginal_likelihood", []float64{loss}, iter)
		}

		g.lossHistory_ = append(g.lossHistory_, loss)
		if g.iterCallback != nil {
			g.iterCallback(iter, loss)
		}
		logger.Debug("Training progress",
			log.IterationKey, iter,
			log.LossKey, loss,
		)

		fd.Gradient(grad, objective, theta, settings)
		floats.AddScaled(theta, -g.learningRate, grad)
	}

	g.unpackTheta(theta, d)
	if err := g.precompute(XDense, yVec); err != nil {
		return err
	}

	scale, _ := g.kernel.(*ScaleKernel)
	fields := []any{
		log.LossKey, g.lossHistory_[len(g.lossHistory_)-1],
		log.NoiseKey, g.NoiseVariance(),
	}
	if scale != nil {
		fields = append(fields, log.OutputScaleKey, scale.OutputScale())
		if rbf, ok := scale.Base().(*RBF); ok {
			fields = append(fields, log.LengthscaleKey, rbf.Lengthscale())
		}
	}
	logger.Info("Training finished", fields...)

	g.SetFitted()
	return nil
}

// packTheta collects all trainable parameters into one log-space vector:
// kernel hyperparameters, mean constant, log noise, and (when inducing-point
// optimization is enabled) the flattened inducing coordinates.
func (g *SGPRRegressor) packTheta() []float64 {
	theta := append([]float64(nil), g.kernel.Theta()...)
	theta = append(theta, g.mean.Constant, g.logNoise)
	if g.optimizeInducing {
		theta = append(theta, g.inducing_.RawMatrix().Data...)
	}
	return theta
}

// unpackTheta writes a parameter vector back into the model.
func (g *SGPRRegressor) unpackTheta(theta []float64, d int) {
	nk := g.kernel.NumParams()
	_ = g.kernel.SetTheta(theta[:nk])
	g.mean.Constant = theta[nk]
	g.logNoise = theta[nk+1]
	if g.optimizeInducing {
		coords := theta[nk+2:]
		m := len(coords) / d
		g.inducing_ = mat.NewDense(m, d, append([]float64(nil), coords...))
	}
}

// modelAt materializes the model implied by a parameter vector without
// touching shared state, so the objective can be evaluated concurrently at
// perturbed parameters during finite differencing.
func (g *SGPRRegressor) modelAt(theta []float64, d int) (Kernel, float64, float64, mat.Matrix) {
	k := g.kernel.Clone()
	nk := k.NumParams()
	_ = k.SetTheta(theta[:nk])

	mu := theta[nk]
	sigma2 := math.Exp(theta[nk+1])

	var Z mat.Matrix = g.inducing_
	if g.optimizeInducing {
		coords := theta[nk+2:]
		m := len(coords) / d
		Z = mat.NewDense(m, d, append([]float64(nil), coords...))
	}
	return k, mu, sigma2, Z
}

// evalObjective returns the negative log marginal likelihood per sample of
// the low-rank model at theta, using the matrix inversion and determinant
// lemmas so the cost is O(n·m²) instead of O(n³):
//
//	log|Q_nn + σ²I|  = log|A| − log|K_mm| + n·log σ²
//	(Q_nn + σ²I)⁻¹ r = r/σ² − K_nm A⁻¹ K_mn r / σ⁴
//
// with A = K_mm + K_mn K_nm / σ². Factorization failures surface as NaN and
// are translated into errors by the caller.
func (g *SGPRRegressor) evalObjective(theta []float64, X *mat.Dense, y *mat.VecDense) float64 {
	k, mu, sigma2, Z := g.modelAt(theta, g.nFeatures_)
	n, _ := X.Dims()
	m, _ := Z.Dims()

	Kmm := KernelMatrixSym(k, Z)
	for i := 0; i < m; i++ {
		Kmm.SetSym(i, i, Kmm.At(i, i)+g.jitter)
	}
	var cholKmm mat.Cholesky
	if !cholKmm.Factorize(Kmm) {
		return math.NaN()
	}

	Knm := CrossKernelMatrix(k, X, Z)

	var A mat.SymDense
	A.SymOuterK(1/sigma2, Knm.T())
	A.AddSym(&A, Kmm)
	var cholA mat.Cholesky
	if !cholA.Factorize(&A) {
		return math.NaN()
	}

	r := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetVec(i, y.AtVec(i)-mu)
	}

	c := mat.NewVecDense(m, nil)
	c.MulVec(Knm.T(), r)

	w := mat.NewVecDense(m, nil)
	if err := cholA.SolveVecTo(w, c); err != nil {
		return math.NaN()
	}

	quad := mat.Dot(r, r)/sigma2 - mat.Dot(c, w)/(sigma2*sigma2)
	logDet := cholA.LogDet() - cholKmm.LogDet() + float64(n)*math.Log(sigma2)
	nlml := 0.5 * (float64(n)*math.Log(2*math.Pi) + logDet + quad)

	return nlml / float64(n)
}

// precompute factorizes the covariance structure at the learned parameters
// and caches everything Predict needs: the Cholesky factors of K_mm and A,
// the weight vector α = A⁻¹ K_mn r / σ², and optionally a rank-bounded root
// of A⁻¹ for the predictive variance.
func (g *SGPRRegressor) precompute(X *mat.Dense, y *mat.VecDense) error {
	n, _ := X.Dims()
	m, _ := g.inducing_.Dims()
	sigma2 := math.Exp(g.logNoise)

	Kmm := KernelMatrixSym(g.kernel, g.inducing_)
	for i := 0; i < m; i++ {
		Kmm.SetSym(i, i, Kmm.At(i, i)+g.jitter)
	}
	if !g.cholKmm_.Factorize(Kmm) {
		return errors.Wrap(errors.ErrNotPositiveDefinite, "SGPRRegressor: factorize K_mm")
	}

	Knm := CrossKernelMatrix(g.kernel, X, g.inducing_)

	var A mat.SymDense
	A.SymOuterK(1/sigma2, Knm.T())
	A.AddSym(&A, Kmm)
	if !g.cholA_.Factorize(&A) {
		return errors.Wrap(errors.ErrNotPositiveDefinite, "SGPRRegressor: factorize inner system")
	}

	r := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetVec(i, y.AtVec(i)-g.mean.Constant)
	}
	c := mat.NewVecDense(m, nil)
	c.MulVec(Knm.T(), r)

	g.alpha_ = mat.NewVecDense(m, nil)
	if err := g.cholA_.SolveVecTo(g.alpha_, c); err != nil {
		return errors.Wrap(err, "SGPRRegressor: solve for predictive weights")
	}
	g.alpha_.ScaleVec(1/sigma2, g.alpha_)

	g.noise_ = sigma2
	g.lml_ = -g.evalObjective(g.packTheta(), X, y) * float64(n)

	g.root_ = nil
	if g.maxRootSize > 0 && g.maxRootSize < m {
		root, err := boundedInverseRoot(&A, g.maxRootSize)
		if err != nil {
			return err
		}
		g.root_ = root
	}
	return nil
}

// boundedInverseRoot builds a rank-k root R with R Rᵀ ≈ A⁻¹ from the k
// smallest eigenpairs of A, which dominate the inverse.
func boundedInverseRoot(A *mat.SymDense, k int) (*mat.Dense, error) {
	var es mat.EigenSym
	if !es.Factorize(A, true) {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "SGPRRegressor: eigendecompose inner system")
	}

	m, _ := A.Dims()
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	// Eigenvalues come back in ascending order, so the first k columns are
	// the dominant directions of A⁻¹.
	root := mat.NewDense(m, k, nil)
	for j := 0; j < k; j++ {
		lambda := values[j]
		if lambda <= 0 {
			return nil, errors.Wrap(errors.ErrNotPositiveDefinite, "SGPRRegressor: eigenvalue underflow")
		}
		scale := 1 / math.Sqrt(lambda)
		for i := 0; i < m; i++ {
			root.Set(i, j, vectors.At(i, j)*scale)
		}
	}
	return root, nil
}

// Predict は入力データに対する予測平均を返す
func (g *SGPRRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("SGPRRegressor", "Predict")
	}

	t, d := X.Dims()
	if d != g.nFeatures_ {
		return nil, errors.NewDimensionError("SGPRRegressor.Predict", g.nFeatures_, d, 1)
	}

	Kstar := CrossKernelMatrix(g.kernel, X, g.inducing_)

	var mv mat.VecDense
	mv.MulVec(Kstar, g.alpha_)

	mean := mat.NewDense(t, 1, nil)
	for i := 0; i < t; i++ {
		mean.Set(i, 0, mv.AtVec(i)+g.mean.Constant)
	}
	return mean, nil
}

// PredictWithStd は予測平均と予測標準偏差を返す
//
// 分散は var(x) = k(x,x) − k*ᵀ K_mm⁻¹ k* + k*ᵀ A⁻¹ k* + σ² で計算される。
// WithMaxRootSize が設定されている場合、A⁻¹ の項は低ランク根で近似される。
func (g *SGPRRegressor) PredictWithStd(X mat.Matrix) (mat.Matrix, mat.Matrix, error) {
	meanMat, err := g.Predict(X)
	if err != nil {
		return nil, nil, err
	}

	t, _ := X.Dims()
	m, _ := g.inducing_.Dims()

	Kstar := CrossKernelMatrix(g.kernel, X, g.inducing_)
	diag := KernelDiag(g.kernel, X)

	std := mat.NewDense(t, 1, nil)
	kstar := mat.NewVecDense(m, nil)
	w := mat.NewVecDense(m, nil)
	for i := 0; i < t; i++ {
		for j := 0; j < m; j++ {
			kstar.SetVec(j, Kstar.At(i, j))
		}

		variance := diag[i] + g.noise_

		if err := g.cholKmm_.SolveVecTo(w, kstar); err != nil {
			return nil, nil, errors.Wrap(err, "SGPRRegressor: predictive variance solve")
		}
		variance -= mat.Dot(kstar, w)

		if g.root_ != nil {
			_, k := g.root_.Dims()
			proj := mat.NewVecDense(k, nil)
			proj.MulVec(g.root_.T(), kstar)
			variance += mat.Dot(proj, proj)
		} else {
			if err := g.cholA_.SolveVecTo(w, kstar); err != nil {
				return nil, nil, errors.Wrap(err, "SGPRRegressor: predictive variance solve")
			}
			variance += mat.Dot(kstar, w)
		}

		if variance < minVariance {
			variance = minVariance
		}
		std.Set(i, 0, math.Sqrt(variance))
	}

	return meanMat, std, nil
}

// PredictiveDistribution returns the predictive Gaussian for a single input
// point.
func (g *SGPRRegressor) PredictiveDistribution(x []float64) (distuv.Normal, error) {
	if !g.IsFitted() {
		return distuv.Normal{}, errors.NewNotFittedError("SGPRRegressor", "PredictiveDistribution")
	}
	if len(x) != g.nFeatures_ {
		return distuv.Normal{}, errors.NewDimensionError("SGPRRegressor.PredictiveDistribution", g.nFeatures_, len(x), 1)
	}

	X := mat.NewDense(1, len(x), append([]float64(nil), x...))
	mean, std, err := g.PredictWithStd(X)
	if err != nil {
		return distuv.Normal{}, err
	}
	return distuv.Normal{Mu: mean.At(0, 0), Sigma: std.At(0, 0)}, nil
}

// Score はモデルの決定係数（R²）を計算する
func (g *SGPRRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := y.Dims()
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yPred)
}

// GetParams はモデルのハイパーパラメータを取得する
func (g *SGPRRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel":            fmt.Sprintf("%v", g.kernel),
		"num_inducing":      g.numInducing,
		"learning_rate":     g.learningRate,
		"max_iter":          g.maxIter,
		"noise_variance":    math.Exp(g.logNoise),
		"optimize_inducing": g.optimizeInducing,
		"max_root_size":     g.maxRootSize,
	}
}

// String はモデルの文字列表現を返す
func (g *SGPRRegressor) String() string {
	if !g.IsFitted() {
		return fmt.Sprintf("SGPRRegressor(kernel=%v, m=%d)", g.kernel, g.numInducing)
	}
	m, _ := g.inducing_.Dims()
	return fmt.Sprintf("SGPRRegressor(kernel=%v, m=%d, n_features=%d)", g.kernel, m, g.nFeatures_)
}
