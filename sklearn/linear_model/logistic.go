// Package linear_model は線形分類器を提供します。
package linear_model

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Multi-class strategies.
const (
	MultiClassAuto        = "auto"
	MultiClassOVR         = "ovr"
	MultiClassMultinomial = "multinomial"
)

// LogisticRegression implements logistic regression for classification.
// Binary problems fit a single weight vector; with three or more classes
// (red win, blue win, draw/no contest) it fits either one-vs-rest or a
// softmax model.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	classWeight  string  // Class weight: "balanced", "none"
	seed         uint64  // Seed for weight initialisation
	maxIter      int     // Maximum iterations
	multiClass   string  // Multi-class: "auto", "ovr", "multinomial"
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ []float64   // Intercept terms
	classes_   []int       // Unique class labels
	nIter_     []int       // Actual iterations per weight vector

	stepSize float64 // 1/L for the smoothness bound L of the mean loss
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		classWeight:  "none",
		maxIter:      100,
		multiClass:   MultiClassAuto,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the seed used to initialise weights
func WithLRRandomState(seed uint64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.seed = seed
	}
}

// WithLRMultiClass selects "auto", "ovr" or "multinomial"
func WithLRMultiClass(strategy string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.multiClass = strategy
	}
}

// WithLRClassWeight sets "balanced" or "none"
func WithLRClassWeight(weight string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.classWeight = weight
	}
}

// Name implements model.Named.
func (lr *LogisticRegression) Name() string { return "LogisticRegression" }

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LogisticRegression.Fit")

	if err := lr.validate(); err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if err := errors.CheckMatrix("LogisticRegression.Fit", X, nSamples, nFeatures); err != nil {
		return err
	}

	lr.state.Reset()
	lr.extractClasses(y)
	if len(lr.classes_) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", len(lr.classes_)))
	}
	lr.initializeWeights(nFeatures)
	weights := lr.sampleWeights(y)
	lr.stepSize = lr.stepFor(X, weights)

	switch {
	case len(lr.classes_) == 2:
		lr.fitBinaryForClass(X, lr.binaryTargets(y, lr.classes_[1]), weights, 0)
	case lr.useMultinomial():
		lr.fitMultinomial(X, y, weights)
	default:
		for k, class := range lr.classes_ {
			lr.fitBinaryForClass(X, lr.binaryTargets(y, class), weights, k)
		}
	}

	for _, n := range lr.nIter_ {
		if n >= lr.maxIter {
			errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
				"gradient descent did not reach tol; increase max_iter or scale the data"))
			break
		}
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

func (lr *LogisticRegression) validate() error {
	switch {
	case lr.penalty != "l2" && lr.penalty != "none":
		return errors.NewValidationError("penalty", "must be l2 or none", lr.penalty)
	case lr.penalty == "l2" && lr.C <= 0:
		return errors.NewValidationError("C", "must be positive", lr.C)
	case lr.maxIter <= 0:
		return errors.NewValidationError("max_iter", "must be positive", lr.maxIter)
	case lr.classWeight != "none" && lr.classWeight != "balanced":
		return errors.NewValidationError("class_weight", "must be balanced or none", lr.classWeight)
	}
	switch lr.multiClass {
	case MultiClassAuto, MultiClassOVR, MultiClassMultinomial:
		return nil
	}
	return errors.NewValidationError("multi_class", "must be auto, ovr or multinomial", lr.multiClass)
}

func (lr *LogisticRegression) useMultinomial() bool {
	return lr.multiClass == MultiClassMultinomial || lr.multiClass == MultiClassAuto
}

// extractClasses identifies unique class labels, sorted
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	lr.classes_ = lr.classes_[:0]
	for i := 0; i < rows; i++ {
		label := int(y.At(i, 0))
		if !seen[label] {
			seen[label] = true
			lr.classes_ = append(lr.classes_, label)
		}
	}
	slices.Sort(lr.classes_)
}

// initializeWeights initializes model weights with small seeded noise
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nVectors := len(lr.classes_)
	if nVectors == 2 {
		nVectors = 1
	}
	rng := rand.New(rand.NewPCG(lr.seed, lr.seed+1))
	lr.coef_ = make([][]float64, nVectors)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
		for j := range lr.coef_[i] {
			lr.coef_[i][j] = rng.NormFloat64() * 0.01
		}
	}
	lr.intercept_ = make([]float64, nVectors)
	lr.nIter_ = make([]int, nVectors)
}

// sampleWeights returns per-sample weights; "balanced" weights each class by
// n_samples / (n_classes * count).
func (lr *LogisticRegression) sampleWeights(y mat.Matrix) []float64 {
	n, _ := y.Dims()
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	if lr.classWeight != "balanced" {
		return w
	}
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		counts[int(y.At(i, 0))]++
	}
	for i := range w {
		w[i] = float64(n) / (float64(len(counts)) * float64(counts[int(y.At(i, 0))]))
	}
	return w
}

// stepFor returns a gradient step of 1/L, where L bounds the curvature of the
// weighted mean log loss: 1/4 of the largest weighted squared row norm for a
// sigmoid, 1/2 for softmax, plus the l2 term.
func (lr *LogisticRegression) stepFor(X mat.Matrix, sampleW []float64) float64 {
	nSamples, nFeatures := X.Dims()
	maxNorm := 0.0
	for i := 0; i < nSamples; i++ {
		norm := 0.0
		if lr.fitIntercept {
			norm = 1
		}
		for j := 0; j < nFeatures; j++ {
			v := X.At(i, j)
			norm += v * v
		}
		maxNorm = math.Max(maxNorm, norm*sampleW[i])
	}
	curvature := 0.25
	if len(lr.classes_) > 2 && lr.useMultinomial() {
		curvature = 0.5
	}
	L := curvature * maxNorm
	if lr.penalty == "l2" {
		L += 1.0 / (lr.C * float64(nSamples))
	}
	if L == 0 {
		return 1
	}
	return 1 / L
}

func (lr *LogisticRegression) binaryTargets(y mat.Matrix, positive int) []float64 {
	n, _ := y.Dims()
	t := make([]float64, n)
	for i := range t {
		if int(y.At(i, 0)) == positive {
			t[i] = 1
		}
	}
	return t
}

// fitBinaryForClass fits weight vector k by gradient descent on the log loss
func (lr *LogisticRegression) fitBinaryForClass(X mat.Matrix, target, sampleW []float64, k int) {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[k]
	intercept := &lr.intercept_[k]
	gradWeights := make([]float64, nFeatures)

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0
		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			e := (sigmoid(z) - target[i]) * sampleW[i]
			gradIntercept += e
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += e * X.At(i, j)
			}
		}
		maxGrad := lr.step(weights, intercept, gradWeights, gradIntercept, nSamples)
		lr.nIter_[k] = iter + 1
		if maxGrad < lr.tol {
			break
		}
	}
}

// fitMultinomial fits a softmax model over all classes jointly
func (lr *LogisticRegression) fitMultinomial(X, y mat.Matrix, sampleW []float64) {
	nSamples, nFeatures := X.Dims()
	nClasses := len(lr.classes_)
	classIdx := make(map[int]int, nClasses)
	for k, c := range lr.classes_ {
		classIdx[c] = k
	}
	grads := make([][]float64, nClasses)
	for k := range grads {
		grads[k] = make([]float64, nFeatures)
	}
	gradIntercepts := make([]float64, nClasses)
	scores := make([]float64, nClasses)

	for iter := 0; iter < lr.maxIter; iter++ {
		for k := range grads {
			clear(grads[k])
		}
		clear(gradIntercepts)
		for i := 0; i < nSamples; i++ {
			lr.decision(X, i, scores)
			softmax(scores)
			yi := classIdx[int(y.At(i, 0))]
			for k := 0; k < nClasses; k++ {
				e := scores[k]
				if k == yi {
					e -= 1
				}
				e *= sampleW[i]
				gradIntercepts[k] += e
				for j := 0; j < nFeatures; j++ {
					grads[k][j] += e * X.At(i, j)
				}
			}
		}
		maxGrad := 0.0
		for k := 0; k < nClasses; k++ {
			maxGrad = math.Max(maxGrad, lr.step(lr.coef_[k], &lr.intercept_[k], grads[k], gradIntercepts[k], nSamples))
		}
		for k := range lr.nIter_ {
			lr.nIter_[k] = iter + 1
		}
		if maxGrad < lr.tol {
			break
		}
	}
}

// step applies one gradient update and returns the largest gradient
// component.
func (lr *LogisticRegression) step(weights []float64, intercept *float64, grad []float64, gradIntercept float64, nSamples int) float64 {
	for j := range grad {
		grad[j] /= float64(nSamples)
	}
	gradIntercept /= float64(nSamples)
	if lr.penalty == "l2" {
		lambda := 1.0 / (lr.C * float64(nSamples))
		for j := range weights {
			grad[j] += lambda * weights[j]
		}
	}

	for j := range weights {
		weights[j] -= lr.stepSize * grad[j]
	}
	maxGrad := 0.0
	if lr.fitIntercept {
		*intercept -= lr.stepSize * gradIntercept
		maxGrad = math.Abs(gradIntercept)
	}
	for _, g := range grad {
		maxGrad = math.Max(maxGrad, math.Abs(g))
	}
	return maxGrad
}

// decision writes the linear score of every weight vector for row i
func (lr *LogisticRegression) decision(X mat.Matrix, i int, out []float64) {
	for k := range lr.coef_ {
		z := lr.intercept_[k]
		for j, w := range lr.coef_[k] {
			z += X.At(i, j) * w
		}
		out[k] = z
	}
}

func (lr *LogisticRegression) checkPredict(X mat.Matrix, method string) (int, error) {
	if err := lr.state.RequireFitted(lr.Name(), method); err != nil {
		return 0, err
	}
	nSamples, nFeatures := X.Dims()
	if err := lr.state.RequireFeatures("LogisticRegression."+method, nFeatures); err != nil {
		return 0, err
	}
	if err := errors.CheckMatrix("LogisticRegression."+method, X, nSamples, nFeatures); err != nil {
		return 0, err
	}
	return nSamples, nil
}

// Predict returns the most probable class label for each row
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		best := 0
		for k := 1; k < nClasses; k++ {
			if probas.At(i, k) > probas.At(i, best) {
				best = k
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[best]))
	}
	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	nSamples, err := lr.checkPredict(X, "PredictProba")
	if err != nil {
		return nil, err
	}
	nClasses := len(lr.classes_)
	probas := mat.NewDense(nSamples, nClasses, nil)
	scores := make([]float64, len(lr.coef_))

	for i := 0; i < nSamples; i++ {
		lr.decision(X, i, scores)
		switch {
		case nClasses == 2:
			p1 := sigmoid(scores[0])
			probas.Set(i, 0, 1.0-p1)
			probas.Set(i, 1, p1)
		case lr.useMultinomial():
			softmax(scores)
			probas.SetRow(i, scores)
		default:
			// one-vs-rest: normalise the per-class sigmoids
			sum := 0.0
			for k, s := range scores {
				scores[k] = sigmoid(s)
				sum += scores[k]
			}
			for k := range scores {
				probas.Set(i, k, scores[k]/sum)
			}
		}
	}
	return probas, nil
}

// Classes returns the sorted class labels seen during fitting
func (lr *LogisticRegression) Classes() []int {
	return slices.Clone(lr.classes_)
}

// NIter returns the iterations run for each weight vector
func (lr *LogisticRegression) NIter() []int {
	return slices.Clone(lr.nIter_)
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"class_weight":  lr.classWeight,
		"random_state":  lr.seed,
		"max_iter":      lr.maxIter,
		"multi_class":   lr.multiClass,
		"tol":           lr.tol,
	}
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// softmax replaces scores with their softmax in place
func softmax(scores []float64) {
	maxScore := slices.Max(scores)
	sum := 0.0
	for k, s := range scores {
		scores[k] = math.Exp(s - maxScore)
		sum += scores[k]
	}
	for k := range scores {
		scores[k] /= sum
	}
}
