package gnb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Option configures a Classifier at construction.
type Option func(*Classifier)

// WithLabels replaces DefaultLabels.
func WithLabels(labels LabelSet) Option {
	return func(c *Classifier) {
		c.labels = labels
	}
}

// WithVarianceFloor raises any variance below eps to eps when computing
// densities. Zero disables smoothing, so a zero variance fails prediction
// with ErrDegenerateDistribution.
func WithVarianceFloor(eps float64) Option {
	return func(c *Classifier) {
		c.varianceFloor = eps
	}
}

// WithTrace installs a printf-style hook that receives the fitted priors,
// means and variances after each Train, and any ignored samples.
func WithTrace(f func(format string, v ...interface{})) Option {
	return func(c *Classifier) {
		c.tracef = f
	}
}

// Classifier is a Gaussian Naive Bayes model over a fixed set of three labels
// and a fixed number of features.
type Classifier struct {
	labels        LabelSet
	featureCount  int
	varianceFloor float64
	tracef        func(format string, v ...interface{})

	// Rows are labels, columns are features.
	means     *mat.Dense
	m2        *mat.Dense
	variances *mat.Dense

	// Empty until Train succeeds.
	priors []float64
}

// NewClassifier creates an untrained classifier for observations of
// featureCount features.
func NewClassifier(featureCount int, opts ...Option) (*Classifier, error) {
	if featureCount < 1 {
		return nil, fmt.Errorf("%w: feature count must be positive, got %d", ErrInvalidInput, featureCount)
	}

	c := &Classifier{
		labels:       DefaultLabels,
		featureCount: featureCount,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.labels.Validate(); err != nil {
		return nil, err
	}
	if c.varianceFloor < 0 || math.IsNaN(c.varianceFloor) || math.IsInf(c.varianceFloor, 0) {
		return nil, fmt.Errorf("%w: variance floor must be finite and non-negative, got %g", ErrInvalidInput, c.varianceFloor)
	}
	if c.tracef == nil {
		c.tracef = func(string, ...interface{}) {}
	}

	c.reset()
	return c, nil
}

// reset zeroes the parameter matrices and forgets the priors.
func (c *Classifier) reset() {
	c.means = mat.NewDense(NumLabels, c.featureCount, nil)
	c.m2 = mat.NewDense(NumLabels, c.featureCount, nil)
	c.variances = mat.NewDense(NumLabels, c.featureCount, nil)
	c.priors = nil
}

// Train estimates the per-label means, variances and priors from data, where
// labels[i] is the label of data[i]. Samples are processed in order.
//
// Samples whose label is not in the label set still count toward the total
// used for the priors but update no label. Each call starts from a zeroed
// state; on error the previous state is left untouched.
func (c *Classifier) Train(data [][]float64, labels []Label) error {
	if err := c.validateTraining(data, labels); err != nil {
		return err
	}

	c.reset()
	counts := make([]int, NumLabels)

	for sample, label := range labels {
		row := c.labels.Index(label)
		if row < 0 {
			c.tracef("gnb: sample %d has unknown label %q, ignored", sample, label)
			continue
		}

		counts[row]++
		n := float64(counts[row])

		for f, x := range data[sample] {
			mean := c.means.At(row, f)
			delta := x - mean
			mean += delta / n
			m2 := c.m2.At(row, f) + delta*(x-mean)

			c.means.Set(row, f, mean)
			c.m2.Set(row, f, m2)
			c.variances.Set(row, f, m2/n)
		}
	}

	priors := make([]float64, NumLabels)
	for i, count := range counts {
		priors[i] = float64(count) / float64(len(labels))
	}
	c.priors = priors

	c.traceState()
	return nil
}

func (c *Classifier) validateTraining(data [][]float64, labels []Label) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty training set", ErrInvalidInput)
	}
	if len(data) != len(labels) {
		return fmt.Errorf("%w: %d observations but %d labels", ErrInvalidInput, len(data), len(labels))
	}
	for i, obs := range data {
		if err := c.validateObservation(obs); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

func (c *Classifier) validateObservation(obs []float64) error {
	if len(obs) != c.featureCount {
		return fmt.Errorf("%w: observation has %d features, want %d", ErrInvalidInput, len(obs), c.featureCount)
	}
	for f, x := range obs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: feature %d is not finite (%g)", ErrInvalidInput, f, x)
		}
	}
	return nil
}

func (c *Classifier) traceState() {
	c.tracef("gnb: priors = %v", c.priors)
	for i, label := range c.labels {
		c.tracef("gnb: %s means = %v", label, mat.Row(nil, i, c.means))
		c.tracef("gnb: %s variances = %v", label, mat.Row(nil, i, c.variances))
	}
}

// Predict returns the label with the highest posterior score for
// observation. The running maximum starts at zero and only a strictly
// greater score replaces it, so ties go to the lower label index and a
// set of all-zero scores yields the first label.
func (c *Classifier) Predict(observation []float64) (Label, error) {
	scores, err := c.Scores(observation)
	if err != nil {
		return "", err
	}

	best := 0
	bestScore := 0.0
	for i, score := range scores {
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return c.labels[best], nil
}

// Scores returns prior * Π pdf for every label in label-set order. Labels
// with a zero prior score zero without evaluating their densities.
func (c *Classifier) Scores(observation []float64) ([]float64, error) {
	if !c.Trained() {
		return nil, ErrNotTrained
	}
	if err := c.validateObservation(observation); err != nil {
		return nil, err
	}

	scores := make([]float64, NumLabels)
	for i, prior := range c.priors {
		if prior == 0 {
			continue
		}
		score := prior
		for f, x := range observation {
			pdf, err := c.density(i, f, x)
			if err != nil {
				return nil, err
			}
			score *= pdf
		}
		scores[i] = score
	}
	return scores, nil
}

// density evaluates the normal density of feature f under label row i.
func (c *Classifier) density(i, f int, x float64) (float64, error) {
	variance := c.variances.At(i, f)
	if variance < c.varianceFloor {
		variance = c.varianceFloor
	}
	if !(variance > 0) || math.IsInf(variance, 0) {
		return 0, fmt.Errorf("%w: label %q feature %d has variance %g",
			ErrDegenerateDistribution, c.labels[i], f, variance)
	}

	normal := distuv.Normal{Mu: c.means.At(i, f), Sigma: math.Sqrt(variance)}
	return normal.Prob(x), nil
}

// Labels returns the label set.
func (c *Classifier) Labels() LabelSet { return c.labels }

// FeatureCount returns the number of features per observation.
func (c *Classifier) FeatureCount() int { return c.featureCount }

// Trained reports whether Train has completed successfully.
func (c *Classifier) Trained() bool { return len(c.priors) == NumLabels }

// Priors returns a copy of the class priors, or nil before training.
func (c *Classifier) Priors() []float64 {
	if c.priors == nil {
		return nil
	}
	out := make([]float64, len(c.priors))
	copy(out, c.priors)
	return out
}

// Means returns a copy of the mean matrix indexed [label][feature].
func (c *Classifier) Means() [][]float64 { return rows(c.means) }

// Variances returns a copy of the variance matrix indexed [label][feature].
func (c *Classifier) Variances() [][]float64 { return rows(c.variances) }

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
