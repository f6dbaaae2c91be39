// Package evaluate scores a trained classifier against a labeled test set.
package evaluate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/maneuver/internal/dataset"
	"github.com/banshee-data/maneuver/internal/gnb"
)

// Predictor is the read-only surface of a trained classifier.
// Predict must be safe for concurrent use.
type Predictor interface {
	Predict(observation []float64) (gnb.Label, error)
	Labels() gnb.LabelSet
}

// LabelMetrics holds one-vs-rest metrics for a single label.
type LabelMetrics struct {
	Label     string  `json:"label"`
	Support   int     `json:"support"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Result is the outcome of scoring a test set.
type Result struct {
	Labels      gnb.LabelSet `json:"labels"`
	Predictions []string     `json:"predictions"`
	Correct     int          `json:"correct"`
	Total       int          `json:"total"`
	Accuracy    float64      `json:"accuracy"`

	// Confusion[actual][predicted], indexed by label-set position. Samples
	// whose actual label is outside the set are counted in Total only.
	Confusion [gnb.NumLabels][gnb.NumLabels]int `json:"confusion"`

	PerLabel []LabelMetrics `json:"per_label"`
}

// Run predicts every observation of set using up to workers goroutines and
// compares the predictions with the set's labels. workers <= 0 means
// GOMAXPROCS. The first prediction error cancels the run.
func Run(ctx context.Context, p Predictor, set *dataset.Set, workers int) (*Result, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("evaluate: empty test set")
	}
	if len(set.Labels) != set.Len() {
		return nil, fmt.Errorf("evaluate: %d observations but %d labels", set.Len(), len(set.Labels))
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index.
	predictions := make([]string, set.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, set.Len()))

	for i, obs := range set.Observations {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			label, err := p.Predict(obs)
			if err != nil {
				return fmt.Errorf("evaluate: sample %d: %w", i, err)
			}
			predictions[i] = label
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Score(p.Labels(), set.Labels, predictions), nil
}

// Score builds a Result from aligned actual and predicted labels.
func Score(labels gnb.LabelSet, actual, predicted []string) *Result {
	r := &Result{
		Labels:      labels,
		Predictions: predicted,
		Total:       len(actual),
	}

	for i, want := range actual {
		got := predicted[i]
		if got == want {
			r.Correct++
		}
		a, p := labels.Index(want), labels.Index(got)
		if a >= 0 && p >= 0 {
			r.Confusion[a][p]++
		}
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
	}

	r.PerLabel = make([]LabelMetrics, len(labels))
	for j, label := range labels {
		var tp, fp, fn int
		for a := range labels {
			for p := range labels {
				n := r.Confusion[a][p]
				switch {
				case a == j && p == j:
					tp += n
				case a != j && p == j:
					fp += n
				case a == j && p != j:
					fn += n
				}
			}
		}

		m := LabelMetrics{Label: label, Support: tp + fn}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.PerLabel[j] = m
	}

	return r
}
