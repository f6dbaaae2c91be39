// Package testutil provides shared test utilities and fixtures.
//
// Fixtures here generate deterministic kinematic observations so that
// classifier, evaluation and storage tests agree on the same data.
package testutil

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// Cluster describes a group of labeled observations scattered uniformly
// within Spread of Center on every feature.
type Cluster struct {
	Label  string
	Center []float64
	Spread float64
	Count  int
}

// Clusters generates the observations of each cluster in order, using a
// generator seeded with seed so repeated calls return identical data.
func Clusters(seed uint64, clusters ...Cluster) (data [][]float64, labels []string) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, c := range clusters {
		for i := 0; i < c.Count; i++ {
			obs := make([]float64, len(c.Center))
			for f, center := range c.Center {
				obs[f] = center + c.Spread*(2*r.Float64()-1)
			}
			data = append(data, obs)
			labels = append(labels, c.Label)
		}
	}
	return data, labels
}

// Separated returns perLabel "left" observations around the origin and
// perLabel "keep" observations around 10 on each of four features.
func Separated(perLabel int) (data [][]float64, labels []string) {
	return Clusters(42,
		Cluster{Label: "left", Center: []float64{0, 0, 0, 0}, Spread: 0.5, Count: perLabel},
		Cluster{Label: "keep", Center: []float64{10, 10, 10, 10}, Spread: 0.5, Count: perLabel},
	)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
