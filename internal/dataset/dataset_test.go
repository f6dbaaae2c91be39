package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statesFixture = `3.5,0.1,5.9,-0.02
8.0, -0.3, 3.0, 2.2

1.0,0.2,6.0,0.0
`

const labelsFixture = `keep
left

keep
`

func TestReadStates(t *testing.T) {
	states, err := ReadStates(strings.NewReader(statesFixture), 4)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{3.5, 0.1, 5.9, -0.02},
		{8.0, -0.3, 3.0, 2.2},
		{1.0, 0.2, 6.0, 0.0},
	}, states)
}

func TestReadStates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"too few values", "1,2,3,4\n1,2,3\n", "line 2: got 3 values, want 4"},
		{"too many values", "1,2,3,4,5\n", "line 1: got 5 values, want 4"},
		{"not a number", "1,2,x,4\n", "line 1 value 3"},
		{"not finite", "1,2,NaN,4\n", "not finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStates(strings.NewReader(tt.input), 4)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadLabels(t *testing.T) {
	labels, err := ReadLabels(strings.NewReader(labelsFixture))
	require.NoError(t, err)
	assert.Equal(t, []string{"keep", "left", "keep"}, labels)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	statesPath := filepath.Join(dir, "train_states.txt")
	labelsPath := filepath.Join(dir, "train_labels.txt")
	require.NoError(t, os.WriteFile(statesPath, []byte(statesFixture), 0644))
	require.NoError(t, os.WriteFile(labelsPath, []byte(labelsFixture), 0644))

	set, err := Load(statesPath, labelsPath, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	samples := set.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, "left", samples[1].Label)
	assert.Equal(t, []float64{8.0, -0.3, 3.0, 2.2}, samples[1].Observation)

	assert.Equal(t, set, FromSamples(samples))
}

func TestLoad_Mismatch(t *testing.T) {
	dir := t.TempDir()
	statesPath := filepath.Join(dir, "states.txt")
	labelsPath := filepath.Join(dir, "labels.txt")
	require.NoError(t, os.WriteFile(statesPath, []byte(statesFixture), 0644))
	require.NoError(t, os.WriteFile(labelsPath, []byte("keep\nleft\n"), 0644))

	_, err := Load(statesPath, labelsPath, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 observations but")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), "also-nope.txt", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open states file")
}

func TestConvertVelocities(t *testing.T) {
	set := &Set{
		Observations: [][]float64{{10, 1, 36, -3.6}, {20, 2, 72, 0}},
		Labels:       []string{"keep", "left"},
	}
	require.NoError(t, set.ConvertVelocities("kmph", VelocityFeatures...))

	want := [][]float64{{10, 1, 10, -1}, {20, 2, 20, 0}}
	for i := range want {
		assert.InDeltaSlice(t, want[i], set.Observations[i], 1e-12)
	}
}

func TestConvertVelocities_MPSIsNoop(t *testing.T) {
	set := &Set{Observations: [][]float64{{1, 2, 3, 4}}, Labels: []string{"keep"}}
	require.NoError(t, set.ConvertVelocities("mps", VelocityFeatures...))
	assert.Equal(t, []float64{1, 2, 3, 4}, set.Observations[0])
}

func TestConvertVelocities_Errors(t *testing.T) {
	set := &Set{Observations: [][]float64{{1, 2}}, Labels: []string{"keep"}}

	err := set.ConvertVelocities("knots", VelocityFeatures...)
	assert.ErrorContains(t, err, "invalid velocity unit")

	err = set.ConvertVelocities("mph", VelocityFeatures...)
	assert.ErrorContains(t, err, "has no feature 2")
}
