// Package dataset reads labeled kinematic observations.
//
// States files hold one comma-separated observation per line
// (s, d, s_dot, d_dot for the lane-change data); labels files hold one
// label per line, aligned with the states file.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/maneuver/internal/units"
)

// Sample is one labeled observation.
type Sample struct {
	Observation []float64
	Label       string
}

// Set holds aligned observations and labels.
type Set struct {
	Observations [][]float64
	Labels       []string
}

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.Observations) }

// Samples returns the set as a slice of Sample sharing the observation slices.
func (s *Set) Samples() []Sample {
	out := make([]Sample, len(s.Observations))
	for i, obs := range s.Observations {
		out[i] = Sample{Observation: obs, Label: s.Labels[i]}
	}
	return out
}

// VelocityFeatures are the indices of s_dot and d_dot in a lane-change
// observation.
var VelocityFeatures = []int{2, 3}

// ConvertVelocities rewrites the given features of every observation from
// unit to m/s in place. Features beyond an observation's length are an error.
func (s *Set) ConvertVelocities(unit string, features ...int) error {
	if !units.IsValid(unit) {
		return fmt.Errorf("invalid velocity unit %q (valid: %s)", unit, units.GetValidUnitsString())
	}
	if unit == units.MPS {
		return nil
	}
	for i, obs := range s.Observations {
		for _, f := range features {
			if f < 0 || f >= len(obs) {
				return fmt.Errorf("observation %d has no feature %d", i, f)
			}
			v, err := units.ToMPS(obs[f], unit)
			if err != nil {
				return err
			}
			obs[f] = v
		}
	}
	return nil
}

// FromSamples builds a Set from samples.
func FromSamples(samples []Sample) *Set {
	set := &Set{
		Observations: make([][]float64, len(samples)),
		Labels:       make([]string, len(samples)),
	}
	for i, s := range samples {
		set.Observations[i] = s.Observation
		set.Labels[i] = s.Label
	}
	return set
}

// ReadStates parses observations of featureCount values each. Blank lines
// are skipped; line numbers in errors are 1-based.
func ReadStates(r io.Reader, featureCount int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out [][]float64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read states: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(record) != featureCount {
			return nil, fmt.Errorf("states line %d: got %d values, want %d", line, len(record), featureCount)
		}
		obs := make([]float64, featureCount)
		for f, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("states line %d value %d: %w", line, f+1, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("states line %d value %d: not finite", line, f+1)
			}
			obs[f] = v
		}
		out = append(out, obs)
	}
	return out, nil
}

// ReadLabels parses one trimmed label per non-blank line.
func ReadLabels(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label == "" {
			continue
		}
		out = append(out, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return out, nil
}

// LoadStates reads a states file.
func LoadStates(path string, featureCount int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open states file: %w", err)
	}
	defer f.Close()

	states, err := ReadStates(f, featureCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return states, nil
}

// LoadLabels reads a labels file.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels file: %w", err)
	}
	defer f.Close()

	labels, err := ReadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// Load reads a states file and its labels file and checks they align.
func Load(statesPath, labelsPath string, featureCount int) (*Set, error) {
	states, err := LoadStates(statesPath, featureCount)
	if err != nil {
		return nil, err
	}
	labels, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(states) != len(labels) {
		return nil, fmt.Errorf("%s has %d observations but %s has %d labels",
			statesPath, len(states), labelsPath, len(labels))
	}
	return &Set{Observations: states, Labels: labels}, nil
}
