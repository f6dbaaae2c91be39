// Package report renders training data and evaluation results for review.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/maneuver/internal/dataset"
	"github.com/banshee-data/maneuver/internal/gnb"
)

// FeatureNames names the features of the lane-change observations.
var FeatureNames = []string{"s (m)", "d (m)", "s_dot (m/s)", "d_dot (m/s)"}

// labelColors follows label-set order.
var labelColors = [gnb.NumLabels]color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

// ScatterPNG plots feature yFeature against xFeature for every observation
// of set, one series per label, and writes a PNG to path. Observations with
// labels outside the set are skipped.
func ScatterPNG(path string, set *dataset.Set, labels gnb.LabelSet, xFeature, yFeature int) error {
	if set == nil || set.Len() == 0 {
		return fmt.Errorf("report: empty dataset")
	}
	features := len(set.Observations[0])
	if xFeature < 0 || xFeature >= features || yFeature < 0 || yFeature >= features {
		return fmt.Errorf("report: feature index out of range (x=%d y=%d, have %d)", xFeature, yFeature, features)
	}

	var series [gnb.NumLabels]plotter.XYs
	for i, obs := range set.Observations {
		row := labels.Index(set.Labels[i])
		if row < 0 {
			continue
		}
		series[row] = append(series[row], plotter.XY{X: obs[xFeature], Y: obs[yFeature]})
	}

	p := plot.New()
	p.Title.Text = "Maneuver training data"
	p.X.Label.Text = featureName(xFeature)
	p.Y.Label.Text = featureName(yFeature)

	for row, pts := range series {
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("report: %s scatter: %w", labels[row], err)
		}
		s.GlyphStyle.Color = labelColors[row]
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(labels[row], s)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func featureName(i int) string {
	if i < len(FeatureNames) {
		return FeatureNames[i]
	}
	return fmt.Sprintf("feature %d", i)
}
