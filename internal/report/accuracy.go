package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/maneuver/internal/evaluate"
)

// AccuracyHTML renders per-label precision, recall and F1 of result as an
// HTML bar chart.
func AccuracyHTML(w io.Writer, result *evaluate.Result) error {
	if result == nil {
		return fmt.Errorf("report: nil result")
	}

	x := make([]string, 0, len(result.PerLabel))
	precision := make([]opts.BarData, 0, len(result.PerLabel))
	recall := make([]opts.BarData, 0, len(result.PerLabel))
	f1 := make([]opts.BarData, 0, len(result.PerLabel))
	for _, m := range result.PerLabel {
		x = append(x, fmt.Sprintf("%s (n=%d)", m.Label, m.Support))
		precision = append(precision, opts.BarData{Value: m.Precision})
		recall = append(recall, opts.BarData{Value: m.Recall})
		f1 = append(f1, opts.BarData{Value: m.F1})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Maneuver classifier", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-label metrics",
			Subtitle: fmt.Sprintf("accuracy %.2f%% (%d/%d)", 100*result.Accuracy, result.Correct, result.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	bar.SetXAxis(x).
		AddSeries("precision", precision).
		AddSeries("recall", recall).
		AddSeries("f1", f1)

	page := components.NewPage()
	page.AddCharts(bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}
