package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/ufcpredictor/pipeline"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// PlotOutcomes draws predicted and actual outcome counts side by side and
// saves the chart to path. The image format follows the file extension.
func PlotOutcomes(s *Summary, path string) error {
	if s == nil {
		return errors.NewValidationError("summary", "summary must not be nil", nil)
	}
	predicted := make(plotter.Values, len(pipeline.Outcomes))
	actual := make(plotter.Values, len(pipeline.Outcomes))
	names := make([]string, len(pipeline.Outcomes))
	for i, o := range pipeline.Outcomes {
		names[i] = o.String()
		predicted[i] = float64(s.Predicted[o.String()])
		actual[i] = float64(s.Actual[o.String()])
	}

	p := plot.New()
	p.Title.Text = "Test outcomes"
	p.Y.Label.Text = "fights"

	w := vg.Points(18)
	actualBars, err := plotter.NewBarChart(actual, w)
	if err != nil {
		return errors.Wrap(err, "actual bars")
	}
	actualBars.LineStyle.Width = vg.Length(0)
	actualBars.Color = plotutil.Color(0)
	actualBars.Offset = -w / 2

	predictedBars, err := plotter.NewBarChart(predicted, w)
	if err != nil {
		return errors.Wrap(err, "predicted bars")
	}
	predictedBars.LineStyle.Width = vg.Length(0)
	predictedBars.Color = plotutil.Color(1)
	predictedBars.Offset = w / 2

	p.Add(actualBars, predictedBars)
	p.Legend.Add("actual", actualBars)
	p.Legend.Add("predicted", predictedBars)
	p.Legend.Top = true
	p.NominalX(names...)

	if err := p.Save(5*vg.Inch, 3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
