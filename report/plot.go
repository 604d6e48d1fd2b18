package report

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"bitbucket.org/Davydov/abmcmc/abtest"
	"bitbucket.org/Davydov/abmcmc/model"
	"bitbucket.org/Davydov/abmcmc/posterior"
)

// Plot size.
const (
	plotWidth     = 6 * vg.Inch
	plotRowHeight = 3 * vg.Inch
)

// histPlot creates a normalized histogram plot of the sample.
func histPlot(title string, s *posterior.Sample, bins, color int) (*plot.Plot, error) {
	values := finite(s.Values)
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: no finite values to plot", s.Name)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = s.Name
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.FillColor = plotutil.Color(color)
	p.Add(h)

	if s.Name == model.Delta {
		ymax := 0.0
		for _, b := range h.Bins {
			if b.Weight > ymax {
				ymax = b.Weight
			}
		}
		zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: ymax}})
		if err != nil {
			return nil, err
		}
		zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		zero.Color = plotutil.Color(0)
		p.Add(zero)
	}
	return p, nil
}

// Plot writes a PNG file with histograms of the posteriors of p_A,
// p_B and delta, one above another.
func Plot(fn string, l Labels, res *abtest.Result, bins int) error {
	if bins <= 0 {
		bins = DefaultBins
	}
	samples := []*posterior.Sample{res.PA, res.PB, res.Delta}
	plots := make([][]*plot.Plot, len(samples))
	for i, s := range samples {
		p, err := histPlot(l.title(s.Name), s, bins, i+1)
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(plotWidth, plotRowHeight*vg.Length(len(samples)))
	dc := draw.New(img)
	t := draw.Tiles{
		Rows:      len(samples),
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadY:      vg.Points(8),
	}
	canvases := plot.Align(plots, t, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	log.Infof("Wrote plot to %s", fn)
	return f.Close()
}
