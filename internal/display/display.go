package display

import (
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"golang.org/x/exp/slog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"image/color"
	"path/filepath"
)

const (
	DistributionsFile = "distance_distributions.png"
	ConvergenceFile   = "convergence_plot.png"
	SamplePointsFile  = "sample_points.png"
	DiagramsFile      = "problem_diagrams.png"
)

var squareColor = color.RGBA{R: 217, G: 156, B: 201, A: 255}
var diskColor = color.RGBA{R: 173, G: 202, B: 237, A: 255}
var meanColor = color.RGBA{R: 143, G: 106, B: 176, A: 255}
var expectedColor = color.RGBA{R: 60, G: 60, B: 60, A: 255}

type Images struct {
	Distributions string `json:"distributions_img"`
	Convergence   string `json:"convergence_img"`
	SamplePoints  string `json:"sample_points_img"`
	Diagrams      string `json:"diagrams_img"`
}

// Inputs collects everything PlotAll draws.
type Inputs struct {
	Square, Disk      *data.Result
	Bins              int
	ConvergenceDomain geometry.Domain
	Convergence       []data.ConvergencePoint
	SquarePoints      []geometry.Point
	DiskPoints        []geometry.Point
	SquarePair        [2]geometry.Point
	DiskPair          [2]geometry.Point
}

func fillColor(d geometry.Domain) color.Color {
	if d == geometry.Disk {
		return diskColor
	}
	return squareColor
}

// PlotAll writes the four figures into dir and returns their paths.
func PlotAll(dir string, in Inputs) (Images, error) {
	var images Images
	var err error

	if images.Distributions, err = PlotDistanceDistributions(dir, in.Square, in.Disk, in.Bins); err != nil {
		return Images{}, pl.WrapError(err, "failed to plot distance distributions")
	}
	if images.Convergence, err = PlotConvergence(dir, in.ConvergenceDomain, in.Convergence); err != nil {
		return Images{}, pl.WrapError(err, "failed to plot convergence")
	}
	if images.SamplePoints, err = PlotSamplePoints(dir, in.SquarePoints, in.DiskPoints); err != nil {
		return Images{}, pl.WrapError(err, "failed to plot sample points")
	}
	if images.Diagrams, err = PlotProblemDiagrams(dir, in.SquarePair, in.DiskPair); err != nil {
		return Images{}, pl.WrapError(err, "failed to plot problem diagrams")
	}
	return images, nil
}

// PlotDistanceDistributions draws the normalized histogram of sampled distances for both domains side by side,
// each with its sample mean and the analytical value marked.
func PlotDistanceDistributions(dir string, square, disk *data.Result, bins int) (string, error) {
	if square == nil || disk == nil {
		return "", pl.NewError("both square and disk results are required")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", pl.WrapError(err, "failed to create output directory")
	}
	bins = utils.Max(bins, 5)

	row := make([]*plot.Plot, 0, 2)
	for _, r := range []*data.Result{square, disk} {
		p, err := distributionPlot(r, bins)
		if err != nil {
			return "", pl.WrapError(err, fmt.Sprintf("failed to create %s histogram", r.P.Domain))
		}
		row = append(row, p)
	}

	file := filepath.Join(dir, DistributionsFile)
	if err := saveTiles(file, [][]*plot.Plot{row}, 14*vg.Inch, 5*vg.Inch); err != nil {
		return "", err
	}
	slog.Info("Saved plot", "file", file)
	return file, nil
}

func distributionPlot(r *data.Result, bins int) (*plot.Plot, error) {
	if len(r.Samples) == 0 {
		return nil, pl.NewError("result for %s has no samples", r.P.Domain)
	}
	d := r.P.Domain

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distance Distribution: %s", d.Title())
	p.X.Label.Text = "Distance"
	p.Y.Label.Text = "Probability Density"

	h, err := plotter.NewHist(plotter.Values(r.Samples), bins)
	if err != nil {
		return nil, pl.WrapError(err, "failed to create histogram")
	}
	h.Normalize(1)
	h.FillColor = fillColor(d)
	h.LineStyle.Width = vg.Length(0)
	p.Add(h)

	yMax := 0.0
	for _, b := range h.Bins {
		yMax = utils.Max(yMax, b.Weight)
	}

	mean, err := verticalLine(r.Mean, yMax*1.05, meanColor)
	if err != nil {
		return nil, err
	}
	expected, err := verticalLine(r.Expected, yMax*1.05, expectedColor)
	if err != nil {
		return nil, err
	}
	expected.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(mean, expected)

	p.Legend.Add(fmt.Sprintf("Mean: %.4f", r.Mean), mean)
	p.Legend.Add(fmt.Sprintf("Analytical: %.4f", r.Expected), expected)
	p.Legend.Top = true
	p.X.Min = 0
	p.X.Max = d.MaxDistance()
	return p, nil
}

// PlotConvergence draws the estimate against the sample size on a log x-axis, with the analytical value as a
// dashed horizontal line.
func PlotConvergence(dir string, d geometry.Domain, points []data.ConvergencePoint) (string, error) {
	if len(points) == 0 {
		return "", pl.NewError("no convergence points to plot")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", pl.WrapError(err, "failed to create output directory")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Convergence of Monte Carlo Estimate (%s)", d.Title())
	p.X.Label.Text = "Number of Samples"
	p.Y.Label.Text = "Estimated Average Distance"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(points))
	for i, c := range points {
		pts[i].X = float64(c.N)
		pts[i].Y = c.Estimate
	}
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return "", pl.WrapError(err, "failed to create convergence line")
	}
	line.LineStyle.Color = meanColor
	scatter.GlyphStyle.Color = meanColor
	p.Add(line, scatter)

	expected, err := plotter.NewLine(plotter.XYs{
		{X: pts[0].X, Y: d.Expected()},
		{X: pts[len(pts)-1].X, Y: d.Expected()},
	})
	if err != nil {
		return "", pl.WrapError(err, "failed to create analytical line")
	}
	expected.LineStyle.Color = expectedColor
	expected.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(expected)

	// a log axis needs a positive range; a single size would otherwise be padded to include 0
	if p.X.Min == p.X.Max {
		p.X.Min, p.X.Max = p.X.Min/2, p.X.Max*2
	}

	p.Legend.Add("Monte Carlo Estimate", line, scatter)
	p.Legend.Add(fmt.Sprintf("Analytical: %.4f", d.Expected()), expected)
	p.Legend.Top = true

	file := filepath.Join(dir, ConvergenceFile)
	if err = p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", pl.WrapError(err, "failed to save plot")
	}
	slog.Info("Saved plot", "file", file)
	return file, nil
}

// PlotSamplePoints draws the sampled points of each domain together with the domain boundary.
func PlotSamplePoints(dir string, square, disk []geometry.Point) (string, error) {
	if len(square) == 0 || len(disk) == 0 {
		return "", pl.NewError("sample points are required for both domains")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", pl.WrapError(err, "failed to create output directory")
	}

	row := make([]*plot.Plot, 0, 2)
	for _, s := range []struct {
		d      geometry.Domain
		points []geometry.Point
	}{{geometry.Square, square}, {geometry.Disk, disk}} {
		p, err := domainPlot(s.d, fmt.Sprintf("Sample Points: %s (n=%d)", s.d.Title(), len(s.points)))
		if err != nil {
			return "", err
		}
		sc, err := plotter.NewScatter(toXYs(s.points))
		if err != nil {
			return "", pl.WrapError(err, "failed to create scatter")
		}
		sc.GlyphStyle.Color = fillColor(s.d)
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		row = append(row, p)
	}

	file := filepath.Join(dir, SamplePointsFile)
	if err := saveTiles(file, [][]*plot.Plot{row}, 12*vg.Inch, 6*vg.Inch); err != nil {
		return "", err
	}
	slog.Info("Saved plot", "file", file)
	return file, nil
}

// PlotProblemDiagrams draws one random pair in each domain joined by the segment whose length is being averaged.
func PlotProblemDiagrams(dir string, squarePair, diskPair [2]geometry.Point) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", pl.WrapError(err, "failed to create output directory")
	}

	row := make([]*plot.Plot, 0, 2)
	for _, s := range []struct {
		d    geometry.Domain
		pair [2]geometry.Point
	}{{geometry.Square, squarePair}, {geometry.Disk, diskPair}} {
		dist := geometry.Distance(s.pair[0], s.pair[1])
		p, err := domainPlot(s.d, fmt.Sprintf("%s: d = %.4f", s.d.Title(), dist))
		if err != nil {
			return "", err
		}
		pts := toXYs(s.pair[:])

		segment, err := plotter.NewLine(pts)
		if err != nil {
			return "", pl.WrapError(err, "failed to create segment")
		}
		segment.LineStyle.Color = meanColor
		segment.LineStyle.Width = vg.Points(2)

		ends, err := plotter.NewScatter(pts)
		if err != nil {
			return "", pl.WrapError(err, "failed to create end points")
		}
		ends.GlyphStyle.Color = expectedColor
		ends.GlyphStyle.Radius = vg.Points(4)

		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: []string{"P1", "P2"}})
		if err != nil {
			return "", pl.WrapError(err, "failed to create labels")
		}
		labels.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(4)}
		p.Add(segment, ends, labels)
		row = append(row, p)
	}

	file := filepath.Join(dir, DiagramsFile)
	if err := saveTiles(file, [][]*plot.Plot{row}, 12*vg.Inch, 6*vg.Inch); err != nil {
		return "", err
	}
	slog.Info("Saved plot", "file", file)
	return file, nil
}
