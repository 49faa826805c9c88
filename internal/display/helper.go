package display

import (
	"fmt"
	pl "github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"image/color"
	"math"
	"os"
	"strings"
)

const boundarySegments = 200

type bucket struct {
	min, max float64
	count    int
}

// computeHistogram splits [min(values), max(values)] into numBuckets equal buckets. The last bucket is closed on
// the right so the maximum is counted.
func computeHistogram(values []float64, numBuckets int) []bucket {
	if len(values) == 0 {
		return nil
	}
	numBuckets = utils.Max(numBuckets, 1)
	xMin := utils.MinOver(values)
	xMax := utils.MaxOver(values)
	width := (xMax - xMin) / float64(numBuckets)

	buckets := make([]bucket, numBuckets)
	for i := range buckets {
		buckets[i] = bucket{min: xMin + float64(i)*width, max: xMin + float64(i+1)*width}
	}
	buckets[numBuckets-1].max = xMax

	for _, v := range values {
		i := numBuckets - 1
		if width > 0 {
			i = utils.Min(int((v-xMin)/width), numBuckets-1)
		}
		buckets[i].count++
	}
	return buckets
}

// FormatHistogram renders the distribution of values as text, one line per bucket, with bars scaled so the
// fullest bucket is barWidth characters long.
func FormatHistogram(values []float64, numBuckets, barWidth int) string {
	buckets := computeHistogram(values, numBuckets)
	if len(buckets) == 0 {
		return ""
	}
	barWidth = utils.Max(barWidth, 1)
	peak := utils.MaxOver(utils.Map(buckets, func(b bucket) int {
		return b.count
	}))

	var sb strings.Builder
	for _, b := range buckets {
		n := 0
		if peak > 0 {
			n = int(math.Round(float64(b.count) / float64(peak) * float64(barWidth)))
		}
		sb.WriteString(fmt.Sprintf("[%.4f, %.4f] %-*s %d\n", b.min, b.max, barWidth, strings.Repeat("#", n), b.count))
	}
	return sb.String()
}

func toXYs(points []geometry.Point) plotter.XYs {
	pts := make(plotter.XYs, len(points))
	for i, p := range points {
		pts[i].X = p.X
		pts[i].Y = p.Y
	}
	return pts
}

// boundary returns the outline of d as a closed polyline
func boundary(d geometry.Domain) plotter.XYs {
	if d == geometry.Square {
		return plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	}
	pts := make(plotter.XYs, boundarySegments+1)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / boundarySegments
		pts[i].X = math.Cos(theta)
		pts[i].Y = math.Sin(theta)
	}
	pts[boundarySegments] = pts[0]
	return pts
}

// domainPlot returns an empty plot of d with its boundary drawn and a small margin around it
func domainPlot(d geometry.Domain, title string) (*plot.Plot, error) {
	if !d.Valid() {
		return nil, pl.WrapError(geometry.ErrUnknownDomain, "cannot draw domain")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	outline, err := plotter.NewLine(boundary(d))
	if err != nil {
		return nil, pl.WrapError(err, "failed to create boundary")
	}
	outline.LineStyle.Width = vg.Points(1.5)
	p.Add(plotter.NewGrid(), outline)

	lo, hi := 0.0, 1.0
	if d == geometry.Disk {
		lo, hi = -1.0, 1.0
	}
	margin := (hi - lo) * 0.1
	p.X.Min, p.X.Max = lo-margin, hi+margin
	p.Y.Min, p.Y.Max = lo-margin, hi+margin
	return p, nil
}

func verticalLine(x, height float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: height}})
	if err != nil {
		return nil, pl.WrapError(err, "failed to create line")
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(2)
	return line, nil
}

// saveTiles draws a grid of plots onto a single PNG
func saveTiles(file string, plots [][]*plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	t := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, t, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	f, err := os.Create(file)
	if err != nil {
		return pl.WrapError(err, "failed to create plot file")
	}
	defer f.Close()

	if _, err = (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return pl.WrapError(err, "failed to save plot")
	}
	return nil
}
