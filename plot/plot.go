package plot

import (
	"image/color"
	"math"
	"sort"

	"github.com/notargets/avs/assets"
	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

var palette = []color.RGBA{utils2.RED, utils2.GREEN, utils2.BLUE, utils2.WHITE}

type Legend struct {
	Color color.RGBA
	Text  string
	X, Y  float32
}

// PlotProfiles opens a chart window with one polyline per series over the shared abscissa x. It
// does not return.
func PlotProfiles(x []float64, series map[string][]float64) {
	lines, legend, box := ProfileLines(x, series)
	ch := chart2d.NewChart2D(box[0], box[1], box[2], box[3],
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	for _, lg := range legend {
		tf := assets.NewTextFormatter("NotoSans",
			"Regular", 24,
			lg.Color, true, false)
		ch.Printf(tf, lg.X, lg.Y, "%s", lg.Text)
	}
	for {
	}
}

// ProfileLines converts each series into line segments x1,y1,x2,y2,... keyed by color. Series are
// colored in name order. box is xMin, xMax, yMin, yMax of the data, with a margin in y for the
// legend. Series shorter than x are drawn over their own length.
func ProfileLines(x []float64, series map[string][]float64) (lines map[color.RGBA][]float32,
	legend []Legend, box [4]float32) {
	var (
		names      = make([]string, 0, len(series))
		xMin, xMax = math.Inf(1), math.Inf(-1)
		yMin, yMax = math.Inf(1), math.Inf(-1)
	)
	lines = make(map[color.RGBA][]float32)
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, xx := range x {
		xMin, xMax = math.Min(xMin, xx), math.Max(xMax, xx)
	}
	for _, name := range names {
		for _, y := range series[name] {
			yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
		}
	}
	if math.IsInf(xMin, 0) || math.IsInf(yMin, 0) {
		xMin, xMax, yMin, yMax = 0, 1, 0, 1
	}
	if yMax == yMin {
		yMin, yMax = yMin-0.5, yMax+0.5
	}
	// Room above the data for the legend
	yTop := yMax + 0.1*float64(len(names))*(yMax-yMin)
	box = [4]float32{float32(xMin), float32(xMax), float32(yMin), float32(yTop)}
	for j, name := range names {
		var (
			col = palette[j%len(palette)]
			y   = series[name]
			n   = min(len(x), len(y))
		)
		for i := 0; i < n-1; i++ {
			lines[col] = append(lines[col],
				float32(x[i]), float32(y[i]),
				float32(x[i+1]), float32(y[i+1]),
			)
		}
		legend = append(legend, Legend{
			Color: col,
			Text:  name,
			X:     float32(xMin + 0.05*(xMax-xMin)),
			Y:     float32(yTop - 0.1*float64(j)*(yMax-yMin)),
		})
	}
	return
}
