package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// Colors named by the chart builder, mapped onto go-chart drawing colors.
var namedColors = map[string]drawing.Color{
	"aquamarine":  drawing.ColorFromHex("7fffd4"),
	"yellow":      drawing.ColorFromHex("ffff00"),
	"skyblue":     drawing.ColorFromHex("87ceeb"),
	"tomato":      drawing.ColorFromHex("ff6347"),
	"magenta":     drawing.ColorFromHex("ff00ff"),
	"blue":        drawing.ColorFromHex("0000ff"),
	"chartreuse":  drawing.ColorFromHex("7fff00"),
	"cyan":        drawing.ColorFromHex("00ffff"),
	"navajowhite": drawing.ColorFromHex("ffdead"),
	"hotpink":     drawing.ColorFromHex("ff69b4"),
}

func seriesColor(name string) drawing.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return drawing.ColorBlue
}

// DrawFigure renders a chart descriptor as a PNG line chart. Categorical x
// labels are mapped to their positions and restored by the tick formatter;
// NaN cells are left out because go-chart cannot draw holes.
func DrawFigure(fig models.Figure) ([]byte, error) {
	if len(fig.Data) == 0 {
		return nil, fmt.Errorf("figure %q has no series", fig.Layout.Title)
	}
	labels := fig.Data[0].X

	maxValue := 0.0
	series := make([]chart.Series, 0, len(fig.Data))
	for _, s := range fig.Data {
		xValues := []float64{}
		yValues := []float64{}
		for i, y := range s.Y {
			if math.IsNaN(y) {
				continue
			}
			xValues = append(xValues, float64(i))
			yValues = append(yValues, y)
			if y > maxValue {
				maxValue = y
			}
		}
		if len(xValues) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: seriesColor(s.Line.Color),
				StrokeWidth: 2,
				DotColor:    seriesColor(s.Line.Color),
				DotWidth:    3,
			},
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("figure %q has no drawable points", fig.Layout.Title)
	}

	graph := chart.Chart{
		Title: fig.Layout.Title,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 120,
			},
			FillColor: drawing.ColorWhite,
		},
		Width:  2048,
		Height: 1024,
		XAxis: chart.XAxis{
			Name:  fig.Layout.XAxis.Title,
			Style: chart.Style{TextRotationDegrees: 88},
			ValueFormatter: func(v interface{}) string {
				vf, isFloat := v.(float64)
				if !isFloat || vf != math.Round(vf) {
					return ""
				}
				i := int(vf)
				if i < 0 || i >= len(labels) {
					return ""
				}
				return labels[i]
			},
		},
		YAxis: chart.YAxis{
			Name:  fig.Layout.YAxis.Title,
			Ticks: generateGrid(maxValue),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	err := graph.Render(chart.PNG, buffer)
	if err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}

	return buffer.Bytes(), nil
}

func generateGrid(maxValue float64) []chart.Tick {
	step := calculateGridStep(maxValue)
	if step <= 0 {
		return nil
	}
	// One tick past the maximum so the top data point is never clipped.
	var ticks []chart.Tick
	for v := 0.0; v < maxValue+step; v += step {
		ticks = append(ticks, chart.Tick{
			Value: v,
			Label: fmt.Sprintf("%.1f", v),
		})
	}
	return ticks
}

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}
