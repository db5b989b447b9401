package models

import (
	"math"
	"strconv"
	"strings"
)

// FilterMode selects which slice of the cleaned dataset a view contains.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterNotAll FilterMode = "not_all"
)

// DimensionAll marks a row aggregated across a dimension.
const DimensionAll = "All"

// Table is a parsed CSV: an ordered header plus rows of string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all cell values of a named column in row order.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[idx])
	}
	return values
}

// ArrestRecord is one cleaned observation of the arrests dataset. Arrests
// holds -1 with Missing set when the source count could not be parsed. Rate
// keeps the raw text because some force-level rates arrive as "N/A".
type ArrestRecord struct {
	Time      string
	Geography string
	Gender    string
	Ethnicity string
	AgeGroup  string
	Arrests   int
	Missing   bool
	Rate      string
}

// YValues is an ordered series of y coordinates. NaN marks a missing cell and
// marshals to JSON null, the same shape plotly-style renderers expect.
type YValues []float64

func (y YValues) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(y)*8)
	buf = append(buf, '[')
	for i, v := range y {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	return append(buf, ']'), nil
}

func (y *YValues) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(strings.TrimSpace(string(data)), "[]")
	if trimmed == "" {
		*y = YValues{}
		return nil
	}
	parts := strings.Split(trimmed, ",")
	out := make(YValues, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "null" {
			out = append(out, math.NaN())
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*y = out
	return nil
}

// Line styles a series trace.
type Line struct {
	Color string `json:"color"`
}

// Marker styles the per-point symbol of a series.
type Marker struct {
	Symbol int `json:"symbol"`
}

// Series is one named (x, y) line trace of a chart descriptor.
type Series struct {
	Name   string   `json:"name"`
	X      []string `json:"x"`
	Y      YValues  `json:"y"`
	Mode   string   `json:"mode"`
	Line   Line     `json:"line"`
	Marker Marker   `json:"marker"`
}

// Font is the text styling of a chart layout.
type Font struct {
	Color string `json:"color"`
}

// Axis is the display metadata of one chart axis.
type Axis struct {
	Title     string `json:"title"`
	Color     string `json:"color"`
	ShowGrid  bool   `json:"showgrid"`
	TickAngle int    `json:"tickangle,omitempty"`
}

// Layout is the display metadata of a chart descriptor.
type Layout struct {
	Title        string `json:"title"`
	Font         Font   `json:"font"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
}

// Figure pairs the series of one chart with its layout. Figures are immutable
// once built and consumed positionally by the presentation layer.
type Figure struct {
	Data   []Series `json:"data"`
	Layout Layout   `json:"layout"`
}
