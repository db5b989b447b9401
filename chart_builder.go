package main

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

var (
	groupPalette = []string{"aquamarine", "yellow", "skyblue", "tomato", "magenta"}
	forcePalette = []string{"aquamarine", "yellow", "skyblue", "tomato", "magenta", "blue", "chartreuse", "cyan", "navajowhite", "hotpink"}
)

// Lancashire stopped reporting for 2017/18, so the top-forces chart carries
// the previous year's rate for that one cell.
const (
	patchForce = "Lancashire"
	patchTime  = "2017/18"
	patchRate  = 14
)

// BuildFigures assembles the dashboard charts from the cleaned table. The
// returned order is load-bearing: figure identifiers are positional.
func BuildFigures(clean *models.Table) ([]models.Figure, error) {
	records, err := Records(clean)
	if err != nil {
		return nil, err
	}

	gender, err := genderFigure(records)
	if err != nil {
		return nil, err
	}
	ethnicity, err := ethnicityFigure(records)
	if err != nil {
		return nil, err
	}
	ranked, err := forcesByMeanRate(records)
	if err != nil {
		return nil, err
	}
	topForces, err := topForcesFigure(records, ranked)
	if err != nil {
		return nil, err
	}
	topBreakdowns, bottomBreakdowns, err := forceBreakdownFigures(records, ranked)
	if err != nil {
		return nil, err
	}

	figures := []models.Figure{gender, ethnicity, topForces}
	figures = append(figures, topBreakdowns...)
	figures = append(figures, bottomBreakdowns...)
	return figures, nil
}

// genderFigure charts the national arrest rate per year, one trace per
// gender.
func genderFigure(records []models.ArrestRecord) (models.Figure, error) {
	slice := selectRecords(records, func(r models.ArrestRecord) bool {
		return !r.Missing &&
			r.Ethnicity == models.DimensionAll &&
			r.Geography == models.DimensionAll &&
			r.AgeGroup == models.DimensionAll &&
			r.Gender != models.DimensionAll
	})
	p, err := buildPivot(slice, byGender, rateAsFloat)
	if err != nil {
		return models.Figure{}, err
	}

	data := []models.Series{
		lineSeries("Female", p.index, p.ColumnValues("Female"), "aquamarine", 200),
		lineSeries("Male", p.index, p.ColumnValues("Male"), "yellow", 200),
	}
	return models.Figure{
		Data:   data,
		Layout: chartLayout("Rate of Arrests Arrests by Gender per Year", 60),
	}, nil
}

// ethnicityFigure charts the national arrest rate per year, one trace per
// regrouped ethnicity, palette colors cycling when more groups appear.
func ethnicityFigure(records []models.ArrestRecord) (models.Figure, error) {
	slice := selectRecords(records, func(r models.ArrestRecord) bool {
		return !r.Missing &&
			r.Ethnicity != models.DimensionAll &&
			r.Ethnicity != "Unreported" &&
			r.AgeGroup == models.DimensionAll &&
			r.Geography == models.DimensionAll &&
			r.Gender == models.DimensionAll
	})
	p, err := buildPivot(slice, byEthnicity, rateAsInt)
	if err != nil {
		return models.Figure{}, err
	}

	data := make([]models.Series, 0, len(p.columns))
	for i, name := range p.columns {
		data = append(data, lineSeries(name, p.index, p.ColumnValues(name), groupPalette[i%len(groupPalette)], 102))
	}
	return models.Figure{
		Data:   data,
		Layout: chartLayout("Rate of Arrests by Ethnicity per Year", 60),
	}, nil
}

type forceRate struct {
	Name string
	Mean float64
}

// forcesByMeanRate ranks police force areas by their mean arrest rate across
// all periods, highest first. Rows whose rate contains "N/A" are excluded
// before the cast; any other non-numeric rate is fatal.
func forcesByMeanRate(records []models.ArrestRecord) ([]forceRate, error) {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		if r.Missing ||
			r.Ethnicity != models.DimensionAll ||
			r.AgeGroup != models.DimensionAll ||
			r.Gender != models.DimensionAll ||
			r.Geography == models.DimensionAll {
			continue
		}
		if strings.Contains(r.Rate, "N/A") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(r.Rate))
		if err != nil {
			return nil, &CastError{Column: colRate, Value: r.Rate}
		}
		sums[r.Geography] += float64(v)
		counts[r.Geography]++
	}

	ranked := make([]forceRate, 0, len(sums))
	for name := range sums {
		ranked = append(ranked, forceRate{Name: name, Mean: sums[name] / float64(counts[name])})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Name < ranked[j].Name })
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Mean > ranked[j].Mean })
	return ranked, nil
}

// topForcesFigure charts the arrest rate per year for the ten highest-ranked
// force areas, with the Lancashire 2017/18 gap patched.
func topForcesFigure(records []models.ArrestRecord, ranked []forceRate) (models.Figure, error) {
	top10 := headNames(ranked, 10)
	slice := selectRecords(records, func(r models.ArrestRecord) bool {
		return !r.Missing &&
			r.Ethnicity == models.DimensionAll &&
			r.AgeGroup == models.DimensionAll &&
			r.Gender == models.DimensionAll &&
			go_utils.InArray(r.Geography, top10)
	})
	p, err := buildPivot(slice, byGeography, rateSkipNA)
	if err != nil {
		return models.Figure{}, err
	}
	p.Set(patchTime, patchForce, patchRate)

	data := make([]models.Series, 0, len(p.columns))
	for i, name := range p.columns {
		data = append(data, lineSeries(name, p.index, p.ColumnValues(name), forcePalette[i%len(forcePalette)], 200))
	}
	layout := chartLayout("Police Forces with Highest Rates of Arrest", 0)
	return models.Figure{Data: data, Layout: layout}, nil
}

// forceBreakdownFigures builds one ethnicity-breakdown chart per force in
// the top-5 and bottom-5 ranking slices. Both slices intentionally carry six
// names, mirroring the published analysis. Figures are partitioned into the
// top list and the bottom list, keeping the sorted group order within each.
func forceBreakdownFigures(records []models.ArrestRecord, ranked []forceRate) (tops, bottoms []models.Figure, err error) {
	top5 := headNames(ranked, 6)
	bottom5 := tailNames(ranked, 6)
	members := append(append([]string{}, top5...), bottom5...)

	slice := selectRecords(records, func(r models.ArrestRecord) bool {
		return !r.Missing &&
			r.Ethnicity != models.DimensionAll &&
			r.Ethnicity != "Unreported" &&
			r.AgeGroup == models.DimensionAll &&
			r.Gender == models.DimensionAll &&
			go_utils.InArray(r.Geography, members)
	})

	groups := map[string][]models.ArrestRecord{}
	for _, r := range slice {
		groups[r.Geography] = append(groups[r.Geography], r)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	figures := map[string]models.Figure{}
	for _, name := range names {
		p, err := buildPivot(groups[name], byEthnicity, rateAsInt)
		if err != nil {
			return nil, nil, err
		}
		data := make([]models.Series, 0, len(p.columns))
		for i, eth := range p.columns {
			data = append(data, lineSeries(eth, p.index, p.ColumnValues(eth), groupPalette[i%len(groupPalette)], 200))
		}
		figures[name] = models.Figure{Data: data, Layout: chartLayout(name, 60)}
	}

	for _, name := range names {
		if go_utils.InArray(name, top5) {
			tops = append(tops, figures[name])
		}
	}
	for _, name := range names {
		if go_utils.InArray(name, bottom5) {
			bottoms = append(bottoms, figures[name])
		}
	}
	return tops, bottoms, nil
}

// pivotTable aggregates record values into (time, column) cells the way a
// spreadsheet pivot does, with sum aggregation. The record grain guarantees
// one value per cell in practice.
type pivotTable struct {
	index   []string
	columns []string
	cells   map[string]map[string]float64
}

// valueOf extracts the numeric cell value of a record. ok=false skips the
// record, leaving a hole in the pivot.
type valueOf func(models.ArrestRecord) (v float64, ok bool, err error)

func buildPivot(records []models.ArrestRecord, columnOf func(models.ArrestRecord) string, value valueOf) (*pivotTable, error) {
	p := &pivotTable{cells: map[string]map[string]float64{}}
	seenTime := map[string]bool{}
	for _, r := range records {
		v, ok, err := value(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		column := columnOf(r)
		if p.cells[column] == nil {
			p.cells[column] = map[string]float64{}
		}
		p.cells[column][r.Time] += v
		seenTime[r.Time] = true
	}

	for t := range seenTime {
		p.index = append(p.index, t)
	}
	sort.Strings(p.index)
	for c := range p.cells {
		p.columns = append(p.columns, c)
	}
	sort.Strings(p.columns)
	return p, nil
}

// Set writes one cell, registering its labels when they are new.
func (p *pivotTable) Set(time, column string, v float64) {
	if p.cells[column] == nil {
		p.cells[column] = map[string]float64{}
		p.columns = insertSorted(p.columns, column)
	}
	if _, ok := p.cells[column][time]; !ok && !go_utils.InArray(time, p.index) {
		p.index = insertSorted(p.index, time)
	}
	p.cells[column][time] = v
}

// Has reports whether the cell holds a value.
func (p *pivotTable) Has(time, column string) bool {
	_, ok := p.cells[column][time]
	return ok
}

// ColumnValues returns the column aligned to the time index, NaN for holes.
func (p *pivotTable) ColumnValues(column string) models.YValues {
	values := make(models.YValues, len(p.index))
	for i, t := range p.index {
		if v, ok := p.cells[column][t]; ok {
			values[i] = v
		} else {
			values[i] = math.NaN()
		}
	}
	return values
}

func insertSorted(labels []string, label string) []string {
	i := sort.SearchStrings(labels, label)
	labels = append(labels, "")
	copy(labels[i+1:], labels[i:])
	labels[i] = label
	return labels
}

func selectRecords(records []models.ArrestRecord, keep func(models.ArrestRecord) bool) []models.ArrestRecord {
	out := []models.ArrestRecord{}
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func byGender(r models.ArrestRecord) string    { return r.Gender }
func byEthnicity(r models.ArrestRecord) string { return r.Ethnicity }
func byGeography(r models.ArrestRecord) string { return r.Geography }

func rateAsFloat(r models.ArrestRecord) (float64, bool, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Rate), 64)
	if err != nil {
		return 0, false, &CastError{Column: colRate, Value: r.Rate}
	}
	return v, true, nil
}

func rateAsInt(r models.ArrestRecord) (float64, bool, error) {
	v, err := strconv.Atoi(strings.TrimSpace(r.Rate))
	if err != nil {
		return 0, false, &CastError{Column: colRate, Value: r.Rate}
	}
	return float64(v), true, nil
}

// rateSkipNA turns "N/A" rates into pivot holes instead of cast failures;
// the Lancashire patch exists because of exactly such a hole.
func rateSkipNA(r models.ArrestRecord) (float64, bool, error) {
	if strings.Contains(r.Rate, "N/A") {
		return 0, false, nil
	}
	return rateAsInt(r)
}

func headNames(ranked []forceRate, n int) []string {
	if n > len(ranked) {
		n = len(ranked)
	}
	names := make([]string, 0, n)
	for _, f := range ranked[:n] {
		names = append(names, f.Name)
	}
	return names
}

func tailNames(ranked []forceRate, n int) []string {
	if n > len(ranked) {
		n = len(ranked)
	}
	names := make([]string, 0, n)
	for _, f := range ranked[len(ranked)-n:] {
		names = append(names, f.Name)
	}
	return names
}

func lineSeries(name string, x []string, y models.YValues, color string, symbol int) models.Series {
	return models.Series{
		Name:   name,
		X:      x,
		Y:      y,
		Mode:   "lines+markers",
		Line:   models.Line{Color: color},
		Marker: models.Marker{Symbol: symbol},
	}
}

func chartLayout(title string, tickAngle int) models.Layout {
	return models.Layout{
		Title: title,
		Font:  models.Font{Color: "white"},
		XAxis: models.Axis{
			Title:     "Year",
			Color:     "white",
			ShowGrid:  false,
			TickAngle: tickAngle,
		},
		YAxis: models.Axis{
			Title: "Rate of arrests (per 1000 people)",
			Color: "white",
		},
		PaperBGColor: "transparent",
		PlotBGColor:  "transparent",
	}
}
