package main

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

func dimRec(time, geo, gender, eth, age, rate string) models.ArrestRecord {
	return models.ArrestRecord{
		Time:      time,
		Geography: geo,
		Gender:    gender,
		Ethnicity: eth,
		AgeGroup:  age,
		Arrests:   100,
		Rate:      rate,
	}
}

// tableFromRecords rebuilds a cleaned table so BuildFigures can be exercised
// end to end.
func tableFromRecords(records []models.ArrestRecord) *models.Table {
	t := &models.Table{
		Columns: []string{colTime, colGeography, colGender, colEthnicity, colAgeGroup, colArrests, colRate, colMissing},
	}
	for _, r := range records {
		missing := "0"
		if r.Missing {
			missing = "1"
		}
		t.Rows = append(t.Rows, []string{
			r.Time, r.Geography, r.Gender, r.Ethnicity, r.AgeGroup,
			strconv.Itoa(r.Arrests), r.Rate, missing,
		})
	}
	return t
}

func TestGenderFigure(t *testing.T) {
	records := []models.ArrestRecord{
		dimRec("2018", "All", "Female", "All", "All", "5"),
		dimRec("2018", "All", "Male", "All", "All", "7"),
		dimRec("2019", "All", "Female", "All", "All", "6"),
		dimRec("2019", "All", "Male", "All", "All", "8"),
		// noise: disaggregated and missing rows must not contribute
		dimRec("2018", "Lancashire", "Female", "All", "All", "99"),
		{Time: "2018", Geography: "All", Gender: "Male", Ethnicity: "All", AgeGroup: "All", Arrests: -1, Missing: true, Rate: "50"},
	}

	fig, err := genderFigure(records)
	assert.NoError(t, err)
	assert.Equal(t, "Rate of Arrests Arrests by Gender per Year", fig.Layout.Title)
	assert.Len(t, fig.Data, 2)

	female := fig.Data[0]
	assert.Equal(t, "Female", female.Name)
	assert.Equal(t, []string{"2018", "2019"}, female.X)
	assert.Equal(t, models.YValues{5, 6}, female.Y)
	assert.Equal(t, "aquamarine", female.Line.Color)
	assert.Equal(t, 200, female.Marker.Symbol)
	assert.Equal(t, "lines+markers", female.Mode)

	male := fig.Data[1]
	assert.Equal(t, "Male", male.Name)
	assert.Equal(t, models.YValues{7, 8}, male.Y)
	assert.Equal(t, "yellow", male.Line.Color)
}

func TestEthnicityFigure(t *testing.T) {
	records := []models.ArrestRecord{
		dimRec("2018", "All", "All", "Asian", "All", "3"),
		dimRec("2019", "All", "All", "Asian", "All", "4"),
		dimRec("2018", "All", "All", "White", "All", "9"),
		dimRec("2019", "All", "All", "White", "All", "10"),
		// excluded by the slice
		dimRec("2018", "All", "All", "Unreported", "All", "1"),
		dimRec("2018", "All", "All", "All", "All", "20"),
	}

	fig, err := ethnicityFigure(records)
	assert.NoError(t, err)
	assert.Equal(t, "Rate of Arrests by Ethnicity per Year", fig.Layout.Title)
	assert.Len(t, fig.Data, 2)

	assert.Equal(t, "Asian", fig.Data[0].Name)
	assert.Equal(t, models.YValues{3, 4}, fig.Data[0].Y)
	assert.Equal(t, "aquamarine", fig.Data[0].Line.Color)
	assert.Equal(t, 102, fig.Data[0].Marker.Symbol)

	assert.Equal(t, "White", fig.Data[1].Name)
	assert.Equal(t, "yellow", fig.Data[1].Line.Color)
}

func TestEthnicityPaletteCycles(t *testing.T) {
	records := []models.ArrestRecord{}
	for i := 1; i <= 6; i++ {
		records = append(records, dimRec("2018", "All", "All", fmt.Sprintf("E%d", i), "All", strconv.Itoa(i)))
	}

	fig, err := ethnicityFigure(records)
	assert.NoError(t, err)
	assert.Len(t, fig.Data, 6)
	assert.Equal(t, groupPalette[0], fig.Data[5].Line.Color)
}

func TestForcesByMeanRate(t *testing.T) {
	records := []models.ArrestRecord{
		dimRec("2016/17", "Alpha", "All", "All", "All", "10"),
		dimRec("2017/18", "Alpha", "All", "All", "All", "20"),
		dimRec("2016/17", "Bravo", "All", "All", "All", "30"),
		dimRec("2016/17", "Charlie", "All", "All", "All", "5"),
		dimRec("2017/18", "Charlie", "All", "All", "All", "N/A - not collected"),
		// excluded: national aggregate and disaggregated rows
		dimRec("2016/17", "All", "All", "All", "All", "12"),
		dimRec("2016/17", "Alpha", "Male", "All", "All", "40"),
	}

	ranked, err := forcesByMeanRate(records)
	assert.NoError(t, err)
	assert.Equal(t, []forceRate{
		{Name: "Bravo", Mean: 30},
		{Name: "Alpha", Mean: 15},
		{Name: "Charlie", Mean: 5},
	}, ranked)
}

func TestForcesByMeanRateCastError(t *testing.T) {
	records := []models.ArrestRecord{
		dimRec("2016/17", "Alpha", "All", "All", "All", "abc"),
	}
	_, err := forcesByMeanRate(records)
	var castErr *CastError
	assert.ErrorAs(t, err, &castErr)
}

func topForcesTestRecords() []models.ArrestRecord {
	return []models.ArrestRecord{
		dimRec("2016/17", "Alpha", "All", "All", "All", "20"),
		dimRec("2017/18", "Alpha", "All", "All", "All", "22"),
		dimRec("2016/17", "Bravo", "All", "All", "All", "10"),
		dimRec("2017/18", "Bravo", "All", "All", "All", "12"),
		dimRec("2016/17", "Lancashire", "All", "All", "All", "15"),
		dimRec("2017/18", "Lancashire", "All", "All", "All", "N/A - not collected"),
	}
}

func TestTopForcesFigure(t *testing.T) {
	records := topForcesTestRecords()
	ranked, err := forcesByMeanRate(records)
	assert.NoError(t, err)

	fig, err := topForcesFigure(records, ranked)
	assert.NoError(t, err)
	assert.Equal(t, "Police Forces with Highest Rates of Arrest", fig.Layout.Title)
	assert.Len(t, fig.Data, 3)

	// pivot columns come back sorted, with palette colors zipped in order
	assert.Equal(t, "Alpha", fig.Data[0].Name)
	assert.Equal(t, "Bravo", fig.Data[1].Name)
	assert.Equal(t, "Lancashire", fig.Data[2].Name)
	assert.Equal(t, forcePalette[2], fig.Data[2].Line.Color)

	lancashire := fig.Data[2]
	assert.Equal(t, []string{"2016/17", "2017/18"}, lancashire.X)
	assert.Equal(t, models.YValues{15, 14}, lancashire.Y)
}

func TestTopForcesPatchFillsMissingCell(t *testing.T) {
	records := topForcesTestRecords()
	slice := selectRecords(records, func(r models.ArrestRecord) bool {
		return r.Geography != models.DimensionAll
	})

	p, err := buildPivot(slice, byGeography, rateSkipNA)
	assert.NoError(t, err)

	// without the patch the N/A observation leaves a hole
	assert.False(t, p.Has(patchTime, patchForce))
	values := p.ColumnValues(patchForce)
	assert.True(t, math.IsNaN(values[1]))

	p.Set(patchTime, patchForce, patchRate)
	assert.True(t, p.Has(patchTime, patchForce))
	assert.Equal(t, models.YValues{15, 14}, p.ColumnValues(patchForce))
}

func TestForceBreakdownFigures(t *testing.T) {
	records := []models.ArrestRecord{}
	for _, force := range []string{"Alpha", "Bravo", "Charlie"} {
		records = append(records,
			dimRec("2016/17", force, "All", "Asian", "All", "4"),
			dimRec("2016/17", force, "All", "White", "All", "6"),
			// excluded rows
			dimRec("2016/17", force, "All", "Unreported", "All", "1"),
			dimRec("2016/17", force, "All", "All", "All", "10"),
		)
	}
	ranked := []forceRate{{"Alpha", 30}, {"Bravo", 20}, {"Charlie", 10}}

	tops, bottoms, err := forceBreakdownFigures(records, ranked)
	assert.NoError(t, err)

	// three ranked forces: both six-name slices cover all of them
	assert.Len(t, tops, 3)
	assert.Len(t, bottoms, 3)
	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		assert.Equal(t, name, tops[i].Layout.Title)
		assert.Equal(t, name, bottoms[i].Layout.Title)
		assert.Len(t, tops[i].Data, 2)
		assert.Equal(t, "Asian", tops[i].Data[0].Name)
		assert.Equal(t, groupPalette[0], tops[i].Data[0].Line.Color)
		assert.Equal(t, "White", tops[i].Data[1].Name)
		assert.Equal(t, 200, tops[i].Data[0].Marker.Symbol)
	}
}

func TestForceBreakdownPartition(t *testing.T) {
	records := []models.ArrestRecord{}
	ranked := []forceRate{}
	for i := 1; i <= 13; i++ {
		name := fmt.Sprintf("F%02d", i)
		records = append(records, dimRec("2016/17", name, "All", "Asian", "All", "5"))
		ranked = append(ranked, forceRate{Name: name, Mean: float64(14 - i)})
	}

	tops, bottoms, err := forceBreakdownFigures(records, ranked)
	assert.NoError(t, err)

	// six names per slice: rank 7 lands in neither partition
	assert.Len(t, tops, 6)
	assert.Len(t, bottoms, 6)
	for i := 0; i < 6; i++ {
		assert.Equal(t, fmt.Sprintf("F%02d", i+1), tops[i].Layout.Title)
		assert.Equal(t, fmt.Sprintf("F%02d", i+8), bottoms[i].Layout.Title)
	}
}

func buildFiguresTestRecords() []models.ArrestRecord {
	records := []models.ArrestRecord{
		dimRec("2016/17", "All", "All", "All", "All", "10"),
		dimRec("2016/17", "All", "Female", "All", "All", "5"),
		dimRec("2016/17", "All", "Male", "All", "All", "7"),
		dimRec("2017/18", "All", "Female", "All", "All", "6"),
		dimRec("2017/18", "All", "Male", "All", "All", "8"),
		dimRec("2016/17", "All", "All", "Asian", "All", "3"),
		dimRec("2016/17", "All", "All", "White", "All", "9"),
	}
	records = append(records, topForcesTestRecords()...)
	for _, force := range []string{"Alpha", "Bravo", "Lancashire"} {
		records = append(records,
			dimRec("2016/17", force, "All", "Asian", "All", "4"),
			dimRec("2016/17", force, "All", "White", "All", "6"),
		)
	}
	return records
}

func TestBuildFiguresOrder(t *testing.T) {
	figures, err := BuildFigures(tableFromRecords(buildFiguresTestRecords()))
	assert.NoError(t, err)

	// three headline charts plus one breakdown per force in each partition
	assert.Len(t, figures, 9)
	assert.Equal(t, "Rate of Arrests Arrests by Gender per Year", figures[0].Layout.Title)
	assert.Equal(t, "Rate of Arrests by Ethnicity per Year", figures[1].Layout.Title)
	assert.Equal(t, "Police Forces with Highest Rates of Arrest", figures[2].Layout.Title)
	for i, name := range []string{"Alpha", "Bravo", "Lancashire"} {
		assert.Equal(t, name, figures[3+i].Layout.Title)
		assert.Equal(t, name, figures[6+i].Layout.Title)
	}
}

func TestBuildFiguresPatchApplied(t *testing.T) {
	figures, err := BuildFigures(tableFromRecords(buildFiguresTestRecords()))
	assert.NoError(t, err)

	forces := figures[2]
	lancashire := forces.Data[len(forces.Data)-1]
	assert.Equal(t, "Lancashire", lancashire.Name)
	idx := -1
	for i, x := range lancashire.X {
		if x == patchTime {
			idx = i
		}
	}
	assert.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, float64(patchRate), lancashire.Y[idx])
}

func TestBuildFiguresCastErrorAborts(t *testing.T) {
	records := buildFiguresTestRecords()
	records = append(records, dimRec("2017/18", "All", "Female", "All", "All", "not-a-number"))

	figures, err := BuildFigures(tableFromRecords(records))
	assert.Nil(t, figures)
	var castErr *CastError
	assert.ErrorAs(t, err, &castErr)
}
