package main

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// Column names of the published dataset. Downstream selection depends on
// these matching the source header byte-for-byte (after whitespace strip).
const (
	colTime          = "Time"
	colGeography     = "Geography"
	colGender        = "Gender"
	colEthnicity     = "Ethnicity"
	colAgeGroup      = "Age_Group"
	colNotes         = "Notes"
	colEthnicityType = "Ethnicity_type"
	colArrests       = "Number of arrests"
	colRate          = "Rate per 1,000 population by ethnicity, gender, and PFA"
	colMissing       = "Missing_Number_of_Arrests"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

type regroupRule struct {
	matches func(string) bool
	label   string
}

// Ordered first-match rules reproducing the groupings described on the data
// source website. Values that match nothing (All, Unreported) pass through.
var ethnicityRules = []regroupRule{
	{memberOf("Asian", "Indian", "Pakistani", "Bangladeshi", "Any other asian"), "Asian"},
	{memberOf("Black Caribbean", "Black African", "Any other black background", "Black"), "Black"},
	{memberOf("White Irish", "White British", "White", "Any other white background"), "White"},
	{memberOf("Chinese", "Other", "Any other ethnic group"), "Other"},
	{func(v string) bool { return strings.Contains(strings.ToLower(v), "mixed") }, "Mixed"},
}

func memberOf(values ...string) func(string) bool {
	return func(v string) bool { return go_utils.InArray(v, values) }
}

// RegroupEthnicity maps a source ethnicity label onto its coarse group. The
// mapping is idempotent: already-grouped labels match their own rule again.
func RegroupEthnicity(value string) string {
	for _, rule := range ethnicityRules {
		if rule.matches(value) {
			return rule.label
		}
	}
	return value
}

// Clean normalizes the raw dataset: strips header whitespace, drops
// constant-valued and known-redundant columns, sorts by time, normalizes the
// arrest count with a missing flag, and regroups ethnicity. No row is ever
// dropped.
func Clean(raw *models.Table) (*models.Table, error) {
	t := &models.Table{
		Columns: make([]string, len(raw.Columns)),
		Rows:    make([][]string, len(raw.Rows)),
	}
	for i, c := range raw.Columns {
		t.Columns[i] = strings.TrimSpace(c)
	}
	for i, row := range raw.Rows {
		t.Rows[i] = append([]string(nil), row...)
	}

	dropConstantColumns(t)
	dropColumns(t, colNotes, colEthnicityType)

	timeIdx := t.ColumnIndex(colTime)
	if timeIdx < 0 {
		return nil, fmt.Errorf("dataset is missing column %q", colTime)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][timeIdx] < t.Rows[j][timeIdx]
	})

	arrestsIdx := t.ColumnIndex(colArrests)
	if arrestsIdx < 0 {
		return nil, fmt.Errorf("dataset is missing column %q", colArrests)
	}
	t.Columns = append(t.Columns, colMissing)
	for i, row := range t.Rows {
		digits := nonDigits.ReplaceAllString(row[arrestsIdx], "")
		if digits == "" {
			row[arrestsIdx] = "-1"
			t.Rows[i] = append(row, "1")
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil, &CastError{Column: colArrests, Value: row[arrestsIdx]}
		}
		row[arrestsIdx] = strconv.Itoa(n)
		t.Rows[i] = append(row, "0")
	}

	if ethIdx := t.ColumnIndex(colEthnicity); ethIdx >= 0 {
		for _, row := range t.Rows {
			row[ethIdx] = RegroupEthnicity(row[ethIdx])
		}
	}

	return t, nil
}

// Records projects the cleaned table into typed records for filtering and
// chart construction.
func Records(t *models.Table) ([]models.ArrestRecord, error) {
	idx := map[string]int{}
	for _, name := range []string{colTime, colGeography, colGender, colEthnicity, colAgeGroup, colArrests, colRate, colMissing} {
		i := t.ColumnIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("cleaned table is missing column %q", name)
		}
		idx[name] = i
	}

	records := make([]models.ArrestRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		arrests, err := strconv.Atoi(row[idx[colArrests]])
		if err != nil {
			return nil, &CastError{Column: colArrests, Value: row[idx[colArrests]]}
		}
		records = append(records, models.ArrestRecord{
			Time:      row[idx[colTime]],
			Geography: row[idx[colGeography]],
			Gender:    row[idx[colGender]],
			Ethnicity: row[idx[colEthnicity]],
			AgeGroup:  row[idx[colAgeGroup]],
			Arrests:   arrests,
			Missing:   row[idx[colMissing]] == "1",
			Rate:      row[idx[colRate]],
		})
	}
	return records, nil
}

func dropConstantColumns(t *models.Table) {
	if len(t.Rows) == 0 {
		return
	}
	constant := []string{}
	for i, name := range t.Columns {
		distinct := map[string]struct{}{}
		for _, row := range t.Rows {
			distinct[row[i]] = struct{}{}
		}
		if len(distinct) == 1 {
			constant = append(constant, name)
		}
	}
	dropColumns(t, constant...)
}

func dropColumns(t *models.Table, names ...string) {
	keep := make([]int, 0, len(t.Columns))
	for i, name := range t.Columns {
		if !go_utils.InArray(name, names) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}

	columns := make([]string, 0, len(keep))
	for _, i := range keep {
		columns = append(columns, t.Columns[i])
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, 0, len(keep))
		for _, i := range keep {
			cells = append(cells, row[i])
		}
		rows[r] = cells
	}
	t.Columns = columns
	t.Rows = rows
}
