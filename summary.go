package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mozillazg/go-unidecode"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// GenerateNationalTable renders the fully aggregated per-year counts and
// rates as a text table.
func GenerateNationalTable(records []models.ArrestRecord) (string, error) {
	view, err := Filter(records, models.FilterAll)
	if err != nil {
		return "", err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Time", "Number of arrests", "Rate per 1,000"})
	for _, r := range view {
		t.AppendRow(table.Row{r.Time, r.Arrests, r.Rate})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render(), nil
}

// GenerateForceRankingTable renders force areas ordered by mean arrest rate.
func GenerateForceRankingTable(records []models.ArrestRecord) (string, error) {
	ranked, err := forcesByMeanRate(records)
	if err != nil {
		return "", err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Rank", "Police force area", "Mean rate"})
	for i, f := range ranked {
		t.AppendRow(table.Row{i + 1, f.Name, fmt.Sprintf("%.2f", f.Mean)})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render(), nil
}

var specialSymbols = regexp.MustCompile("[^a-zA-Z0-9]+")

// slugify turns a chart title into a file-name-safe identifier.
func slugify(input string) string {
	s := unidecode.Unidecode(input)
	s = specialSymbols.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}
