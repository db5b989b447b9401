package main

import (
	"fmt"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// Filter slices the cleaned records into one of the two named views. Rows
// with the missing-count flag are excluded from both.
func Filter(records []models.ArrestRecord, mode models.FilterMode) ([]models.ArrestRecord, error) {
	var keep func(models.ArrestRecord) bool
	switch mode {
	case models.FilterAll:
		keep = func(r models.ArrestRecord) bool {
			return !r.Missing &&
				r.Geography == models.DimensionAll &&
				r.Gender == models.DimensionAll &&
				r.Ethnicity == models.DimensionAll &&
				r.AgeGroup == models.DimensionAll
		}
	case models.FilterNotAll:
		keep = func(r models.ArrestRecord) bool {
			return !r.Missing &&
				r.Ethnicity != models.DimensionAll &&
				r.Gender != models.DimensionAll &&
				r.AgeGroup != models.DimensionAll &&
				r.Geography != models.DimensionAll
		}
	default:
		return nil, fmt.Errorf("%w, got %q", ErrInvalidFilterMode, string(mode))
	}

	view := []models.ArrestRecord{}
	for _, r := range records {
		if keep(r) {
			view = append(view, r)
		}
	}
	return view, nil
}
