package main

import (
	"log"

	"github.com/ukcrimestats/arrests_dashboard/config"
	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// RunPipeline executes fetch -> clean -> chart construction for one request.
// Nothing is shared between runs besides the optional cache file, so
// concurrent requests each pay for a full pass.
func RunPipeline(cfg *config.Config) ([]models.Figure, error) {
	table, err := FetchDataset(cfg)
	if err != nil {
		return nil, err
	}
	clean, err := Clean(table)
	if err != nil {
		return nil, err
	}
	figures, err := BuildFigures(clean)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline done: %d rows, %d figures", len(clean.Rows), len(figures))
	return figures, nil
}
