package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	uuid "github.com/satori/go.uuid"

	"github.com/ukcrimestats/arrests_dashboard/domain/models"
	"github.com/ukcrimestats/arrests_dashboard/plot"
)

// ExportFigures renders every figure to PNG under a fresh per-run directory
// and returns the written paths in figure order.
func ExportFigures(figures []models.Figure, exportDir string) ([]string, error) {
	runID := uuid.NewV4()
	dir := filepath.Join(exportDir, runID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating export dir: %v", err)
	}

	paths := make([]string, 0, len(figures))
	for i, fig := range figures {
		png, err := plot.DrawFigure(fig)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("figure-%d_%s.png", i, slugify(fig.Layout.Title)))
		if err := os.WriteFile(path, png, 0644); err != nil {
			return nil, fmt.Errorf("error writing %s: %v", path, err)
		}
		log.Printf("exported %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}
