package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/ukcrimestats/arrests_dashboard/config"
	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

// figurePayload is one entry of the /figures.json response. Identifiers are
// positional, so clients can key DOM nodes on "figure-N".
type figurePayload struct {
	ID     string          `json:"id"`
	Data   []models.Series `json:"data"`
	Layout models.Layout   `json:"layout"`
}

func figurePayloads(figures []models.Figure) []figurePayload {
	payload := make([]figurePayload, 0, len(figures))
	for i, fig := range figures {
		payload = append(payload, figurePayload{
			ID:     fmt.Sprintf("figure-%d", i),
			Data:   fig.Data,
			Layout: fig.Layout,
		})
	}
	return payload
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	figures, err := RunPipeline(config.GetConfig())
	if err != nil {
		failPipeline(w, err)
		return
	}

	page := components.NewPage()
	page.PageTitle = "UK Arrests Dashboard"
	for _, fig := range figures {
		page.AddCharts(echartsLine(fig))
	}
	if err := page.Render(w); err != nil {
		log.Printf("error rendering dashboard: %v", err)
	}
}

// echartsLine converts one chart descriptor into a go-echarts line chart.
// Missing cells become nil points so the renderer leaves gaps.
func echartsLine(fig models.Figure) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fig.Layout.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.Layout.XAxis.Title}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.Layout.YAxis.Title}),
	)
	if len(fig.Data) == 0 {
		return line
	}

	line.SetXAxis(fig.Data[0].X)
	for _, s := range fig.Data {
		items := make([]opts.LineData, 0, len(s.Y))
		for _, y := range s.Y {
			if math.IsNaN(y) {
				items = append(items, opts.LineData{Value: nil})
				continue
			}
			items = append(items, opts.LineData{Value: y})
		}
		line.AddSeries(s.Name, items,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Line.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Line.Color}),
		)
	}
	return line
}

func handleFiguresJSON(w http.ResponseWriter, r *http.Request) {
	figures, err := RunPipeline(config.GetConfig())
	if err != nil {
		failPipeline(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(figurePayloads(figures)); err != nil {
		log.Printf("error encoding figures: %v", err)
	}
}

func handleSummary(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	table, err := FetchDataset(cfg)
	if err != nil {
		failPipeline(w, err)
		return
	}
	clean, err := Clean(table)
	if err != nil {
		failPipeline(w, err)
		return
	}
	records, err := Records(clean)
	if err != nil {
		failPipeline(w, err)
		return
	}

	national, err := GenerateNationalTable(records)
	if err != nil {
		failPipeline(w, err)
		return
	}
	ranking, err := GenerateForceRankingTable(records)
	if err != nil {
		failPipeline(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n\n%s\n", national, ranking)
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	figures, err := RunPipeline(cfg)
	if err != nil {
		failPipeline(w, err)
		return
	}
	paths, err := ExportFigures(figures, cfg.ExportDir)
	if err != nil {
		log.Printf("export failed: %v", err)
		http.Error(w, "could not export charts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, path := range paths {
		fmt.Fprintln(w, path)
	}
}

func handlePush(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg.TgToken == "" || cfg.TgChatID == 0 {
		http.Error(w, "telegram delivery is not configured", http.StatusServiceUnavailable)
		return
	}

	figures, err := RunPipeline(cfg)
	if err != nil {
		failPipeline(w, err)
		return
	}
	api, err := tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		log.Printf("tg error: %v", err)
		http.Error(w, "could not reach telegram", http.StatusBadGateway)
		return
	}
	if err := sendFigures(api, cfg.TgChatID, figures); err != nil {
		http.Error(w, "could not send charts", http.StatusBadGateway)
		return
	}
	fmt.Fprintf(w, "sent %d figures", len(figures))
}

// failPipeline maps pipeline errors to responses. No partial chart output is
// ever rendered.
func failPipeline(w http.ResponseWriter, err error) {
	log.Printf("pipeline failed: %v", err)
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		http.Error(w, "could not fetch the dataset", http.StatusBadGateway)
		return
	}
	http.Error(w, "could not build charts", http.StatusInternalServerError)
}
