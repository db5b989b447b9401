package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ukcrimestats/arrests_dashboard/config"
)

func main() {
	fmt.Println("started")
	cfg := config.GetConfig()

	http.HandleFunc("/", handleDashboard)
	http.HandleFunc("/figures.json", handleFiguresJSON)
	http.HandleFunc("/summary", handleSummary)
	http.HandleFunc("/export", handleExport)
	http.HandleFunc("/push", handlePush)

	go logStartupSummary(cfg)

	fmt.Println("listen on: http://localhost" + cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalln("error starting server:", err)
	}
}

// logStartupSummary fetches the dataset once and logs the headline tables so
// a fresh deployment shows the data it is serving.
func logStartupSummary(cfg *config.Config) {
	table, err := FetchDataset(cfg)
	if err != nil {
		log.Printf("startup summary skipped: %v", err)
		return
	}
	clean, err := Clean(table)
	if err != nil {
		log.Printf("startup summary skipped: %v", err)
		return
	}
	records, err := Records(clean)
	if err != nil {
		log.Printf("startup summary skipped: %v", err)
		return
	}

	national, err := GenerateNationalTable(records)
	if err != nil {
		log.Printf("startup summary skipped: %v", err)
		return
	}
	ranking, err := GenerateForceRankingTable(records)
	if err != nil {
		log.Printf("startup summary skipped: %v", err)
		return
	}
	fmt.Println(national)
	fmt.Println(ranking)
}
