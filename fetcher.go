package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ukcrimestats/arrests_dashboard/config"
	"github.com/ukcrimestats/arrests_dashboard/domain/models"
)

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// FetchCSV downloads the dataset with a single GET and parses it into a
// table, header row first. Any failure surfaces as a FetchError; there are no
// retries.
func FetchCSV(url string) (*models.Table, error) {
	body, err := fetchBody(url)
	if err != nil {
		return nil, err
	}
	return parseCSV(url, body)
}

// FetchDataset reads a fresh local cache copy when one is configured, falling
// back to the network. Downloaded bytes are written through to the cache on a
// best-effort basis.
func FetchDataset(cfg *config.Config) (*models.Table, error) {
	if cfg.CachePath != "" && cacheFresh(cfg.CachePath, cfg.CacheMaxAge) {
		if body, err := loadCache(cfg.CachePath); err == nil {
			if table, err := parseCSV(cfg.CachePath, body); err == nil {
				return table, nil
			}
		}
		log.Printf("unreadable cache at %s, refetching", cfg.CachePath)
	}

	body, err := fetchBody(cfg.DataURL)
	if err != nil {
		return nil, err
	}
	if cfg.CachePath != "" {
		if err := saveCache(cfg.CachePath, body); err != nil {
			log.Printf("could not cache dataset: %v", err)
		}
	}
	return parseCSV(cfg.DataURL, body)
}

func fetchBody(url string) ([]byte, error) {
	resp, err := fetchClient.Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}

func parseCSV(source string, body []byte) (*models.Table, error) {
	if len(body) == 0 {
		return nil, &FetchError{URL: source, Err: errors.New("empty body")}
	}
	if !utf8.Valid(body) {
		return nil, &FetchError{URL: source, Err: errors.New("body is not valid UTF-8")}
	}

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		return nil, &FetchError{URL: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &FetchError{URL: source, Err: errors.New("csv has no header row")}
	}
	return &models.Table{Columns: records[0], Rows: records[1:]}, nil
}
