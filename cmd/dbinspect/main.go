// Package main prints a text summary of a games database using the same
// aggregations as the dashboard.
//
// Usage:
//
//	GAMES_DB_PATH=data/games.db go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -db data/games.db -bins 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gamestats/gamestats-server/internal/analytics"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/store/sqlite"
)

var (
	dbPath = flag.String("db", "", "Path to the games database (default: $GAMES_DB_PATH or data/games.db)")
	topN   = flag.Int("top", 5, "Number of games in each ranking")
	bins   = flag.Int("bins", 10, "Histogram bins")
)

func main() {
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = os.Getenv("GAMES_DB_PATH")
	}
	if path == "" {
		path = "data/games.db"
	}

	ds, err := sqlite.LoadFile(context.Background(), path, nil)
	if err != nil {
		log.Fatalf("Failed to load games: %v", err)
	}

	fmt.Println("=== Games Database Inspection ===")
	fmt.Println()
	fmt.Printf("Source:      %s\n", ds.Source())
	fmt.Printf("Snapshot:    %s\n", ds.SnapshotID())
	fmt.Printf("Games:       %s\n", analytics.FormatCount(int64(ds.Len())))
	fmt.Printf("Titles:      %s distinct\n", analytics.FormatCount(int64(len(analytics.Titles(ds)))))
	fmt.Println()

	for _, metric := range []domain.Metric{domain.MetricRating, domain.MetricPlays} {
		printTop(ds, metric)
	}

	printCategories(ds, domain.FamilyGenre, 5)
	printCategories(ds, domain.FamilyTeam, 10)

	printHistogram(ds, domain.MetricRating)
}

func printTop(ds *domain.Dataset, metric domain.Metric) {
	entries, err := analytics.TopN(ds, metric, *topN)
	if err != nil {
		log.Fatalf("Failed to rank by %s: %v", metric, err)
	}

	fmt.Printf("--- Top %d by %s ---\n", *topN, metric.Label())
	for i, e := range entries {
		fmt.Printf("%3d. %-40s %s\n", i+1, e.Title, formatValue(metric, e.Value))
	}
	fmt.Println()
}

func printCategories(ds *domain.Dataset, family domain.Family, topK int) {
	counts, err := analytics.AggregateCategories(ds, family, topK)
	if err != nil {
		log.Fatalf("Failed to count %s: %v", family, err)
	}

	total := analytics.SlotOccurrences(ds, family)
	fmt.Printf("--- %s breakdown (%s occurrences) ---\n", family, analytics.FormatCount(int64(total)))
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total) * 100
		}
		fmt.Printf("  %-30s %8s  %5.1f%%\n", c.Label, analytics.FormatCount(int64(c.Count)), share)
	}
	fmt.Println()
}

func printHistogram(ds *domain.Dataset, metric domain.Metric) {
	hist, err := analytics.Histogram(ds, metric, *bins)
	if err != nil {
		log.Fatalf("Failed to bin %s: %v", metric, err)
	}

	peak := 0
	for _, b := range hist {
		peak = max(peak, b.Count)
	}

	fmt.Printf("--- %s distribution ---\n", metric.Label())
	for _, b := range hist {
		width := 0
		if peak > 0 {
			width = b.Count * 40 / peak
		}
		fmt.Printf("  [%6.2f, %6.2f] %6d %s\n", b.Low, b.High, b.Count, strings.Repeat("#", width))
	}
}

func formatValue(metric domain.Metric, v float64) string {
	if metric == domain.MetricRating {
		return fmt.Sprintf("%.1f", v)
	}
	return analytics.FormatCount(int64(v))
}
