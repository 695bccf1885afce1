package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shterrett/efficient-route-planning/pkg/gtfs"
	"github.com/shterrett/efficient-route-planning/pkg/transferpatterns"
)

func main() {
	input := flag.String("input", "", "Path to a GTFS feed directory (calendar.txt, trips.txt, stops.txt, stop_times.txt)")
	day := flag.String("day", "", "Service day to build the graph for, as a calendar.txt weekday column (e.g. wednesday)")
	output := flag.String("output", "patterns.gob", "Output transfer-pattern table file path")
	flag.Parse()

	if *input == "" || *day == "" {
		fmt.Fprintln(os.Stderr, "Usage: gtfsprep --input <gtfs-dir> --day <weekday> [--output patterns.gob]")
		os.Exit(1)
	}

	start := time.Now()

	log.Println("Building time-expanded graph from GTFS feed...")
	g, err := gtfs.BuildGraph(*input, *day)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Built graph: %d nodes", g.NumNodes())

	log.Println("Computing transfer patterns for every station pair...")
	patterns := transferpatterns.TransferPatternsForAllStations(g)
	log.Printf("Computed patterns for %d station pairs", len(patterns))

	log.Printf("Writing transfer patterns to %s...", *output)
	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer out.Close()
	if err := gob.NewEncoder(out).Encode(patterns); err != nil {
		log.Fatalf("Failed to write transfer patterns: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f KB)", elapsed.Round(time.Second), *output, float64(info.Size())/1024)
}
