// medcompare-report runs one price comparison from the command line and
// writes the per-query CSV report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"medcompare/config"
	"medcompare/fetcher"
	"medcompare/models"
	"medcompare/registry"
	"medcompare/report"
	"medcompare/search"
)

func main() {
	medicine := flag.String("medicine", "", "medicine name to compare (required)")
	outDir := flag.String("out", ".", "directory to write the CSV report into")
	noCSV := flag.Bool("no-csv", false, "print the table only, skip the CSV report")
	flag.Parse()

	if *medicine == "" {
		fmt.Fprintln(os.Stderr, "usage: medcompare-report -medicine <name> [-out <dir>] [-no-csv]")
		os.Exit(2)
	}

	cfg := config.Load()

	// Quiet structured logs on the CLI unless asked for.
	level := slog.LevelWarn
	if cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reg, err := registry.Load(cfg.Targets.File)
	if err != nil {
		fatal("load target registry", err)
	}

	f, err := fetcher.New(cfg)
	if err != nil {
		fatal("initialise fetch engine", err)
	}
	defer f.Close()

	searcher := search.NewSearcher(reg, f, cfg.Search)

	fmt.Printf("Comparing prices for: %s...\n", *medicine)
	result, err := searcher.Search(context.Background(), *medicine)
	if err != nil {
		fatal("search", err)
	}

	printTable(result)

	if !*noCSV {
		path, err := report.SaveCSV(*outDir, result)
		if err != nil {
			fatal("write report", err)
		}
		fmt.Printf("\nReport saved: %s\n", path)
	}
}

func printTable(result *models.SearchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHARMACY\tPRICE\tCHEAPEST\tLINK")
	for _, q := range result.Results {
		price := "-"
		if q.Price != nil {
			price = fmt.Sprintf("%d", *q.Price)
		}
		mark := ""
		if q.IsCheapest {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.Pharmacy, price, mark, q.Link)
	}
	w.Flush()
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "medcompare-report: %s: %v\n", what, err)
	os.Exit(1)
}
