// Package report renders a SearchResult as a tabular file. It derives
// everything from the result; no comparison logic lives here.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"medcompare/models"
)

// csv header, matching the original report layout.
var header = []string{"Medicine", "Pharmacy", "Price", "Link", "Cheapest Price"}

// WriteCSV writes one row per pharmacy to w. Unavailable prices render as
// empty cells.
func WriteCSV(w io.Writer, result *models.SearchResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	cheapest := formatPrice(result.CheapestPrice)
	for _, q := range result.Results {
		row := []string{
			result.Medicine,
			q.Pharmacy,
			formatPrice(q.Price),
			q.Link,
			cheapest,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write row for %s: %w", q.Pharmacy, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to Filename(result) in dir and returns the
// full path.
func SaveCSV(dir string, result *models.SearchResult) (string, error) {
	path := filepath.Join(dir, Filename(result))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, result); err != nil {
		return "", err
	}
	return path, nil
}

// Filename derives the per-query report name, e.g.
// "CROCIN_650_Final_Report.csv".
func Filename(result *models.SearchResult) string {
	return strings.ReplaceAll(result.Medicine, " ", "_") + "_Final_Report.csv"
}

func formatPrice(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}
