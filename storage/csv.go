package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"usedcar-analyzer/models"
)

// cleanHeader is the column order of the persisted clean table.
var cleanHeader = []string{
	"canonical_name", "full_name", "model_year", "mileage_km", "price_manwon",
	"brand", "body_type", "new_car_price",
}

// readTable reads a delimited UTF-8 file with a header row and returns the
// header → column index map plus the data rows. Ragged rows are tolerated;
// lookups past a short row resolve to "".
func readTable(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv: %q has no header row", path)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return index, records[1:], nil
}

// field returns the named column of row, or "" when the source lacks the
// column or the row is short.
func field(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// LoadRawListings reads one scraped source file. Missing columns are
// treated as all-null for that source; the merger drops what cannot be
// parsed later.
func LoadRawListings(path string) ([]models.RawListing, error) {
	index, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	listings := make([]models.RawListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, models.RawListing{
			FullName:      field(row, index, "full_name"),
			ModelYearText: field(row, index, "model_year_text"),
			MileageText:   field(row, index, "mileage_text"),
			PriceText:     field(row, index, "price_text"),
		})
	}
	return listings, nil
}

// LoadReferenceModels reads the curated reference table. Unlike scraped
// sources, a malformed new-car price here is an error, not a null.
func LoadReferenceModels(path string) ([]models.ReferenceModel, error) {
	index, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	reference := make([]models.ReferenceModel, 0, len(rows))
	for i, row := range rows {
		priceText := strings.TrimSpace(field(row, index, "new_car_price"))
		price, err := strconv.ParseFloat(priceText, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: %q row %d: bad new_car_price %q: %w", path, i+2, priceText, err)
		}
		reference = append(reference, models.ReferenceModel{
			Brand:         strings.TrimSpace(field(row, index, "brand")),
			CanonicalName: strings.TrimSpace(field(row, index, "canonical_name")),
			BodyType:      strings.TrimSpace(field(row, index, "body_type")),
			NewCarPrice:   price,
		})
	}
	return reference, nil
}

// LoadYearlyTransactions reads a yearly transaction-count table
// (columns year, total_transactions).
func LoadYearlyTransactions(path string) ([]models.YearlyTransactions, error) {
	index, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	yearly := make([]models.YearlyTransactions, 0, len(rows))
	for i, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(field(row, index, "year")))
		if err != nil {
			return nil, fmt.Errorf("csv: %q row %d: bad year: %w", path, i+2, err)
		}
		total, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(field(row, index, "total_transactions")), ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: %q row %d: bad total_transactions: %w", path, i+2, err)
		}
		yearly = append(yearly, models.YearlyTransactions{Year: year, TotalTransactions: total})
	}
	return yearly, nil
}

// LoadFAQ reads one scraped FAQ file. The site column is optional.
func LoadFAQ(path string) ([]models.FAQEntry, error) {
	index, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FAQEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.FAQEntry{
			Category: strings.TrimSpace(field(row, index, "category")),
			Question: strings.TrimSpace(field(row, index, "question")),
			Answer:   strings.TrimSpace(field(row, index, "answer")),
			Site:     strings.TrimSpace(field(row, index, "site")),
		})
	}
	return entries, nil
}

// CleanCSVWriter persists the normalized clean table as delimited text.
// It is safe for concurrent use.
type CleanCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCleanCSVWriter creates (or truncates) the clean-table file at the given
// path and writes the header row. Intermediate directories are created
// automatically. Output is whole-file overwrite: a run either completes and
// replaces the table in full, or fails before writing rows.
func NewCleanCSVWriter(path string) (*CleanCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(cleanHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CleanCSVWriter{file: f, writer: w}, nil
}

// WriteListings appends one row per surviving, deduplicated listing.
func (c *CleanCSVWriter) WriteListings(listings []models.NormalizedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.CanonicalName,
			l.FullName,
			strconv.Itoa(l.ModelYear),
			strconv.FormatFloat(l.MileageKM, 'f', -1, 64),
			strconv.Itoa(l.PriceManwon),
			l.Brand,
			l.BodyType,
			strconv.FormatFloat(l.NewCarPrice, 'f', -1, 64),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CleanCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
