// Package menuxlsx parses restaurant menu workbooks into normalized rows.
package menuxlsx

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Row is one normalized menu line from a workbook. Price is in minor
// currency units.
type Row struct {
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	ProductName       string
	Price             int64
	Available         bool
}

// RowError describes a workbook row that could not be parsed. RowNumber is
// 1-based as shown in spreadsheet applications.
type RowError struct {
	RowNumber int
	Reason    string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Reason)
}

// Expected header columns in order
var expectedHeader = []string{"restaurant", "address", "phone", "product", "price", "available"}

// Parse reads a menu workbook from r. Rows that fail validation are
// collected as RowErrors instead of aborting the whole import.
func Parse(r io.Reader) ([]Row, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	if err := validateHeader(rows[0]); err != nil {
		return nil, nil, err
	}

	var (
		parsed    []Row
		rowErrors []RowError
	)
	for i, cells := range rows[1:] {
		rowNum := i + 2

		if isEmptyRow(cells) {
			continue
		}

		row, err := parseRow(cells)
		if err != nil {
			log.Debug().Int("row", rowNum).Err(err).Msg("Skipping invalid menu row")
			rowErrors = append(rowErrors, RowError{RowNumber: rowNum, Reason: err.Error()})
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, rowErrors, nil
}

func validateHeader(cells []string) error {
	if len(cells) < len(expectedHeader) {
		return fmt.Errorf("header has %d columns, expected %d", len(cells), len(expectedHeader))
	}
	for i, want := range expectedHeader {
		got := strings.ToLower(strings.TrimSpace(cells[i]))
		if got != want {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, cells[i], want)
		}
	}
	return nil
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(cells []string) (Row, error) {
	// GetRows trims trailing empty cells, pad so indexing is safe
	padded := make([]string, len(expectedHeader))
	copy(padded, cells)
	for i := range padded {
		padded[i] = strings.TrimSpace(padded[i])
	}

	row := Row{
		RestaurantName:    padded[0],
		RestaurantAddress: padded[1],
		RestaurantPhone:   padded[2],
		ProductName:       padded[3],
	}

	if row.RestaurantName == "" {
		return Row{}, fmt.Errorf("missing restaurant name")
	}
	if row.RestaurantAddress == "" {
		return Row{}, fmt.Errorf("missing restaurant address")
	}
	if row.ProductName == "" {
		return Row{}, fmt.Errorf("missing product name")
	}

	price, err := parsePrice(padded[4])
	if err != nil {
		return Row{}, err
	}
	row.Price = price

	row.Available = parseBool(padded[5])
	return row, nil
}

// parsePrice converts a decimal price string to minor currency units.
// Accepts both comma and dot as the decimal separator.
func parsePrice(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing price")
	}
	normalized := strings.ReplaceAll(s, ",", ".")
	normalized = strings.ReplaceAll(normalized, " ", "")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return int64(math.Round(value * 100)), nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "da":
		return true
	}
	return false
}
