package transfer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/safar/makeup-inventory/internal/models"
)

const CSVHeader = "id,name,category,shade,price,no_of_items"

const csvFields = 6

var ErrShortRow = errors.New("row has fewer than 6 fields")

// ImportRowError describes a CSV row that was skipped during import.
type ImportRowError struct {
	Line int
	Err  error
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ImportRowError) Unwrap() error {
	return e.Err
}

// Row is one data row of an inventory CSV file, with quoting removed.
type Row struct {
	Line     int
	ID       string
	Name     string
	Category string
	Shade    string
	Price    string
	Quantity string
}

// WriteCSV writes the header and one row per product. Prices are written
// with two decimals.
func WriteCSV(w io.Writer, products []models.Product) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range products {
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%s,%d\n",
			p.ID,
			EscapeCSV(p.Name),
			EscapeCSV(string(p.Category)),
			EscapeCSV(p.Shade),
			p.Price.StringFixed(2),
			p.Quantity)
		if err != nil {
			return fmt.Errorf("write csv row %d: %w", p.ID, err)
		}
	}

	return bw.Flush()
}

// EscapeCSV quotes a field when it contains a comma, a double quote or a
// line break, doubling any embedded quotes.
func EscapeCSV(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// ReadCSV parses an inventory CSV file. The first record is the header and
// is discarded. Rows that cannot be parsed or that carry fewer than six
// fields are returned as row errors; they never abort the read. Only an I/O
// failure of r is returned as err.
func ReadCSV(r io.Reader) ([]Row, []*ImportRowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		rows    []Row
		skipped []*ImportRowError
		header  = true
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, fmt.Errorf("read csv: %w", err)
			}
			if header {
				header = false
				continue
			}
			skipped = append(skipped, &ImportRowError{Line: parseErr.StartLine, Err: parseErr.Err})
			continue
		}

		if header {
			header = false
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(record) < csvFields {
			skipped = append(skipped, &ImportRowError{Line: line, Err: ErrShortRow})
			continue
		}

		rows = append(rows, Row{
			Line:     line,
			ID:       strings.TrimSpace(record[0]),
			Name:     record[1],
			Category: strings.TrimSpace(record[2]),
			Shade:    strings.TrimSpace(record[3]),
			Price:    strings.TrimSpace(record[4]),
			Quantity: strings.TrimSpace(record[5]),
		})
	}

	return rows, skipped, nil
}
