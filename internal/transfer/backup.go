package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/safar/makeup-inventory/internal/models"
)

// WriteBackup writes the human-readable inventory dump, one
// "id | name | category | shade | price | quantity" line per product.
// Nothing is escaped.
func WriteBackup(w io.Writer, products []models.Product) error {
	bw := bufio.NewWriter(w)
	for _, p := range products {
		_, err := fmt.Fprintf(bw, "%d | %s | %s | %s | %s | %d\n",
			p.ID, p.Name, p.Category, p.Shade, p.Price.StringFixed(2), p.Quantity)
		if err != nil {
			return fmt.Errorf("write backup row %d: %w", p.ID, err)
		}
	}
	return bw.Flush()
}

// WriteFile creates or truncates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return write(f)
}
