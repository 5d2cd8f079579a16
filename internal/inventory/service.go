// Package inventory runs product operations end to end: validate, write
// to the store, append to the activity log.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/safar/makeup-inventory/internal/config"
	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/store"
	"github.com/safar/makeup-inventory/internal/transfer"
	"github.com/safar/makeup-inventory/internal/validation"
)

type Service struct {
	db    *sql.DB
	audit *transfer.AuditLog
	files config.FilesConfig
}

func NewService(db *sql.DB, files config.FilesConfig) *Service {
	return &Service{
		db:    db,
		audit: transfer.NewAuditLog(files.LogPath),
		files: files,
	}
}

// ImportReport summarises a CSV import.
type ImportReport struct {
	Imported   int                        `json:"imported"`
	Duplicates int                        `json:"duplicates"`
	Skipped    []*transfer.ImportRowError `json:"-"`
}

func (r *ImportReport) SkippedLines() []string {
	lines := make([]string, 0, len(r.Skipped))
	for _, e := range r.Skipped {
		lines = append(lines, e.Error())
	}
	return lines
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	return store.ListProducts(ctx, s.db)
}

func (s *Service) Add(ctx context.Context, form validation.ProductForm) (*models.Product, error) {
	product, err := validation.Validate(ctx, form, 0, s.exists)
	if err != nil {
		return nil, err
	}

	created, err := store.CreateProduct(ctx, s.db, product)
	if err != nil {
		return nil, duplicateOf(err, product)
	}

	s.record(models.AuditAdded, *created)
	return created, nil
}

// Update replaces the fields of product id. The id is never changed.
func (s *Service) Update(ctx context.Context, id int64, form validation.ProductForm) (*models.Product, error) {
	if _, err := store.GetProduct(ctx, s.db, id); err != nil {
		return nil, err
	}

	product, err := validation.Validate(ctx, form, id, s.exists)
	if err != nil {
		return nil, err
	}

	if err := store.UpdateProduct(ctx, s.db, product); err != nil {
		return nil, duplicateOf(err, product)
	}

	s.record(models.AuditUpdated, product)
	return &product, nil
}

// Delete removes product id and returns what was removed, for undo.
func (s *Service) Delete(ctx context.Context, id int64) (*models.Product, error) {
	snapshot, err := store.GetProduct(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	if err := store.DeleteProduct(ctx, s.db, id); err != nil {
		return nil, err
	}

	s.record(models.AuditDeleted, *snapshot)
	return snapshot, nil
}

// Restore inserts a deleted product again. It gets a new id; the old one is
// not reused. Restoring fails when another product took its name and shade
// in the meantime.
func (s *Service) Restore(ctx context.Context, snapshot models.Product) (*models.Product, error) {
	exists, err := store.ProductExists(ctx, s.db, snapshot.Name, snapshot.Shade, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &validation.DuplicateError{Name: snapshot.Name, Shade: snapshot.Shade}
	}

	snapshot.ID = 0
	restored, err := store.CreateProduct(ctx, s.db, snapshot)
	if err != nil {
		return nil, duplicateOf(err, snapshot)
	}

	s.record(models.AuditRestored, *restored)
	return restored, nil
}

// ExportCSV writes every product to the inventory CSV file and returns the
// number of rows written.
func (s *Service) ExportCSV(ctx context.Context) (int, error) {
	products, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	err = transfer.WriteFile(s.files.CSVPath, func(w io.Writer) error {
		return transfer.WriteCSV(w, products)
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// ExportBackup writes the delimited dump of every product to the backup
// file.
func (s *Service) ExportBackup(ctx context.Context) (int, error) {
	products, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	err = transfer.WriteFile(s.files.BackupPath, func(w io.Writer) error {
		return transfer.WriteBackup(w, products)
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// ExportLog copies the activity log verbatim into the backup file. It
// returns transfer.ErrNoLog before touching the backup when nothing has
// been logged yet.
func (s *Service) ExportLog(ctx context.Context) (int64, error) {
	if _, err := os.Stat(s.audit.Path()); errors.Is(err, os.ErrNotExist) {
		return 0, transfer.ErrNoLog
	}

	var n int64
	err := transfer.WriteFile(s.files.BackupPath, func(w io.Writer) error {
		var err error
		n, err = s.audit.CopyTo(w)
		return err
	})
	return n, err
}

// ImportCSVFile imports the inventory CSV file.
func (s *Service) ImportCSVFile(ctx context.Context) (*ImportReport, error) {
	f, err := os.Open(s.files.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.files.CSVPath, err)
	}
	defer f.Close()

	return s.ImportCSV(ctx, f)
}

// ImportCSV inserts every valid row of r whose name and shade are not in
// the store yet. The id column is ignored. Invalid rows are reported and
// skipped. All inserts commit together or not at all.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	rows, skipped, err := transfer.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Skipped: skipped}

	candidates := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		product, err := validation.Check(validation.ProductForm{
			Name:     row.Name,
			Category: row.Category,
			Shade:    row.Shade,
			Price:    row.Price,
			Quantity: row.Quantity,
		})
		if err != nil {
			report.Skipped = append(report.Skipped, &transfer.ImportRowError{Line: row.Line, Err: err})
			continue
		}
		candidates = append(candidates, product)
	}

	var created []models.Product
	err = database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		created = created[:0]
		report.Duplicates = 0

		for _, p := range candidates {
			exists, err := store.ProductExists(ctx, tx, p.Name, p.Shade, 0)
			if err != nil {
				return err
			}
			if exists {
				report.Duplicates++
				continue
			}

			product, err := store.CreateProduct(ctx, tx, p)
			if err != nil {
				return err
			}
			created = append(created, *product)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import csv: %w", err)
	}

	report.Imported = len(created)
	for _, p := range created {
		s.record(models.AuditAdded, p)
	}

	if len(report.Skipped) > 0 {
		log.Printf("csv import skipped %d rows: %s", len(report.Skipped), strings.Join(report.SkippedLines(), "; "))
	}
	return report, nil
}

// duplicateOf reports a unique index rejection the same way as a failed
// duplicate check.
func duplicateOf(err error, p models.Product) error {
	if errors.Is(err, database.ErrDuplicateProduct) {
		return &validation.DuplicateError{Name: p.Name, Shade: p.Shade}
	}
	return err
}

func (s *Service) exists(ctx context.Context, name, shade string, excludeID int64) (bool, error) {
	return store.ProductExists(ctx, s.db, name, shade, excludeID)
}

// record appends to the activity log. The store change has already
// happened, so a log failure is reported and otherwise ignored.
func (s *Service) record(action models.AuditAction, p models.Product) {
	if err := s.audit.Record(action, p); err != nil {
		log.Printf("audit %s product %d: %v", action, p.ID, err)
	}
}

// Files returns the paths exports are written to.
func (s *Service) Files() config.FilesConfig {
	return s.files
}
