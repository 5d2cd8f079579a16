package transfer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/safar/makeup-inventory/internal/models"
	"github.com/shopspring/decimal"
)

func TestEscapeCSV(t *testing.T) {
	tests := map[string]string{
		"Velvet Matte":   "Velvet Matte",
		"Red, Bold":      `"Red, Bold"`,
		`The "One"`:      `"The ""One"""`,
		`Mix, "it" up`:   `"Mix, ""it"" up"`,
		"Rose\nGold":     "\"Rose\nGold\"",
		"Rose\rGold":     "\"Rose\rGold\"",
		" leading space": " leading space",
		"":               "",
	}
	for in, want := range tests {
		if got := EscapeCSV(in); got != want {
			t.Errorf("EscapeCSV(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Velvet Matte", Category: models.CategoryLipstick, Shade: "012", Price: decimal.RequireFromString("9.99"), Quantity: 20},
		{ID: 2, Name: `Rose, "Deep"`, Category: models.CategoryBlush, Shade: "3", Price: decimal.NewFromInt(12), Quantity: 0},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "id,name,category,shade,price,no_of_items\n" +
		"1,Velvet Matte,Lipstick,012,9.99,20\n" +
		`2,"Rose, ""Deep""",Blush,3,12.00,0` + "\n"
	if buf.String() != want {
		t.Errorf("Unexpected CSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	products := []models.Product{
		{ID: 4, Name: "Velvet Matte", Category: models.CategoryLipstick, Shade: "012", Price: decimal.RequireFromString("9.99"), Quantity: 20},
		{ID: 9, Name: `Rose, "Deep"`, Category: models.CategoryBlush, Shade: "003", Price: decimal.RequireFromString("0.5"), Quantity: 1},
		{ID: 11, Name: "Rose\nGold", Category: models.CategoryBlush, Shade: "004", Price: decimal.NewFromInt(1), Quantity: 1},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, skipped, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("Unexpected skipped rows: %v", skipped)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[2].Name != "Rose\nGold" || rows[2].Shade != "004" || rows[2].Line != 4 {
		t.Errorf("Line break in a name should survive the round trip, got %+v", rows[2])
	}

	if rows[1].Name != `Rose, "Deep"` || rows[1].Shade != "003" || rows[1].Price != "0.50" || rows[1].Quantity != "1" {
		t.Errorf("Unexpected row %+v", rows[1])
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Errorf("Unexpected line numbers %d, %d", rows[0].Line, rows[1].Line)
	}
}

func TestReadCSVSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"id,name,category,shade,price,no_of_items",
		"1,Velvet Matte,Lipstick,012,9.99,20",
		"2,Short,Blush",
		`3,bad "quote,Blush,1,1.00,1`,
		"",
		"4,Silk Base,Foundation,120,32.00,2,extra",
	}, "\n")

	rows, skipped, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if len(rows) != 2 || rows[0].Name != "Velvet Matte" || rows[1].Name != "Silk Base" {
		t.Fatalf("Unexpected rows %+v", rows)
	}
	if len(skipped) != 2 {
		t.Fatalf("Expected 2 skipped rows, got %v", skipped)
	}
	if skipped[0].Line != 3 || !errors.Is(skipped[0], ErrShortRow) {
		t.Errorf("Unexpected first skipped row %v", skipped[0])
	}
	if skipped[1].Line != 4 {
		t.Errorf("Unexpected second skipped row %v", skipped[1])
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	rows, skipped, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 || len(skipped) != 0 {
		t.Errorf("Expected nothing from empty input, got %v %v %v", rows, skipped, err)
	}

	rows, _, err = ReadCSV(strings.NewReader(CSVHeader + "\n"))
	if err != nil || len(rows) != 0 {
		t.Errorf("Expected no rows from header-only input, got %v %v", rows, err)
	}
}
