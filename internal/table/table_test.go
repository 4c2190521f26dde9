package table

import (
	"errors"
	"strings"
	"testing"
)

func readTable(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(csv), "vendas", Options{})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	return tbl
}

func TestReadCSVHeaderAndCells(t *testing.T) {
	tbl := readTable(t, "VendaID, DataVenda ,ValorTotal\nV1,05/03/2024,\"1.500,00\"\nV2,10/01/2024,\"250,00\"\n")
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Cell(0, "vendaid"); got != "V1" {
		t.Errorf("Cell(0, vendaid) = %q, want %q", got, "V1")
	}
	if got := tbl.Cell(1, "DataVenda"); got != "10/01/2024" {
		t.Errorf("Cell(1, DataVenda) = %q, want %q", got, "10/01/2024")
	}
	if got := tbl.Cell(0, "ValorTotal"); got != "1.500,00" {
		t.Errorf("Cell(0, ValorTotal) = %q, want %q", got, "1.500,00")
	}
}

func TestReadCSVSkipsBlankRecords(t *testing.T) {
	tbl := readTable(t, "A,B\n1,2\n,\n3,4\n")
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestReadCSVShortRowReadsEmpty(t *testing.T) {
	tbl := readTable(t, "A,B,C\n1,2\n")
	if got := tbl.Cell(0, "C"); got != "" {
		t.Errorf("Cell(0, C) = %q, want empty", got)
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	tbl := readTable(t, "")
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tbl.Len())
	}
	if err := tbl.Require("VendaID"); err == nil {
		t.Fatal("Require() on empty table should fail")
	}
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("A;B\n1;2\n"), "vendas", Options{Comma: ';'})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := tbl.Cell(0, "B"); got != "2" {
		t.Errorf("Cell(0, B) = %q, want %q", got, "2")
	}
}

func TestRequireMissingColumnSuggestsNearestHeader(t *testing.T) {
	tbl := readTable(t, "VendaID,ClinteID,ProdutoID\nV1,C1,P1\n")
	err := tbl.Require("VendaID", "ClienteID", "ProdutoID")
	if err == nil {
		t.Fatal("Require() should fail for ClienteID")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Require() error = %T, want *SchemaError", err)
	}
	if schemaErr.Column != "ClienteID" {
		t.Errorf("Column = %q, want %q", schemaErr.Column, "ClienteID")
	}
	if schemaErr.Suggestion != "ClinteID" {
		t.Errorf("Suggestion = %q, want %q", schemaErr.Suggestion, "ClinteID")
	}
}

func TestRequireMissingColumnNoSuggestionWhenFar(t *testing.T) {
	tbl := readTable(t, "Foo,Bar\n1,2\n")
	err := tbl.Require("FormaPagamento")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Require() error = %T, want *SchemaError", err)
	}
	if schemaErr.Suggestion != "" {
		t.Errorf("Suggestion = %q, want empty", schemaErr.Suggestion)
	}
}

func TestColumnPreservesOrder(t *testing.T) {
	tbl := readTable(t, "A\nx\ny\nz\n")
	got := tbl.Column("A")
	want := []string{"x", "y", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Column(A) = %v, want %v", got, want)
		}
	}
}
