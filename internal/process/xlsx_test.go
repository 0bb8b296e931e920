// File path: internal/process/xlsx_test.go
package process

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, cells map[string]string) *bytes.Reader {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	workbook.SetActiveSheet(index)
	for cell, value := range cells {
		if err := workbook.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("set cell %s: %v", cell, err)
		}
	}
	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseSheetFrontAndBack(t *testing.T) {
	reader := buildWorkbook(t, "加工工程管理表 2024", map[string]string{
		// Front side, rows 12 and 14.
		"A12": "A12", "C12": "T1", "E12": "ZAGURI",
		"A14": "A14", "C14": "T2", "E14": "NEJI",
		// Back side, row 12.
		"S12": "S12", "U12": "T11", "W12": "DAN-DRILL",
	})
	data, err := ParseSheet(reader)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(data.FrontOperations) != 2 {
		t.Fatalf("front operations = %d, want 2", len(data.FrontOperations))
	}
	if data.FrontOperations[0] != (Operation{Correction: "A12", Tool: "T1", Name: "ZAGURI"}) {
		t.Fatalf("front[0] = %+v", data.FrontOperations[0])
	}
	if data.FrontOperations[1].Name != "NEJI" {
		t.Fatalf("front[1] = %+v", data.FrontOperations[1])
	}
	if len(data.BackOperations) != 1 || data.BackOperations[0].Name != "DAN-DRILL" {
		t.Fatalf("back operations = %+v", data.BackOperations)
	}
}

func TestParseSheetStopsAtEmptyRow(t *testing.T) {
	reader := buildWorkbook(t, "加工工程管理表", map[string]string{
		"A12": "A12", "C12": "T1", "E12": "FIRST",
		// Row 14 fully empty terminates the table; row 16 must be ignored.
		"A16": "A16", "C16": "T3", "E16": "IGNORED",
	})
	data, err := ParseSheet(reader)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(data.FrontOperations) != 1 || data.FrontOperations[0].Name != "FIRST" {
		t.Fatalf("expected parse to stop at empty row, got %+v", data.FrontOperations)
	}
}

func TestParseSheetSkipsRowsWithoutName(t *testing.T) {
	reader := buildWorkbook(t, "加工工程管理表", map[string]string{
		"A12": "A12", "C12": "T1", // name empty: skipped, not terminal
		"A14": "A14", "C14": "T2", "E14": "KEPT",
	})
	data, err := ParseSheet(reader)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(data.FrontOperations) != 1 || data.FrontOperations[0].Name != "KEPT" {
		t.Fatalf("unnamed row handling wrong: %+v", data.FrontOperations)
	}
}

func TestParseSheetFallsBackToFirstSheet(t *testing.T) {
	reader := buildWorkbook(t, "Sheet1", map[string]string{
		"A12": "A12", "C12": "T1", "E12": "ONLY",
	})
	data, err := ParseSheet(reader)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(data.FrontOperations) != 1 || data.FrontOperations[0].Name != "ONLY" {
		t.Fatalf("fallback sheet not parsed: %+v", data.FrontOperations)
	}
}

func TestStoreReplaceAndClear(t *testing.T) {
	store := NewStore()
	if got := store.Get(); len(got.FrontOperations) != 0 || len(got.BackOperations) != 0 {
		t.Fatalf("fresh store not empty: %+v", got)
	}

	store.Replace(Data{FrontOperations: []Operation{{Correction: "A12", Tool: "T1", Name: "ZAGURI"}}})
	got := store.Get()
	if len(got.FrontOperations) != 1 || got.FrontOperations[0].Name != "ZAGURI" {
		t.Fatalf("replace failed: %+v", got)
	}
	if got.BackOperations == nil {
		t.Fatalf("back operations must be empty, not nil")
	}

	// Mutating the returned copy must not leak into the store.
	got.FrontOperations[0].Name = "CHANGED"
	if store.Get().FrontOperations[0].Name != "ZAGURI" {
		t.Fatalf("Get must return a copy")
	}

	store.Clear()
	if cleared := store.Get(); len(cleared.FrontOperations) != 0 {
		t.Fatalf("clear failed: %+v", cleared)
	}
}

func TestParseSheetManyRows(t *testing.T) {
	cells := map[string]string{}
	for i := 0; i < 10; i++ {
		row := 12 + i*2
		cells[fmt.Sprintf("A%d", row)] = fmt.Sprintf("A%d", row)
		cells[fmt.Sprintf("C%d", row)] = fmt.Sprintf("T%d", i+1)
		cells[fmt.Sprintf("E%d", row)] = fmt.Sprintf("OP-%02d", i+1)
	}
	data, err := ParseSheet(buildWorkbook(t, "加工工程管理表", cells))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(data.FrontOperations) != 10 {
		t.Fatalf("expected 10 operations, got %d", len(data.FrontOperations))
	}
	if data.FrontOperations[9].Name != "OP-10" {
		t.Fatalf("order broken: %+v", data.FrontOperations[9])
	}
}
