// File path: internal/process/xlsx.go
package process

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lathemind/lathemind/internal/common"
)

// Process management sheet layout for the CINCOM L20. Rows start at 12 and
// the sheet leaves a blank row between entries.
const (
	sheetNameMarker = "加工工程管理表"
	startRow        = 12
	rowSkip         = 2
	maxRows         = 100
)

type columnMap struct {
	correction string
	tool       string
	name       string
}

var (
	frontColumns = columnMap{correction: "A", tool: "C", name: "E"}
	backColumns  = columnMap{correction: "S", tool: "U", name: "W"}
)

// ParseSheet reads an XLSX process management workbook and extracts the
// front-side and back-side operation lists.
func ParseSheet(r io.Reader) (Data, error) {
	logger := common.Logger()
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return Data{}, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheet := ""
	for _, name := range workbook.GetSheetList() {
		if strings.Contains(name, sheetNameMarker) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return Data{}, fmt.Errorf("workbook has no sheets")
		}
		logger.Warn("process: management sheet not found, using first sheet", "sheet", sheets[0])
		sheet = sheets[0]
	}

	front, err := parseOperations(workbook, sheet, frontColumns)
	if err != nil {
		return Data{}, err
	}
	back, err := parseOperations(workbook, sheet, backColumns)
	if err != nil {
		return Data{}, err
	}
	logger.Info("process: sheet parsed", "front", len(front), "back", len(back))
	return Data{FrontOperations: front, BackOperations: back}, nil
}

func parseOperations(workbook *excelize.File, sheet string, columns columnMap) ([]Operation, error) {
	operations := []Operation{}
	for offset := 0; offset < maxRows; offset++ {
		row := startRow + offset*rowSkip
		correction, err := cellValue(workbook, sheet, columns.correction, row)
		if err != nil {
			return nil, err
		}
		tool, err := cellValue(workbook, sheet, columns.tool, row)
		if err != nil {
			return nil, err
		}
		name, err := cellValue(workbook, sheet, columns.name, row)
		if err != nil {
			return nil, err
		}

		// A fully empty row marks the end of the table.
		if correction == "" && tool == "" && name == "" {
			break
		}
		if name == "" {
			continue
		}
		operations = append(operations, Operation{
			Correction: correction,
			Tool:       tool,
			Name:       name,
		})
	}
	return operations, nil
}

func cellValue(workbook *excelize.File, sheet, column string, row int) (string, error) {
	value, err := workbook.GetCellValue(sheet, fmt.Sprintf("%s%d", column, row))
	if err != nil {
		return "", fmt.Errorf("read cell %s%d: %w", column, row, err)
	}
	return strings.TrimSpace(value), nil
}
