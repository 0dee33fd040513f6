package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Afrawles/cardsplit/internal/table"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type ExcelExporter struct {
	SheetName string
}

func NewExcelExporter(sheetName string) *ExcelExporter {
	return &ExcelExporter{SheetName: sanitizeSheetName(sheetName)}
}

// Export writes t as a single-sheet workbook with a frozen header row. All
// values are written as text.
func (e *ExcelExporter) Export(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if e.SheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, e.SheetName); err != nil {
			return &table.WriteError{Path: path, Err: err}
		}
	}

	if err := e.fill(f, t); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}

	return writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func (e *ExcelExporter) fill(f *excelize.File, t *table.Table) error {
	sheet := e.SheetName

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	header := make([]any, len(t.Columns))
	for i, name := range t.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		last := cellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	widths := make([]int, len(t.Columns))
	for i, name := range t.Columns {
		widths[i] = len(name)
	}

	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, cell := range row {
			s := cell.String()
			values[j] = s
			widths[j] = max(widths[j], len(s))
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return err
		}
	}

	for i, w := range widths {
		col := columnLetter(i + 1)
		if err := f.SetColWidth(sheet, col, col, float64(min(max(w+2, 10), 60))); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", ":", "", "[", "(", "]", ")")
	name = r.Replace(name)

	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if strings.TrimSpace(name) == "" {
		return defaultSheet
	}

	return name
}
