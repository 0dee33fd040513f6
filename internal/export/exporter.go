package export

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/Afrawles/cardsplit/internal/table"
)

// Exporter serializes an expanded table to path.
type Exporter interface {
	Export(t *table.Table, path string) error
}

var (
	_ Exporter = (*CSVExporter)(nil)
	_ Exporter = (*ExcelExporter)(nil)
)

// For picks the exporter matching the extension of path. Anything that is not
// .xlsx is written as comma-separated text.
func For(path, sheetName string) Exporter {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewExcelExporter(sheetName)
	}
	return NewCSVExporter()
}

// ExportSummary writes v as indented JSON to path.
func ExportSummary(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return &table.WriteError{Path: path, Err: err}
	}

	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}
