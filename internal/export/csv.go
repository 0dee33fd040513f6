package export

import (
	"encoding/csv"
	"io"

	"github.com/Afrawles/cardsplit/internal/table"
)

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes t as UTF-8 comma-separated text, header first, missing cells
// as empty fields.
func (e *CSVExporter) Export(t *table.Table, path string) error {
	return writeAtomic(path, func(w io.Writer) error {
		writer := csv.NewWriter(w)

		if err := writeRecord(w, writer, t.Columns); err != nil {
			return err
		}
		for _, row := range t.Rows {
			if err := writeRecord(w, writer, row.Strings()); err != nil {
				return err
			}
		}

		writer.Flush()
		return writer.Error()
	})
}

// writeRecord writes a lone empty field as "" so the record does not become
// a blank line, which readers skip.
func writeRecord(w io.Writer, writer *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}
