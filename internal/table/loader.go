package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding matches how the offer exports are produced.
const DefaultEncoding = "ISO-8859-1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls how a source file is read.
type Options struct {
	// Encoding names the text encoding of delimited files. Ignored for xlsx.
	Encoding string
	// Sheet selects the worksheet of an xlsx file; empty means the first one.
	Sheet string
}

// Load reads the whole table at path. Files ending in .xlsx are read as
// workbooks, anything else as comma-separated text.
func Load(path string, opts Options) (*Table, error) {
	var (
		records []record
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readWorkbook(path, opts.Sheet)
	} else {
		records, err = readDelimited(path, opts.Encoding)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	t, err := build(records)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// LookupEncoding resolves an IANA name or alias (ISO-8859-1, latin1,
// windows-1252, utf-8, ...) and falls back to WHATWG labels.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		return enc, nil
	}
	enc, err = htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// record is one parsed row with the source line (or sheet row) it started on.
type record struct {
	fields []string
	line   int
}

func readDelimited(path, encName string) ([]record, error) {
	enc, err := LookupEncoding(encName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, err := decode(raw, enc)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{fields: fields, line: line})
	}
	return records, nil
}

func decode(raw []byte, enc encoding.Encoding) (string, error) {
	if isUTF8(enc) {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return "", errors.New("input is not valid UTF-8")
		}
		return string(raw), nil
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	return string(out), nil
}

func isUTF8(enc encoding.Encoding) bool {
	if enc == unicode.UTF8 || enc == unicode.UTF8BOM {
		return true
	}
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

func readWorkbook(path, sheet string) ([]record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	// GetRows keeps empty rows in the middle of a sheet; delimited input skips
	// blank lines, so do the same here.
	var records []record
	for i, row := range rows {
		if len(row) > 0 {
			records = append(records, record{fields: row, line: i + 1})
		}
	}
	return records, nil
}

func build(records []record) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	columns := dedupeColumns(records[0].fields)
	t := &Table{
		Columns: columns,
		Rows:    make([]Row, 0, len(records)-1),
	}

	for _, rec := range records[1:] {
		if len(rec.fields) > len(columns) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d", rec.line, len(rec.fields), len(columns))
		}
		row := make(Row, len(columns))
		for j := range columns {
			if j < len(rec.fields) && rec.fields[j] != "" {
				row[j] = Text(rec.fields[j])
			} else {
				row[j] = Missing()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// dedupeColumns renames repeated header names to Name.1, Name.2, ... A
// generated name that collides again gets its own suffix (Name.1.1).
func dedupeColumns(names []string) []string {
	out := make([]string, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
			n = counts[name]
		}
		out[i] = name
		counts[name] = n + 1
	}
	return out
}
