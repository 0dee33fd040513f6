package expand

import (
	"fmt"

	"github.com/Afrawles/cardsplit/internal/cards"
	"github.com/Afrawles/cardsplit/internal/table"
)

// EmptyPolicy decides what happens to a row whose target cell has no tokens.
type EmptyPolicy string

const (
	// EmptyDrop removes the row from the output.
	EmptyDrop EmptyPolicy = "drop"
	// EmptyKeep emits the row once with the target cell set to missing.
	EmptyKeep EmptyPolicy = "keep-empty"
)

func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch p := EmptyPolicy(s); p {
	case EmptyDrop, EmptyKeep:
		return p, nil
	case "":
		return EmptyDrop, nil
	}
	return "", fmt.Errorf("unknown empty policy %q (want drop or keep-empty)", s)
}

type Expander struct {
	Column  string
	Missing cards.MissingPolicy
	Empty   EmptyPolicy
	// Progress, when set, is called once per input row.
	Progress func()
}

func NewExpander(column string, missing cards.MissingPolicy, empty EmptyPolicy) *Expander {
	return &Expander{Column: column, Missing: missing, Empty: empty}
}

// Stats summarizes one expansion.
type Stats struct {
	InputRows    int `json:"input_rows"`
	OutputRows   int `json:"output_rows"`
	DroppedRows  int `json:"dropped_rows"`
	KeptEmpty    int `json:"kept_empty_rows"`
	MissingCells int `json:"missing_cells"`
	MaxTokens    int `json:"max_tokens_per_cell"`
}

// Expand returns a new table with one row per card token. Rows keep their
// input order, tokens keep their order within a row, and every column other
// than the target is copied unchanged.
func (e *Expander) Expand(t *table.Table) (*table.Table, Stats, error) {
	var stats Stats

	idx, err := t.Require(e.Column)
	if err != nil {
		return nil, stats, err
	}

	out := &table.Table{
		Columns: t.Columns,
		Rows:    make([]table.Row, 0, len(t.Rows)),
	}

	for i, row := range t.Rows {
		stats.InputRows++
		if e.Progress != nil {
			e.Progress()
		}

		cell := row[idx]
		if cell.IsMissing() {
			stats.MissingCells++
		}

		// Data rows are numbered from 1 after the header.
		tokens, err := cards.Tokenize(i+1, cell, e.Missing)
		if err != nil {
			return nil, stats, err
		}
		stats.MaxTokens = max(stats.MaxTokens, len(tokens))

		if len(tokens) == 0 {
			if e.Empty == EmptyKeep {
				out.Rows = append(out.Rows, row.With(idx, table.Missing()))
				stats.KeptEmpty++
			} else {
				stats.DroppedRows++
			}
			continue
		}

		for _, token := range tokens {
			out.Rows = append(out.Rows, row.With(idx, table.Text(token)))
		}
	}

	stats.OutputRows = len(out.Rows)
	return out, stats, nil
}
