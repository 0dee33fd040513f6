package cards

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Afrawles/cardsplit/internal/table"
)

// MissingPolicy decides what a missing cell tokenizes to.
type MissingPolicy string

const (
	// MissingLiteral reads a missing cell as the text "nan", yielding one token.
	MissingLiteral MissingPolicy = "literal"
	// MissingEmpty reads a missing cell as empty, yielding no tokens.
	MissingEmpty MissingPolicy = "empty"
)

func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch p := MissingPolicy(s); p {
	case MissingLiteral, MissingEmpty:
		return p, nil
	case "":
		return MissingLiteral, nil
	}
	return "", fmt.Errorf("unknown missing policy %q (want literal or empty)", s)
}

// TokenizeError reports a cell whose text cannot be tokenized.
type TokenizeError struct {
	Row int
	Err error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize row %d: %v", e.Row, e.Err)
}

func (e *TokenizeError) Unwrap() error { return e.Err }

var errInvalidText = errors.New("cell text is not valid UTF-8")

// Tokenize splits one cell under the given missing policy. row is only used
// to label errors.
func Tokenize(row int, cell table.Cell, policy MissingPolicy) ([]string, error) {
	text, ok := cell.Value()
	if !ok {
		if policy == MissingEmpty {
			return nil, nil
		}
		text = MissingText
	}
	if !utf8.ValidString(text) {
		return nil, &TokenizeError{Row: row, Err: errInvalidText}
	}
	return Split(text), nil
}
