package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Afrawles/cardsplit/internal/table"
)

// writeAtomic writes through a temp file next to path and renames it into
// place, so a failed write never leaves a partial file at path.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &table.WriteError{Path: path, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}
	if err = buf.Flush(); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return &table.WriteError{Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &table.WriteError{Path: path, Err: fmt.Errorf("failed to move file into place: %w", err)}
	}
	return nil
}
