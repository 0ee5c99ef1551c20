package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/paludash/internal/dataset"
)

// ContentTypeCSV is served with raw dataset downloads.
const ContentTypeCSV = "text/csv; charset=utf-8"

// CSV writes the dataset back out as comma-separated values, header first.
func CSV(t *dataset.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteFile writes data to a temp file and atomically renames it into place.
func WriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
