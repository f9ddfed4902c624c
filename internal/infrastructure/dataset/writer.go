package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// WriteCSV emits t in the nine-column input schema, so the output is valid
// input for Load.  Missing numeric values become empty cells.
func WriteCSV(w io.Writer, t compound.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(compound.RequiredColumns); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write CSV header")
	}
	for _, c := range t.Compounds {
		record := []string{
			c.ChemblID, c.Name, c.Target,
			formatCell(c.IC50), formatCell(c.MW), formatCell(c.LogP),
			formatCell(c.HBD), formatCell(c.HBA), formatCell(c.PSA),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to flush CSV")
	}
	return nil
}

// SaveCSV writes t to path, creating parent directories as needed.
func SaveCSV(path string, t compound.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create output file")
	}
	defer f.Close()
	return WriteCSV(f, t)
}

func formatCell(v float64) string {
	if compound.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
