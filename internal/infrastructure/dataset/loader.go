// Package dataset loads compound tables from CSV sources.  Schema validation
// happens exactly once here, at ingestion: downstream stages receive a typed
// compound.Table and never re-check column existence.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// LoadFile reads a compound table from the CSV file at path.  A missing file
// yields ErrCodeDatasetFileNotFound so callers can show an idle state instead
// of crashing.
func LoadFile(path string) (compound.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return compound.Table{}, errors.New(errors.ErrCodeDatasetFileNotFound, "dataset file not found").
				WithDetail("path=" + path)
		}
		return compound.Table{}, errors.Wrap(err, errors.ErrCodeDatasetParseFailed, "failed to open dataset file")
	}
	defer f.Close()
	return Load(f)
}

// Load reads a compound table from CSV text.  The header row must contain
// every required column (extra columns are ignored); if any are missing the
// load fails naming all of them and nothing is processed further.  Numeric
// cells that are empty or unparsable become missing values; the name cell
// may be empty.
func Load(r io.Reader) (compound.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return compound.Table{}, errors.Wrap(err, errors.ErrCodeDatasetParseFailed, "failed to read CSV header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range compound.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return compound.Table{}, errors.New(errors.ErrCodeDatasetMissingColumns, "missing required columns").
			WithDetail(strings.Join(missing, ", "))
	}

	var rows []compound.Compound
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return compound.Table{}, errors.Wrap(err, errors.ErrCodeDatasetParseFailed, "failed to read CSV row")
		}
		rows = append(rows, compound.Compound{
			ChemblID: record[index["chembl_id"]],
			Name:     record[index["name"]],
			Target:   record[index["target"]],
			IC50:     parseCell(record[index["ic50"]]),
			MW:       parseCell(record[index["mw"]]),
			LogP:     parseCell(record[index["logp"]]),
			HBD:      parseCell(record[index["hbd"]]),
			HBA:      parseCell(record[index["hba"]]),
			PSA:      parseCell(record[index["psa"]]),
			PIC50:    compound.Missing(),
		})
	}

	return compound.NewTable(rows), nil
}

// parseCell parses a numeric cell, degrading empty or unparsable text to the
// missing marker rather than erroring.
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return compound.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return compound.Missing()
	}
	return v
}
