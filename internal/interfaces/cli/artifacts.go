package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/artifacts"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// saveJSON marshals v with indentation and stores it under name.
func saveJSON(ctx context.Context, store artifacts.Store, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode artifact").
			WithDetail(name)
	}
	_, err = store.Save(ctx, name, data, "application/json")
	return err
}

// correlationCSV renders the matrix in the same layout as DataFrame.to_csv:
// a leading empty header cell, property columns, one labelled row per
// property.  Missing cells are empty.
func correlationCSV(m compound.CorrelationMatrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(m.Properties)+1)
	header = append(header, "")
	for _, p := range m.Properties {
		header = append(header, string(p))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i, p := range m.Properties {
		row := make([]string, 0, len(m.Properties)+1)
		row = append(row, string(p))
		for _, v := range m.Values[i] {
			if compound.IsMissing(v) {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// summaryText renders the dataset-level scalars as a small report.
func summaryText(s compound.Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Total compounds:    %d\n", s.Total)
	fmt.Fprintf(&buf, "Drug-like:          %d (%.1f%%)\n", s.DrugLikeCount, s.DrugLikePercent)
	fmt.Fprintf(&buf, "Unique targets:     %d\n", s.UniqueTargets)
	if compound.IsMissing(s.MeanPIC50) {
		fmt.Fprintf(&buf, "Mean pIC50:         n/a\n")
	} else {
		fmt.Fprintf(&buf, "Mean pIC50:         %.4f\n", s.MeanPIC50)
	}
	return buf.Bytes()
}

// describeCSV renders per-property descriptive statistics with one labelled
// row per statistic, mirroring DataFrame.describe output.
func describeCSV(t compound.Table, props []compound.Property) ([]byte, error) {
	stats := make([]compound.Stats, len(props))
	for i, p := range props {
		stats[i] = compound.Describe(t, p)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(props)+1)
	header = append(header, "")
	for _, p := range props {
		header = append(header, string(p))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rows := []struct {
		label string
		pick  func(compound.Stats) float64
	}{
		{"count", func(s compound.Stats) float64 { return float64(s.Count) }},
		{"mean", func(s compound.Stats) float64 { return s.Mean }},
		{"std", func(s compound.Stats) float64 { return s.Std }},
		{"min", func(s compound.Stats) float64 { return s.Min }},
		{"25%", func(s compound.Stats) float64 { return s.Q1 }},
		{"50%", func(s compound.Stats) float64 { return s.Median }},
		{"75%", func(s compound.Stats) float64 { return s.Q3 }},
		{"max", func(s compound.Stats) float64 { return s.Max }},
	}
	for _, r := range rows {
		record := make([]string, 0, len(props)+1)
		record = append(record, r.label)
		for _, s := range stats {
			v := r.pick(s)
			if compound.IsMissing(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// propertyScatter is the x/y payload of one property-vs-pIC50 chart.
type propertyScatter struct {
	Property  string    `json:"property"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	ChemblIDs []string  `json:"chembl_ids"`
}

// buildPropertyScatter pairs the defined values of p with defined pIC50.
func buildPropertyScatter(t compound.Table, p compound.Property) propertyScatter {
	out := propertyScatter{Property: string(p)}
	for _, c := range t.Compounds {
		x := p.Value(c)
		if compound.IsMissing(x) || compound.IsMissing(c.PIC50) {
			continue
		}
		out.X = append(out.X, x)
		out.Y = append(out.Y, c.PIC50)
		out.ChemblIDs = append(out.ChemblIDs, c.ChemblID)
	}
	return out
}
