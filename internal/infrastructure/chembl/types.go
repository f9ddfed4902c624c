package chembl

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

// flexFloat decodes the ChEMBL API's loose numeric encoding: values arrive as
// JSON numbers, quoted strings ("446.90"), or null depending on the record.
// Absent or undecodable values become the missing marker.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexFloat(compound.Missing())
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil || s == "" {
			*f = flexFloat(compound.Missing())
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = flexFloat(compound.Missing())
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = flexFloat(compound.Missing())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func (f flexFloat) value() float64 { return float64(f) }

type pageMeta struct {
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	TotalCount int     `json:"total_count"`
	Next       *string `json:"next"`
}

type targetRecord struct {
	TargetChemblID string `json:"target_chembl_id"`
	PrefName       string `json:"pref_name"`
}

type targetSearchResponse struct {
	PageMeta pageMeta       `json:"page_meta"`
	Targets  []targetRecord `json:"targets"`
}

type activityRecord struct {
	MoleculeChemblID string    `json:"molecule_chembl_id"`
	StandardValue    flexFloat `json:"standard_value"`
	StandardUnits    string    `json:"standard_units"`
}

type activityResponse struct {
	PageMeta   pageMeta         `json:"page_meta"`
	Activities []activityRecord `json:"activities"`
}

type moleculeProperties struct {
	MWFreebase flexFloat `json:"mw_freebase"`
	ALogP      flexFloat `json:"alogp"`
	HBD        flexFloat `json:"hbd"`
	HBA        flexFloat `json:"hba"`
	PSA        flexFloat `json:"psa"`
}

type moleculeRecord struct {
	MoleculeChemblID   string              `json:"molecule_chembl_id"`
	PrefName           string              `json:"pref_name"`
	MoleculeProperties *moleculeProperties `json:"molecule_properties"`
}

type moleculeResponse struct {
	PageMeta  pageMeta         `json:"page_meta"`
	Molecules []moleculeRecord `json:"molecules"`
}

// cachedRow is the JSON-safe form of a fetched compound.  Missing values are
// nil pointers because encoding/json cannot represent NaN.
type cachedRow struct {
	ChemblID string   `json:"chembl_id"`
	Name     string   `json:"name"`
	Target   string   `json:"target"`
	IC50     *float64 `json:"ic50"`
	MW       *float64 `json:"mw"`
	LogP     *float64 `json:"logp"`
	HBD      *float64 `json:"hbd"`
	HBA      *float64 `json:"hba"`
	PSA      *float64 `json:"psa"`
}

func toPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromPtr(p *float64) float64 {
	if p == nil {
		return compound.Missing()
	}
	return *p
}

func toCachedRows(rows []compound.Compound) []cachedRow {
	out := make([]cachedRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, cachedRow{
			ChemblID: r.ChemblID,
			Name:     r.Name,
			Target:   r.Target,
			IC50:     toPtr(r.IC50),
			MW:       toPtr(r.MW),
			LogP:     toPtr(r.LogP),
			HBD:      toPtr(r.HBD),
			HBA:      toPtr(r.HBA),
			PSA:      toPtr(r.PSA),
		})
	}
	return out
}

func fromCachedRows(rows []cachedRow) []compound.Compound {
	out := make([]compound.Compound, 0, len(rows))
	for _, r := range rows {
		out = append(out, compound.Compound{
			ChemblID: r.ChemblID,
			Name:     r.Name,
			Target:   r.Target,
			IC50:     fromPtr(r.IC50),
			MW:       fromPtr(r.MW),
			LogP:     fromPtr(r.LogP),
			HBD:      fromPtr(r.HBD),
			HBA:      fromPtr(r.HBA),
			PSA:      fromPtr(r.PSA),
			PIC50:    compound.Missing(),
		})
	}
	return out
}
