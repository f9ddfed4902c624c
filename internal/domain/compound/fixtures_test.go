package compound

import "math"

const testEpsilon = 1e-9

// sampleTable mirrors the canonical four-compound fixture used across the
// analysis tests: A is fully drug-like, B violates MW, C violates all four
// rules, D violates LogP and HBA.
func sampleTable() Table {
	return NewTable([]Compound{
		{ChemblID: "CHEMBL1", Name: "Drug A", Target: "COX1", IC50: 10.5, MW: 450.0, LogP: 4.5, HBD: 4, HBA: 8, PSA: 90.0, PIC50: math.NaN()},
		{ChemblID: "CHEMBL2", Name: "Drug B", Target: "COX1", IC50: 200.0, MW: 510.0, LogP: 4.8, HBD: 5, HBA: 9, PSA: 120.0, PIC50: math.NaN()},
		{ChemblID: "CHEMBL3", Name: "Drug C", Target: "EGFR", IC50: 600.0, MW: 620.0, LogP: 5.5, HBD: 6, HBA: 11, PSA: 150.0, PIC50: math.NaN()},
		{ChemblID: "CHEMBL4", Name: "Drug D", Target: "EGFR", IC50: 150.0, MW: 400.0, LogP: 6.0, HBD: 3, HBA: 12, PSA: 110.0, PIC50: math.NaN()},
	})
}

// transformed returns the sample table with both derived columns computed.
func transformed() Table {
	return ComputePIC50(ComputeLipinski(sampleTable()))
}
