package analysis

import (
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

// rawTable mirrors the bundled four-compound example: two COX1 and two EGFR
// compounds with one Lipinski violator among them.
func rawTable() compound.Table {
	return compound.NewTable([]compound.Compound{
		{
			ChemblID: "CHEMBL1", Name: "Aspirin", Target: "COX1",
			IC50: 10.5, MW: 180.16, LogP: 1.2, HBD: 1, HBA: 4, PSA: 63.6,
			PIC50: compound.Missing(),
		},
		{
			ChemblID: "CHEMBL2", Name: "Ibuprofen", Target: "COX1",
			IC50: 200, MW: 206.28, LogP: 3.5, HBD: 1, HBA: 2, PSA: 37.3,
			PIC50: compound.Missing(),
		},
		{
			ChemblID: "CHEMBL3", Name: "Gefitinib", Target: "EGFR",
			IC50: 600, MW: 446.9, LogP: 4.1, HBD: 1, HBA: 7, PSA: 68.7,
			PIC50: compound.Missing(),
		},
		{
			ChemblID: "CHEMBL4", Name: "Erlotinib", Target: "EGFR",
			IC50: 150, MW: 523.4, LogP: 5.6, HBD: 2, HBA: 6, PSA: 74.7,
			PIC50: compound.Missing(),
		},
	})
}

func transformedTable() compound.Table {
	return Transform(rawTable())
}
