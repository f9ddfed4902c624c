package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

const sampleCSV = `chembl_id,name,target,ic50,mw,logp,hbd,hba,psa
CHEMBL1,Aspirin,COX1,10.5,180.16,1.2,1,4,63.6
CHEMBL2,Ibuprofen,COX1,200,206.28,3.5,1,2,37.3
CHEMBL3,Gefitinib,EGFR,600,446.9,4.1,1,7,68.7
CHEMBL4,Erlotinib,EGFR,150,523.4,5.6,2,6,74.7
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	samplePath := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(samplePath, []byte(sampleCSV), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Data.SamplePath = samplePath
	return NewService(cfg, dataset.NewCache(nil), nil, nil, nil)
}

func TestLoadSample_TransformsOnce(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceSample, view.Source)
	assert.Equal(t, 4, view.RowCount)
	assert.Equal(t, []string{"COX1", "EGFR"}, view.Targets)

	// Transformed columns feed the summary directly.
	assert.Equal(t, 3, view.Summary.DrugLikeCount)
	assert.InDelta(t, 75.0, view.Summary.DrugLikePercent, 1e-9)
	require.NotNil(t, view.Summary.MeanPIC50)
	assert.InDelta(t, 6.9308, *view.Summary.MeanPIC50, 1e-3)

	// Slider bounds come from the unfiltered transformed table.
	require.NotNil(t, view.Bounds.MW)
	assert.InDelta(t, 180.16, view.Bounds.MW.Low, 1e-9)
	assert.InDelta(t, 523.4, view.Bounds.MW.High, 1e-9)
	require.NotNil(t, view.Bounds.PIC50)
}

func TestLoadSample_MissingFile(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Data.SamplePath = filepath.Join(t.TempDir(), "absent.csv")
	svc := NewService(cfg, dataset.NewCache(nil), nil, nil, nil)

	_, err := svc.LoadSample(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetFileNotFound))
}

func TestLoadUpload_EmptyDataset(t *testing.T) {
	svc := newTestService(t)
	headerOnly := "chembl_id,name,target,ic50,mw,logp,hbd,hba,psa\n"

	_, err := svc.LoadUpload(context.Background(), strings.NewReader(headerOnly))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))
}

func TestLoadFromChEMBL_Unconfigured(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadFromChEMBL(context.Background(), []string{"EGFR"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
}

func TestQuery_FiltersAndSummarizes(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)

	result, err := svc.Query(view.ID, compound.Constraints{Targets: []string{"COX1"}})
	require.NoError(t, err)
	require.Equal(t, 2, result.Matched)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.UniqueTargets)
	for _, row := range result.Rows {
		assert.Equal(t, "COX1", row.Target)
		require.NotNil(t, row.IsDrugLike)
		require.NotNil(t, row.PIC50)
	}
}

func TestQuery_DoesNotMutateSession(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)

	narrow, err := svc.Query(view.ID, compound.Constraints{DrugLikeOnly: true})
	require.NoError(t, err)
	require.Less(t, narrow.Matched, 4)

	// A later unconstrained query still sees every row.
	full, err := svc.Query(view.ID, compound.Constraints{})
	require.NoError(t, err)
	assert.Equal(t, 4, full.Matched)
}

func TestCharts_FilteredView(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)

	bundle, err := svc.Charts(view.ID, compound.Constraints{Targets: []string{"EGFR"}})
	require.NoError(t, err)
	assert.Len(t, bundle.Scatter.Points, 2)
	assert.Len(t, bundle.Histograms, 6)
}

func TestQuery_UnknownDataset(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Query("no-such-id", compound.Constraints{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetNotFound))
}

func TestDeleteAndList(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)
	require.Len(t, svc.List(), 1)

	require.NoError(t, svc.Delete(view.ID))
	assert.Empty(t, svc.List())
	assert.True(t, errors.IsCode(svc.Delete(view.ID), errors.ErrCodeDatasetNotFound))
}

func TestInvalidateSample_PicksUpNewFile(t *testing.T) {
	samplePath := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(samplePath, []byte(sampleCSV), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Data.SamplePath = samplePath
	svc := NewService(cfg, dataset.NewCache(nil), nil, nil, nil)

	view, err := svc.LoadSample(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, view.RowCount)

	smaller := "chembl_id,name,target,ic50,mw,logp,hbd,hba,psa\n" +
		"CHEMBL1,Aspirin,COX1,10.5,180.16,1.2,1,4,63.6\n"
	require.NoError(t, os.WriteFile(samplePath, []byte(smaller), 0o644))

	svc.InvalidateSample()
	reloaded, err := svc.LoadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.RowCount)
}
