// Package analysis orchestrates the dashboard use cases: loading datasets
// from the sample file, uploads or ChEMBL, transforming them once per load,
// and answering filtered queries, summaries and chart payloads against
// session-scoped tables.
package analysis

import (
	"context"
	"io"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/chembl"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// Dataset source labels used in sessions and metrics.
const (
	SourceSample = "sample"
	SourceUpload = "upload"
	SourceChembl = "chembl"
)

// Transform derives the computed columns of a raw table: Lipinski violation
// counts (dropping rows that lack the inputs) and pIC50.  It runs once per
// load event; queries reuse the transformed table.
func Transform(t compound.Table) compound.Table {
	return compound.ComputePIC50(compound.ComputeLipinski(t))
}

// Service is the application-layer facade over the registry, the loaders and
// the remote fetch client.
type Service struct {
	registry   *Registry
	loads      *dataset.Cache
	samplePath string
	chembl     *chembl.Client
	metrics    *metrics.Metrics
	logger     logging.Logger
}

// NewService wires the dashboard use cases.  chemblClient and m may be nil;
// a nil client disables the ChEMBL load source.
func NewService(cfg *config.Config, loads *dataset.Cache, chemblClient *chembl.Client,
	m *metrics.Metrics, logger logging.Logger) *Service {

	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		registry:   NewRegistry(m, logger),
		loads:      loads,
		samplePath: cfg.Data.SamplePath,
		chembl:     chemblClient,
		metrics:    m,
		logger:     logger.Named("analysis"),
	}
}

// LoadSample starts a session from the configured sample CSV.
func (s *Service) LoadSample(_ context.Context) (*DatasetView, error) {
	table, err := s.loads.Load(s.samplePath)
	return s.startSession(SourceSample, table, err)
}

// LoadUpload starts a session from uploaded CSV content.
func (s *Service) LoadUpload(_ context.Context, r io.Reader) (*DatasetView, error) {
	table, err := dataset.Load(r)
	return s.startSession(SourceUpload, table, err)
}

// LoadFromChEMBL fetches the given targets remotely and starts a session
// from the combined result.
func (s *Service) LoadFromChEMBL(ctx context.Context, targets []string) (*DatasetView, error) {
	if s.chembl == nil {
		return nil, errors.New(errors.ErrCodeExternalService, "ChEMBL fetch is not configured")
	}
	table, err := s.chembl.FetchTargets(ctx, targets)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ChemblRequestsTotal.WithLabelValues(outcome).Inc()
	}
	return s.startSession(SourceChembl, table, err)
}

// startSession validates, transforms and registers a freshly loaded table.
func (s *Service) startSession(source string, table compound.Table, loadErr error) (*DatasetView, error) {
	if loadErr == nil && table.Len() == 0 {
		loadErr = errors.New(errors.ErrCodeDatasetEmpty, "dataset contains no rows")
	}
	if s.metrics != nil {
		s.metrics.ObserveDatasetLoad(source, table.Len(), loadErr)
	}
	if loadErr != nil {
		return nil, loadErr
	}

	session := s.registry.Put(source, Transform(table))
	return NewDatasetView(session), nil
}

// Describe returns the session description: summary, slider bounds and
// target list of the unfiltered transformed table.
func (s *Service) Describe(id string) (*DatasetView, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return NewDatasetView(session), nil
}

// Query applies constraints to the session table and returns the matching
// rows with a summary of the filtered view.
func (s *Service) Query(id string, c compound.Constraints) (*QueryResult, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	filtered := compound.ApplyFilters(session.Table, c)
	return &QueryResult{
		Matched: filtered.Len(),
		Rows:    NewCompoundViews(filtered),
		Summary: NewSummaryView(compound.Summarize(filtered)),
	}, nil
}

// Charts applies constraints and builds every chart payload for the
// filtered view.
func (s *Service) Charts(id string, c compound.Constraints) (*ChartBundle, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	bundle := BuildCharts(compound.ApplyFilters(session.Table, c))
	return &bundle, nil
}

// Delete discards a session.
func (s *Service) Delete(id string) error {
	return s.registry.Delete(id)
}

// List describes every live session in creation order.
func (s *Service) List() []*DatasetView {
	sessions := s.registry.List()
	out := make([]*DatasetView, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, NewDatasetView(session))
	}
	return out
}

// SamplePath reports the configured sample dataset location, for wiring the
// file watcher.
func (s *Service) SamplePath() string { return s.samplePath }

// InvalidateSample drops the cached sample parse so the next LoadSample
// re-reads the file.  Called by the sample-file watcher.
func (s *Service) InvalidateSample() {
	s.loads.Invalidate(s.samplePath)
}
