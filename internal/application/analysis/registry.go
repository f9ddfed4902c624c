package analysis

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// Session is one loaded dataset held in memory.  Table is the transformed
// table (Lipinski and pIC50 computed); the raw load is not retained.
type Session struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Table     compound.Table
}

// Registry holds dataset sessions keyed by generated ID.  Each load event
// creates a new session; there is no ambient "current dataset", callers
// address sessions explicitly.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// NewRegistry builds an empty session registry.  m may be nil.
func NewRegistry(m *metrics.Metrics, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		metrics:  m,
		logger:   logger.Named("analysis.registry"),
	}
}

// Put registers a new session for table and returns it.
func (r *Registry) Put(source string, table compound.Table) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Table:     table,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ActiveDatasets.Set(float64(n))
	}
	r.logger.Info("dataset session created",
		logging.String("id", s.ID),
		logging.String("source", source),
		logging.Int("rows", table.Len()))
	return s
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "dataset not found").
			WithDetail("id=" + id)
	}
	return s, nil
}

// Delete discards the session for id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return errors.New(errors.ErrCodeDatasetNotFound, "dataset not found").
			WithDetail("id=" + id)
	}
	if r.metrics != nil {
		r.metrics.ActiveDatasets.Set(float64(n))
	}
	r.logger.Info("dataset session deleted", logging.String("id", id))
	return nil
}

// List returns every session ordered by creation time.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
