// Package chembl implements a read-only client for the ChEMBL REST API,
// assembling compound tables from three resources: target search, IC50
// activities, and molecule properties.
package chembl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/cache"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// moleculeChunkSize bounds the number of IDs packed into one
// molecule_chembl_id__in filter so the query string stays well under URL
// length limits.
const moleculeChunkSize = 50

// Client fetches compound data from ChEMBL.  An optional Redis cache
// memoises fully-assembled per-target row sets.
type Client struct {
	baseURL  string
	http     *http.Client
	pageSize int
	maxPages int
	cache    *cache.Cache
	cacheTTL time.Duration
	logger   logging.Logger
}

// NewClient builds a ChEMBL client from configuration.  redisCache may be
// nil, in which case every fetch goes to the network.
func NewClient(cfg config.ChEMBLConfig, redisCache *cache.Cache, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		cache:    redisCache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger.Named("chembl"),
	}
}

// FetchTargets assembles one combined table for the given target names.  A
// target that cannot be resolved or has no IC50 data is skipped with a
// warning; the fetch fails only when every target comes back empty.
func (c *Client) FetchTargets(ctx context.Context, names []string) (compound.Table, error) {
	var all []compound.Compound
	fetched := 0
	for _, name := range names {
		rows, err := c.fetchTarget(ctx, name)
		if err != nil {
			c.logger.Warn("skipping target",
				logging.String("target", name), logging.Err(err))
			continue
		}
		all = append(all, rows...)
		fetched++
		c.logger.Info("fetched target",
			logging.String("target", name), logging.Int("compounds", len(rows)))
	}

	if fetched == 0 {
		return compound.Table{}, errors.New(errors.ErrCodeChemblNoData,
			"no data fetched for any target").
			WithDetail(strings.Join(names, ", "))
	}
	return compound.NewTable(all), nil
}

// fetchTarget resolves a single target name to its compound rows, consulting
// the cache first when one is configured.
func (c *Client) fetchTarget(ctx context.Context, name string) ([]compound.Compound, error) {
	if c.cache == nil {
		return c.fetchTargetRemote(ctx, name)
	}

	key := "chembl:target:" + strings.ToLower(name)
	var cached []cachedRow
	err := c.cache.GetOrSet(ctx, key, c.cacheTTL, &cached,
		func(ctx context.Context) (any, error) {
			rows, err := c.fetchTargetRemote(ctx, name)
			if err != nil {
				return nil, err
			}
			return toCachedRows(rows), nil
		})
	if err != nil {
		return nil, err
	}
	return fromCachedRows(cached), nil
}

func (c *Client) fetchTargetRemote(ctx context.Context, name string) ([]compound.Compound, error) {
	target, err := c.resolveTarget(ctx, name)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("resolved target",
		logging.String("query", name),
		logging.String("chembl_id", target.TargetChemblID),
		logging.String("pref_name", target.PrefName))

	meanIC50, err := c.fetchMeanIC50(ctx, target.TargetChemblID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(meanIC50))
	for id := range meanIC50 {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	molecules, err := c.fetchMolecules(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]compound.Compound, 0, len(molecules))
	for _, m := range molecules {
		if m.MoleculeProperties == nil {
			continue
		}
		ic50, ok := meanIC50[m.MoleculeChemblID]
		if !ok {
			continue
		}
		rows = append(rows, compound.Compound{
			ChemblID: m.MoleculeChemblID,
			Name:     m.PrefName,
			Target:   name,
			IC50:     ic50,
			MW:       m.MoleculeProperties.MWFreebase.value(),
			LogP:     m.MoleculeProperties.ALogP.value(),
			HBD:      m.MoleculeProperties.HBD.value(),
			HBA:      m.MoleculeProperties.HBA.value(),
			PSA:      m.MoleculeProperties.PSA.value(),
			PIC50:    compound.Missing(),
		})
	}
	return rows, nil
}

// resolveTarget returns the best search hit for name.
func (c *Client) resolveTarget(ctx context.Context, name string) (targetRecord, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("limit", "1")

	var resp targetSearchResponse
	if err := c.get(ctx, "/target/search.json", q, &resp); err != nil {
		return targetRecord{}, err
	}
	if len(resp.Targets) == 0 {
		return targetRecord{}, errors.New(errors.ErrCodeChemblTargetNotFound,
			"target not found").WithDetail(name)
	}
	return resp.Targets[0], nil
}

// fetchMeanIC50 pages through all IC50 activities for a target and averages
// the standard values per molecule.  Activities without a molecule ID or a
// usable value are dropped.
func (c *Client) fetchMeanIC50(ctx context.Context, targetChemblID string) (map[string]float64, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for page := 0; c.maxPages == 0 || page < c.maxPages; page++ {
		q := url.Values{}
		q.Set("target_chembl_id", targetChemblID)
		q.Set("standard_type", "IC50")
		q.Set("limit", fmt.Sprintf("%d", c.pageSize))
		q.Set("offset", fmt.Sprintf("%d", page*c.pageSize))

		var resp activityResponse
		if err := c.get(ctx, "/activity.json", q, &resp); err != nil {
			return nil, err
		}
		for _, a := range resp.Activities {
			v := a.StandardValue.value()
			if a.MoleculeChemblID == "" || compound.IsMissing(v) {
				continue
			}
			sums[a.MoleculeChemblID] += v
			counts[a.MoleculeChemblID]++
		}
		if len(resp.Activities) < c.pageSize || resp.PageMeta.Next == nil {
			break
		}
	}

	if len(counts) == 0 {
		return nil, errors.New(errors.ErrCodeChemblNoActivities,
			"no IC50 activities for target").WithDetail(targetChemblID)
	}

	means := make(map[string]float64, len(counts))
	for id, n := range counts {
		means[id] = sums[id] / float64(n)
	}
	return means, nil
}

// fetchMolecules retrieves name and computed properties for the given
// molecule IDs, in chunks.
func (c *Client) fetchMolecules(ctx context.Context, ids []string) ([]moleculeRecord, error) {
	var out []moleculeRecord
	for start := 0; start < len(ids); start += moleculeChunkSize {
		end := start + moleculeChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		q := url.Values{}
		q.Set("molecule_chembl_id__in", strings.Join(chunk, ";"))
		q.Set("only", "molecule_chembl_id,pref_name,molecule_properties")
		q.Set("limit", fmt.Sprintf("%d", len(chunk)))

		var resp moleculeResponse
		if err := c.get(ctx, "/molecule.json", q, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Molecules...)
	}
	return out, nil
}

// get performs one GET request against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeChemblRequestFailed, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeChemblRequestFailed, "request failed").
			WithDetail(path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeChemblRequestFailed, "unexpected status").
			WithDetail(fmt.Sprintf("%s returned %d", path, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeChemblRequestFailed, "failed to decode response").
			WithDetail(path)
	}
	return nil
}
