// File: internal/bundle/store.go
package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/seclens/riskboard/internal/jsonshape"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// bundleSuffix is the filename suffix for bundle files: <companyID>_data.json.
const bundleSuffix = "_data.json"

// Store owns the bundle cache directory. Reads never touch the network;
// rebuilds go through the Builder and replace files atomically, so a reader
// observes either the old bundle or the new one, never a partial write.
type Store struct {
	dir     string
	api     companyLister
	builder *Builder
	log     *zap.Logger
}

// companyLister is the listing surface a rebuild needs before it can hand
// individual companies to the Builder.
type companyLister interface {
	Companies(ctx context.Context) ([]jsonshape.Row, error)
	Domains(ctx context.Context) ([]jsonshape.Row, error)
}

// NewStore returns a Store over dir. The directory is created lazily on
// first write.
func NewStore(dir string, api companyLister, builder *Builder, logger *zap.Logger) *Store {
	return &Store{
		dir:     dir,
		api:     api,
		builder: builder,
		log:     logger.Named("store"),
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the bundle file path for a company id.
func (s *Store) PathFor(companyID string) string {
	return filepath.Join(s.dir, companyID+bundleSuffix)
}

// Write persists a bundle via a temp file and rename in the same directory,
// so a crash mid-write leaves the previous bundle intact.
func (s *Store) Write(companyID string, b Bundle) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bundle for company %s: %w", companyID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".bundle-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp bundle file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp bundle file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp bundle file: %w", err)
	}

	path := s.PathFor(companyID)
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing bundle %s: %w", path, err)
	}
	return nil
}

// Read loads the bundle for a company. A missing or unparseable file yields
// the zero Bundle; the cache is disposable and callers rebuild on demand.
func (s *Store) Read(companyID string) Bundle {
	data, err := os.ReadFile(s.PathFor(companyID))
	if err != nil {
		return Bundle{}
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		s.log.Warn("discarding corrupt bundle file",
			zap.String("company_id", companyID), zap.Error(err))
		return Bundle{}
	}
	return b
}

// List returns every readable bundle in the cache, sorted by company id.
// Corrupt files are skipped.
func (s *Store) List() []Bundle {
	var bundles []Bundle
	for _, id := range s.cachedIDs() {
		if b := s.Read(id); !b.IsZero() {
			bundles = append(bundles, b)
		}
	}
	return bundles
}

// cachedIDs lists the company ids present on disk, sorted.
func (s *Store) cachedIDs() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), bundleSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), bundleSuffix))
	}
	sort.Strings(ids)
	return ids
}

// RebuildAll rebuilds every listed company's bundle and returns the written
// paths. Individual company failures are logged and skipped; only a failure
// to list companies or domains is fatal.
func (s *Store) RebuildAll(ctx context.Context) ([]string, error) {
	run := s.log.With(zap.String("run_id", uuid.NewString()))
	companies, domains, err := s.listings(ctx)
	if err != nil {
		return nil, err
	}
	run.Info("rebuilding all bundles",
		zap.Int("companies", len(companies)), zap.Int("domains", len(domains)))

	var paths []string
	for _, company := range companies {
		path, err := s.rebuildCompany(ctx, company, domains)
		if err != nil {
			run.Warn("skipping company",
				zap.String("company_id", companyIDOf(company)), zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}
	run.Info("rebuild complete", zap.Int("written", len(paths)))
	return paths, nil
}

// RebuildOne rebuilds the bundle for a single company id. An id not present
// in the upstream listing returns ("", nil).
func (s *Store) RebuildOne(ctx context.Context, companyID string) (string, error) {
	companies, domains, err := s.listings(ctx)
	if err != nil {
		return "", err
	}
	for _, company := range companies {
		if companyIDOf(company) != companyID {
			continue
		}
		return s.rebuildCompany(ctx, company, domains)
	}
	s.log.Warn("company not in upstream listing", zap.String("company_id", companyID))
	return "", nil
}

// RebuildMissing rebuilds bundles only for listed companies that have no
// file on disk yet. Returns the number written.
func (s *Store) RebuildMissing(ctx context.Context) (int, error) {
	companies, domains, err := s.listings(ctx)
	if err != nil {
		return 0, err
	}

	cached := make(map[string]bool)
	for _, id := range s.cachedIDs() {
		cached[id] = true
	}

	written := 0
	for _, company := range companies {
		id := companyIDOf(company)
		if id == "" || cached[id] {
			continue
		}
		if _, err := s.rebuildCompany(ctx, company, domains); err != nil {
			s.log.Warn("skipping company", zap.String("company_id", id), zap.Error(err))
			continue
		}
		written++
	}
	return written, nil
}

// RebuildStale rebuilds bundles whose file modification time is older than
// ttl, for companies still present upstream. Returns the number written.
func (s *Store) RebuildStale(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	var stale []string
	for _, id := range s.cachedIDs() {
		info, err := os.Stat(s.PathFor(id))
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		stale = append(stale, id)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	companies, domains, err := s.listings(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]jsonshape.Row, len(companies))
	for _, company := range companies {
		byID[companyIDOf(company)] = company
	}

	written := 0
	for _, id := range stale {
		company, ok := byID[id]
		if !ok {
			s.log.Warn("stale bundle has no upstream company", zap.String("company_id", id))
			continue
		}
		if _, err := s.rebuildCompany(ctx, company, domains); err != nil {
			s.log.Warn("skipping company", zap.String("company_id", id), zap.Error(err))
			continue
		}
		written++
	}
	return written, nil
}

// EnsureInitial populates an empty cache with a full rebuild and returns the
// number of bundles available afterwards. A non-empty cache is left as is.
func (s *Store) EnsureInitial(ctx context.Context) (int, error) {
	if ids := s.cachedIDs(); len(ids) > 0 {
		return len(ids), nil
	}
	paths, err := s.RebuildAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// rebuildCompany builds and writes one company's bundle.
func (s *Store) rebuildCompany(ctx context.Context, company jsonshape.Row, domains []jsonshape.Row) (string, error) {
	b, err := s.builder.Build(ctx, company, domains)
	if err != nil {
		return "", err
	}
	if err := s.Write(b.CompanyID, b); err != nil {
		return "", err
	}
	return s.PathFor(b.CompanyID), nil
}

// listings fetches the company and domain listings that every rebuild
// variant starts from.
func (s *Store) listings(ctx context.Context) ([]jsonshape.Row, []jsonshape.Row, error) {
	companies, err := s.api.Companies(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing companies: %w", err)
	}
	domains, err := s.api.Domains(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing domains: %w", err)
	}
	return companies, domains, nil
}
