// Package registry implements the Spec Registry (spec.md §4.6): the
// source of truth for canonical spec names, data types, units, and
// unit conversion. It wraps catalogrepo.SpecRegistryRepo with a
// read-mostly in-memory cache, refreshed on write, so long-running
// ingestion workers never round-trip to Postgres for a lookup that
// happens once per field per document.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/datatypes"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Registry is the shared, dependency-injected object passed through the
// pipeline in place of the source's global mutable state (spec.md §9).
type Registry struct {
	repo catalogrepo.SpecRegistryRepo
	log  *logger.Logger

	mu      sync.RWMutex
	byName  map[string]*catalog.SpecRegistryEntry
	bySyn   map[string]string // normalized synonym -> canonical_name
	loaded  bool
}

func New(repo catalogrepo.SpecRegistryRepo, baseLog *logger.Logger) *Registry {
	return &Registry{
		repo:   repo,
		log:    baseLog.With("component", "registry"),
		byName: make(map[string]*catalog.SpecRegistryEntry),
		bySyn:  make(map[string]string),
	}
}

// Warm loads the full registry table into the cache once at process
// startup or job start (the Model Pattern table is loaded the same way
// per spec.md §5). Safe to call again to force a full refresh.
func (r *Registry) Warm(ctx context.Context) error {
	entries, err := r.repo.ListAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return fmt.Errorf("registry: warm: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]*catalog.SpecRegistryEntry, len(entries))
	r.bySyn = make(map[string]string, len(entries)*2)
	for _, e := range entries {
		r.indexLocked(e)
	}
	r.loaded = true
	return nil
}

func (r *Registry) indexLocked(e *catalog.SpecRegistryEntry) {
	r.byName[e.CanonicalName] = e
	for _, syn := range decodeStringArray(e.Synonyms) {
		r.bySyn[normalizeLabel(syn)] = e.CanonicalName
	}
	r.bySyn[normalizeLabel(e.CanonicalName)] = e.CanonicalName
}

// invalidate refreshes a single entry after a write, per spec.md §5's
// "writes go through the store and invalidate the cache" rule — cheaper
// than a full Warm() for the common single-entry-changed case.
func (r *Registry) invalidate(e *catalog.SpecRegistryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexLocked(e)
}

// Lookup returns the Registry entry for a canonical name, or nil if none
// exists. Pure with respect to the cache; never touches the store.
func (r *Registry) Lookup(canonicalName string) *catalog.SpecRegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[canonicalName]
}

// Resolve maps a raw field label to a canonical name via the synonym
// table. Idempotent and pure.
func (r *Registry) Resolve(label string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bySyn[normalizeLabel(label)]
	return name, ok
}

// RegisterAuto creates (or returns, idempotently) an auto-discovered
// Registry entry for a previously unseen label. data_type is inferred
// from the shape of the first observed value.
func (r *Registry) RegisterAuto(ctx context.Context, label, sampleValue string) (*catalog.SpecRegistryEntry, error) {
	canonical := slugify(label)
	entry := &catalog.SpecRegistryEntry{
		CanonicalName:  canonical,
		DisplayName:    label,
		DataType:       inferDataType(sampleValue),
		UnitSystem:     catalog.UnitSystemNone,
		IsFilterable:   false,
		IsComparable:   false,
		IsSearchable:   false,
		IsCritical:     false,
		AutoDiscovered: true,
		Approved:       false,
	}
	created, err := r.repo.Create(dbctx.Context{Ctx: ctx}, entry)
	if err != nil {
		return nil, fmt.Errorf("registry: register auto %q: %w", label, err)
	}
	r.invalidate(created)
	return created, nil
}

// Approve marks a canonical spec approved, propagating to the store and
// the cache.
func (r *Registry) Approve(ctx context.Context, canonicalName string) error {
	if err := r.repo.Approve(dbctx.Context{Ctx: ctx}, canonicalName); err != nil {
		return err
	}
	entry, err := r.repo.GetByCanonicalName(dbctx.Context{Ctx: ctx}, canonicalName)
	if err != nil {
		return err
	}
	r.invalidate(entry)
	return nil
}

// IsCritical reports whether a spec is registry-flagged critical,
// defaulting to false for specs the registry doesn't know (an
// unapproved auto-discovered spec is never critical, per spec.md §8's
// boundary behavior: "a conflict on an unapproved auto-discovered spec
// is created with severity <= medium").
func (r *Registry) IsCritical(canonicalName string) bool {
	e := r.Lookup(canonicalName)
	return e != nil && e.IsCritical
}

func normalizeLabel(label string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func slugify(label string) string {
	return strings.ReplaceAll(normalizeLabel(label), " ", "_")
}

func inferDataType(sample string) catalog.SpecDataType {
	s := strings.TrimSpace(sample)
	if s == "" {
		return catalog.SpecDataTypeText
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return catalog.SpecDataTypeNumeric
	}
	switch strings.ToLower(s) {
	case "yes", "no", "true", "false":
		return catalog.SpecDataTypeBoolean
	}
	if strings.Contains(s, ",") {
		return catalog.SpecDataTypeList
	}
	return catalog.SpecDataTypeText
}

func decodeStringArray(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
