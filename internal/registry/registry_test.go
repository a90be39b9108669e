package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

type fakeRepo struct {
	byName map[string]*catalog.SpecRegistryEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byName: make(map[string]*catalog.SpecRegistryEntry)}
}

func (f *fakeRepo) GetByCanonicalName(_ dbctx.Context, name string) (*catalog.SpecRegistryEntry, error) {
	e, ok := f.byName[name]
	if !ok {
		return nil, errNotFound{}
	}
	return e, nil
}

func (f *fakeRepo) FindBySynonym(_ dbctx.Context, label string) (*catalog.SpecRegistryEntry, error) {
	return nil, errNotFound{}
}

func (f *fakeRepo) ListAll(_ dbctx.Context) ([]*catalog.SpecRegistryEntry, error) {
	out := make([]*catalog.SpecRegistryEntry, 0, len(f.byName))
	for _, e := range f.byName {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ dbctx.Context, entry *catalog.SpecRegistryEntry) (*catalog.SpecRegistryEntry, error) {
	if existing, ok := f.byName[entry.CanonicalName]; ok {
		return existing, nil
	}
	f.byName[entry.CanonicalName] = entry
	return entry, nil
}

func (f *fakeRepo) Approve(_ dbctx.Context, name string) error {
	if e, ok := f.byName[name]; ok {
		e.Approved = true
	}
	return nil
}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

func TestRegisterAutoIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	reg := New(repo, testLogger(t))

	first, err := reg.RegisterAuto(context.Background(), "Noise Level (dB)", "42.5")
	require.NoError(t, err)
	assert.Equal(t, "numeric", string(first.DataType))
	assert.False(t, first.Approved)
	assert.True(t, first.AutoDiscovered)

	second, err := reg.RegisterAuto(context.Background(), "Noise Level (dB)", "42.5")
	require.NoError(t, err)
	assert.Equal(t, first.CanonicalName, second.CanonicalName)
	assert.Len(t, repo.byName, 1)
}

func TestResolveFindsBySynonym(t *testing.T) {
	repo := newFakeRepo()
	entry := &catalog.SpecRegistryEntry{CanonicalName: "storage_capacity_cuft", Synonyms: jsonArray("Capacity", "Cu Ft")}
	repo.byName[entry.CanonicalName] = entry

	reg := New(repo, testLogger(t))
	require.NoError(t, reg.Warm(context.Background()))

	name, ok := reg.Resolve("cu ft")
	assert.True(t, ok)
	assert.Equal(t, "storage_capacity_cuft", name)
}

func TestApprovePropagatesToCache(t *testing.T) {
	repo := newFakeRepo()
	entry := &catalog.SpecRegistryEntry{CanonicalName: "x", Approved: false}
	repo.byName["x"] = entry

	reg := New(repo, testLogger(t))
	require.NoError(t, reg.Warm(context.Background()))
	require.NoError(t, reg.Approve(context.Background(), "x"))

	assert.True(t, reg.Lookup("x").Approved)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	return l
}

func jsonArray(vals ...string) []byte {
	out := []byte("[")
	for i, v := range vals {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '"')
		out = append(out, v...)
		out = append(out, '"')
	}
	out = append(out, ']')
	return out
}
