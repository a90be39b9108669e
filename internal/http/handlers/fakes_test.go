package handlers

import (
	"errors"

	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/pkg/dbctx"
)

var errFakeNotFound = errors.New("not found")

type fakeProductRepo struct {
	byID     map[uuid.UUID]*catalog.Product
	filterFn func(f catalogrepo.ProductFilter) ([]*catalog.Product, int64, error)
}

func (f *fakeProductRepo) Create(dbc dbctx.Context, p *catalog.Product) (*catalog.Product, error) {
	return p, nil
}
func (f *fakeProductRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, errFakeNotFound
}
func (f *fakeProductRepo) GetLatestByModelNumberForUpdate(dbc dbctx.Context, modelNumber string) (*catalog.Product, error) {
	return nil, errFakeNotFound
}
func (f *fakeProductRepo) GetLatestByModelNumber(dbc dbctx.Context, modelNumber string) (*catalog.Product, error) {
	return nil, errFakeNotFound
}
func (f *fakeProductRepo) Save(dbc dbctx.Context, p *catalog.Product) error { return nil }
func (f *fakeProductRepo) Filter(dbc dbctx.Context, filter catalogrepo.ProductFilter) ([]*catalog.Product, int64, error) {
	if f.filterFn != nil {
		return f.filterFn(filter)
	}
	return nil, 0, nil
}

type fakeRelationshipRepo struct {
	edges map[uuid.UUID][]*catalog.ProductRelationship
}

func (f *fakeRelationshipRepo) Create(dbc dbctx.Context, rel *catalog.ProductRelationship) (*catalog.ProductRelationship, error) {
	return rel, nil
}
func (f *fakeRelationshipRepo) ListOutbound(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error) {
	return f.edges[productID], nil
}
func (f *fakeRelationshipRepo) ListBothDirections(dbc dbctx.Context, productID uuid.UUID, kind catalog.ProductRelationshipKind) ([]*catalog.ProductRelationship, error) {
	return f.edges[productID], nil
}

type fakeBrandRepo struct{ items []*catalog.Brand }

func (f *fakeBrandRepo) Create(dbc dbctx.Context, b *catalog.Brand) (*catalog.Brand, error) {
	return b, nil
}
func (f *fakeBrandRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Brand, error) {
	return nil, errFakeNotFound
}
func (f *fakeBrandRepo) GetByCode(dbc dbctx.Context, code string) (*catalog.Brand, error) {
	return nil, errFakeNotFound
}
func (f *fakeBrandRepo) List(dbc dbctx.Context) ([]*catalog.Brand, error) { return f.items, nil }

type fakeFamilyRepo struct{ items []*catalog.Family }

func (f *fakeFamilyRepo) Create(dbc dbctx.Context, fam *catalog.Family) (*catalog.Family, error) {
	return fam, nil
}
func (f *fakeFamilyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Family, error) {
	return nil, errFakeNotFound
}
func (f *fakeFamilyRepo) GetByCode(dbc dbctx.Context, code string) (*catalog.Family, error) {
	return nil, errFakeNotFound
}
func (f *fakeFamilyRepo) List(dbc dbctx.Context) ([]*catalog.Family, error) { return f.items, nil }

type fakeSpecConflictRepo struct {
	pending     []*ingestion.SpecConflict
	resolveFn   func(id uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue []byte, resolvedBy string) (bool, error)
	lastResolve struct {
		id         uuid.UUID
		resolution ingestion.ConflictResolution
		value      []byte
		by         string
	}
}

func (f *fakeSpecConflictRepo) Create(dbc dbctx.Context, c *ingestion.SpecConflict) (*ingestion.SpecConflict, error) {
	return c, nil
}
func (f *fakeSpecConflictRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*ingestion.SpecConflict, error) {
	return nil, errFakeNotFound
}
func (f *fakeSpecConflictRepo) ListPending(dbc dbctx.Context, productID *uuid.UUID) ([]*ingestion.SpecConflict, error) {
	return f.pending, nil
}
func (f *fakeSpecConflictRepo) Resolve(dbc dbctx.Context, id uuid.UUID, resolution ingestion.ConflictResolution, resolvedValue []byte, resolvedBy string) (bool, error) {
	f.lastResolve.id = id
	f.lastResolve.resolution = resolution
	f.lastResolve.value = resolvedValue
	f.lastResolve.by = resolvedBy
	if f.resolveFn != nil {
		return f.resolveFn(id, resolution, resolvedValue, resolvedBy)
	}
	return true, nil
}

var _ catalogrepo.ProductRepo = (*fakeProductRepo)(nil)
var _ catalogrepo.ProductRelationshipRepo = (*fakeRelationshipRepo)(nil)
var _ catalogrepo.BrandRepo = (*fakeBrandRepo)(nil)
var _ catalogrepo.FamilyRepo = (*fakeFamilyRepo)(nil)
var _ ingestionrepo.SpecConflictRepo = (*fakeSpecConflictRepo)(nil)
