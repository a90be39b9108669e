package catalogrepo

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
)

// ProductFilter is the AND of every populated predicate; zero-value fields
// are not applied.
type ProductFilter struct {
	BrandCode           string
	FamilyCode          string
	CapacityMin         *float64
	CapacityMax         *float64
	TempRangeOverlapMin *float64
	TempRangeOverlapMax *float64
	DoorType            string
	// CertificationsAll must all be present in the product's certifications list.
	CertificationsAll []string
	FreeText          string
	Status            catalog.ProductStatus

	Limit  int
	Offset int
}

type ProductRepo interface {
	Create(dbc dbctx.Context, p *catalog.Product) (*catalog.Product, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Product, error)
	// GetLatestByModelNumberForUpdate locks (SELECT ... FOR UPDATE) and
	// returns the highest-version row for model_number, or gorm.ErrRecordNotFound
	// if the model number has never been ingested. Must be called inside a
	// transaction: the lock is held until the enclosing tx commits/rolls back.
	GetLatestByModelNumberForUpdate(dbc dbctx.Context, modelNumber string) (*catalog.Product, error)
	GetLatestByModelNumber(dbc dbctx.Context, modelNumber string) (*catalog.Product, error)
	Save(dbc dbctx.Context, p *catalog.Product) error
	Filter(dbc dbctx.Context, f ProductFilter) ([]*catalog.Product, int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(dbc dbctx.Context, p *catalog.Product) (*catalog.Product, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Product, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var p catalog.Product
	if err := txx.WithContext(dbc.Ctx).Preload("Brand").Preload("Family").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetLatestByModelNumberForUpdate(dbc dbctx.Context, modelNumber string) (*catalog.Product, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var p catalog.Product
	err := txx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("model_number = ?", modelNumber).
		Order("version DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetLatestByModelNumber(dbc dbctx.Context, modelNumber string) (*catalog.Product, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var p catalog.Product
	err := txx.WithContext(dbc.Ctx).
		Preload("Brand").Preload("Family").
		Where("model_number = ?", modelNumber).
		Order("version DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Save(dbc dbctx.Context, p *catalog.Product) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(p).Error
}

func (r *productRepo) Filter(dbc dbctx.Context, f ProductFilter) ([]*catalog.Product, int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&catalog.Product{}).
		Joins("JOIN brand ON brand.id = product.brand_id").
		Joins("JOIN family ON family.id = product.family_id")

	if f.BrandCode != "" {
		q = q.Where("brand.code = ?", f.BrandCode)
	}
	if f.FamilyCode != "" {
		q = q.Where("family.code = ?", f.FamilyCode)
	}
	if f.CapacityMin != nil {
		q = q.Where("product.storage_capacity_cuft >= ?", *f.CapacityMin)
	}
	if f.CapacityMax != nil {
		q = q.Where("product.storage_capacity_cuft <= ?", *f.CapacityMax)
	}
	if f.TempRangeOverlapMin != nil && f.TempRangeOverlapMax != nil {
		q = q.Where("product.temp_range_min_c <= ? AND product.temp_range_max_c >= ?", *f.TempRangeOverlapMax, *f.TempRangeOverlapMin)
	}
	if f.DoorType != "" {
		q = q.Where("product.door_type = ?", f.DoorType)
	}
	if len(f.CertificationsAll) > 0 {
		q = q.Where("product.certifications @> ?", jsonStringArray(f.CertificationsAll))
	}
	if f.FreeText != "" {
		q = q.Where("product.search_vector @@ websearch_to_tsquery('english', ?)", f.FreeText)
	}
	if f.Status != "" {
		q = q.Where("product.status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*catalog.Product
	if err := q.Preload("Brand").Preload("Family").
		Order("product.model_number, product.version DESC").
		Limit(limit).Offset(f.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func jsonStringArray(vals []string) string {
	out := "["
	for i, v := range vals {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q", v)
	}
	return out + "]"
}
