package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// model is the mapper contract every persistence model satisfies
type model[D any, M any] interface {
	*M
	ToDomain() *D
	FromDomain(*D)
	LockKey() (uuid.UUID, int)
}

// tableOptions configures listing for one table
type tableOptions struct {
	resource    string          // singular name used in error messages
	searchCols  []string        // columns matched by Filter.Search
	filterCols  map[string]bool // columns allowed in Filter.Filters
	sortFields  map[string]bool
	defaultSort string
}

// tenantRepository implements shared.TenantRepository for any
// company-scoped model. Entity repositories embed it.
type tenantRepository[D any, M any, PM model[D, M]] struct {
	db   *gorm.DB
	opts tableOptions
}

func newTenantRepository[D any, M any, PM model[D, M]](db *gorm.DB, opts tableOptions) tenantRepository[D, M, PM] {
	if opts.sortFields == nil {
		opts.sortFields = CodeSortFields
	}
	if opts.defaultSort == "" {
		opts.defaultSort = "code"
	}
	return tenantRepository[D, M, PM]{db: db, opts: opts}
}

// FindByID finds a record by its ID
func (r *tenantRepository[D, M, PM]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	var m M
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound(r.opts.resource)
		}
		return nil, err
	}
	return PM(&m).ToDomain(), nil
}

// FindAllForCompany returns one page of a company's records and the total
func (r *tenantRepository[D, M, PM]) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]D, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(new(M)).Scopes(companyScope(companyID)), filter)
}

// companyScope restricts a query to one company's rows
func companyScope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// page counts and fetches one page of query after applying the filter
func (r *tenantRepository[D, M, PM]) page(query *gorm.DB, filter shared.Filter) ([]D, int64, error) {
	filter = filter.Normalize()
	query = r.applyFilter(query, filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []M
	orderBy := ValidateSortField(filter.OrderBy, r.opts.sortFields, r.opts.defaultSort)
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *PM(&rows[i]).ToDomain()
	}
	return out, total, nil
}

func (r *tenantRepository[D, M, PM]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(r.opts.searchCols) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(r.opts.searchCols))
		args := make([]any, len(r.opts.searchCols))
		for i, col := range r.opts.searchCols {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}
	for key, value := range filter.Filters {
		if r.opts.filterCols[key] {
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// Create inserts a new record. Duplicates surface as ALREADY_EXISTS.
func (r *tenantRepository[D, M, PM]) Create(ctx context.Context, entity *D) error {
	m := PM(new(M))
	m.FromDomain(entity)
	return translateWriteError(r.db.WithContext(ctx).Create(m).Error, r.opts.resource)
}

// Update writes every column when the stored version is one behind
func (r *tenantRepository[D, M, PM]) Update(ctx context.Context, entity *D) error {
	m := PM(new(M))
	m.FromDomain(entity)
	return updateWithLock(r.db.WithContext(ctx), m, r.opts.resource)
}

// Delete removes a record by ID
func (r *tenantRepository[D, M, PM]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(M), "id = ?", id)
	if result.Error != nil {
		return translateWriteError(result.Error, r.opts.resource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(r.opts.resource)
	}
	return nil
}

type lockable interface {
	LockKey() (uuid.UUID, int)
}

// updateWithLock runs an optimistic update of every column. Zero rows
// affected means another writer bumped the version first.
func updateWithLock(db *gorm.DB, m lockable, resource string) error {
	id, version := m.LockKey()
	result := db.Model(m).
		Select("*").
		Omit("id", "created_at", "created_by", "company_id", clause.Associations).
		Where("id = ? AND version = ?", id, version-1).
		Updates(m)
	if result.Error != nil {
		return translateWriteError(result.Error, resource)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
