package shared

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository is the persistence contract shared by every
// company-scoped record.
type TenantRepository[T any] interface {
	// FindByID returns the record or ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	// FindAllForCompany returns one page of records and the total count
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter Filter) ([]T, int64, error)
	// Create inserts a new record. A unique index violation is
	// reported as ErrAlreadyExists.
	Create(ctx context.Context, entity *T) error
	// Update persists a modified record. The stored version must equal
	// entity.Version-1, otherwise ErrConcurrencyConflict is returned.
	Update(ctx context.Context, entity *T) error
	// Delete removes the record or returns ErrNotFound
	Delete(ctx context.Context, id uuid.UUID) error
}

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Default paging values. Lists feed dropdowns in the UI so the default
// page is large.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "code",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}
}

// Normalize fills zero values with defaults and clamps the page size.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.OrderDir != "asc" && f.OrderDir != "desc" {
		f.OrderDir = "asc"
	}
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	return f
}

// ReferenceRule names one dependent collection that can point at a record.
// Table/Column address the relational schema; Collection/Field address the
// document schema and default to Table/Column when empty.
type ReferenceRule struct {
	Label      string
	Table      string
	Column     string
	Collection string
	Field      string
}

// DocumentCollection returns the document collection for the rule
func (r ReferenceRule) DocumentCollection() string {
	if r.Collection != "" {
		return r.Collection
	}
	return r.Table
}

// DocumentField returns the document field path for the rule
func (r ReferenceRule) DocumentField() string {
	if r.Field != "" {
		return r.Field
	}
	return r.Column
}

// ReferenceCounter counts dependent records across collections.
type ReferenceCounter interface {
	// CountReferences returns one Reference per rule with a non-zero count
	CountReferences(ctx context.Context, id uuid.UUID, rules []ReferenceRule) ([]Reference, error)
}

// EnsureNotReferenced returns a ReferencedError when any rule matches id.
func EnsureNotReferenced(ctx context.Context, counter ReferenceCounter, entity string, id uuid.UUID, rules []ReferenceRule) error {
	if len(rules) == 0 {
		return nil
	}
	refs, err := counter.CountReferences(ctx, id, rules)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ReferencedError{Entity: entity, References: refs}
	}
	return nil
}
