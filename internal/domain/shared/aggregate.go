package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every record has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseAggregateRoot adds the optimistic locking version. A freshly built
// aggregate starts at version 1; the store only accepts an update whose
// version is exactly one past the stored row.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot creates an aggregate with a new ID at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// IncrementVersion bumps the version ahead of a conditional update
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// TenantAggregateRoot extends BaseAggregateRoot with the company partition key
// and audit columns. Every tenant-scoped record embeds it.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
}

// NewTenantAggregateRoot creates a new company-scoped aggregate root
func NewTenantAggregateRoot(companyID uuid.UUID, createdBy *uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CompanyID:         companyID,
		CreatedBy:         createdBy,
		UpdatedBy:         createdBy,
	}
}

// GetCompanyID returns the owning company
func (t TenantAggregateRoot) GetCompanyID() uuid.UUID {
	return t.CompanyID
}

// Touch records a modification by the given user and bumps the version.
func (t *TenantAggregateRoot) Touch(updatedBy *uuid.UUID) {
	t.UpdatedAt = time.Now()
	t.UpdatedBy = updatedBy
	t.IncrementVersion()
}
