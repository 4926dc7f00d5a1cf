// Package common holds the pieces every master-data service shares: the
// list query, tenant authorization and guarded deletes.
package common

import (
	"context"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ListQuery represents the paging and search options of a list request
type ListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=1000"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query into a normalized domain filter
func (q ListQuery) Filter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  camelToSnake(q.OrderBy),
		OrderDir: strings.ToLower(q.OrderDir),
		Search:   q.Search,
	}.Normalize()
}

// camelToSnake maps a JSON field name such as fullCode to its column
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Authorize fails with FORBIDDEN when the actor is bound to another company
func Authorize(actor shared.Actor, companyID uuid.UUID) error {
	if !actor.CanAccess(companyID) {
		return shared.ErrForbidden
	}
	return nil
}

// Owned loads a record by ID. Records of a company the actor cannot
// access are reported as not found so IDs do not leak across tenants.
func Owned[T shared.CompanyScoped](
	ctx context.Context,
	find func(context.Context, uuid.UUID) (T, error),
	actor shared.Actor,
	id uuid.UUID,
	resource string,
) (T, error) {
	var zero T
	rec, err := find(ctx, id)
	if err != nil {
		return zero, err
	}
	if !actor.CanAccess(rec.GetCompanyID()) {
		return zero, shared.NotFound(resource)
	}
	return rec, nil
}

// CheckVersion rejects an update made against a stale copy. A nil
// expected version skips the check.
func CheckVersion(current int, expected *int) error {
	if expected != nil && *expected != current {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Guard counts blocked deletes and rejected duplicates for one resource.
// A nil metrics value disables recording.
type Guard struct {
	Resource string
	Refs     shared.ReferenceCounter
	Metrics  *telemetry.LedgerMetrics
}

// EnsureDeletable fails with a ReferencedError while rules match id
func (g Guard) EnsureDeletable(ctx context.Context, entity string, id uuid.UUID, rules []shared.ReferenceRule) error {
	err := shared.EnsureNotReferenced(ctx, g.Refs, entity, id, rules)
	if _, ok := err.(*shared.ReferencedError); ok {
		g.Metrics.DeleteBlocked(ctx, g.Resource)
	}
	return err
}

// EnsureUnreferenced fails with INVALID_STATE while rules match id. It
// covers changes that existing dependents would no longer agree with.
func (g Guard) EnsureUnreferenced(ctx context.Context, change string, id uuid.UUID, rules []shared.ReferenceRule) error {
	refs, err := g.Refs.CountReferences(ctx, id, rules)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return shared.NewDomainError("INVALID_STATE", change+": referenced by "+shared.DescribeReferences(refs))
	}
	return nil
}

// Observe passes err through, recording duplicates on the way
func (g Guard) Observe(ctx context.Context, err error) error {
	if shared.IsAlreadyExists(err) {
		g.Metrics.DuplicateRejected(ctx, g.Resource)
	}
	return err
}
