package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferenceCounter counts dependent rows with one COUNT per rule
type GormReferenceCounter struct {
	db *gorm.DB
}

// NewGormReferenceCounter creates a new GormReferenceCounter
func NewGormReferenceCounter(db *gorm.DB) *GormReferenceCounter {
	return &GormReferenceCounter{db: db}
}

// CountReferences returns a Reference for each rule with matching rows
func (c *GormReferenceCounter) CountReferences(ctx context.Context, id uuid.UUID, rules []shared.ReferenceRule) ([]shared.Reference, error) {
	var refs []shared.Reference
	for _, rule := range rules {
		var count int64
		if err := c.db.WithContext(ctx).
			Table(rule.Table).
			Where(rule.Column+" = ?", id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			refs = append(refs, shared.Reference{Resource: rule.Table, Label: rule.Label, Count: count})
		}
	}
	return refs, nil
}

var _ shared.ReferenceCounter = (*GormReferenceCounter)(nil)
