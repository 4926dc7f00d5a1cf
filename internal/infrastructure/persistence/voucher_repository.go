package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoucherRepository implements voucher.Repository using GORM. Lines
// live in voucher_entries and voucher_items and are written explicitly
// inside the header's transaction.
type GormVoucherRepository struct {
	tenantRepository[voucher.Voucher, models.VoucherModel, *models.VoucherModel]
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{
		tenantRepository: newTenantRepository[voucher.Voucher, models.VoucherModel](db, tableOptions{
			resource:   "voucher",
			searchCols: []string{"number", "narration"},
			filterCols: map[string]bool{
				"type":              true,
				"status":            true,
				"financial_year_id": true,
				"profile_id":        true,
				"location_id":       true,
			},
			sortFields:  VoucherSortFields,
			defaultSort: "date",
		}),
	}
}

// FindByID loads a voucher with its lines in line order
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var m models.VoucherModel
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("voucher")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Create inserts the header and its lines in one transaction
func (r *GormVoucherRepository) Create(ctx context.Context, v *voucher.Voucher) error {
	var m models.VoucherModel
	m.FromDomain(v)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return translateWriteError(err, "voucher")
		}
		return insertLines(tx, &m)
	})
}

// Update rewrites the header under the version check and replaces the lines
func (r *GormVoucherRepository) Update(ctx context.Context, v *voucher.Voucher) error {
	var m models.VoucherModel
	m.FromDomain(v)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithLock(tx, &m, "voucher"); err != nil {
			return err
		}
		if err := tx.Where("voucher_id = ?", m.ID).Delete(&models.VoucherEntryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("voucher_id = ?", m.ID).Delete(&models.VoucherItemModel{}).Error; err != nil {
			return err
		}
		return insertLines(tx, &m)
	})
}

// Delete removes a voucher and its lines
func (r *GormVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voucher_id = ?", id).Delete(&models.VoucherEntryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("voucher_id = ?", id).Delete(&models.VoucherItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.VoucherModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("voucher")
		}
		return nil
	})
}

func insertLines(tx *gorm.DB, m *models.VoucherModel) error {
	if len(m.Entries) > 0 {
		if err := tx.Create(&m.Entries).Error; err != nil {
			return translateWriteError(err, "voucher entry")
		}
	}
	if len(m.Items) > 0 {
		if err := tx.Create(&m.Items).Error; err != nil {
			return translateWriteError(err, "voucher item")
		}
	}
	return nil
}

// NextSequence returns one past the highest sequence for the series. Two
// writers can read the same value; the number index rejects the loser.
func (r *GormVoucherRepository) NextSequence(ctx context.Context, companyID, financialYearID uuid.UUID, voucherType voucher.Type) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scopes(companyScope(companyID)).
		Where("financial_year_id = ? AND type = ?", financialYearID, voucherType).
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// FindPostedEntries returns the entries of posted vouchers of a company
func (r *GormVoucherRepository) FindPostedEntries(ctx context.Context, companyID uuid.UUID, financialYearID *uuid.UUID) ([]voucher.Entry, error) {
	query := r.db.WithContext(ctx).
		Model(&models.VoucherEntryModel{}).
		Joins("JOIN vouchers ON vouchers.id = voucher_entries.voucher_id").
		Where("vouchers.company_id = ? AND vouchers.status = ?", companyID, voucher.StatusPosted)
	if financialYearID != nil {
		query = query.Where("vouchers.financial_year_id = ?", *financialYearID)
	}

	var rows []models.VoucherEntryModel
	if err := query.Order("voucher_entries.account_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]voucher.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// CountOutside counts the year's vouchers dated outside [start, end]
func (r *GormVoucherRepository) CountOutside(ctx context.Context, financialYearID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("financial_year_id = ?", financialYearID).
		Where("date < ? OR date > ?", start, end).
		Count(&count).Error
	return count, err
}

var _ voucher.Repository = (*GormVoucherRepository)(nil)
