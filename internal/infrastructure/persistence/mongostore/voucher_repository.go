package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoucherRepository stores vouchers with their entries and items embedded
type VoucherRepository struct {
	tenantCollection[voucher.Voucher, voucherDoc, *voucherDoc]
}

// NewVoucherRepository creates a new VoucherRepository
func NewVoucherRepository(s *Store) *VoucherRepository {
	return &VoucherRepository{newTenantCollection[voucher.Voucher, voucherDoc](s.db.Collection(CollVouchers), collectionOptions{
		resource:     "voucher",
		searchFields: []string{"number", "narration"},
		filterFields: map[string]bool{"type": true, "status": true, "financial_year_id": true, "profile_id": true, "location_id": true},
		sortFields:   persistence.VoucherSortFields,
		defaultSort:  "date",
	})}
}

// NextSequence returns one past the highest sequence of the company, year and type
func (r *VoucherRepository) NextSequence(ctx context.Context, companyID, financialYearID uuid.UUID, voucherType voucher.Type) (int, error) {
	query := byCompany(companyID)
	query["financial_year_id"] = financialYearID.String()
	query["type"] = string(voucherType)

	var last struct {
		Sequence int `bson:"sequence"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "sequence", Value: -1}}).
		SetProjection(bson.M{"sequence": 1})
	if err := r.coll.FindOne(ctx, query, opts).Decode(&last); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, err
	}
	return last.Sequence + 1, nil
}

// FindPostedEntries unwinds the entries of posted vouchers, ordered by account
func (r *VoucherRepository) FindPostedEntries(ctx context.Context, companyID uuid.UUID, financialYearID *uuid.UUID) ([]voucher.Entry, error) {
	match := byCompany(companyID)
	match["status"] = string(voucher.StatusPosted)
	if financialYearID != nil {
		match["financial_year_id"] = financialYearID.String()
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$entries"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$entries"}}},
		{{Key: "$sort", Value: bson.D{{Key: "account_id", Value: 1}, {Key: "line_no", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []entryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]voucher.Entry, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// CountOutside counts the year's vouchers dated outside [start, end]
func (r *VoucherRepository) CountOutside(ctx context.Context, financialYearID uuid.UUID, start, end time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"financial_year_id": financialYearID.String(),
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": start.UTC()}},
			bson.M{"date": bson.M{"$gt": end.UTC()}},
		},
	})
}

var _ voucher.Repository = (*VoucherRepository)(nil)
