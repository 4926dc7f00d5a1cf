package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func uniqueIndex(name string, keys ...string) mongo.IndexModel {
	return mongo.IndexModel{Keys: ascending(keys), Options: options.Index().SetName(name).SetUnique(true)}
}

func index(name string, keys ...string) mongo.IndexModel {
	return mongo.IndexModel{Keys: ascending(keys), Options: options.Index().SetName(name)}
}

func ascending(keys []string) bson.D {
	d := make(bson.D, len(keys))
	for i, k := range keys {
		d[i] = bson.E{Key: k, Value: 1}
	}
	return d
}

// Indexes lists the index models of every collection. The unique indexes
// are the only duplicate check.
var Indexes = map[string][]mongo.IndexModel{
	CollCompanies: {
		uniqueIndex("uniq_code", "code"),
	},
	CollUsers: {
		uniqueIndex("uniq_username", "username"),
		index("idx_company_id", "company_id"),
	},
	CollLocations: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
	},
	CollFinancialYears: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
		index("idx_company_start_date", "company_id", "start_date"),
	},
	CollAccounts: {
		uniqueIndex("uniq_company_full_code", "company_id", "full_code"),
		index("idx_company_level", "company_id", "level"),
		index("idx_level1_id", "level1_id"),
		index("idx_level2_id", "level2_id"),
		index("idx_level3_id", "level3_id"),
	},
	CollCostCenters: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
		index("idx_company_kind", "company_id", "kind"),
		index("idx_parent_id", "parent_id"),
	},
	CollProvinces: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
	},
	CollCities: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
		index("idx_province_id", "province_id"),
	},
	CollUnits: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
	},
	CollGodowns: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
		index("idx_location_id", "location_id"),
	},
	CollProfiles: {
		uniqueIndex("uniq_company_code", "company_id", "code"),
		index("idx_province_id", "province_id"),
		index("idx_city_id", "city_id"),
		index("idx_account_id", "account_id"),
	},
	CollVouchers: {
		uniqueIndex("uniq_company_number", "company_id", "number"),
		index("idx_sequence", "company_id", "financial_year_id", "type", "sequence"),
		index("idx_company_status", "company_id", "status"),
		index("idx_financial_year_id", "financial_year_id"),
		index("idx_location_id", "location_id"),
		index("idx_profile_id", "profile_id"),
		index("idx_entries_account_id", "entries.account_id"),
		index("idx_entries_cost_center_id", "entries.cost_center_id"),
		index("idx_items_godown_id", "items.godown_id"),
		index("idx_items_unit_id", "items.unit_id"),
	},
}

// EnsureIndexes creates every index. Existing indexes with the same
// definition are left alone.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, models := range Indexes {
		names, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		s.logger.Debug("Indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}
