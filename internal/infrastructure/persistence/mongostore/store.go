// Package mongostore persists the ledger in MongoDB. Each aggregate is one
// document; voucher lines are embedded.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Collection names. They match the relational table names so reference
// rules address both stores.
const (
	CollCompanies      = "companies"
	CollUsers          = "users"
	CollLocations      = "locations"
	CollFinancialYears = "financial_years"
	CollAccounts       = "accounts"
	CollCostCenters    = "cost_centers"
	CollProvinces      = "provinces"
	CollCities         = "cities"
	CollUnits          = "units"
	CollGodowns        = "godowns"
	CollProfiles       = "profiles"
	CollVouchers       = "vouchers"
)

// Store owns the client and the ledger database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials cfg.MongoURI and pings the primary
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if cfg.MongoDatabase == "" {
		return nil, errors.New("mongo database name is required")
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return &Store{client: client, db: client.Database(cfg.MongoDatabase), logger: logger}, nil
}

// Database returns the ledger database
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
