package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "db_query_start"

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in spans
	SlowQueryThresh time.Duration
	DBName          string
}

// DBTracingConfigFrom derives the database tracing settings
func DBTracingConfigFrom(cfg config.TelemetryConfig, dbName string) DBTracingConfig {
	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = 200 * time.Millisecond
	}
	return DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		SlowQueryThresh: thresh,
		DBName:          dbName,
	}
}

// DBTracingPlugin installs otelgorm plus a callback that flags slow
// queries on the active span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. Disabled tracing is a no-op.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		name string
		err  error
	}{
		{"before_create", cb.Create().Before("gorm:create").Register("ledger_timing:before_create", markStart)},
		{"before_query", cb.Query().Before("gorm:query").Register("ledger_timing:before_query", markStart)},
		{"before_update", cb.Update().Before("gorm:update").Register("ledger_timing:before_update", markStart)},
		{"before_delete", cb.Delete().Before("gorm:delete").Register("ledger_timing:before_delete", markStart)},
		{"before_row", cb.Row().Before("gorm:row").Register("ledger_timing:before_row", markStart)},
		{"before_raw", cb.Raw().Before("gorm:raw").Register("ledger_timing:before_raw", markStart)},
		{"after_create", cb.Create().After("gorm:create").Register("ledger_timing:after_create", p.slowQueryCallback)},
		{"after_query", cb.Query().After("gorm:query").Register("ledger_timing:after_query", p.slowQueryCallback)},
		{"after_update", cb.Update().After("gorm:update").Register("ledger_timing:after_update", p.slowQueryCallback)},
		{"after_delete", cb.Delete().After("gorm:delete").Register("ledger_timing:after_delete", p.slowQueryCallback)},
		{"after_row", cb.Row().After("gorm:row").Register("ledger_timing:after_row", p.slowQueryCallback)},
		{"after_raw", cb.Raw().After("gorm:raw").Register("ledger_timing:after_raw", p.slowQueryCallback)},
	}
	for _, step := range steps {
		if step.err != nil {
			return fmt.Errorf("register %s callback: %w", step.name, step.err)
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// slowQueryCallback annotates the span with the duration and marks slow or
// failed statements.
func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	duration := time.Since(start)
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.duration_ms", duration.Milliseconds()))
	if duration >= p.config.SlowQueryThresh {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		p.logger.Warn("Slow database query",
			zap.Duration("duration", duration),
			zap.String("table", db.Statement.Table),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
