// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Every model has ToDomain and FromDomain mappers. Per-company uniqueness is
// declared with composite uniqueIndex tags whose names match the SQL
// migrations, so AutoMigrate (sqlite) and golang-migrate (postgres) build the
// same constraints.
package models
