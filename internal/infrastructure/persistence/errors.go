package persistence

import (
	"errors"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err comes from a unique index. GORM
// translates driver errors when TranslateError is on; the raw pgconn
// error is checked as well for connections opened without it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err comes from a foreign key
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// translateWriteError maps constraint violations to domain errors. The
// unique index is the only duplicate check, so this is where 409s start.
func translateWriteError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return shared.AlreadyExists(resource)
	}
	if IsForeignKeyViolation(err) {
		return shared.NewDomainError("REFERENCED", resource+" is still referenced by other records")
	}
	return err
}
