package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
// Usernames are unique across companies.
type UserModel struct {
	AuditModel
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Username     string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	Email        string     `gorm:"type:varchar(200)"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Username:            m.Username,
		PasswordHash:        m.PasswordHash,
		DisplayName:         m.DisplayName,
		Email:               m.Email,
		IsActive:            m.IsActive,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.fromTenant(u.TenantAggregateRoot)
	m.CompanyID = u.CompanyID
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Email = u.Email
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}
