package models

import (
	"time"

	"github.com/agrifield/backend/internal/domain/identity"
)

// TenantModelRow is the persistence model for the Tenant domain entity.
// Tenant rows are platform-level and carry no tenant_id column.
type TenantModelRow struct {
	BaseModel
	Code        string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string                `gorm:"type:varchar(200);not null"`
	Status      identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Settings    string                `gorm:"type:jsonb;not null;default:'{}'"`
	SuspendedAt *time.Time
}

// TableName returns the table name for GORM
func (TenantModelRow) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity
func (m *TenantModelRow) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Status:      m.Status,
		Settings:    m.Settings,
		SuspendedAt: m.SuspendedAt,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity
func (m *TenantModelRow) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.Settings = t.Settings
	m.SuspendedAt = t.SuspendedAt
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModelRow {
	m := &TenantModelRow{}
	m.FromDomain(t)
	return m
}

// UserModel is the persistence model for the User domain entity.
// Username is unique per tenant; the composite index is created in the
// migration step.
type UserModel struct {
	TenantModel
	Username    string        `gorm:"type:varchar(100);not null;index"`
	DisplayName string        `gorm:"type:varchar(200)"`
	Role        identity.Role `gorm:"type:varchar(30);not null"`
	IsEnabled   bool          `gorm:"not null;default:true"`
	LastLoginAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantEntity: m.ToDomainTenantEntity(),
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Role:         m.Role,
		IsEnabled:    m.IsEnabled,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantEntity(u.TenantEntity)
	m.Username = u.Username
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.IsEnabled = u.IsEnabled
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
