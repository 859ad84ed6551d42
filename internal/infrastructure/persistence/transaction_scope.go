package persistence

import (
	"context"

	appidentity "github.com/agrifield/backend/internal/application/identity"
	appland "github.com/agrifield/backend/internal/application/land"
	applicensing "github.com/agrifield/backend/internal/application/licensing"
	appposting "github.com/agrifield/backend/internal/application/posting"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/land"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/posting"
	"gorm.io/gorm"
)

// GormIdentityTransactionScope implements the identity application package's
// TransactionScope using GORM transactions.
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&identityTxRepos{tx: tx})
	})
}

type identityTxRepos struct {
	tx *gorm.DB
}

func (r *identityTxRepos) Tenants() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *identityTxRepos) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

var _ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)

// GormLicensingTransactionScope implements the licensing application
// package's TransactionScope using GORM transactions.
type GormLicensingTransactionScope struct {
	db *gorm.DB
}

// NewGormLicensingTransactionScope creates a new GormLicensingTransactionScope
func NewGormLicensingTransactionScope(db *gorm.DB) *GormLicensingTransactionScope {
	return &GormLicensingTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormLicensingTransactionScope) Execute(ctx context.Context, fn func(repos applicensing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&licensingTxRepos{tx: tx})
	})
}

type licensingTxRepos struct {
	tx *gorm.DB
}

func (r *licensingTxRepos) TenantModules() licensing.TenantModuleRepository {
	return NewGormTenantModuleRepository(r.tx)
}

var _ applicensing.TransactionScope = (*GormLicensingTransactionScope)(nil)

// GormLandTransactionScope implements the land application package's
// TransactionScope using GORM transactions.
type GormLandTransactionScope struct {
	db *gorm.DB
}

// NewGormLandTransactionScope creates a new GormLandTransactionScope
func NewGormLandTransactionScope(db *gorm.DB) *GormLandTransactionScope {
	return &GormLandTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormLandTransactionScope) Execute(ctx context.Context, fn func(repos appland.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&landTxRepos{tx: tx})
	})
}

type landTxRepos struct {
	tx *gorm.DB
}

func (r *landTxRepos) Parcels() land.LandParcelRepository {
	return NewGormLandParcelRepository(r.tx)
}

func (r *landTxRepos) Allocations() land.LandAllocationRepository {
	return NewGormLandAllocationRepository(r.tx)
}

var _ appland.TransactionScope = (*GormLandTransactionScope)(nil)

// GormPostingTransactionScope implements the posting application package's
// TransactionScope using GORM transactions.
type GormPostingTransactionScope struct {
	db *gorm.DB
}

// NewGormPostingTransactionScope creates a new GormPostingTransactionScope
func NewGormPostingTransactionScope(db *gorm.DB) *GormPostingTransactionScope {
	return &GormPostingTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormPostingTransactionScope) Execute(ctx context.Context, fn func(repos appposting.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postingTxRepos{tx: tx})
	})
}

type postingTxRepos struct {
	tx *gorm.DB
}

func (r *postingTxRepos) GRNs() posting.GRNRepository {
	return NewGormGRNRepository(r.tx)
}

func (r *postingTxRepos) PostingGroups() posting.PostingGroupRepository {
	return NewGormPostingGroupRepository(r.tx)
}

func (r *postingTxRepos) StockBalances() posting.StockBalanceRepository {
	return NewGormStockBalanceRepository(r.tx)
}

var _ appposting.TransactionScope = (*GormPostingTransactionScope)(nil)
