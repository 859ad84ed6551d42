package models

import (
	"time"

	"github.com/agrifield/backend/internal/domain/posting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GRNModel is the persistence model for a goods-receipt-note
type GRNModel struct {
	TenantModel
	Number      string            `gorm:"type:varchar(50);not null;index"`
	SupplierID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status      posting.GRNStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ReceiptDate time.Time         `gorm:"not null"`
	PostedAt    *time.Time
	Lines       []GRNLineModel `gorm:"foreignKey:GRNID"`
}

// TableName returns the table name for GORM
func (GRNModel) TableName() string {
	return "grns"
}

// ToDomain converts the persistence model to a domain GRN entity
func (m *GRNModel) ToDomain() *posting.GRN {
	lines := make([]posting.GRNLine, 0, len(m.Lines))
	for i := range m.Lines {
		lines = append(lines, m.Lines[i].ToDomain())
	}
	return &posting.GRN{
		TenantEntity: m.ToDomainTenantEntity(),
		Number:       m.Number,
		SupplierID:   m.SupplierID,
		Status:       m.Status,
		ReceiptDate:  m.ReceiptDate,
		PostedAt:     m.PostedAt,
		Lines:        lines,
	}
}

// FromDomain populates the persistence model from a domain GRN entity
func (m *GRNModel) FromDomain(g *posting.GRN) {
	m.FromDomainTenantEntity(g.TenantEntity)
	m.Number = g.Number
	m.SupplierID = g.SupplierID
	m.Status = g.Status
	m.ReceiptDate = g.ReceiptDate
	m.PostedAt = g.PostedAt
	m.Lines = make([]GRNLineModel, 0, len(g.Lines))
	for i := range g.Lines {
		line := GRNLineModel{}
		line.FromDomain(&g.Lines[i])
		m.Lines = append(m.Lines, line)
	}
}

// GRNModelFromDomain creates a new persistence model from a domain GRN
func GRNModelFromDomain(g *posting.GRN) *GRNModel {
	m := &GRNModel{}
	m.FromDomain(g)
	return m
}

// GRNLineModel is the persistence model for one GRN line
type GRNLineModel struct {
	BaseModel
	GRNID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID  uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitCost decimal.Decimal `gorm:"type:numeric(14,4);not null"`
}

// TableName returns the table name for GORM
func (GRNLineModel) TableName() string {
	return "grn_lines"
}

// ToDomain converts the persistence model to a domain GRNLine
func (m *GRNLineModel) ToDomain() posting.GRNLine {
	return posting.GRNLine{
		BaseEntity: m.BaseModel.ToDomain(),
		GRNID:      m.GRNID,
		StoreID:    m.StoreID,
		ItemID:     m.ItemID,
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
	}
}

// FromDomain populates the persistence model from a domain GRNLine
func (m *GRNLineModel) FromDomain(l *posting.GRNLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.GRNID = l.GRNID
	m.StoreID = l.StoreID
	m.ItemID = l.ItemID
	m.Quantity = l.Quantity
	m.UnitCost = l.UnitCost
}

// PostingGroupModel is the persistence model for a posting group.
// (tenant_id, idempotency_key) is unique; the index is created in the
// migration step and its violation drives the idempotent-replay fallback.
type PostingGroupModel struct {
	TenantModel
	IdempotencyKey string          `gorm:"type:varchar(100);not null;index"`
	SourceType     string          `gorm:"type:varchar(20);not null"`
	SourceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PostingDate    time.Time       `gorm:"not null"`
	TotalQuantity  decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (PostingGroupModel) TableName() string {
	return "posting_groups"
}

// ToDomain converts the persistence model to a domain PostingGroup
func (m *PostingGroupModel) ToDomain() *posting.PostingGroup {
	return &posting.PostingGroup{
		TenantEntity:   m.ToDomainTenantEntity(),
		IdempotencyKey: m.IdempotencyKey,
		SourceType:     m.SourceType,
		SourceID:       m.SourceID,
		PostingDate:    m.PostingDate,
		TotalQuantity:  m.TotalQuantity,
		TotalValue:     m.TotalValue,
	}
}

// FromDomain populates the persistence model from a domain PostingGroup
func (m *PostingGroupModel) FromDomain(g *posting.PostingGroup) {
	m.FromDomainTenantEntity(g.TenantEntity)
	m.IdempotencyKey = g.IdempotencyKey
	m.SourceType = g.SourceType
	m.SourceID = g.SourceID
	m.PostingDate = g.PostingDate
	m.TotalQuantity = g.TotalQuantity
	m.TotalValue = g.TotalValue
}

// PostingGroupModelFromDomain creates a new persistence model from a domain
// PostingGroup.
func PostingGroupModelFromDomain(g *posting.PostingGroup) *PostingGroupModel {
	m := &PostingGroupModel{}
	m.FromDomain(g)
	return m
}

// StockBalanceModel is the persistence model for a stock balance.
// (tenant_id, store_id, item_id) is unique; the index is created in the
// migration step.
type StockBalanceModel struct {
	TenantModel
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	QtyOnHand   decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	ValueOnHand decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (StockBalanceModel) TableName() string {
	return "stock_balances"
}

// ToDomain converts the persistence model to a domain StockBalance
func (m *StockBalanceModel) ToDomain() *posting.StockBalance {
	return &posting.StockBalance{
		TenantEntity: m.ToDomainTenantEntity(),
		StoreID:      m.StoreID,
		ItemID:       m.ItemID,
		QtyOnHand:    m.QtyOnHand,
		ValueOnHand:  m.ValueOnHand,
	}
}

// FromDomain populates the persistence model from a domain StockBalance
func (m *StockBalanceModel) FromDomain(b *posting.StockBalance) {
	m.FromDomainTenantEntity(b.TenantEntity)
	m.StoreID = b.StoreID
	m.ItemID = b.ItemID
	m.QtyOnHand = b.QtyOnHand
	m.ValueOnHand = b.ValueOnHand
}

// StockBalanceModelFromDomain creates a new persistence model from a domain
// StockBalance.
func StockBalanceModelFromDomain(b *posting.StockBalance) *StockBalanceModel {
	m := &StockBalanceModel{}
	m.FromDomain(b)
	return m
}
