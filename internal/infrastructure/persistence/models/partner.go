package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	TenantAggregateModel
	Name               string          `gorm:"type:varchar(200);not null;index"`
	Phone              string          `gorm:"type:varchar(20);index"`
	CreditLimit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LoyaltyPoints      int             `gorm:"not null;default:0"`
	LastPurchaseAt     *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		Name:               m.Name,
		Phone:              m.Phone,
		CreditLimit:        m.CreditLimit,
		OutstandingBalance: m.OutstandingBalance,
		LoyaltyPoints:      m.LoyaltyPoints,
		LastPurchaseAt:     m.LastPurchaseAt,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.CreditLimit = c.CreditLimit
	m.OutstandingBalance = c.OutstandingBalance
	m.LoyaltyPoints = c.LoyaltyPoints
	m.LastPurchaseAt = c.LastPurchaseAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
