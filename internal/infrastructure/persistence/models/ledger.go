package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/ledger"
)

// CreditSaleModel is the persistence model for the CreditSale aggregate root.
// The unique index on (tenant_id, sale_id) enforces at most one credit record
// per POS sale.
type CreditSaleModel struct {
	TenantAggregateModel
	SaleID          uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_credit_sale_tenant_sale,priority:2"`
	CustomerID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	CreditAmount    decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null;index"`
	DueDate         time.Time               `gorm:"not null;index"`
	TermsInDays     int                     `gorm:"not null;default:0"`
	InterestRate    decimal.Decimal         `gorm:"type:decimal(8,4);not null;default:0"`
	Status          ledger.CreditSaleStatus `gorm:"type:varchar(20);not null;default:'OUTSTANDING';index"`
	ApprovedBy      *uuid.UUID              `gorm:"type:uuid"`
	Notes           string                  `gorm:"type:text"`
	WrittenOffAt    *time.Time
	WriteOffReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CreditSaleModel) TableName() string {
	return "credit_sales"
}

// ToDomain converts the persistence model to a domain CreditSale entity.
func (m *CreditSaleModel) ToDomain() *ledger.CreditSale {
	cs := &ledger.CreditSale{
		SaleID:          m.SaleID,
		CustomerID:      m.CustomerID,
		CreditAmount:    m.CreditAmount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		DueDate:         m.DueDate,
		TermsInDays:     m.TermsInDays,
		InterestRate:    m.InterestRate,
		Status:          m.Status,
		ApprovedBy:      m.ApprovedBy,
		Notes:           m.Notes,
		WrittenOffAt:    m.WrittenOffAt,
		WriteOffReason:  m.WriteOffReason,
	}
	m.PopulateTenantAggregateRoot(&cs.TenantAggregateRoot)
	return cs
}

// FromDomain populates the persistence model from a domain CreditSale entity.
func (m *CreditSaleModel) FromDomain(cs *ledger.CreditSale) {
	m.FromDomainTenantAggregateRoot(cs.TenantAggregateRoot)
	m.SaleID = cs.SaleID
	m.CustomerID = cs.CustomerID
	m.CreditAmount = cs.CreditAmount
	m.PaidAmount = cs.PaidAmount
	m.RemainingAmount = cs.RemainingAmount
	m.DueDate = cs.DueDate
	m.TermsInDays = cs.TermsInDays
	m.InterestRate = cs.InterestRate
	m.Status = cs.Status
	m.ApprovedBy = cs.ApprovedBy
	m.Notes = cs.Notes
	m.WrittenOffAt = cs.WrittenOffAt
	m.WriteOffReason = cs.WriteOffReason
}

// CreditSaleModelFromDomain creates a new persistence model from a domain CreditSale.
func CreditSaleModelFromDomain(cs *ledger.CreditSale) *CreditSaleModel {
	m := &CreditSaleModel{}
	m.FromDomain(cs)
	return m
}

// CreditPaymentModel is the persistence model for the append-only payment
// ledger. Rows are inserted and read, never updated or deleted.
type CreditPaymentModel struct {
	TenantAggregateModel
	CreditSaleID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	PaymentAmount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PaymentDate       time.Time            `gorm:"not null;index"`
	Method            ledger.PaymentMethod `gorm:"type:varchar(20);not null"`
	ReceivedBy        uuid.UUID            `gorm:"type:uuid;not null"`
	Reference         string               `gorm:"type:varchar(100)"`
	Notes             string               `gorm:"type:text"`
	ReversesPaymentID *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CreditPaymentModel) TableName() string {
	return "credit_payments"
}

// ToDomain converts the persistence model to a domain CreditPayment entity.
func (m *CreditPaymentModel) ToDomain() *ledger.CreditPayment {
	p := &ledger.CreditPayment{
		CreditSaleID:      m.CreditSaleID,
		PaymentAmount:     m.PaymentAmount,
		PaymentDate:       m.PaymentDate,
		Method:            m.Method,
		ReceivedBy:        m.ReceivedBy,
		Reference:         m.Reference,
		Notes:             m.Notes,
		ReversesPaymentID: m.ReversesPaymentID,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain CreditPayment entity.
func (m *CreditPaymentModel) FromDomain(p *ledger.CreditPayment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.CreditSaleID = p.CreditSaleID
	m.PaymentAmount = p.PaymentAmount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.ReceivedBy = p.ReceivedBy
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.ReversesPaymentID = p.ReversesPaymentID
}

// CreditPaymentModelFromDomain creates a new persistence model from a domain CreditPayment.
func CreditPaymentModelFromDomain(p *ledger.CreditPayment) *CreditPaymentModel {
	m := &CreditPaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentCommitmentModel is the persistence model for payment commitments.
type PaymentCommitmentModel struct {
	TenantAggregateModel
	CreditSaleID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	PromisedAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PromisedDate   time.Time               `gorm:"not null;index"`
	Status         ledger.CommitmentStatus `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	Notes          string                  `gorm:"type:text"`
	ResolvedAt     *time.Time
}

// TableName returns the table name for GORM
func (PaymentCommitmentModel) TableName() string {
	return "payment_commitments"
}

// ToDomain converts the persistence model to a domain PaymentCommitment entity.
func (m *PaymentCommitmentModel) ToDomain() *ledger.PaymentCommitment {
	pc := &ledger.PaymentCommitment{
		CreditSaleID:   m.CreditSaleID,
		PromisedAmount: m.PromisedAmount,
		PromisedDate:   m.PromisedDate,
		Status:         m.Status,
		Notes:          m.Notes,
		ResolvedAt:     m.ResolvedAt,
	}
	m.PopulateTenantAggregateRoot(&pc.TenantAggregateRoot)
	return pc
}

// FromDomain populates the persistence model from a domain PaymentCommitment entity.
func (m *PaymentCommitmentModel) FromDomain(pc *ledger.PaymentCommitment) {
	m.FromDomainTenantAggregateRoot(pc.TenantAggregateRoot)
	m.CreditSaleID = pc.CreditSaleID
	m.PromisedAmount = pc.PromisedAmount
	m.PromisedDate = pc.PromisedDate
	m.Status = pc.Status
	m.Notes = pc.Notes
	m.ResolvedAt = pc.ResolvedAt
}

// PaymentCommitmentModelFromDomain creates a new persistence model from a domain PaymentCommitment.
func PaymentCommitmentModelFromDomain(pc *ledger.PaymentCommitment) *PaymentCommitmentModel {
	m := &PaymentCommitmentModel{}
	m.FromDomain(pc)
	return m
}

// PaymentReminderModel is the persistence model for the reminder log.
type PaymentReminderModel struct {
	TenantAggregateModel
	CreditSaleID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Type          ledger.ReminderType `gorm:"type:varchar(20);not null"`
	ScheduledDate time.Time           `gorm:"not null;index"`
	Sent          bool                `gorm:"not null;default:false"`
	SentAt        *time.Time
	Responded     bool   `gorm:"not null;default:false"`
	ResponseNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentReminderModel) TableName() string {
	return "payment_reminders"
}

// ToDomain converts the persistence model to a domain PaymentReminder entity.
func (m *PaymentReminderModel) ToDomain() *ledger.PaymentReminder {
	r := &ledger.PaymentReminder{
		CreditSaleID:  m.CreditSaleID,
		Type:          m.Type,
		ScheduledDate: m.ScheduledDate,
		Sent:          m.Sent,
		SentAt:        m.SentAt,
		Responded:     m.Responded,
		ResponseNotes: m.ResponseNotes,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain PaymentReminder entity.
func (m *PaymentReminderModel) FromDomain(r *ledger.PaymentReminder) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.CreditSaleID = r.CreditSaleID
	m.Type = r.Type
	m.ScheduledDate = r.ScheduledDate
	m.Sent = r.Sent
	m.SentAt = r.SentAt
	m.Responded = r.Responded
	m.ResponseNotes = r.ResponseNotes
}

// PaymentReminderModelFromDomain creates a new persistence model from a domain PaymentReminder.
func PaymentReminderModelFromDomain(r *ledger.PaymentReminder) *PaymentReminderModel {
	m := &PaymentReminderModel{}
	m.FromDomain(r)
	return m
}

// CustomerCreditHistoryModel is the persistence model for per-period rollups.
// The unique index on (tenant_id, customer_id, period) backs the upsert.
type CustomerCreditHistoryModel struct {
	TenantAggregateModel
	CustomerID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_credit_history_tenant_customer_period,priority:2"`
	Period              string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_credit_history_tenant_customer_period,priority:3"`
	TotalCreditAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalRepaidAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LatePaymentCount    int             `gorm:"not null;default:0"`
	AveragePaymentDelay decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreditScore         decimal.Decimal `gorm:"type:decimal(5,0);not null;default:100"`
}

// TableName returns the table name for GORM
func (CustomerCreditHistoryModel) TableName() string {
	return "customer_credit_histories"
}

// ToDomain converts the persistence model to a domain CustomerCreditHistory entity.
func (m *CustomerCreditHistoryModel) ToDomain() *ledger.CustomerCreditHistory {
	h := &ledger.CustomerCreditHistory{
		CustomerID:          m.CustomerID,
		Period:              m.Period,
		TotalCreditAmount:   m.TotalCreditAmount,
		TotalRepaidAmount:   m.TotalRepaidAmount,
		LatePaymentCount:    m.LatePaymentCount,
		AveragePaymentDelay: m.AveragePaymentDelay,
		CreditScore:         m.CreditScore,
	}
	m.PopulateTenantAggregateRoot(&h.TenantAggregateRoot)
	return h
}

// FromDomain populates the persistence model from a domain CustomerCreditHistory entity.
func (m *CustomerCreditHistoryModel) FromDomain(h *ledger.CustomerCreditHistory) {
	m.FromDomainTenantAggregateRoot(h.TenantAggregateRoot)
	m.CustomerID = h.CustomerID
	m.Period = h.Period
	m.TotalCreditAmount = h.TotalCreditAmount
	m.TotalRepaidAmount = h.TotalRepaidAmount
	m.LatePaymentCount = h.LatePaymentCount
	m.AveragePaymentDelay = h.AveragePaymentDelay
	m.CreditScore = h.CreditScore
}

// CustomerCreditHistoryModelFromDomain creates a new persistence model from a domain CustomerCreditHistory.
func CustomerCreditHistoryModelFromDomain(h *ledger.CustomerCreditHistory) *CustomerCreditHistoryModel {
	m := &CustomerCreditHistoryModel{}
	m.FromDomain(h)
	return m
}
