package models

import (
	"time"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/shopspring/decimal"
)

// InvestorModel is the persistence model for the Investor aggregate root
type InvestorModel struct {
	InvestorID string                  `gorm:"type:varchar(64);primaryKey"`
	Name       string                  `gorm:"type:varchar(100);not null"`
	Username   string                  `gorm:"type:varchar(100);index"`
	Phone      string                  `gorm:"type:varchar(50)"`
	Email      string                  `gorm:"type:varchar(200)"`
	Avatar     string                  `gorm:"type:varchar(500)"`
	Properties []InvestorPropertyModel `gorm:"foreignKey:InvestorID;references:InvestorID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time               `gorm:"not null"`
	UpdatedAt  time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvestorModel) TableName() string {
	return "investors"
}

// InvestorPropertyModel is one investor's share of a property
type InvestorPropertyModel struct {
	InvestorID string          `gorm:"type:varchar(64);primaryKey"`
	PropertyID string          `gorm:"type:varchar(64);primaryKey;index"`
	Percentage decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	Position   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvestorPropertyModel) TableName() string {
	return "investor_properties"
}

// ToDomain converts the persistence model to a domain Investor
func (m *InvestorModel) ToDomain() *investor.Investor {
	inv := &investor.Investor{
		InvestorID: m.InvestorID,
		Name:       m.Name,
		Username:   m.Username,
		Phone:      m.Phone,
		Email:      m.Email,
		Avatar:     m.Avatar,
		Properties: make([]investor.PropertyShare, 0, len(m.Properties)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, p := range m.Properties {
		inv.Properties = append(inv.Properties, investor.PropertyShare{
			PropertyID: p.PropertyID,
			Percentage: p.Percentage,
		})
	}
	return inv
}

// InvestorModelFromDomain creates a persistence model, shares included, from a domain investor
func InvestorModelFromDomain(inv *investor.Investor) *InvestorModel {
	m := &InvestorModel{
		InvestorID: inv.InvestorID,
		Name:       inv.Name,
		Username:   inv.Username,
		Phone:      inv.Phone,
		Email:      inv.Email,
		Avatar:     inv.Avatar,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	for i, p := range inv.Properties {
		m.Properties = append(m.Properties, InvestorPropertyModel{
			InvestorID: inv.InvestorID,
			PropertyID: p.PropertyID,
			Percentage: p.Percentage,
			Position:   i,
		})
	}
	return m
}
