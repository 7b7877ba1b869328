package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LongTermInvestment is a member's investment account.
type LongTermInvestment struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	UserID         uint                `gorm:"index;not null" json:"userId"`
	TotalDeposited decimal.Decimal     `gorm:"type:decimal(14,2);default:0" json:"totalDeposited"`
	TotalProfit    decimal.Decimal     `gorm:"type:decimal(14,2);default:0" json:"totalProfit"`
	IsActive       bool                `gorm:"index" json:"isActive"`
	Deposits       []InvestmentDeposit `gorm:"foreignKey:InvestmentID" json:"deposits,omitempty"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the LongTermInvestment model
func (LongTermInvestment) TableName() string {
	return "long_term_investments"
}

type InvestmentDeposit struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	InvestmentID uint            `gorm:"index;not null" json:"investmentId"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DepositDate  time.Time       `gorm:"index" json:"depositDate"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the InvestmentDeposit model
func (InvestmentDeposit) TableName() string {
	return "investment_deposits"
}
