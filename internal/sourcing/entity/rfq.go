package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RFQ 询价单
type RFQ struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	Code         string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID    string `json:"project_id" gorm:"size:32;index"`
	NominationID *string `json:"nomination_id" gorm:"size:32;index"`
	MaterialName string `json:"material_name" gorm:"size:200;not null"`
	Spec         string `json:"spec" gorm:"type:text"`
	TargetQty    int    `json:"target_qty" gorm:"default:1"`
	Status       string `json:"status" gorm:"size:20;default:draft"`

	Deadline  *time.Time `json:"deadline"`
	CreatedBy string     `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// 关联
	Quotes []RFQQuote `json:"quotes,omitempty" gorm:"foreignKey:RFQID"`
}

func (RFQ) TableName() string {
	return "sourcing_rfqs"
}

// 询价单状态
const (
	RFQStatusDraft  = "draft"
	RFQStatusSent   = "sent"
	RFQStatusQuoted = "quoted"
	RFQStatusClosed = "closed"
)

// RFQQuote 供应商报价
type RFQQuote struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	RFQID      string `json:"rfq_id" gorm:"size:32;not null;index"`
	VendorID   string `json:"vendor_id" gorm:"size:32;not null;index"`
	VendorName string `json:"vendor_name" gorm:"size:200"`

	// 报价金额用定点数存取，避免浮点累计误差
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	Currency    string          `json:"currency" gorm:"size:10;default:CNY"`
	MOQ         *int            `json:"moq"`
	LeadTimeDays *int           `json:"lead_time_days"`
	ToolingCost decimal.Decimal `json:"tooling_cost" gorm:"type:decimal(12,2);default:0"`
	SampleCost  decimal.Decimal `json:"sample_cost" gorm:"type:decimal(12,2);default:0"`

	ValidUntil *time.Time `json:"valid_until"`
	Notes      string     `json:"notes" gorm:"type:text"`
	IsSelected bool       `json:"is_selected" gorm:"default:false"`
	QuotedAt   time.Time  `json:"quoted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RFQQuote) TableName() string {
	return "sourcing_rfq_quotes"
}

// LandedUnitCost 到岸单价：单价加上一次性费用按数量摊销
// qty 不大于0时按1摊销
func (q RFQQuote) LandedUnitCost(qty int) decimal.Decimal {
	if qty <= 0 {
		qty = 1
	}
	oneTime := q.ToolingCost.Add(q.SampleCost)
	amortized := oneTime.DivRound(decimal.NewFromInt(int64(qty)), 4)
	return q.UnitPrice.Add(amortized)
}
