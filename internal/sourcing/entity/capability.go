package entity

import "time"

// CapabilityCriterion 能力评估项定义：一行一个能力项，各供应商逐项打分
type CapabilityCriterion struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	NominationID string  `json:"nomination_id" gorm:"size:32;not null;index"`
	Name         string  `json:"name" gorm:"size:200;not null"`
	MaxScore     float64 `json:"max_score" gorm:"type:decimal(8,2);default:100"`
	SortOrder    int     `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (CapabilityCriterion) TableName() string {
	return "sourcing_capability_criteria"
}

// CapabilityScore 能力打分：某供应商在单个能力项上的得分
type CapabilityScore struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	NominationID string  `json:"nomination_id" gorm:"size:32;not null;index"`
	CriterionID  string  `json:"criterion_id" gorm:"size:32;not null;index:idx_capability_criterion_vendor"`
	VendorID     string  `json:"vendor_id" gorm:"size:32;not null;index:idx_capability_criterion_vendor"`
	Score        float64 `json:"score" gorm:"type:decimal(8,2);not null"`
	Status       string  `json:"status" gorm:"size:20;default:draft"` // draft/committed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CapabilityScore) TableName() string {
	return "sourcing_capability_scores"
}

// 矩阵行状态：草稿可整体提交或丢弃
const (
	RowStatusDraft     = "draft"
	RowStatusCommitted = "committed"
)
