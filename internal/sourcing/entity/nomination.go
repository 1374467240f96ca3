package entity

import "time"

// Nomination 供应商提名：围绕一个物料/项目的多供应商评选
type Nomination struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	Code         string  `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID    string  `json:"project_id" gorm:"size:32;index"`
	Title        string  `json:"title" gorm:"size:200;not null"`
	MaterialName string  `json:"material_name" gorm:"size:200"`
	Status       string  `json:"status" gorm:"size:20;default:draft"`

	// 维度权重（百分比，总和100）
	WeightCost         int `json:"weight_cost" gorm:"default:70"`
	WeightVendorRating int `json:"weight_vendor_rating" gorm:"default:20"`
	WeightCapability   int `json:"weight_capability" gorm:"default:10"`

	// 评选结果
	WinnerVendorID *string    `json:"winner_vendor_id" gorm:"size:32"`
	DecidedAt      *time.Time `json:"decided_at"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Criteria []NominationCriterion `json:"criteria,omitempty" gorm:"foreignKey:NominationID"`
}

func (Nomination) TableName() string {
	return "sourcing_nominations"
}

// 提名状态
const (
	NominationStatusDraft      = "draft"
	NominationStatusEvaluating = "evaluating"
	NominationStatusNominated  = "nominated"
	NominationStatusCancelled  = "cancelled"
)

// NominationCriterion 提名评分项定义
// Category 为空时由名称关键词推断；同一提名下各项权重之和应为100，录入时只告警不阻止
type NominationCriterion struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	NominationID string  `json:"nomination_id" gorm:"size:32;not null;index"`
	Name         string  `json:"name" gorm:"size:200;not null"`
	Category     string  `json:"category" gorm:"size:20"`
	WeightPct    float64 `json:"weight_pct" gorm:"type:decimal(5,2);default:0"`
	MaxScore     float64 `json:"max_score" gorm:"type:decimal(8,2);default:100"`
	SortOrder    int     `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NominationCriterion) TableName() string {
	return "sourcing_nomination_criteria"
}
