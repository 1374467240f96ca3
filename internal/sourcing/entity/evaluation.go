package entity

import "time"

// VendorEvaluation 供应商评价：一次提名中某供应商的完整评价记录
// 重新计算不会删除旧记录，旧记录置为 superseded 并保留修订号
type VendorEvaluation struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index:idx_eval_nomination_vendor"`
	VendorID     string `json:"vendor_id" gorm:"size:32;not null;index:idx_eval_nomination_vendor"`
	VendorType   string `json:"vendor_type" gorm:"size:50"`

	// 结论
	Recommendation string `json:"recommendation" gorm:"size:20;default:pending"` // approved/conditional/rejected/pending
	RiskLevel      string `json:"risk_level" gorm:"size:20;default:medium"`      // low/medium/high/critical

	// 维度得分（0-100，空表示未评，存储值优先于重新计算）
	CostScore         *float64 `json:"cost_score" gorm:"type:decimal(5,2)"`
	VendorRatingScore *float64 `json:"vendor_rating_score" gorm:"type:decimal(5,2)"`
	CapabilityPct     *float64 `json:"capability_pct" gorm:"type:decimal(5,2)"`

	// 评级矩阵汇总
	RiskMitigationPct *float64 `json:"risk_mitigation_pct" gorm:"type:decimal(5,2)"`
	MinorNCCount      int      `json:"minor_nc_count" gorm:"default:0"`
	MajorNCCount      int      `json:"major_nc_count" gorm:"default:0"`

	// 其他指标
	TechFeasibilityScore *float64 `json:"tech_feasibility_score" gorm:"type:decimal(5,2)"`

	// 加权总分与等级
	OverallScore *float64 `json:"overall_score" gorm:"type:decimal(5,2)"`
	Grade        string   `json:"grade" gorm:"size:10"`

	Notes       string `json:"notes" gorm:"type:text"`
	EvaluatorID string `json:"evaluator_id" gorm:"size:32"`
	Revision    int    `json:"revision" gorm:"default:1"`
	Status      string `json:"status" gorm:"size:20;default:active"` // active/superseded

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Vendor         *Vendor            `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	CriteriaScores []CriteriaScoreRow `json:"criteria_scores,omitempty" gorm:"foreignKey:EvaluationID"`
}

func (VendorEvaluation) TableName() string {
	return "sourcing_vendor_evaluations"
}

// 评价状态
const (
	EvaluationStatusActive     = "active"
	EvaluationStatusSuperseded = "superseded"
)

// 评价结论
const (
	RecommendationApproved    = "approved"
	RecommendationConditional = "conditional"
	RecommendationRejected    = "rejected"
	RecommendationPending     = "pending"
)

// 风险等级
const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// CalcGrade 根据总分计算等级
func CalcGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// CriteriaScoreRow 评分明细：某评价记录在单个评分项上的得分
// 不变量：0 ≤ Score ≤ MaxScore
type CriteriaScoreRow struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	EvaluationID string  `json:"evaluation_id" gorm:"size:32;not null;index"`
	CriterionID  string  `json:"criterion_id" gorm:"size:32;not null;index"`
	Score        float64 `json:"score" gorm:"type:decimal(8,2);not null"`
	MaxScore     float64 `json:"max_score" gorm:"type:decimal(8,2);not null"`
	SortOrder    int     `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CriteriaScoreRow) TableName() string {
	return "sourcing_criteria_scores"
}
