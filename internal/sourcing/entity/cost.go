package entity

import "time"

// CostCompetencyRow 成本对比表行：某成本科目在各供应商的取值
// Values 以供应商ID为键存数值；Terms 存付款条件等文字列；
// IsRanking 标记人工录入的名次行（1为最优）
type CostCompetencyRow struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index"`

	Component string `json:"component" gorm:"size:200;not null"`
	Values    JSONB  `json:"values" gorm:"type:jsonb"`
	Terms     JSONB  `json:"terms" gorm:"type:jsonb"`
	IsRanking bool   `json:"is_ranking" gorm:"default:false"`

	SortOrder int    `json:"sort_order" gorm:"default:0"`
	Status    string `json:"status" gorm:"size:20;default:draft"` // draft/committed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CostCompetencyRow) TableName() string {
	return "sourcing_cost_competency_rows"
}

// VendorValues 数值列转为强类型映射，非数值项被忽略
func (r CostCompetencyRow) VendorValues() map[string]float64 {
	out := make(map[string]float64, len(r.Values))
	for vendorID, v := range r.Values {
		switch n := v.(type) {
		case float64:
			out[vendorID] = n
		case int:
			out[vendorID] = float64(n)
		}
	}
	return out
}
