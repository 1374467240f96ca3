package scoring

import "strings"

// Category 评分维度
type Category string

const (
	CategoryCost         Category = "cost"
	CategoryVendorRating Category = "vendor_rating"
	CategoryCapability   Category = "capability"
)

// Categories 维度固定顺序：成本 → 供应商评级 → 能力
// 权重尾差分配等顺序敏感的规则都以此为准
var Categories = []Category{CategoryCost, CategoryVendorRating, CategoryCapability}

// categoryKeywords 各维度的名称关键词，按 Categories 顺序匹配，先中先得
var categoryKeywords = map[Category][]string{
	CategoryCost:         {"cost", "price", "budget"},
	CategoryVendorRating: {"vendor", "quality", "rating"},
	CategoryCapability:   {"capability", "technical", "feasibility"},
}

// InferCategory 按标识文本推断维度，大小写不敏感的子串匹配
// 无法识别时返回空串
func InferCategory(id string) Category {
	lower := strings.ToLower(id)
	for _, cat := range Categories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return ""
}

// CriteriaScore 单项评分：某供应商在某评分项上的原始得分
type CriteriaScore struct {
	CriterionID string
	Category    Category // 显式维度，为空时按 CriterionID 推断
	Score       float64
	MaxScore    float64
}

// ResolveCategory 返回显式维度，缺省时退回关键词推断
func (s CriteriaScore) ResolveCategory() Category {
	if s.Category != "" {
		return s.Category
	}
	return InferCategory(s.CriterionID)
}
