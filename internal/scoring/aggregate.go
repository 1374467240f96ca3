package scoring

import (
	"errors"
	"fmt"
)

// ErrZeroMaxScore 评分项满分为0，无法换算百分比
var ErrZeroMaxScore = errors.New("max score is zero")

// CategoryResult 单个维度的汇总结果
// Evaluated 区分"没有可评项"与"评了零分"：无匹配评分项时 Percent 为0且 Evaluated 为 false
type CategoryResult struct {
	Percent   float64 `json:"percent"`
	Evaluated bool    `json:"evaluated"`
	Count     int     `json:"count"`
}

// Breakdown 三个维度的得分率
type Breakdown struct {
	Cost         CategoryResult `json:"cost"`
	VendorRating CategoryResult `json:"vendor_rating"`
	Capability   CategoryResult `json:"capability"`
}

// Of 取指定维度的结果
func (b Breakdown) Of(cat Category) CategoryResult {
	switch cat {
	case CategoryCost:
		return b.Cost
	case CategoryVendorRating:
		return b.VendorRating
	case CategoryCapability:
		return b.Capability
	}
	return CategoryResult{}
}

// CategoryPercentages 把原始评分按维度换算成平均得分率
// 每项得分率 = score/maxScore*100，维度得分率取算术平均；
// 不属于任何维度的评分项被忽略
func CategoryPercentages(scores []CriteriaScore) (Breakdown, error) {
	type acc struct {
		sum   float64
		count int
	}
	sums := map[Category]*acc{}

	for _, s := range scores {
		cat := s.ResolveCategory()
		if cat == "" {
			continue
		}
		if s.MaxScore == 0 {
			return Breakdown{}, fmt.Errorf("criterion %s: %w", s.CriterionID, ErrZeroMaxScore)
		}
		a := sums[cat]
		if a == nil {
			a = &acc{}
			sums[cat] = a
		}
		a.sum += s.Score / s.MaxScore * 100
		a.count++
	}

	var b Breakdown
	for _, cat := range Categories {
		a := sums[cat]
		if a == nil {
			continue
		}
		r := CategoryResult{Percent: a.sum / float64(a.count), Evaluated: true, Count: a.count}
		switch cat {
		case CategoryCost:
			b.Cost = r
		case CategoryVendorRating:
			b.VendorRating = r
		case CategoryCapability:
			b.Capability = r
		}
	}
	return b, nil
}

// StoredScores 评价记录上已存储的维度得分，非空值优先于重新计算
type StoredScores struct {
	Cost         *float64
	VendorRating *float64
	Capability   *float64
}

// Resolve 合并存储得分与计算得分：有存储值用存储值，没有才用计算值
func Resolve(stored StoredScores, computed Breakdown) Breakdown {
	out := computed
	if stored.Cost != nil {
		out.Cost = CategoryResult{Percent: *stored.Cost, Evaluated: true, Count: computed.Cost.Count}
	}
	if stored.VendorRating != nil {
		out.VendorRating = CategoryResult{Percent: *stored.VendorRating, Evaluated: true, Count: computed.VendorRating.Count}
	}
	if stored.Capability != nil {
		out.Capability = CategoryResult{Percent: *stored.Capability, Evaluated: true, Count: computed.Capability.Count}
	}
	return out
}

// Overall 加权总分 = Σ 维度得分率 × 权重/100
// 维度得分率本身已是 0~100，不再归一化
func Overall(b Breakdown, w Weights) float64 {
	return b.Cost.Percent*float64(w.Cost)/100 +
		b.VendorRating.Percent*float64(w.VendorRating)/100 +
		b.Capability.Percent*float64(w.Capability)/100
}
