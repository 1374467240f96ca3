package scoring

import "sort"

// 成本对比表的固定汇总行，人工录入，不由其他行推导
const (
	CostRowOverallRanking  = "Overall Ranking"
	CostRowCompetencyScore = "Cost Competency Score"
)

// CostRow 成本对比表的一行：某成本科目在各供应商的取值
// IsRanking 标记该行是名次(1为最优)而不是金额；
// Terms 是付款条件之类的文字列，与数值列并存
type CostRow struct {
	Component string             `json:"component"`
	Values    map[string]float64 `json:"values"`
	Terms     map[string]string  `json:"terms,omitempty"`
	IsRanking bool               `json:"is_ranking"`
}

// ValueOf 取某供应商在该行的数值
func (r CostRow) ValueOf(vendorID string) (float64, bool) {
	v, ok := r.Values[vendorID]
	return v, ok
}

// Rank 按数值升序计算名次：最小值名次为1，相同值按 vendorIDs 先后排序。
// 没有数值的供应商不参与排名。
func Rank(vendorIDs []string, values map[string]float64) map[string]int {
	type entry struct {
		id    string
		value float64
		pos   int
	}
	entries := make([]entry, 0, len(vendorIDs))
	for i, id := range vendorIDs {
		v, ok := values[id]
		if !ok {
			continue
		}
		entries = append(entries, entry{id: id, value: v, pos: i})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value < entries[j].value
	})

	ranks := make(map[string]int, len(entries))
	for i, e := range entries {
		ranks[e.id] = i + 1
	}
	return ranks
}
