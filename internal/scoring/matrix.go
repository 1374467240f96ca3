package scoring

import "fmt"

// RatingRow 供应商评级矩阵的一行：某考察项的现场评估结果
type RatingRow struct {
	Group          string  `json:"group"`
	Aspect         string  `json:"aspect"`
	SectionPercent float64 `json:"section_percent"`
	RiskPercent    float64 `json:"risk_percent"`
	MinorNC        int     `json:"minor_nc"`
	MajorNC        int     `json:"major_nc"`
}

// RatingSummary 评级矩阵汇总：得分率取行均值，不符合项计数求和
type RatingSummary struct {
	SectionPercent float64 `json:"section_percent"`
	RiskPercent    float64 `json:"risk_percent"`
	MinorNC        int     `json:"minor_nc"`
	MajorNC        int     `json:"major_nc"`
	Rows           int     `json:"rows"`
}

// AggregateRating 汇总评级矩阵，空矩阵返回零值
func AggregateRating(rows []RatingRow) RatingSummary {
	if len(rows) == 0 {
		return RatingSummary{}
	}
	var s RatingSummary
	for _, r := range rows {
		s.SectionPercent += r.SectionPercent
		s.RiskPercent += r.RiskPercent
		s.MinorNC += r.MinorNC
		s.MajorNC += r.MajorNC
	}
	s.SectionPercent /= float64(len(rows))
	s.RiskPercent /= float64(len(rows))
	s.Rows = len(rows)
	return s
}

// 评级矩阵考察项分组
const (
	RatingGroupQuality     = "Quality"
	RatingGroupCost        = "Cost"
	RatingGroupLogistics   = "Logistics"
	RatingGroupDevelopment = "Development"
	RatingGroupManagement  = "Management"
	RatingGroupCoreProcess = "Core Process"
)

// DefaultRatingRows 默认的13个考察项，供应商还没有评级记录时用来初始化矩阵
func DefaultRatingRows() []RatingRow {
	aspects := []struct {
		group  string
		aspect string
	}{
		{RatingGroupQuality, "Incoming quality control"},
		{RatingGroupQuality, "In-process quality control"},
		{RatingGroupQuality, "Outgoing quality inspection"},
		{RatingGroupCost, "Cost transparency"},
		{RatingGroupCost, "Cost reduction roadmap"},
		{RatingGroupLogistics, "On-time delivery"},
		{RatingGroupLogistics, "Packaging and handling"},
		{RatingGroupDevelopment, "Design support capability"},
		{RatingGroupDevelopment, "Prototyping speed"},
		{RatingGroupManagement, "Management commitment"},
		{RatingGroupManagement, "Quality system certification"},
		{RatingGroupCoreProcess, "Process capability"},
		{RatingGroupCoreProcess, "Equipment maintenance"},
	}

	rows := make([]RatingRow, 0, len(aspects))
	for _, a := range aspects {
		rows = append(rows, RatingRow{Group: a.group, Aspect: a.aspect})
	}
	return rows
}

// CapabilityEntry 能力评估项：某供应商在单个能力项上的得分
type CapabilityEntry struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
}

// CapabilityPercent 能力得分率：各项得分率的算术平均
// 没有评估项时返回 (0, false, nil)
func CapabilityPercent(entries []CapabilityEntry) (float64, bool, error) {
	if len(entries) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, e := range entries {
		if e.MaxScore == 0 {
			return 0, false, fmt.Errorf("capability %s: %w", e.Criterion, ErrZeroMaxScore)
		}
		sum += e.Score / e.MaxScore * 100
	}
	return sum / float64(len(entries)), true, nil
}
