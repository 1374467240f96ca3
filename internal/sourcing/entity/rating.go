package entity

import "time"

// VendorRatingRow 供应商评级矩阵行：某考察项的现场评估记录
type VendorRatingRow struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index:idx_rating_nomination_vendor"`
	VendorID     string `json:"vendor_id" gorm:"size:32;not null;index:idx_rating_nomination_vendor"`

	Group  string `json:"group" gorm:"column:aspect_group;size:50;not null"`
	Aspect string `json:"aspect" gorm:"size:200;not null"`

	SectionPct float64 `json:"section_pct" gorm:"type:decimal(5,2);default:0"`
	RiskPct    float64 `json:"risk_pct" gorm:"type:decimal(5,2);default:0"`
	MinorNC    int     `json:"minor_nc" gorm:"default:0"`
	MajorNC    int     `json:"major_nc" gorm:"default:0"`

	SortOrder int    `json:"sort_order" gorm:"default:0"`
	Status    string `json:"status" gorm:"size:20;default:draft"` // draft/committed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VendorRatingRow) TableName() string {
	return "sourcing_vendor_rating_rows"
}
