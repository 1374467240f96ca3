package entity

import "time"

// ProjectBOM 项目BOM
type ProjectBOM struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID     string    `json:"project_id" gorm:"size:32;not null;index"`
	Version       string    `json:"version" gorm:"size:16;not null;default:v1.0"`
	Name          string    `json:"name" gorm:"size:128;not null"`
	Status        string    `json:"status" gorm:"size:16;not null;default:draft"` // draft/published/frozen
	Description   string    `json:"description,omitempty"`
	TotalItems    int       `json:"total_items" gorm:"default:0"`
	EstimatedCost *float64  `json:"estimated_cost,omitempty" gorm:"type:numeric(15,4)"`
	CreatedBy     string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	Project *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Items   []BOMItem `json:"items,omitempty" gorm:"foreignKey:BOMID"`
	Creator *User     `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

func (ProjectBOM) TableName() string {
	return "project_boms"
}

// BOMStatus BOM状态
const (
	BOMStatusDraft     = "draft"
	BOMStatusPublished = "published"
	BOMStatusFrozen    = "frozen"
)

// BOMItem BOM行项
type BOMItem struct {
	ID              string   `json:"id" gorm:"primaryKey;size:32"`
	BOMID           string   `json:"bom_id" gorm:"size:32;not null;index"`
	ItemNumber      int      `json:"item_number" gorm:"default:0"`
	Level           int      `json:"level" gorm:"not null;default:0"`
	Category        string   `json:"category,omitempty" gorm:"size:32"`
	Name            string   `json:"name" gorm:"size:128;not null"`
	Specification   string   `json:"specification,omitempty"`
	Quantity        float64  `json:"quantity" gorm:"type:numeric(15,4);not null;default:1"`
	Unit            string   `json:"unit" gorm:"size:16;not null;default:pcs"`
	Reference       string   `json:"reference,omitempty" gorm:"size:256"`
	Manufacturer    string   `json:"manufacturer,omitempty" gorm:"size:128"`
	ManufacturerPN  string   `json:"manufacturer_pn,omitempty" gorm:"size:64"`
	UnitPrice       *float64 `json:"unit_price,omitempty" gorm:"type:numeric(15,4)"`
	LeadTimeDays    *int     `json:"lead_time_days,omitempty"`
	ProcurementType string   `json:"procurement_type" gorm:"size:16;not null;default:buy"`
	MaterialType    string   `json:"material_type,omitempty" gorm:"size:64"`
	ProcessType     string   `json:"process_type,omitempty" gorm:"size:32"`
	DrawingNo       string   `json:"drawing_no,omitempty" gorm:"size:64"`
	WeightGrams     *float64 `json:"weight_grams,omitempty" gorm:"type:numeric(10,2)"`
	Notes           string   `json:"notes,omitempty"`

	// CAD几何分析结果
	FileID         *string  `json:"file_id,omitempty" gorm:"size:128"`
	FileName       string   `json:"file_name,omitempty" gorm:"size:256"`
	GeometryStatus string   `json:"geometry_status,omitempty" gorm:"size:16"` // pending/processing/done/failed
	VolumeMM3      *float64 `json:"volume_mm3,omitempty" gorm:"type:numeric(15,2)"`
	ThumbnailURL   string   `json:"thumbnail_url,omitempty" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BOMItem) TableName() string {
	return "bom_items"
}

// GeometryStatus 几何分析状态
const (
	GeometryStatusPending    = "pending"
	GeometryStatusProcessing = "processing"
	GeometryStatusDone       = "done"
	GeometryStatusFailed     = "failed"
)
