package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB JSONB类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// JSONBArray JSONB数组类型
type JSONBArray []interface{}

func (j JSONBArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONBArray: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Vendor 供应商
type Vendor struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	Code       string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name       string `json:"name" gorm:"size:200;not null"`
	ShortName  string `json:"short_name" gorm:"size:50"`
	VendorType string `json:"vendor_type" gorm:"size:50;not null"` // manufacturer/distributor/service/other
	Status     string `json:"status" gorm:"size:20;default:pending"`

	// 基本信息
	Country  string `json:"country" gorm:"size:50"`
	Province string `json:"province" gorm:"size:50"`
	City     string `json:"city" gorm:"size:50"`
	Address  string `json:"address" gorm:"size:500"`
	Website  string `json:"website" gorm:"size:200"`

	// 业务信息
	BusinessScope  string      `json:"business_scope" gorm:"type:text"`
	AnnualRevenue  *float64    `json:"annual_revenue" gorm:"type:decimal(15,2)"`
	EmployeeCount  *int        `json:"employee_count"`
	Certifications *JSONBArray `json:"certifications" gorm:"type:jsonb"`

	// 付款信息
	BankName     string `json:"bank_name" gorm:"size:200"`
	BankAccount  string `json:"bank_account" gorm:"size:50"`
	TaxID        string `json:"tax_id" gorm:"size:50"`
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`

	// 画像标签
	Tags           *JSONBArray `json:"tags" gorm:"type:jsonb"`
	TechCapability string      `json:"tech_capability" gorm:"size:20"`

	// 绩效指标（来自历史提名评价的汇总）
	CostScore         *float64 `json:"cost_score" gorm:"type:decimal(5,2)"`
	VendorRatingScore *float64 `json:"vendor_rating_score" gorm:"type:decimal(5,2)"`
	CapabilityScore   *float64 `json:"capability_score" gorm:"type:decimal(5,2)"`
	OverallScore      *float64 `json:"overall_score" gorm:"type:decimal(5,2)"`

	// 管理信息
	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Notes      string     `json:"notes" gorm:"type:text"`

	// 关联
	Contacts []VendorContact `json:"contacts,omitempty" gorm:"foreignKey:VendorID"`
}

func (Vendor) TableName() string {
	return "sourcing_vendors"
}

// 供应商类型
const (
	VendorTypeManufacturer = "manufacturer"
	VendorTypeDistributor  = "distributor"
	VendorTypeService      = "service"
	VendorTypeOther        = "other"
)

// 供应商状态
const (
	VendorStatusPending  = "pending"
	VendorStatusActive   = "active"
	VendorStatusArchived = "archived"
)

// VendorContact 供应商联系人
type VendorContact struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	VendorID  string    `json:"vendor_id" gorm:"size:32;not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Title     string    `json:"title" gorm:"size:100"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Email     string    `json:"email" gorm:"size:200"`
	Wechat    string    `json:"wechat" gorm:"size:100"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (VendorContact) TableName() string {
	return "sourcing_vendor_contacts"
}
