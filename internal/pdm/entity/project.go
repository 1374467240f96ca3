package entity

import (
	"time"
)

// Project 项目实体
type Project struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Code         string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Status       string     `json:"status" gorm:"size:16;not null;default:planning"`
	Description  string     `json:"description" gorm:"type:text"`
	OwnerID      string     `json:"owner_id" gorm:"size:32;not null"`
	PlannedStart *time.Time `json:"planned_start" gorm:"type:date"`
	PlannedEnd   *time.Time `json:"planned_end" gorm:"type:date"`
	ActualStart  *time.Time `json:"actual_start" gorm:"type:date"`
	ActualEnd    *time.Time `json:"actual_end" gorm:"type:date"`
	Progress     int        `json:"progress" gorm:"not null;default:0"`
	CreatedBy    string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// 关联
	Owner   *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Creator *User        `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	BOMs    []ProjectBOM `json:"boms,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectStatus 项目状态
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusEVT       = "evt"
	ProjectStatusDVT       = "dvt"
	ProjectStatusPVT       = "pvt"
	ProjectStatusMP        = "mp"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)
