package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 采购域仓库集合
type Repositories struct {
	Vendor      *VendorRepository
	Nomination  *NominationRepository
	Evaluation  *EvaluationRepository
	Matrix      *MatrixRepository
	Cost        *CostRepository
	RFQ         *RFQRepository
	ActivityLog *ActivityLogRepository
}

// NewRepositories 创建采购域仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Vendor:      NewVendorRepository(db),
		Nomination:  NewNominationRepository(db),
		Evaluation:  NewEvaluationRepository(db),
		Matrix:      NewMatrixRepository(db),
		Cost:        NewCostRepository(db),
		RFQ:         NewRFQRepository(db),
		ActivityLog: NewActivityLogRepository(db),
	}
}
