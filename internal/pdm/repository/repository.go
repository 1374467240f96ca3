package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 产品数据域仓库集合
type Repositories struct {
	User    *UserRepository
	Project *ProjectRepository
	BOM     *BOMRepository
}

// NewRepositories 创建产品数据域仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Project: NewProjectRepository(db),
		BOM:     NewBOMRepository(db),
	}
}
