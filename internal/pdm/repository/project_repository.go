package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindAll 获取项目列表
func (r *ProjectRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	var items []entity.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Project{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if ownerID := filters["owner_id"]; ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if keyword := filters["keyword"]; keyword != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找项目
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete 删除项目
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Project{}).Error
}

// GenerateCode 生成项目编码
func (r *ProjectRepository) GenerateCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Project{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PRJ-%05d", count+1), nil
}

// DB 暴露底层连接给需要跨表删除的服务
func (r *ProjectRepository) DB() *gorm.DB {
	return r.db
}
