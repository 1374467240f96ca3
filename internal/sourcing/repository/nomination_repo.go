package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// NominationRepository 提名仓库
type NominationRepository struct {
	db *gorm.DB
}

func NewNominationRepository(db *gorm.DB) *NominationRepository {
	return &NominationRepository{db: db}
}

// FindAll 查询提名列表
func (r *NominationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Nomination, int64, error) {
	var items []entity.Nomination
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Nomination{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := filters["keyword"]; keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("title ILIKE ? OR material_name ILIKE ? OR code ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找提名
func (r *NominationRepository) FindByID(ctx context.Context, id string) (*entity.Nomination, error) {
	var nom entity.Nomination
	err := r.db.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&nom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &nom, nil
}

// Create 创建提名
func (r *NominationRepository) Create(ctx context.Context, nom *entity.Nomination) error {
	return r.db.WithContext(ctx).Create(nom).Error
}

// Update 更新提名
func (r *NominationRepository) Update(ctx context.Context, nom *entity.Nomination) error {
	return r.db.WithContext(ctx).Save(nom).Error
}

// Delete 删除提名
func (r *NominationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Nomination{}).Error
}

// GenerateCode 生成提名编码
func (r *NominationRepository) GenerateCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Nomination{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("NOM-%d-%04d", time.Now().Year(), count+1), nil
}

// ListByProject 查询项目下的全部提名
func (r *NominationRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Nomination, error) {
	var items []entity.Nomination
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ListCriteria 查询提名的评分项定义
func (r *NominationRepository) ListCriteria(ctx context.Context, nominationID string) ([]entity.NominationCriterion, error) {
	var items []entity.NominationCriterion
	err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// FindCriterionByID 根据ID查找评分项
func (r *NominationRepository) FindCriterionByID(ctx context.Context, id string) (*entity.NominationCriterion, error) {
	var criterion entity.NominationCriterion
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&criterion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &criterion, nil
}

// CreateCriterion 创建评分项
func (r *NominationRepository) CreateCriterion(ctx context.Context, criterion *entity.NominationCriterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

// UpdateCriterion 更新评分项
func (r *NominationRepository) UpdateCriterion(ctx context.Context, criterion *entity.NominationCriterion) error {
	return r.db.WithContext(ctx).Save(criterion).Error
}

// DeleteCriterion 删除评分项
func (r *NominationRepository) DeleteCriterion(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.NominationCriterion{}).Error
}

// SumCriteriaWeights 统计提名下评分项权重之和
func (r *NominationRepository) SumCriteriaWeights(ctx context.Context, nominationID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&entity.NominationCriterion{}).
		Select("COALESCE(SUM(weight_pct), 0)").
		Where("nomination_id = ?", nominationID).
		Scan(&sum).Error
	return sum, err
}
