package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"gorm.io/gorm"
)

// BOMRepository 项目BOM仓库
type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// FindAll 获取BOM列表
func (r *BOMRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProjectBOM, int64, error) {
	var items []entity.ProjectBOM
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProjectBOM{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
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

// FindByID 根据ID查找BOM，带行项
func (r *BOMRepository) FindByID(ctx context.Context, id string) (*entity.ProjectBOM, error) {
	var bom entity.ProjectBOM
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_number ASC")
		}).
		Where("id = ?", id).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// Create 创建BOM
func (r *BOMRepository) Create(ctx context.Context, bom *entity.ProjectBOM) error {
	return r.db.WithContext(ctx).Create(bom).Error
}

// Update 更新BOM
func (r *BOMRepository) Update(ctx context.Context, bom *entity.ProjectBOM) error {
	return r.db.WithContext(ctx).Save(bom).Error
}

// Delete 删除BOM及其行项
func (r *BOMRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", id).Delete(&entity.BOMItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.ProjectBOM{}).Error
	})
}

// CreateItem 创建BOM行项
func (r *BOMRepository) CreateItem(ctx context.Context, item *entity.BOMItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// CreateItems 批量创建BOM行项
func (r *BOMRepository) CreateItems(ctx context.Context, items []entity.BOMItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 200).Error
}

// FindItemByID 根据ID查找行项
func (r *BOMRepository) FindItemByID(ctx context.Context, id string) (*entity.BOMItem, error) {
	var item entity.BOMItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem 更新行项
func (r *BOMRepository) UpdateItem(ctx context.Context, item *entity.BOMItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem 删除行项
func (r *BOMRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.BOMItem{}).Error
}

// ListItems 获取BOM的全部行项
func (r *BOMRepository) ListItems(ctx context.Context, bomID string) ([]entity.BOMItem, error) {
	var items []entity.BOMItem
	err := r.db.WithContext(ctx).
		Where("bom_id = ?", bomID).
		Order("item_number ASC").
		Find(&items).Error
	return items, err
}

// RefreshTotals 重算BOM行项数与预估成本
func (r *BOMRepository) RefreshTotals(ctx context.Context, bomID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.BOMItem{}).
		Where("bom_id = ?", bomID).
		Count(&count).Error; err != nil {
		return err
	}

	var cost float64
	r.db.WithContext(ctx).
		Model(&entity.BOMItem{}).
		Where("bom_id = ? AND unit_price IS NOT NULL", bomID).
		Select("COALESCE(SUM(unit_price * quantity), 0)").
		Scan(&cost)

	return r.db.WithContext(ctx).
		Model(&entity.ProjectBOM{}).
		Where("id = ?", bomID).
		Updates(map[string]interface{}{
			"total_items":    count,
			"estimated_cost": cost,
		}).Error
}
