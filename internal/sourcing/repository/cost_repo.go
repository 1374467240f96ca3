package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// CostRepository 成本对比表仓库
type CostRepository struct {
	db *gorm.DB
}

func NewCostRepository(db *gorm.DB) *CostRepository {
	return &CostRepository{db: db}
}

// ListRows 查询提名的成本对比表
// status 为空时返回全部状态
func (r *CostRepository) ListRows(ctx context.Context, nominationID, status string) ([]entity.CostCompetencyRow, error) {
	var items []entity.CostCompetencyRow
	query := r.db.WithContext(ctx).Where("nomination_id = ?", nominationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("sort_order ASC, created_at ASC").Find(&items).Error
	return items, err
}

// FindRowByID 根据ID查找成本行
func (r *CostRepository) FindRowByID(ctx context.Context, id string) (*entity.CostCompetencyRow, error) {
	var row entity.CostCompetencyRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindRowByComponent 按科目名查找成本行
func (r *CostRepository) FindRowByComponent(ctx context.Context, nominationID, component string) (*entity.CostCompetencyRow, error) {
	var row entity.CostCompetencyRow
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND component = ?", nominationID, component).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// CreateRow 创建成本行
func (r *CostRepository) CreateRow(ctx context.Context, row *entity.CostCompetencyRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateRow 更新成本行
func (r *CostRepository) UpdateRow(ctx context.Context, row *entity.CostCompetencyRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteRow 删除成本行
func (r *CostRepository) DeleteRow(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.CostCompetencyRow{}).Error
}

// CommitRows 把提名的草稿成本行整体置为已提交
func (r *CostRepository) CommitRows(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.CostCompetencyRow{}).
		Where("nomination_id = ? AND status = ?", nominationID, entity.RowStatusDraft).
		Updates(map[string]interface{}{
			"status":     entity.RowStatusCommitted,
			"updated_at": time.Now(),
		}).Error
}

// DiscardDrafts 丢弃提名的草稿成本行
func (r *CostRepository) DiscardDrafts(ctx context.Context, nominationID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ? AND status = ?", nominationID, entity.RowStatusDraft).
		Delete(&entity.CostCompetencyRow{}).Error
}
