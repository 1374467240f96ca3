package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// MatrixRepository 能力矩阵与评级矩阵仓库
type MatrixRepository struct {
	db *gorm.DB
}

func NewMatrixRepository(db *gorm.DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

// ListCapabilityCriteria 查询提名的能力评估项定义
func (r *MatrixRepository) ListCapabilityCriteria(ctx context.Context, nominationID string) ([]entity.CapabilityCriterion, error) {
	var items []entity.CapabilityCriterion
	err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// CreateCapabilityCriterion 创建能力评估项
func (r *MatrixRepository) CreateCapabilityCriterion(ctx context.Context, criterion *entity.CapabilityCriterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

// DeleteCapabilityCriterion 删除能力评估项及其打分
func (r *MatrixRepository) DeleteCapabilityCriterion(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("criterion_id = ?", id).Delete(&entity.CapabilityScore{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.CapabilityCriterion{}).Error
	})
}

// ListCapabilityScores 查询某供应商的能力打分
// status 为空时返回全部状态
func (r *MatrixRepository) ListCapabilityScores(ctx context.Context, nominationID, vendorID, status string) ([]entity.CapabilityScore, error) {
	var items []entity.CapabilityScore
	query := r.db.WithContext(ctx).
		Where("nomination_id = ? AND vendor_id = ?", nominationID, vendorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&items).Error
	return items, err
}

// UpsertCapabilityScore 写入能力打分，同一评估项同一供应商只保留一条
func (r *MatrixRepository) UpsertCapabilityScore(ctx context.Context, score *entity.CapabilityScore) error {
	var existing entity.CapabilityScore
	err := r.db.WithContext(ctx).
		Where("criterion_id = ? AND vendor_id = ?", score.CriterionID, score.VendorID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(score).Error
		}
		return err
	}

	existing.Score = score.Score
	existing.Status = score.Status
	existing.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&existing).Error
}

// CommitCapabilityScores 把某供应商的草稿打分整体置为已提交
func (r *MatrixRepository) CommitCapabilityScores(ctx context.Context, nominationID, vendorID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.CapabilityScore{}).
		Where("nomination_id = ? AND vendor_id = ? AND status = ?",
			nominationID, vendorID, entity.RowStatusDraft).
		Updates(map[string]interface{}{
			"status":     entity.RowStatusCommitted,
			"updated_at": time.Now(),
		}).Error
}

// DiscardCapabilityDrafts 丢弃某供应商的草稿打分
func (r *MatrixRepository) DiscardCapabilityDrafts(ctx context.Context, nominationID, vendorID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ? AND vendor_id = ? AND status = ?",
			nominationID, vendorID, entity.RowStatusDraft).
		Delete(&entity.CapabilityScore{}).Error
}

// ListRatingRows 查询某供应商的评级矩阵行
// status 为空时返回全部状态
func (r *MatrixRepository) ListRatingRows(ctx context.Context, nominationID, vendorID, status string) ([]entity.VendorRatingRow, error) {
	var items []entity.VendorRatingRow
	query := r.db.WithContext(ctx).
		Where("nomination_id = ? AND vendor_id = ?", nominationID, vendorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("sort_order ASC, created_at ASC").Find(&items).Error
	return items, err
}

// CreateRatingRows 批量创建评级矩阵行
func (r *MatrixRepository) CreateRatingRows(ctx context.Context, rows []entity.VendorRatingRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindRatingRowByID 根据ID查找评级矩阵行
func (r *MatrixRepository) FindRatingRowByID(ctx context.Context, id string) (*entity.VendorRatingRow, error) {
	var row entity.VendorRatingRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// UpdateRatingRow 更新评级矩阵行
func (r *MatrixRepository) UpdateRatingRow(ctx context.Context, row *entity.VendorRatingRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// CommitRatingRows 把某供应商的草稿行整体置为已提交
func (r *MatrixRepository) CommitRatingRows(ctx context.Context, nominationID, vendorID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.VendorRatingRow{}).
		Where("nomination_id = ? AND vendor_id = ? AND status = ?",
			nominationID, vendorID, entity.RowStatusDraft).
		Updates(map[string]interface{}{
			"status":     entity.RowStatusCommitted,
			"updated_at": time.Now(),
		}).Error
}

// DiscardRatingDrafts 丢弃某供应商的草稿行
func (r *MatrixRepository) DiscardRatingDrafts(ctx context.Context, nominationID, vendorID string) error {
	return r.db.WithContext(ctx).
		Where("nomination_id = ? AND vendor_id = ? AND status = ?",
			nominationID, vendorID, entity.RowStatusDraft).
		Delete(&entity.VendorRatingRow{}).Error
}
