package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// EvaluationRepository 供应商评价仓库
type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// FindAll 查询评价列表
func (r *EvaluationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.VendorEvaluation, int64, error) {
	var items []entity.VendorEvaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.VendorEvaluation{})

	if nominationID := filters["nomination_id"]; nominationID != "" {
		query = query.Where("nomination_id = ?", nominationID)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if recommendation := filters["recommendation"]; recommendation != "" {
		query = query.Where("recommendation = ?", recommendation)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Vendor").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找评价
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*entity.VendorEvaluation, error) {
	var eval entity.VendorEvaluation
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("CriteriaScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

// FindActive 查找提名下某供应商的当前评价
func (r *EvaluationRepository) FindActive(ctx context.Context, nominationID, vendorID string) (*entity.VendorEvaluation, error) {
	var eval entity.VendorEvaluation
	err := r.db.WithContext(ctx).
		Preload("CriteriaScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("nomination_id = ? AND vendor_id = ? AND status = ?",
			nominationID, vendorID, entity.EvaluationStatusActive).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

// ListActiveByNomination 查询提名下全部供应商的当前评价
func (r *EvaluationRepository) ListActiveByNomination(ctx context.Context, nominationID string) ([]entity.VendorEvaluation, error) {
	var items []entity.VendorEvaluation
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("CriteriaScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("nomination_id = ? AND status = ?", nominationID, entity.EvaluationStatusActive).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// ListHistory 查询提名下某供应商的历史评价（含已作废）
func (r *EvaluationRepository) ListHistory(ctx context.Context, nominationID, vendorID string) ([]entity.VendorEvaluation, error) {
	var items []entity.VendorEvaluation
	err := r.db.WithContext(ctx).
		Where("nomination_id = ? AND vendor_id = ?", nominationID, vendorID).
		Order("revision DESC").
		Find(&items).Error
	return items, err
}

// Create 创建评价
func (r *EvaluationRepository) Create(ctx context.Context, eval *entity.VendorEvaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

// Update 更新评价
func (r *EvaluationRepository) Update(ctx context.Context, eval *entity.VendorEvaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}

// Supersede 作废旧评价并写入新评价，同一事务内完成
func (r *EvaluationRepository) Supersede(ctx context.Context, old *entity.VendorEvaluation, next *entity.VendorEvaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.VendorEvaluation{}).
			Where("id = ?", old.ID).
			Updates(map[string]interface{}{
				"status":     entity.EvaluationStatusSuperseded,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

// SaveCriteriaScore 按评分项写入得分，同一评分项已有记录则覆盖
func (r *EvaluationRepository) SaveCriteriaScore(ctx context.Context, row *entity.CriteriaScoreRow) error {
	var existing entity.CriteriaScoreRow
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ? AND criterion_id = ?", row.EvaluationID, row.CriterionID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(row).Error
		}
		return err
	}

	existing.Score = row.Score
	existing.MaxScore = row.MaxScore
	existing.SortOrder = row.SortOrder
	existing.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&existing).Error
}

// ListCriteriaScores 查询评价的评分明细
func (r *EvaluationRepository) ListCriteriaScores(ctx context.Context, evaluationID string) ([]entity.CriteriaScoreRow, error) {
	var items []entity.CriteriaScoreRow
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}
