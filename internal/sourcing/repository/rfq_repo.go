package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// RFQRepository 询价单仓库
type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

// FindAll 查询询价单列表
func (r *RFQRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	var items []entity.RFQ
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RFQ{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if nominationID := filters["nomination_id"]; nominationID != "" {
		query = query.Where("nomination_id = ?", nominationID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := filters["keyword"]; keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("material_name ILIKE ? OR code ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Quotes").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找询价单
func (r *RFQRepository) FindByID(ctx context.Context, id string) (*entity.RFQ, error) {
	var rfq entity.RFQ
	err := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("quoted_at ASC")
		}).
		Where("id = ?", id).
		First(&rfq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// Create 创建询价单
func (r *RFQRepository) Create(ctx context.Context, rfq *entity.RFQ) error {
	return r.db.WithContext(ctx).Create(rfq).Error
}

// Update 更新询价单
func (r *RFQRepository) Update(ctx context.Context, rfq *entity.RFQ) error {
	return r.db.WithContext(ctx).Save(rfq).Error
}

// GenerateCode 生成询价单编码
func (r *RFQRepository) GenerateCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.RFQ{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("RFQ-%d-%04d", time.Now().Year(), count+1), nil
}

// FindQuoteByID 根据ID查找报价
func (r *RFQRepository) FindQuoteByID(ctx context.Context, id string) (*entity.RFQQuote, error) {
	var quote entity.RFQQuote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// CreateQuote 创建报价
func (r *RFQRepository) CreateQuote(ctx context.Context, quote *entity.RFQQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// UpdateQuote 更新报价
func (r *RFQRepository) UpdateQuote(ctx context.Context, quote *entity.RFQQuote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// SelectQuote 选定报价，同一询价单此前的选定被清除
func (r *RFQRepository) SelectQuote(ctx context.Context, rfqID, quoteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.RFQQuote{}).
			Where("rfq_id = ?", rfqID).
			Update("is_selected", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.RFQQuote{}).
			Where("id = ? AND rfq_id = ?", quoteID, rfqID).
			Updates(map[string]interface{}{
				"is_selected": true,
				"updated_at":  time.Now(),
			}).Error
	})
}
