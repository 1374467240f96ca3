package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"gorm.io/gorm"
)

// VendorRepository 供应商仓库
type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// FindAll 查询供应商列表
func (r *VendorRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	var items []entity.Vendor
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Vendor{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if vendorType := filters["vendor_type"]; vendorType != "" {
		query = query.Where("vendor_type = ?", vendorType)
	}
	if keyword := filters["keyword"]; keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name ILIKE ? OR short_name ILIKE ? OR code ILIKE ?", like, like, like)
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

// FindByID 根据ID查找供应商
func (r *VendorRepository) FindByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode 根据编码查找供应商
func (r *VendorRepository) FindByCode(ctx context.Context, code string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建供应商
func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Update 更新供应商
func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// GenerateCode 生成供应商编码
func (r *VendorRepository) GenerateCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Vendor{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("V-%05d", count+1), nil
}

// CreateContact 创建联系人
func (r *VendorRepository) CreateContact(ctx context.Context, contact *entity.VendorContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// DeleteContacts 删除供应商全部联系人
func (r *VendorRepository) DeleteContacts(ctx context.Context, vendorID string) error {
	return r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Delete(&entity.VendorContact{}).Error
}

// FindVendorAvgScores 获取供应商历史评价的平均得分
func (r *VendorRepository) FindVendorAvgScores(ctx context.Context, vendorID string) (cost, rating, capability, overall float64, err error) {
	var result struct {
		AvgCost       float64
		AvgRating     float64
		AvgCapability float64
		AvgOverall    float64
	}
	err = r.db.WithContext(ctx).
		Model(&entity.VendorEvaluation{}).
		Select(`COALESCE(AVG(cost_score), 0) as avg_cost,
			COALESCE(AVG(vendor_rating_score), 0) as avg_rating,
			COALESCE(AVG(capability_pct), 0) as avg_capability,
			COALESCE(AVG(overall_score), 0) as avg_overall`).
		Where("vendor_id = ? AND status = ?", vendorID, entity.EvaluationStatusActive).
		Scan(&result).Error
	return result.AvgCost, result.AvgRating, result.AvgCapability, result.AvgOverall, err
}
