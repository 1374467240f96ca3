package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/google/uuid"
)

// VendorService 供应商服务
type VendorService struct {
	repo        *repository.VendorRepository
	activityLog *repository.ActivityLogRepository
}

func NewVendorService(repo *repository.VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

func (s *VendorService) SetActivityLogRepo(repo *repository.ActivityLogRepository) {
	s.activityLog = repo
}

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name          string   `json:"name" binding:"required"`
	ShortName     string   `json:"short_name"`
	VendorType    string   `json:"vendor_type" binding:"required"`
	Country       string   `json:"country"`
	Province      string   `json:"province"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Website       string   `json:"website"`
	BusinessScope string   `json:"business_scope"`
	PaymentTerms  string   `json:"payment_terms"`
	Notes         string   `json:"notes"`
	Contacts      []ContactInput `json:"contacts"`
}

// ContactInput 联系人录入
type ContactInput struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Wechat    string `json:"wechat"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateVendorRequest 更新供应商请求
type UpdateVendorRequest struct {
	Name          *string `json:"name"`
	ShortName     *string `json:"short_name"`
	VendorType    *string `json:"vendor_type"`
	Country       *string `json:"country"`
	Province      *string `json:"province"`
	City          *string `json:"city"`
	Address       *string `json:"address"`
	Website       *string `json:"website"`
	BusinessScope *string `json:"business_scope"`
	PaymentTerms  *string `json:"payment_terms"`
	TechCapability *string `json:"tech_capability"`
	Notes         *string `json:"notes"`
}

// List 获取供应商列表
func (s *VendorService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *VendorService) Get(ctx context.Context, id string) (*entity.Vendor, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *VendorService) Create(ctx context.Context, userID string, req *CreateVendorRequest) (*entity.Vendor, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	vendorType := req.VendorType
	switch vendorType {
	case entity.VendorTypeManufacturer, entity.VendorTypeDistributor, entity.VendorTypeService, entity.VendorTypeOther:
	default:
		return nil, errors.New("无效的供应商类型")
	}

	vendor := &entity.Vendor{
		ID:            uuid.New().String()[:32],
		Code:          code,
		Name:          req.Name,
		ShortName:     req.ShortName,
		VendorType:    vendorType,
		Status:        entity.VendorStatusPending,
		Country:       req.Country,
		Province:      req.Province,
		City:          req.City,
		Address:       req.Address,
		Website:       req.Website,
		BusinessScope: req.BusinessScope,
		PaymentTerms:  req.PaymentTerms,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}

	for _, c := range req.Contacts {
		contact := &entity.VendorContact{
			ID:        uuid.New().String()[:32],
			VendorID:  vendor.ID,
			Name:      c.Name,
			Title:     c.Title,
			Phone:     c.Phone,
			Email:     c.Email,
			Wechat:    c.Wechat,
			IsPrimary: c.IsPrimary,
		}
		if err := s.repo.CreateContact(ctx, contact); err != nil {
			return nil, err
		}
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "vendor", vendor.ID, vendor.Code, "create", "", vendor.Status, "创建供应商: "+vendor.Name, userID, "")
	}

	return s.repo.FindByID(ctx, vendor.ID)
}

// Update 更新供应商
func (s *VendorService) Update(ctx context.Context, id string, req *UpdateVendorRequest) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor.Status == entity.VendorStatusArchived {
		return nil, errors.New("已归档的供应商不能修改")
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.ShortName != nil {
		vendor.ShortName = *req.ShortName
	}
	if req.VendorType != nil {
		vendor.VendorType = *req.VendorType
	}
	if req.Country != nil {
		vendor.Country = *req.Country
	}
	if req.Province != nil {
		vendor.Province = *req.Province
	}
	if req.City != nil {
		vendor.City = *req.City
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.Website != nil {
		vendor.Website = *req.Website
	}
	if req.BusinessScope != nil {
		vendor.BusinessScope = *req.BusinessScope
	}
	if req.PaymentTerms != nil {
		vendor.PaymentTerms = *req.PaymentTerms
	}
	if req.TechCapability != nil {
		vendor.TechCapability = *req.TechCapability
	}
	if req.Notes != nil {
		vendor.Notes = *req.Notes
	}
	vendor.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Approve 审核通过供应商
func (s *VendorService) Approve(ctx context.Context, id, userID string) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor.Status != entity.VendorStatusPending {
		return nil, errors.New("只能审核待审核状态的供应商")
	}

	now := time.Now()
	vendor.Status = entity.VendorStatusActive
	vendor.ApprovedBy = &userID
	vendor.ApprovedAt = &now
	vendor.UpdatedAt = now

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "vendor", vendor.ID, vendor.Code, "status_change",
			entity.VendorStatusPending, entity.VendorStatusActive, "审核通过", userID, "")
	}

	return vendor, nil
}

// Archive 归档供应商
func (s *VendorService) Archive(ctx context.Context, id, userID string) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor.Status == entity.VendorStatusArchived {
		return nil, errors.New("供应商已归档")
	}

	from := vendor.Status
	vendor.Status = entity.VendorStatusArchived
	vendor.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "vendor", vendor.ID, vendor.Code, "status_change",
			from, entity.VendorStatusArchived, "归档供应商", userID, "")
	}

	return vendor, nil
}

// VendorScoreSummary 供应商历史得分汇总
type VendorScoreSummary struct {
	VendorID          string  `json:"vendor_id"`
	AvgCostScore      float64 `json:"avg_cost_score"`
	AvgRatingScore    float64 `json:"avg_rating_score"`
	AvgCapabilityPct  float64 `json:"avg_capability_pct"`
	AvgOverallScore   float64 `json:"avg_overall_score"`
}

// GetScoreSummary 获取供应商历史评价得分汇总
func (s *VendorService) GetScoreSummary(ctx context.Context, id string) (*VendorScoreSummary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	cost, rating, capability, overall, err := s.repo.FindVendorAvgScores(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VendorScoreSummary{
		VendorID:         id,
		AvgCostScore:     cost,
		AvgRatingScore:   rating,
		AvgCapabilityPct: capability,
		AvgOverallScore:  overall,
	}, nil
}

// RefreshScores 把历史评价均分回写到供应商档案
func (s *VendorService) RefreshScores(ctx context.Context, id string) error {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	cost, rating, capability, overall, err := s.repo.FindVendorAvgScores(ctx, id)
	if err != nil {
		return err
	}

	vendor.CostScore = &cost
	vendor.VendorRatingScore = &rating
	vendor.CapabilityScore = &capability
	vendor.OverallScore = &overall
	vendor.UpdatedAt = time.Now()
	return s.repo.Update(ctx, vendor)
}
