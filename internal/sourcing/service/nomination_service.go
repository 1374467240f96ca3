package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/scoring"
	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NominationService 提名服务
type NominationService struct {
	repo        *repository.NominationRepository
	vendorRepo  *repository.VendorRepository
	activityLog *repository.ActivityLogRepository
	evalSvc     *EvaluationService
}

func NewNominationService(repo *repository.NominationRepository, vendorRepo *repository.VendorRepository) *NominationService {
	return &NominationService{repo: repo, vendorRepo: vendorRepo}
}

func (s *NominationService) SetActivityLogRepo(repo *repository.ActivityLogRepository) {
	s.activityLog = repo
}

func (s *NominationService) SetEvaluationService(svc *EvaluationService) {
	s.evalSvc = svc
}

// CreateNominationRequest 创建提名请求
type CreateNominationRequest struct {
	ProjectID    string `json:"project_id"`
	Title        string `json:"title" binding:"required"`
	MaterialName string `json:"material_name"`
	Notes        string `json:"notes"`
}

// UpdateNominationRequest 更新提名请求
type UpdateNominationRequest struct {
	Title        *string `json:"title"`
	MaterialName *string `json:"material_name"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
}

// CriterionRequest 评分项定义请求
type CriterionRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category"`
	WeightPct float64 `json:"weight_pct"`
	MaxScore  float64 `json:"max_score"`
	SortOrder int     `json:"sort_order"`
}

// CriteriaListResult 评分项列表，带权重和标记
// 权重之和偏离100只标记不阻止
type CriteriaListResult struct {
	Items           []entity.NominationCriterion `json:"items"`
	WeightSum       float64                      `json:"weight_sum"`
	WeightsBalanced bool                         `json:"weights_balanced"`
}

// List 获取提名列表
func (s *NominationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Nomination, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取提名详情
func (s *NominationService) Get(ctx context.Context, id string) (*entity.Nomination, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建提名
func (s *NominationService) Create(ctx context.Context, userID string, req *CreateNominationRequest) (*entity.Nomination, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	weights := scoring.DefaultWeights()
	nom := &entity.Nomination{
		ID:                 uuid.New().String()[:32],
		Code:               code,
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		MaterialName:       req.MaterialName,
		Status:             entity.NominationStatusDraft,
		WeightCost:         weights.Cost,
		WeightVendorRating: weights.VendorRating,
		WeightCapability:   weights.Capability,
		Notes:              req.Notes,
		CreatedBy:          userID,
	}

	if err := s.repo.Create(ctx, nom); err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "nomination", nom.ID, nom.Code, "create", "", nom.Status, "创建提名: "+nom.Title, userID, "")
	}

	return s.repo.FindByID(ctx, nom.ID)
}

// Update 更新提名
func (s *NominationService) Update(ctx context.Context, id string, req *UpdateNominationRequest) (*entity.Nomination, error) {
	nom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if nom.Status == entity.NominationStatusNominated {
		return nil, errors.New("已定标的提名不能修改")
	}

	if req.Title != nil {
		nom.Title = *req.Title
	}
	if req.MaterialName != nil {
		nom.MaterialName = *req.MaterialName
	}
	if req.Notes != nil {
		nom.Notes = *req.Notes
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.NominationStatusDraft, entity.NominationStatusEvaluating, entity.NominationStatusCancelled:
			nom.Status = *req.Status
		default:
			return nil, errors.New("无效的提名状态")
		}
	}
	nom.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, nom); err != nil {
		return nil, err
	}
	return nom, nil
}

// GetWeights 获取提名的维度权重
func (s *NominationService) GetWeights(ctx context.Context, id string) (scoring.Weights, error) {
	nom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return scoring.Weights{}, err
	}
	return scoring.Weights{
		Cost:         nom.WeightCost,
		VendorRating: nom.WeightVendorRating,
		Capability:   nom.WeightCapability,
	}, nil
}

// UpdateWeight 修改单个维度权重，其余两项按比例重分配
func (s *NominationService) UpdateWeight(ctx context.Context, id string, category scoring.Category, value int) (scoring.Weights, error) {
	nom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return scoring.Weights{}, err
	}

	current := scoring.Weights{
		Cost:         nom.WeightCost,
		VendorRating: nom.WeightVendorRating,
		Capability:   nom.WeightCapability,
	}
	// 历史数据权重和可能不是100，只告警不阻止
	if current.Sum() != 100 {
		zap.L().Warn("nomination weights out of balance before rescale",
			zap.String("nomination_id", id),
			zap.Int("sum", current.Sum()))
	}

	next, err := current.Rescale(category, value)
	if err != nil {
		return scoring.Weights{}, err
	}

	nom.WeightCost = next.Cost
	nom.WeightVendorRating = next.VendorRating
	nom.WeightCapability = next.Capability
	nom.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, nom); err != nil {
		return scoring.Weights{}, err
	}
	return next, nil
}

// ListCriteria 获取评分项定义
func (s *NominationService) ListCriteria(ctx context.Context, nominationID string) (*CriteriaListResult, error) {
	if _, err := s.repo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListCriteria(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, c := range items {
		sum += c.WeightPct
	}
	return &CriteriaListResult{
		Items:           items,
		WeightSum:       sum,
		WeightsBalanced: sum == 100,
	}, nil
}

// CreateCriterion 创建评分项
func (s *NominationService) CreateCriterion(ctx context.Context, nominationID string, req *CriterionRequest) (*entity.NominationCriterion, error) {
	if _, err := s.repo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}
	if err := validateCriterion(req); err != nil {
		return nil, err
	}

	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}

	criterion := &entity.NominationCriterion{
		ID:           uuid.New().String()[:32],
		NominationID: nominationID,
		Name:         req.Name,
		Category:     req.Category,
		WeightPct:    req.WeightPct,
		MaxScore:     maxScore,
		SortOrder:    req.SortOrder,
	}
	if err := s.repo.CreateCriterion(ctx, criterion); err != nil {
		return nil, err
	}
	return criterion, nil
}

// UpdateCriterion 更新评分项
func (s *NominationService) UpdateCriterion(ctx context.Context, id string, req *CriterionRequest) (*entity.NominationCriterion, error) {
	criterion, err := s.repo.FindCriterionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCriterion(req); err != nil {
		return nil, err
	}

	criterion.Name = req.Name
	criterion.Category = req.Category
	criterion.WeightPct = req.WeightPct
	if req.MaxScore > 0 {
		criterion.MaxScore = req.MaxScore
	}
	criterion.SortOrder = req.SortOrder
	criterion.UpdatedAt = time.Now()

	if err := s.repo.UpdateCriterion(ctx, criterion); err != nil {
		return nil, err
	}
	return criterion, nil
}

// DeleteCriterion 删除评分项
func (s *NominationService) DeleteCriterion(ctx context.Context, id string) error {
	if _, err := s.repo.FindCriterionByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteCriterion(ctx, id)
}

func validateCriterion(req *CriterionRequest) error {
	switch scoring.Category(req.Category) {
	case "", scoring.CategoryCost, scoring.CategoryVendorRating, scoring.CategoryCapability:
	default:
		return errors.New("无效的评分维度")
	}
	if req.WeightPct < 0 || req.WeightPct > 100 {
		return errors.New("权重必须在0到100之间")
	}
	if req.MaxScore < 0 {
		return errors.New("满分不能为负数")
	}
	return nil
}

// Nominate 定标：指定中选供应商
func (s *NominationService) Nominate(ctx context.Context, nominationID, vendorID, userID string) (*entity.Nomination, error) {
	nom, err := s.repo.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if nom.Status == entity.NominationStatusNominated {
		return nil, errors.New("提名已定标")
	}
	if nom.Status == entity.NominationStatusCancelled {
		return nil, errors.New("提名已取消")
	}

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := nom.Status
	nom.WinnerVendorID = &vendor.ID
	nom.Status = entity.NominationStatusNominated
	nom.DecidedAt = &now
	nom.UpdatedAt = now

	if err := s.repo.Update(ctx, nom); err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "nomination", nom.ID, nom.Code, "nominate",
			from, nom.Status, "定标供应商: "+vendor.Name, userID, "")
	}

	return nom, nil
}

// AutoNominate 按综合得分自动定标，取排名第一的供应商
func (s *NominationService) AutoNominate(ctx context.Context, nominationID, userID string) (*entity.Nomination, error) {
	if s.evalSvc == nil {
		return nil, errors.New("评价服务未初始化")
	}

	comparison, err := s.evalSvc.Comparison(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if len(comparison.Vendors) == 0 {
		return nil, errors.New("提名下没有可比较的供应商评价")
	}

	var winnerID string
	for _, v := range comparison.Vendors {
		if v.Rank == 1 {
			winnerID = v.VendorID
			break
		}
	}
	if winnerID == "" {
		return nil, errors.New("无法确定排名第一的供应商")
	}

	return s.Nominate(ctx, nominationID, winnerID, userID)
}
