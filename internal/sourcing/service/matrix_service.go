package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/scoring"
	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/google/uuid"
)

// MatrixService 能力矩阵与评级矩阵服务
// 打分先落为草稿，整体提交后汇总值回写到供应商评价记录
type MatrixService struct {
	repo    *repository.MatrixRepository
	nomRepo *repository.NominationRepository
	evalSvc *EvaluationService
}

func NewMatrixService(repo *repository.MatrixRepository, nomRepo *repository.NominationRepository, evalSvc *EvaluationService) *MatrixService {
	return &MatrixService{repo: repo, nomRepo: nomRepo, evalSvc: evalSvc}
}

// CapabilityCriterionRequest 能力评估项定义请求
type CapabilityCriterionRequest struct {
	Name      string  `json:"name" binding:"required"`
	MaxScore  float64 `json:"max_score"`
	SortOrder int     `json:"sort_order"`
}

// CapabilityScoreInput 单项能力打分
type CapabilityScoreInput struct {
	CriterionID string  `json:"criterion_id" binding:"required"`
	Score       float64 `json:"score"`
}

// SaveCapabilityRequest 保存能力打分请求
// Commit 为真时草稿整体提交并回写评价
type SaveCapabilityRequest struct {
	Scores []CapabilityScoreInput `json:"scores" binding:"required"`
	Commit bool                   `json:"commit"`
}

// CapabilityMatrixResult 能力矩阵：评估项定义、打分与汇总得分率
type CapabilityMatrixResult struct {
	Criteria  []entity.CapabilityCriterion `json:"criteria"`
	Scores    []entity.CapabilityScore     `json:"scores"`
	Percent   float64                      `json:"percent"`
	Evaluated bool                         `json:"evaluated"`
}

// GetCapabilityMatrix 获取某供应商的能力矩阵
// includeDraft 为真时包含草稿打分，否则只看已提交的
func (s *MatrixService) GetCapabilityMatrix(ctx context.Context, nominationID, vendorID string, includeDraft bool) (*CapabilityMatrixResult, error) {
	criteria, err := s.repo.ListCapabilityCriteria(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	status := entity.RowStatusCommitted
	if includeDraft {
		status = ""
	}
	rows, err := s.repo.ListCapabilityScores(ctx, nominationID, vendorID, status)
	if err != nil {
		return nil, err
	}

	percent, evaluated, err := capabilityPercent(criteria, rows)
	if err != nil {
		return nil, err
	}

	return &CapabilityMatrixResult{
		Criteria:  criteria,
		Scores:    rows,
		Percent:   percent,
		Evaluated: evaluated,
	}, nil
}

// AddCapabilityCriterion 创建能力评估项
func (s *MatrixService) AddCapabilityCriterion(ctx context.Context, nominationID string, req *CapabilityCriterionRequest) (*entity.CapabilityCriterion, error) {
	if _, err := s.nomRepo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}

	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}
	if maxScore < 0 {
		return nil, errors.New("满分不能为负数")
	}

	criterion := &entity.CapabilityCriterion{
		ID:           uuid.New().String()[:32],
		NominationID: nominationID,
		Name:         req.Name,
		MaxScore:     maxScore,
		SortOrder:    req.SortOrder,
	}
	if err := s.repo.CreateCapabilityCriterion(ctx, criterion); err != nil {
		return nil, err
	}
	return criterion, nil
}

// RemoveCapabilityCriterion 删除能力评估项及其打分
func (s *MatrixService) RemoveCapabilityCriterion(ctx context.Context, id string) error {
	return s.repo.DeleteCapabilityCriterion(ctx, id)
}

// SaveCapabilityScores 保存某供应商的能力打分
// 先写草稿；Commit 为真时整体提交并把汇总得分率回写到评价记录
func (s *MatrixService) SaveCapabilityScores(ctx context.Context, nominationID, vendorID, userID string, req *SaveCapabilityRequest) (*CapabilityMatrixResult, error) {
	criteria, err := s.repo.ListCapabilityCriteria(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.CapabilityCriterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	for _, in := range req.Scores {
		criterion, ok := byID[in.CriterionID]
		if !ok {
			return nil, errors.New("能力评估项不存在: " + in.CriterionID)
		}
		if in.Score < 0 || in.Score > criterion.MaxScore {
			return nil, errors.New("能力得分超出范围: " + criterion.Name)
		}

		row := &entity.CapabilityScore{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			CriterionID:  in.CriterionID,
			VendorID:     vendorID,
			Score:        in.Score,
			Status:       entity.RowStatusDraft,
		}
		if err := s.repo.UpsertCapabilityScore(ctx, row); err != nil {
			return nil, err
		}
	}

	if req.Commit {
		if err := s.CommitCapability(ctx, nominationID, vendorID, userID); err != nil {
			return nil, err
		}
		return s.GetCapabilityMatrix(ctx, nominationID, vendorID, false)
	}
	return s.GetCapabilityMatrix(ctx, nominationID, vendorID, true)
}

// CommitCapability 提交某供应商的全部草稿打分并回写评价的能力得分率
func (s *MatrixService) CommitCapability(ctx context.Context, nominationID, vendorID, userID string) error {
	if err := s.repo.CommitCapabilityScores(ctx, nominationID, vendorID); err != nil {
		return err
	}

	criteria, err := s.repo.ListCapabilityCriteria(ctx, nominationID)
	if err != nil {
		return err
	}
	rows, err := s.repo.ListCapabilityScores(ctx, nominationID, vendorID, entity.RowStatusCommitted)
	if err != nil {
		return err
	}
	percent, evaluated, err := capabilityPercent(criteria, rows)
	if err != nil {
		return err
	}
	if !evaluated {
		return nil
	}

	eval, err := s.evalSvc.Ensure(ctx, nominationID, vendorID, userID)
	if err != nil {
		return err
	}
	eval.CapabilityPct = &percent
	eval.UpdatedAt = time.Now()
	return s.evalSvc.repo.Update(ctx, eval)
}

// DiscardCapabilityDrafts 丢弃某供应商的能力打分草稿
func (s *MatrixService) DiscardCapabilityDrafts(ctx context.Context, nominationID, vendorID string) error {
	return s.repo.DiscardCapabilityDrafts(ctx, nominationID, vendorID)
}

// capabilityPercent 把打分行换算为能力得分率
func capabilityPercent(criteria []entity.CapabilityCriterion, rows []entity.CapabilityScore) (float64, bool, error) {
	byID := make(map[string]entity.CapabilityCriterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	entries := make([]scoring.CapabilityEntry, 0, len(rows))
	for _, row := range rows {
		criterion, ok := byID[row.CriterionID]
		if !ok {
			continue
		}
		entries = append(entries, scoring.CapabilityEntry{
			Criterion: criterion.Name,
			Score:     row.Score,
			MaxScore:  criterion.MaxScore,
		})
	}
	return scoring.CapabilityPercent(entries)
}

// RatingRowInput 评级矩阵行更新
type RatingRowInput struct {
	ID         string  `json:"id" binding:"required"`
	SectionPct float64 `json:"section_pct"`
	RiskPct    float64 `json:"risk_pct"`
	MinorNC    int     `json:"minor_nc"`
	MajorNC    int     `json:"major_nc"`
}

// SaveRatingRequest 保存评级矩阵请求
type SaveRatingRequest struct {
	Rows   []RatingRowInput `json:"rows" binding:"required"`
	Commit bool             `json:"commit"`
}

// RatingMatrixResult 评级矩阵与汇总
type RatingMatrixResult struct {
	Rows    []entity.VendorRatingRow `json:"rows"`
	Summary scoring.RatingSummary    `json:"summary"`
}

// GetRatingMatrix 获取某供应商的评级矩阵
func (s *MatrixService) GetRatingMatrix(ctx context.Context, nominationID, vendorID string, includeDraft bool) (*RatingMatrixResult, error) {
	status := entity.RowStatusCommitted
	if includeDraft {
		status = ""
	}
	rows, err := s.repo.ListRatingRows(ctx, nominationID, vendorID, status)
	if err != nil {
		return nil, err
	}
	return &RatingMatrixResult{
		Rows:    rows,
		Summary: scoring.AggregateRating(toRatingRows(rows)),
	}, nil
}

// InitRatingMatrix 用默认考察项初始化某供应商的评级矩阵
// 已有记录时直接返回现有矩阵
func (s *MatrixService) InitRatingMatrix(ctx context.Context, nominationID, vendorID string) (*RatingMatrixResult, error) {
	if _, err := s.nomRepo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListRatingRows(ctx, nominationID, vendorID, "")
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s.GetRatingMatrix(ctx, nominationID, vendorID, true)
	}

	defaults := scoring.DefaultRatingRows()
	rows := make([]entity.VendorRatingRow, 0, len(defaults))
	for i, d := range defaults {
		rows = append(rows, entity.VendorRatingRow{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			VendorID:     vendorID,
			Group:        d.Group,
			Aspect:       d.Aspect,
			SortOrder:    i,
			Status:       entity.RowStatusDraft,
		})
	}
	if err := s.repo.CreateRatingRows(ctx, rows); err != nil {
		return nil, err
	}
	return s.GetRatingMatrix(ctx, nominationID, vendorID, true)
}

// SaveRatingRows 保存评级矩阵行
// Commit 为真时整体提交并把汇总回写到评价记录
func (s *MatrixService) SaveRatingRows(ctx context.Context, nominationID, vendorID, userID string, req *SaveRatingRequest) (*RatingMatrixResult, error) {
	for _, in := range req.Rows {
		row, err := s.repo.FindRatingRowByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if row.NominationID != nominationID || row.VendorID != vendorID {
			return nil, errors.New("评级矩阵行不属于该供应商")
		}
		if in.SectionPct < 0 || in.SectionPct > 100 || in.RiskPct < 0 || in.RiskPct > 100 {
			return nil, errors.New("得分率必须在0到100之间")
		}
		if in.MinorNC < 0 || in.MajorNC < 0 {
			return nil, errors.New("不符合项计数不能为负数")
		}

		row.SectionPct = in.SectionPct
		row.RiskPct = in.RiskPct
		row.MinorNC = in.MinorNC
		row.MajorNC = in.MajorNC
		row.Status = entity.RowStatusDraft
		row.UpdatedAt = time.Now()
		if err := s.repo.UpdateRatingRow(ctx, row); err != nil {
			return nil, err
		}
	}

	if req.Commit {
		if err := s.CommitRating(ctx, nominationID, vendorID, userID); err != nil {
			return nil, err
		}
		return s.GetRatingMatrix(ctx, nominationID, vendorID, false)
	}
	return s.GetRatingMatrix(ctx, nominationID, vendorID, true)
}

// CommitRating 提交评级矩阵并把汇总值回写到评价记录
func (s *MatrixService) CommitRating(ctx context.Context, nominationID, vendorID, userID string) error {
	if err := s.repo.CommitRatingRows(ctx, nominationID, vendorID); err != nil {
		return err
	}

	rows, err := s.repo.ListRatingRows(ctx, nominationID, vendorID, entity.RowStatusCommitted)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	summary := scoring.AggregateRating(toRatingRows(rows))

	eval, err := s.evalSvc.Ensure(ctx, nominationID, vendorID, userID)
	if err != nil {
		return err
	}
	eval.VendorRatingScore = &summary.SectionPercent
	eval.RiskMitigationPct = &summary.RiskPercent
	eval.MinorNCCount = summary.MinorNC
	eval.MajorNCCount = summary.MajorNC
	eval.UpdatedAt = time.Now()
	return s.evalSvc.repo.Update(ctx, eval)
}

// DiscardRatingDrafts 丢弃某供应商的评级矩阵草稿
func (s *MatrixService) DiscardRatingDrafts(ctx context.Context, nominationID, vendorID string) error {
	return s.repo.DiscardRatingDrafts(ctx, nominationID, vendorID)
}

func toRatingRows(rows []entity.VendorRatingRow) []scoring.RatingRow {
	out := make([]scoring.RatingRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, scoring.RatingRow{
			Group:          r.Group,
			Aspect:         r.Aspect,
			SectionPercent: r.SectionPct,
			RiskPercent:    r.RiskPct,
			MinorNC:        r.MinorNC,
			MajorNC:        r.MajorNC,
		})
	}
	return out
}
