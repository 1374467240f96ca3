package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bitfantasy/vulcan/internal/scoring"
	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// EvaluationService 供应商评价服务
// 负责评分录入、按权重汇总、横向对比与排名
type EvaluationService struct {
	repo        *repository.EvaluationRepository
	nomRepo     *repository.NominationRepository
	vendorRepo  *repository.VendorRepository
	activityLog *repository.ActivityLogRepository
}

func NewEvaluationService(repo *repository.EvaluationRepository, nomRepo *repository.NominationRepository, vendorRepo *repository.VendorRepository) *EvaluationService {
	return &EvaluationService{repo: repo, nomRepo: nomRepo, vendorRepo: vendorRepo}
}

func (s *EvaluationService) SetActivityLogRepo(repo *repository.ActivityLogRepository) {
	s.activityLog = repo
}

// ScoreInput 单项评分录入
type ScoreInput struct {
	CriterionID string  `json:"criterion_id" binding:"required"`
	Score       float64 `json:"score"`
}

// BatchScoreRequest 批量评分请求
type BatchScoreRequest struct {
	Scores []ScoreInput `json:"scores" binding:"required"`
}

// UpdateEvaluationRequest 更新评价结论请求
type UpdateEvaluationRequest struct {
	VendorType           *string  `json:"vendor_type"`
	Recommendation       *string  `json:"recommendation"`
	RiskLevel            *string  `json:"risk_level"`
	TechFeasibilityScore *float64 `json:"tech_feasibility_score"`
	Notes                *string  `json:"notes"`
}

// EvaluationDetail 评价详情：落库记录加上实时计算的维度得分率
type EvaluationDetail struct {
	Evaluation *entity.VendorEvaluation `json:"evaluation"`
	Breakdown  scoring.Breakdown        `json:"breakdown"`
	Weights    scoring.Weights          `json:"weights"`
	Overall    float64                  `json:"overall"`
}

// List 获取评价列表
func (s *EvaluationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.VendorEvaluation, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取评价详情
func (s *EvaluationService) Get(ctx context.Context, id string) (*entity.VendorEvaluation, error) {
	return s.repo.FindByID(ctx, id)
}

// History 获取提名下某供应商的评价历史
func (s *EvaluationService) History(ctx context.Context, nominationID, vendorID string) ([]entity.VendorEvaluation, error) {
	return s.repo.ListHistory(ctx, nominationID, vendorID)
}

// Ensure 获取提名下某供应商的当前评价，不存在则创建
func (s *EvaluationService) Ensure(ctx context.Context, nominationID, vendorID, userID string) (*entity.VendorEvaluation, error) {
	eval, err := s.repo.FindActive(ctx, nominationID, vendorID)
	if err == nil {
		return eval, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.nomRepo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	eval = &entity.VendorEvaluation{
		ID:             uuid.New().String()[:32],
		NominationID:   nominationID,
		VendorID:       vendorID,
		VendorType:     vendor.VendorType,
		Recommendation: entity.RecommendationPending,
		RiskLevel:      entity.RiskLevelMedium,
		Revision:       1,
		Status:         entity.EvaluationStatusActive,
		EvaluatorID:    userID,
	}
	if err := s.repo.Create(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// Update 更新评价结论字段
func (s *EvaluationService) Update(ctx context.Context, id string, req *UpdateEvaluationRequest) (*entity.VendorEvaluation, error) {
	eval, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eval.Status != entity.EvaluationStatusActive {
		return nil, errors.New("已作废的评价不能修改")
	}

	if req.VendorType != nil {
		eval.VendorType = *req.VendorType
	}
	if req.Recommendation != nil {
		switch *req.Recommendation {
		case entity.RecommendationApproved, entity.RecommendationConditional,
			entity.RecommendationRejected, entity.RecommendationPending:
			eval.Recommendation = *req.Recommendation
		default:
			return nil, errors.New("无效的评价结论")
		}
	}
	if req.RiskLevel != nil {
		switch *req.RiskLevel {
		case entity.RiskLevelLow, entity.RiskLevelMedium, entity.RiskLevelHigh, entity.RiskLevelCritical:
			eval.RiskLevel = *req.RiskLevel
		default:
			return nil, errors.New("无效的风险等级")
		}
	}
	if req.TechFeasibilityScore != nil {
		eval.TechFeasibilityScore = req.TechFeasibilityScore
	}
	if req.Notes != nil {
		eval.Notes = *req.Notes
	}
	eval.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// BatchSaveScores 批量保存评分明细
// 逐条写入，失败的条目汇总成一个错误返回，已写入的条目保留
func (s *EvaluationService) BatchSaveScores(ctx context.Context, nominationID, vendorID, userID string, req *BatchScoreRequest) (*entity.VendorEvaluation, error) {
	eval, err := s.Ensure(ctx, nominationID, vendorID, userID)
	if err != nil {
		return nil, err
	}

	criteria, err := s.nomRepo.ListCriteria(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.NominationCriterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	var errs []error
	saved := 0
	for _, in := range req.Scores {
		criterion, ok := byID[in.CriterionID]
		if !ok {
			errs = append(errs, fmt.Errorf("评分项 %s 不存在", in.CriterionID))
			continue
		}
		if in.Score < 0 || in.Score > criterion.MaxScore {
			errs = append(errs, fmt.Errorf("评分项 %s 得分 %.2f 超出范围 [0, %.2f]",
				criterion.Name, in.Score, criterion.MaxScore))
			continue
		}

		row := &entity.CriteriaScoreRow{
			ID:           uuid.New().String()[:32],
			EvaluationID: eval.ID,
			CriterionID:  criterion.ID,
			Score:        in.Score,
			MaxScore:     criterion.MaxScore,
			SortOrder:    criterion.SortOrder,
		}
		if err := s.repo.SaveCriteriaScore(ctx, row); err != nil {
			errs = append(errs, fmt.Errorf("评分项 %s 保存失败: %w", criterion.Name, err))
			continue
		}
		saved++
	}

	if s.activityLog != nil && saved > 0 {
		s.activityLog.LogActivity(ctx, "evaluation", eval.ID, "", "score_update", "", "",
			fmt.Sprintf("保存评分 %d 条", saved), userID, "")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("部分评分保存失败(成功%d条): %w", saved, errors.Join(errs...))
	}
	return s.repo.FindByID(ctx, eval.ID)
}

// Detail 计算评价详情：维度得分率经存储值优先合并后按权重汇总
func (s *EvaluationService) Detail(ctx context.Context, nominationID, vendorID string) (*EvaluationDetail, error) {
	eval, err := s.repo.FindActive(ctx, nominationID, vendorID)
	if err != nil {
		return nil, err
	}
	nom, err := s.nomRepo.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	breakdown, weights, err := s.resolveBreakdown(ctx, nom, eval)
	if err != nil {
		return nil, err
	}

	return &EvaluationDetail{
		Evaluation: eval,
		Breakdown:  breakdown,
		Weights:    weights,
		Overall:    scoring.Overall(breakdown, weights),
	}, nil
}

// Compute 重新计算加权总分并落库
// 旧评价置为 superseded，新评价修订号加一，评分明细复制到新评价
func (s *EvaluationService) Compute(ctx context.Context, nominationID, vendorID, userID string) (*entity.VendorEvaluation, error) {
	eval, err := s.Ensure(ctx, nominationID, vendorID, userID)
	if err != nil {
		return nil, err
	}
	nom, err := s.nomRepo.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	breakdown, weights, err := s.resolveBreakdown(ctx, nom, eval)
	if err != nil {
		return nil, err
	}
	overall := scoring.Overall(breakdown, weights)

	next := *eval
	next.ID = uuid.New().String()[:32]
	next.Revision = eval.Revision + 1
	next.Status = entity.EvaluationStatusActive
	next.EvaluatorID = userID
	next.OverallScore = &overall
	next.Grade = entity.CalcGrade(overall)
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	next.Vendor = nil
	next.CriteriaScores = nil
	if breakdown.Cost.Evaluated {
		v := breakdown.Cost.Percent
		next.CostScore = &v
	}
	if breakdown.VendorRating.Evaluated {
		v := breakdown.VendorRating.Percent
		next.VendorRatingScore = &v
	}
	if breakdown.Capability.Evaluated {
		v := breakdown.Capability.Percent
		next.CapabilityPct = &v
	}

	if err := s.repo.Supersede(ctx, eval, &next); err != nil {
		return nil, err
	}

	// 评分明细跟随新修订
	rows, err := s.repo.ListCriteriaScores(ctx, eval.ID)
	if err == nil {
		for _, row := range rows {
			copied := row
			copied.ID = uuid.New().String()[:32]
			copied.EvaluationID = next.ID
			copied.CreatedAt = time.Time{}
			copied.UpdatedAt = time.Time{}
			if err := s.repo.SaveCriteriaScore(ctx, &copied); err != nil {
				zap.L().Warn("copy criteria score to new revision failed",
					zap.String("evaluation_id", next.ID), zap.Error(err))
			}
		}
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "evaluation", next.ID, "", "compute", "", "",
			fmt.Sprintf("重算总分 %.2f (修订%d)", overall, next.Revision), userID, "")
	}

	return s.repo.FindByID(ctx, next.ID)
}

// resolveBreakdown 维度得分率：先按评分明细计算，评价上的存储值优先覆盖
func (s *EvaluationService) resolveBreakdown(ctx context.Context, nom *entity.Nomination, eval *entity.VendorEvaluation) (scoring.Breakdown, scoring.Weights, error) {
	weights := scoring.Weights{
		Cost:         nom.WeightCost,
		VendorRating: nom.WeightVendorRating,
		Capability:   nom.WeightCapability,
	}
	if weights.Sum() != 100 {
		zap.L().Warn("nomination weights do not sum to 100",
			zap.String("nomination_id", nom.ID), zap.Int("sum", weights.Sum()))
	}

	byID := make(map[string]entity.NominationCriterion, len(nom.Criteria))
	for _, c := range nom.Criteria {
		byID[c.ID] = c
	}

	rows, err := s.repo.ListCriteriaScores(ctx, eval.ID)
	if err != nil {
		return scoring.Breakdown{}, weights, err
	}

	scores := make([]scoring.CriteriaScore, 0, len(rows))
	for _, row := range rows {
		cs := scoring.CriteriaScore{
			CriterionID: row.CriterionID,
			Score:       row.Score,
			MaxScore:    row.MaxScore,
		}
		if c, ok := byID[row.CriterionID]; ok {
			cs.Category = scoring.Category(c.Category)
			if cs.Category == "" {
				cs.Category = scoring.InferCategory(c.Name)
			}
		}
		scores = append(scores, cs)
	}

	computed, err := scoring.CategoryPercentages(scores)
	if err != nil {
		return scoring.Breakdown{}, weights, err
	}

	stored := scoring.StoredScores{
		Cost:         eval.CostScore,
		VendorRating: eval.VendorRatingScore,
		Capability:   eval.CapabilityPct,
	}
	return scoring.Resolve(stored, computed), weights, nil
}

// VendorComparisonRow 对比表中一个供应商的汇总
type VendorComparisonRow struct {
	VendorID     string            `json:"vendor_id"`
	VendorName   string            `json:"vendor_name"`
	VendorCode   string            `json:"vendor_code"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
	Overall      float64           `json:"overall"`
	Grade        string            `json:"grade"`
	Rank         int               `json:"rank"`
	Recommendation string          `json:"recommendation"`
	RiskLevel    string            `json:"risk_level"`
	MinorNCCount int               `json:"minor_nc_count"`
	MajorNCCount int               `json:"major_nc_count"`
}

// ComparisonResult 提名下全部供应商的横向对比
type ComparisonResult struct {
	NominationID string                `json:"nomination_id"`
	Weights      scoring.Weights       `json:"weights"`
	Vendors      []VendorComparisonRow `json:"vendors"`
}

// Comparison 横向对比提名下全部供应商，按加权总分降序排名
// 同分按评价创建先后排序
func (s *EvaluationService) Comparison(ctx context.Context, nominationID string) (*ComparisonResult, error) {
	nom, err := s.nomRepo.FindByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	evals, err := s.repo.ListActiveByNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	weights := scoring.Weights{
		Cost:         nom.WeightCost,
		VendorRating: nom.WeightVendorRating,
		Capability:   nom.WeightCapability,
	}

	rows := make([]VendorComparisonRow, 0, len(evals))
	for _, eval := range evals {
		breakdown, _, err := s.resolveBreakdown(ctx, nom, &eval)
		if err != nil {
			return nil, fmt.Errorf("供应商 %s 得分计算失败: %w", eval.VendorID, err)
		}
		row := VendorComparisonRow{
			VendorID:       eval.VendorID,
			Breakdown:      breakdown,
			Overall:        scoring.Overall(breakdown, weights),
			Recommendation: eval.Recommendation,
			RiskLevel:      eval.RiskLevel,
			MinorNCCount:   eval.MinorNCCount,
			MajorNCCount:   eval.MajorNCCount,
		}
		row.Grade = entity.CalcGrade(row.Overall)
		if eval.Vendor != nil {
			row.VendorName = eval.Vendor.Name
			row.VendorCode = eval.Vendor.Code
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Overall > rows[j].Overall
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return &ComparisonResult{
		NominationID: nominationID,
		Weights:      weights,
		Vendors:      rows,
	}, nil
}

// ExportComparison 导出供应商对比表Excel
func (s *EvaluationService) ExportComparison(ctx context.Context, nominationID string) (*excelize.File, string, error) {
	nom, err := s.nomRepo.FindByID(ctx, nominationID)
	if err != nil {
		return nil, "", err
	}
	comparison, err := s.Comparison(ctx, nominationID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Comparison"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	headers := []string{"排名", "供应商编码", "供应商名称",
		fmt.Sprintf("成本得分率(权重%d%%)", comparison.Weights.Cost),
		fmt.Sprintf("评级得分率(权重%d%%)", comparison.Weights.VendorRating),
		fmt.Sprintf("能力得分率(权重%d%%)", comparison.Weights.Capability),
		"加权总分", "等级", "结论", "风险等级", "轻微NC", "严重NC"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, v := range comparison.Vendors {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), v.Rank)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), v.VendorCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), v.VendorName)
		if v.Breakdown.Cost.Evaluated {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), v.Breakdown.Cost.Percent)
		}
		if v.Breakdown.VendorRating.Evaluated {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), v.Breakdown.VendorRating.Percent)
		}
		if v.Breakdown.Capability.Evaluated {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), v.Breakdown.Capability.Percent)
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), v.Overall)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), v.Grade)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), v.Recommendation)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), v.RiskLevel)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), v.MinorNCCount)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), v.MajorNCCount)
	}

	colWidths := []float64{6, 12, 24, 18, 18, 18, 10, 6, 12, 10, 8, 8}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("Comparison_%s.xlsx", nom.Code)
	return f, filename, nil
}
