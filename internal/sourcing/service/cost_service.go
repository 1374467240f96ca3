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

// CostService 成本对比表服务
// 表行由评审人手工录入，名次行同样手工填写；提交时
// "Cost Competency Score" 行的数值回写为各供应商评价的成本得分
type CostService struct {
	repo    *repository.CostRepository
	nomRepo *repository.NominationRepository
	evalSvc *EvaluationService
}

func NewCostService(repo *repository.CostRepository, nomRepo *repository.NominationRepository, evalSvc *EvaluationService) *CostService {
	return &CostService{repo: repo, nomRepo: nomRepo, evalSvc: evalSvc}
}

// CostRowRequest 成本行录入请求
type CostRowRequest struct {
	Component string             `json:"component" binding:"required"`
	Values    map[string]float64 `json:"values"`
	Terms     map[string]string  `json:"terms"`
	IsRanking bool               `json:"is_ranking"`
	SortOrder int                `json:"sort_order"`
}

// CostTableResult 成本对比表
type CostTableResult struct {
	Rows []entity.CostCompetencyRow `json:"rows"`
}

// GetTable 获取提名的成本对比表
func (s *CostService) GetTable(ctx context.Context, nominationID string, includeDraft bool) (*CostTableResult, error) {
	status := entity.RowStatusCommitted
	if includeDraft {
		status = ""
	}
	rows, err := s.repo.ListRows(ctx, nominationID, status)
	if err != nil {
		return nil, err
	}
	return &CostTableResult{Rows: rows}, nil
}

// SaveRow 创建或更新成本行，落为草稿
func (s *CostService) SaveRow(ctx context.Context, nominationID string, req *CostRowRequest) (*entity.CostCompetencyRow, error) {
	if _, err := s.nomRepo.FindByID(ctx, nominationID); err != nil {
		return nil, err
	}
	if req.IsRanking {
		for vendorID, v := range req.Values {
			if v < 1 || v != float64(int(v)) {
				return nil, errors.New("名次行的取值必须是不小于1的整数: " + vendorID)
			}
		}
	}

	values := make(entity.JSONB, len(req.Values))
	for vendorID, v := range req.Values {
		values[vendorID] = v
	}
	terms := make(entity.JSONB, len(req.Terms))
	for vendorID, t := range req.Terms {
		terms[vendorID] = t
	}

	row, err := s.repo.FindRowByComponent(ctx, nominationID, req.Component)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		row = &entity.CostCompetencyRow{
			ID:           uuid.New().String()[:32],
			NominationID: nominationID,
			Component:    req.Component,
			Values:       values,
			Terms:        terms,
			IsRanking:    req.IsRanking,
			SortOrder:    req.SortOrder,
			Status:       entity.RowStatusDraft,
		}
		if err := s.repo.CreateRow(ctx, row); err != nil {
			return nil, err
		}
		return row, nil
	}

	row.Values = values
	row.Terms = terms
	row.IsRanking = req.IsRanking
	row.SortOrder = req.SortOrder
	row.Status = entity.RowStatusDraft
	row.UpdatedAt = time.Now()
	if err := s.repo.UpdateRow(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteRow 删除成本行
func (s *CostService) DeleteRow(ctx context.Context, id string) error {
	if _, err := s.repo.FindRowByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteRow(ctx, id)
}

// Commit 提交成本对比表
// "Cost Competency Score" 行有值时，把各供应商的数值回写为评价的成本得分
func (s *CostService) Commit(ctx context.Context, nominationID, userID string) error {
	if err := s.repo.CommitRows(ctx, nominationID); err != nil {
		return err
	}

	scoreRow, err := s.repo.FindRowByComponent(ctx, nominationID, scoring.CostRowCompetencyScore)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	var errs []error
	for vendorID, value := range scoreRow.VendorValues() {
		eval, err := s.evalSvc.Ensure(ctx, nominationID, vendorID, userID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v := value
		eval.CostScore = &v
		eval.UpdatedAt = time.Now()
		if err := s.evalSvc.repo.Update(ctx, eval); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DiscardDrafts 丢弃提名的成本行草稿
func (s *CostService) DiscardDrafts(ctx context.Context, nominationID string) error {
	return s.repo.DiscardDrafts(ctx, nominationID)
}

// AutoRankRequest 自动排名请求
type AutoRankRequest struct {
	SourceRowID string   `json:"source_row_id" binding:"required"`
	VendorIDs   []string `json:"vendor_ids" binding:"required"`
	Component   string   `json:"component"`
}

// AutoRank 按某个数值行自动生成名次行
// 数值越小名次越靠前，同值按 vendor_ids 先后排序
func (s *CostService) AutoRank(ctx context.Context, nominationID string, req *AutoRankRequest) (*entity.CostCompetencyRow, error) {
	source, err := s.repo.FindRowByID(ctx, req.SourceRowID)
	if err != nil {
		return nil, err
	}
	if source.NominationID != nominationID {
		return nil, errors.New("成本行不属于该提名")
	}
	if source.IsRanking {
		return nil, errors.New("名次行不能再次排名")
	}

	ranks := scoring.Rank(req.VendorIDs, source.VendorValues())
	if len(ranks) == 0 {
		return nil, errors.New("该行没有可排名的数值")
	}

	component := req.Component
	if component == "" {
		component = source.Component + " Ranking"
	}
	values := make(map[string]float64, len(ranks))
	for vendorID, rank := range ranks {
		values[vendorID] = float64(rank)
	}

	return s.SaveRow(ctx, nominationID, &CostRowRequest{
		Component: component,
		Values:    values,
		IsRanking: true,
		SortOrder: source.SortOrder + 1,
	})
}
