package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQService 询价服务
type RFQService struct {
	repo        *repository.RFQRepository
	vendorRepo  *repository.VendorRepository
	evalSvc     *EvaluationService
	activityLog *repository.ActivityLogRepository
}

func NewRFQService(repo *repository.RFQRepository, vendorRepo *repository.VendorRepository, evalSvc *EvaluationService) *RFQService {
	return &RFQService{repo: repo, vendorRepo: vendorRepo, evalSvc: evalSvc}
}

func (s *RFQService) SetActivityLogRepo(repo *repository.ActivityLogRepository) {
	s.activityLog = repo
}

// CreateRFQRequest 创建询价单请求
type CreateRFQRequest struct {
	ProjectID    string     `json:"project_id"`
	NominationID *string    `json:"nomination_id"`
	MaterialName string     `json:"material_name" binding:"required"`
	Spec         string     `json:"spec"`
	TargetQty    int        `json:"target_qty"`
	Deadline     *time.Time `json:"deadline"`
}

// UpdateRFQRequest 更新询价单请求
type UpdateRFQRequest struct {
	MaterialName *string    `json:"material_name"`
	Spec         *string    `json:"spec"`
	TargetQty    *int       `json:"target_qty"`
	Status       *string    `json:"status"`
	Deadline     *time.Time `json:"deadline"`
}

// QuoteRequest 报价录入请求
type QuoteRequest struct {
	VendorID     string          `json:"vendor_id" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	Currency     string          `json:"currency"`
	MOQ          *int            `json:"moq"`
	LeadTimeDays *int            `json:"lead_time_days"`
	ToolingCost  decimal.Decimal `json:"tooling_cost"`
	SampleCost   decimal.Decimal `json:"sample_cost"`
	ValidUntil   *time.Time      `json:"valid_until"`
	Notes        string          `json:"notes"`
}

// List 获取询价单列表
func (s *RFQService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取询价单详情
func (s *RFQService) Get(ctx context.Context, id string) (*entity.RFQ, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建询价单
func (s *RFQService) Create(ctx context.Context, userID string, req *CreateRFQRequest) (*entity.RFQ, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	targetQty := req.TargetQty
	if targetQty <= 0 {
		targetQty = 1
	}

	rfq := &entity.RFQ{
		ID:           uuid.New().String()[:32],
		Code:         code,
		ProjectID:    req.ProjectID,
		NominationID: req.NominationID,
		MaterialName: req.MaterialName,
		Spec:         req.Spec,
		TargetQty:    targetQty,
		Status:       entity.RFQStatusDraft,
		Deadline:     req.Deadline,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(ctx, rfq); err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.Code, "create", "", rfq.Status,
			"创建询价单: "+rfq.MaterialName, userID, "")
	}
	return rfq, nil
}

// Update 更新询价单
func (s *RFQService) Update(ctx context.Context, id string, req *UpdateRFQRequest) (*entity.RFQ, error) {
	rfq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfq.Status == entity.RFQStatusClosed {
		return nil, errors.New("已关闭的询价单不能修改")
	}

	if req.MaterialName != nil {
		rfq.MaterialName = *req.MaterialName
	}
	if req.Spec != nil {
		rfq.Spec = *req.Spec
	}
	if req.TargetQty != nil && *req.TargetQty > 0 {
		rfq.TargetQty = *req.TargetQty
	}
	if req.Deadline != nil {
		rfq.Deadline = req.Deadline
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.RFQStatusDraft, entity.RFQStatusSent, entity.RFQStatusQuoted, entity.RFQStatusClosed:
			rfq.Status = *req.Status
		default:
			return nil, errors.New("无效的询价单状态")
		}
	}
	rfq.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

// AddQuote 录入供应商报价
func (s *RFQService) AddQuote(ctx context.Context, rfqID, userID string, req *QuoteRequest) (*entity.RFQQuote, error) {
	rfq, err := s.repo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status == entity.RFQStatusClosed {
		return nil, errors.New("已关闭的询价单不能录入报价")
	}
	if req.UnitPrice.IsNegative() || req.ToolingCost.IsNegative() || req.SampleCost.IsNegative() {
		return nil, errors.New("报价金额不能为负数")
	}

	vendor, err := s.vendorRepo.FindByID(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "CNY"
	}

	quote := &entity.RFQQuote{
		ID:           uuid.New().String()[:32],
		RFQID:        rfqID,
		VendorID:     vendor.ID,
		VendorName:   vendor.Name,
		UnitPrice:    req.UnitPrice,
		Currency:     currency,
		MOQ:          req.MOQ,
		LeadTimeDays: req.LeadTimeDays,
		ToolingCost:  req.ToolingCost,
		SampleCost:   req.SampleCost,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
		QuotedAt:     time.Now(),
	}
	if err := s.repo.CreateQuote(ctx, quote); err != nil {
		return nil, err
	}

	// 收到首个报价后状态推进到 quoted
	if rfq.Status == entity.RFQStatusDraft || rfq.Status == entity.RFQStatusSent {
		rfq.Status = entity.RFQStatusQuoted
		rfq.UpdatedAt = time.Now()
		s.repo.Update(ctx, rfq)
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.Code, "quote", "", "",
			"录入报价: "+vendor.Name, userID, "")
	}
	return quote, nil
}

// UpdateQuote 更新报价
func (s *RFQService) UpdateQuote(ctx context.Context, quoteID string, req *QuoteRequest) (*entity.RFQQuote, error) {
	quote, err := s.repo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if req.UnitPrice.IsNegative() || req.ToolingCost.IsNegative() || req.SampleCost.IsNegative() {
		return nil, errors.New("报价金额不能为负数")
	}

	quote.UnitPrice = req.UnitPrice
	if req.Currency != "" {
		quote.Currency = req.Currency
	}
	quote.MOQ = req.MOQ
	quote.LeadTimeDays = req.LeadTimeDays
	quote.ToolingCost = req.ToolingCost
	quote.SampleCost = req.SampleCost
	quote.ValidUntil = req.ValidUntil
	quote.Notes = req.Notes
	quote.UpdatedAt = time.Now()

	if err := s.repo.UpdateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// SelectQuote 选定报价
func (s *RFQService) SelectQuote(ctx context.Context, rfqID, quoteID, userID string) error {
	rfq, err := s.repo.FindByID(ctx, rfqID)
	if err != nil {
		return err
	}
	quote, err := s.repo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		return err
	}
	if quote.RFQID != rfqID {
		return errors.New("报价不属于该询价单")
	}

	if err := s.repo.SelectQuote(ctx, rfqID, quoteID); err != nil {
		return err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.Code, "select_quote", "", "",
			"选定报价: "+quote.VendorName, userID, "")
	}
	return nil
}

// LandedCostRow 到岸成本对比中一个报价的摊销结果
type LandedCostRow struct {
	QuoteID        string          `json:"quote_id"`
	VendorID       string          `json:"vendor_id"`
	VendorName     string          `json:"vendor_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	OneTimeCost    decimal.Decimal `json:"one_time_cost"`
	LandedUnitCost decimal.Decimal `json:"landed_unit_cost"`
	Currency       string          `json:"currency"`
	IsSelected     bool            `json:"is_selected"`
	Rank           int             `json:"rank"`
}

// LandedCostComparison 到岸成本对比：一次性费用按目标数量摊销到单价
// 按到岸单价升序排名，同价按报价先后排序
func (s *RFQService) LandedCostComparison(ctx context.Context, rfqID string) ([]LandedCostRow, error) {
	rfq, err := s.repo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	rows := make([]LandedCostRow, 0, len(rfq.Quotes))
	for _, q := range rfq.Quotes {
		rows = append(rows, LandedCostRow{
			QuoteID:        q.ID,
			VendorID:       q.VendorID,
			VendorName:     q.VendorName,
			UnitPrice:      q.UnitPrice,
			OneTimeCost:    q.ToolingCost.Add(q.SampleCost),
			LandedUnitCost: q.LandedUnitCost(rfq.TargetQty),
			Currency:       q.Currency,
			IsSelected:     q.IsSelected,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LandedUnitCost.LessThan(rows[j].LandedUnitCost)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// ConvertToNomination 把选定报价的供应商带入提名评价
// 询价单须已关联提名且已选定报价
func (s *RFQService) ConvertToNomination(ctx context.Context, rfqID, userID string) (*entity.VendorEvaluation, error) {
	rfq, err := s.repo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.NominationID == nil || *rfq.NominationID == "" {
		return nil, errors.New("询价单未关联提名")
	}

	var selected *entity.RFQQuote
	for i := range rfq.Quotes {
		if rfq.Quotes[i].IsSelected {
			selected = &rfq.Quotes[i]
			break
		}
	}
	if selected == nil {
		return nil, errors.New("询价单尚未选定报价")
	}

	eval, err := s.evalSvc.Ensure(ctx, *rfq.NominationID, selected.VendorID, userID)
	if err != nil {
		return nil, err
	}

	if s.activityLog != nil {
		s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.Code, "convert", "", "",
			"报价供应商带入提名: "+selected.VendorName, userID, "")
	}
	return eval, nil
}
