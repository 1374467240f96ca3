package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// RFQHandler 询价处理器
type RFQHandler struct {
	svc *service.RFQService
}

func NewRFQHandler(svc *service.RFQService) *RFQHandler {
	return &RFQHandler{svc: svc}
}

// ListRFQs 询价单列表
func (h *RFQHandler) ListRFQs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":        c.Query("status"),
		"project_id":    c.Query("project_id"),
		"nomination_id": c.Query("nomination_id"),
		"keyword":       c.Query("keyword"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取询价单列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetRFQ 询价单详情
func (h *RFQHandler) GetRFQ(c *gin.Context) {
	id := c.Param("id")
	rfq, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "询价单不存在")
		return
	}
	Success(c, rfq)
}

// CreateRFQ 创建询价单
func (h *RFQHandler) CreateRFQ(c *gin.Context) {
	var req service.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rfq, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建询价单失败: "+err.Error())
		return
	}
	Created(c, rfq)
}

// UpdateRFQ 更新询价单
func (h *RFQHandler) UpdateRFQ(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rfq, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "询价单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, rfq)
}

// AddQuote 录入供应商报价
func (h *RFQHandler) AddQuote(c *gin.Context) {
	id := c.Param("id")
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.svc.AddQuote(c.Request.Context(), id, GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "询价单或供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, quote)
}

// UpdateQuote 更新报价
func (h *RFQHandler) UpdateQuote(c *gin.Context) {
	quoteID := c.Param("quoteId")
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.svc.UpdateQuote(c.Request.Context(), quoteID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "报价不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, quote)
}

// SelectQuote 选定报价
func (h *RFQHandler) SelectQuote(c *gin.Context) {
	id := c.Param("id")
	quoteID := c.Param("quoteId")

	if err := h.svc.SelectQuote(c.Request.Context(), id, quoteID, GetUserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "询价单或报价不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}

// GetLandedCostComparison 到岸成本对比
func (h *RFQHandler) GetLandedCostComparison(c *gin.Context) {
	id := c.Param("id")
	rows, err := h.svc.LandedCostComparison(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "询价单不存在")
			return
		}
		InternalError(c, "获取到岸成本对比失败: "+err.Error())
		return
	}
	Success(c, rows)
}

// ConvertToNomination 把选定报价的供应商带入提名评价
func (h *RFQHandler) ConvertToNomination(c *gin.Context) {
	id := c.Param("id")
	eval, err := h.svc.ConvertToNomination(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "询价单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, eval)
}
