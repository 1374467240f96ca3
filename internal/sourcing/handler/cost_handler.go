package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// CostHandler 成本对比表处理器
type CostHandler struct {
	svc *service.CostService
}

func NewCostHandler(svc *service.CostService) *CostHandler {
	return &CostHandler{svc: svc}
}

// GetCostTable 成本对比表
func (h *CostHandler) GetCostTable(c *gin.Context) {
	nominationID := c.Param("id")
	includeDraft := c.Query("include_draft") == "true"

	result, err := h.svc.GetTable(c.Request.Context(), nominationID, includeDraft)
	if err != nil {
		InternalError(c, "获取成本对比表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// SaveCostRow 创建或更新成本行
func (h *CostHandler) SaveCostRow(c *gin.Context) {
	nominationID := c.Param("id")
	var req service.CostRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	row, err := h.svc.SaveRow(c.Request.Context(), nominationID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, row)
}

// DeleteCostRow 删除成本行
func (h *CostHandler) DeleteCostRow(c *gin.Context) {
	rowID := c.Param("rowId")
	if err := h.svc.DeleteRow(c.Request.Context(), rowID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "成本行不存在")
			return
		}
		InternalError(c, "删除成本行失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// CommitCostTable 提交成本对比表
func (h *CostHandler) CommitCostTable(c *gin.Context) {
	nominationID := c.Param("id")
	if err := h.svc.Commit(c.Request.Context(), nominationID, GetUserID(c)); err != nil {
		InternalError(c, "提交成本对比表失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// DiscardCostDrafts 丢弃成本行草稿
func (h *CostHandler) DiscardCostDrafts(c *gin.Context) {
	nominationID := c.Param("id")
	if err := h.svc.DiscardDrafts(c.Request.Context(), nominationID); err != nil {
		InternalError(c, "丢弃草稿失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// AutoRank 按某个数值行自动生成名次行
func (h *CostHandler) AutoRank(c *gin.Context) {
	nominationID := c.Param("id")
	var req service.AutoRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	row, err := h.svc.AutoRank(c.Request.Context(), nominationID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "成本行不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, row)
}
