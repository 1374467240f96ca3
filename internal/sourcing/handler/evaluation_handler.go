package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EvaluationHandler 供应商评价处理器
type EvaluationHandler struct {
	svc *service.EvaluationService
}

func NewEvaluationHandler(svc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

// ListEvaluations 评价列表
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"nomination_id": c.Query("nomination_id"),
		"vendor_id":     c.Query("vendor_id"),
		"status":        c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取评价列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetEvaluation 评价记录详情
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id := c.Param("id")
	eval, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "评价不存在")
		return
	}
	Success(c, eval)
}

// UpdateEvaluation 更新评价结论
func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	eval, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评价不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, eval)
}

// GetDetail 提名下某供应商的评价详情，带实时维度得分率
func (h *EvaluationHandler) GetDetail(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")

	detail, err := h.svc.Detail(c.Request.Context(), nominationID, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评价不存在")
			return
		}
		InternalError(c, "获取评价详情失败: "+err.Error())
		return
	}
	Success(c, detail)
}

// GetHistory 提名下某供应商的评价修订历史
func (h *EvaluationHandler) GetHistory(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")

	items, err := h.svc.History(c.Request.Context(), nominationID, vendorID)
	if err != nil {
		InternalError(c, "获取评价历史失败: "+err.Error())
		return
	}
	Success(c, items)
}

// BatchSaveScores 批量保存评分明细
func (h *EvaluationHandler) BatchSaveScores(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	var req service.BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	eval, err := h.svc.BatchSaveScores(c.Request.Context(), nominationID, vendorID, GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名或供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, eval)
}

// Compute 重算加权总分并生成新修订
func (h *EvaluationHandler) Compute(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")

	eval, err := h.svc.Compute(c.Request.Context(), nominationID, vendorID, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名或供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, eval)
}

// GetComparison 提名下全部供应商横向对比
func (h *EvaluationHandler) GetComparison(c *gin.Context) {
	nominationID := c.Param("id")

	result, err := h.svc.Comparison(c.Request.Context(), nominationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		InternalError(c, "获取对比失败: "+err.Error())
		return
	}
	Success(c, result)
}

// ExportComparison 导出供应商对比表Excel
func (h *EvaluationHandler) ExportComparison(c *gin.Context) {
	nominationID := c.Param("id")

	f, filename, err := h.svc.ExportComparison(c.Request.Context(), nominationID)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		zap.L().Error("write comparison export failed", zap.Error(err))
	}
}
