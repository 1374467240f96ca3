package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// MatrixHandler 能力矩阵与评级矩阵处理器
type MatrixHandler struct {
	svc *service.MatrixService
}

func NewMatrixHandler(svc *service.MatrixService) *MatrixHandler {
	return &MatrixHandler{svc: svc}
}

// GetCapabilityMatrix 能力矩阵
func (h *MatrixHandler) GetCapabilityMatrix(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	includeDraft := c.Query("include_draft") == "true"

	result, err := h.svc.GetCapabilityMatrix(c.Request.Context(), nominationID, vendorID, includeDraft)
	if err != nil {
		InternalError(c, "获取能力矩阵失败: "+err.Error())
		return
	}
	Success(c, result)
}

// AddCapabilityCriterion 创建能力评估项
func (h *MatrixHandler) AddCapabilityCriterion(c *gin.Context) {
	nominationID := c.Param("id")
	var req service.CapabilityCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	criterion, err := h.svc.AddCapabilityCriterion(c.Request.Context(), nominationID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, criterion)
}

// RemoveCapabilityCriterion 删除能力评估项
func (h *MatrixHandler) RemoveCapabilityCriterion(c *gin.Context) {
	criterionID := c.Param("criterionId")
	if err := h.svc.RemoveCapabilityCriterion(c.Request.Context(), criterionID); err != nil {
		InternalError(c, "删除能力评估项失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// SaveCapabilityScores 保存某供应商的能力打分
func (h *MatrixHandler) SaveCapabilityScores(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	var req service.SaveCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.SaveCapabilityScores(c.Request.Context(), nominationID, vendorID, GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名或供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// DiscardCapabilityDrafts 丢弃能力打分草稿
func (h *MatrixHandler) DiscardCapabilityDrafts(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	if err := h.svc.DiscardCapabilityDrafts(c.Request.Context(), nominationID, vendorID); err != nil {
		InternalError(c, "丢弃草稿失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// GetRatingMatrix 评级矩阵
func (h *MatrixHandler) GetRatingMatrix(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	includeDraft := c.Query("include_draft") == "true"

	result, err := h.svc.GetRatingMatrix(c.Request.Context(), nominationID, vendorID, includeDraft)
	if err != nil {
		InternalError(c, "获取评级矩阵失败: "+err.Error())
		return
	}
	Success(c, result)
}

// InitRatingMatrix 用默认考察项初始化评级矩阵
func (h *MatrixHandler) InitRatingMatrix(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")

	result, err := h.svc.InitRatingMatrix(c.Request.Context(), nominationID, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		InternalError(c, "初始化评级矩阵失败: "+err.Error())
		return
	}
	Created(c, result)
}

// SaveRatingRows 保存评级矩阵行
func (h *MatrixHandler) SaveRatingRows(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	var req service.SaveRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.SaveRatingRows(c.Request.Context(), nominationID, vendorID, GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评级矩阵行不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// DiscardRatingDrafts 丢弃评级矩阵草稿
func (h *MatrixHandler) DiscardRatingDrafts(c *gin.Context) {
	nominationID := c.Param("id")
	vendorID := c.Param("vendorId")
	if err := h.svc.DiscardRatingDrafts(c.Request.Context(), nominationID, vendorID); err != nil {
		InternalError(c, "丢弃草稿失败: "+err.Error())
		return
	}
	Success(c, nil)
}
