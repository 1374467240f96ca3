package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/scoring"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// NominationHandler 提名处理器
type NominationHandler struct {
	svc *service.NominationService
}

func NewNominationHandler(svc *service.NominationService) *NominationHandler {
	return &NominationHandler{svc: svc}
}

// ListNominations 提名列表
func (h *NominationHandler) ListNominations(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":     c.Query("status"),
		"project_id": c.Query("project_id"),
		"keyword":    c.Query("keyword"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取提名列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetNomination 提名详情
func (h *NominationHandler) GetNomination(c *gin.Context) {
	id := c.Param("id")
	nom, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "提名不存在")
		return
	}
	Success(c, nom)
}

// CreateNomination 创建提名
func (h *NominationHandler) CreateNomination(c *gin.Context) {
	var req service.CreateNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	nom, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建提名失败: "+err.Error())
		return
	}
	Created(c, nom)
}

// UpdateNomination 更新提名
func (h *NominationHandler) UpdateNomination(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	nom, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nom)
}

// GetWeights 提名的维度权重
func (h *NominationHandler) GetWeights(c *gin.Context) {
	id := c.Param("id")
	weights, err := h.svc.GetWeights(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "提名不存在")
		return
	}
	Success(c, weights)
}

// UpdateWeightRequest 修改维度权重请求
type UpdateWeightRequest struct {
	Category string `json:"category" binding:"required"`
	Value    int    `json:"value"`
}

// UpdateWeight 修改单个维度权重，其余两项按比例重分配
func (h *NominationHandler) UpdateWeight(c *gin.Context) {
	id := c.Param("id")
	var req UpdateWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	weights, err := h.svc.UpdateWeight(c.Request.Context(), id, scoring.Category(req.Category), req.Value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, weights)
}

// ListCriteria 评分项定义列表
func (h *NominationHandler) ListCriteria(c *gin.Context) {
	id := c.Param("id")
	result, err := h.svc.ListCriteria(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		InternalError(c, "获取评分项失败: "+err.Error())
		return
	}
	Success(c, result)
}

// CreateCriterion 创建评分项
func (h *NominationHandler) CreateCriterion(c *gin.Context) {
	id := c.Param("id")
	var req service.CriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	criterion, err := h.svc.CreateCriterion(c.Request.Context(), id, &req)
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

// UpdateCriterion 更新评分项
func (h *NominationHandler) UpdateCriterion(c *gin.Context) {
	criterionID := c.Param("criterionId")
	var req service.CriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	criterion, err := h.svc.UpdateCriterion(c.Request.Context(), criterionID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评分项不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, criterion)
}

// DeleteCriterion 删除评分项
func (h *NominationHandler) DeleteCriterion(c *gin.Context) {
	criterionID := c.Param("criterionId")
	if err := h.svc.DeleteCriterion(c.Request.Context(), criterionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评分项不存在")
			return
		}
		InternalError(c, "删除评分项失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// NominateRequest 定标请求
type NominateRequest struct {
	VendorID string `json:"vendor_id" binding:"required"`
}

// Nominate 定标
func (h *NominationHandler) Nominate(c *gin.Context) {
	id := c.Param("id")
	var req NominateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	nom, err := h.svc.Nominate(c.Request.Context(), id, req.VendorID, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名或供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nom)
}

// AutoNominate 按综合得分自动定标
func (h *NominationHandler) AutoNominate(c *gin.Context) {
	id := c.Param("id")
	nom, err := h.svc.AutoNominate(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "提名不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nom)
}
