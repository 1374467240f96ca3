package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// VendorHandler 供应商处理器
type VendorHandler struct {
	svc *service.VendorService
}

func NewVendorHandler(svc *service.VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// ListVendors 供应商列表
func (h *VendorHandler) ListVendors(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"vendor_type": c.Query("vendor_type"),
		"keyword":     c.Query("keyword"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetVendor 供应商详情
func (h *VendorHandler) GetVendor(c *gin.Context) {
	id := c.Param("id")
	vendor, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "供应商不存在")
		return
	}
	Success(c, vendor)
}

// CreateVendor 创建供应商
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建供应商失败: "+err.Error())
		return
	}
	Created(c, vendor)
}

// UpdateVendor 更新供应商
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, vendor)
}

// ApproveVendor 审核通过供应商
func (h *VendorHandler) ApproveVendor(c *gin.Context) {
	id := c.Param("id")
	vendor, err := h.svc.Approve(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, vendor)
}

// ArchiveVendor 归档供应商
func (h *VendorHandler) ArchiveVendor(c *gin.Context) {
	id := c.Param("id")
	vendor, err := h.svc.Archive(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, vendor)
}

// GetVendorScores 供应商历史得分汇总
func (h *VendorHandler) GetVendorScores(c *gin.Context) {
	id := c.Param("id")
	summary, err := h.svc.GetScoreSummary(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "获取得分汇总失败: "+err.Error())
		return
	}
	Success(c, summary)
}

// RefreshVendorScores 把历史评价均分回写到供应商档案
func (h *VendorHandler) RefreshVendorScores(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.RefreshScores(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "刷新得分失败: "+err.Error())
		return
	}
	Success(c, nil)
}
