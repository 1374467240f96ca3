package handler

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/bitfantasy/vulcan/internal/pdm/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// BOMHandler BOM处理器
type BOMHandler struct {
	svc *service.BOMService
}

func NewBOMHandler(svc *service.BOMService) *BOMHandler {
	return &BOMHandler{svc: svc}
}

// ListBOMs BOM列表
func (h *BOMHandler) ListBOMs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id": c.Query("project_id"),
		"status":     c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取BOM列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetBOM BOM详情
func (h *BOMHandler) GetBOM(c *gin.Context) {
	id := c.Param("id")
	bom, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "BOM不存在")
		return
	}
	Success(c, bom)
}

// CreateBOM 创建BOM
func (h *BOMHandler) CreateBOM(c *gin.Context) {
	var req service.CreateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bom, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "项目不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, bom)
}

// UpdateBOM 更新BOM
func (h *BOMHandler) UpdateBOM(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bom, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, bom)
}

// DeleteBOM 删除BOM
func (h *BOMHandler) DeleteBOM(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}

// AddItem 添加BOM行项
func (h *BOMHandler) AddItem(c *gin.Context) {
	bomID := c.Param("id")
	var req service.BOMItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), bomID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, item)
}

// UpdateItem 更新BOM行项
func (h *BOMHandler) UpdateItem(c *gin.Context) {
	itemID := c.Param("itemId")
	var req service.BOMItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), itemID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM行项不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, item)
}

// DeleteItem 删除BOM行项
func (h *BOMHandler) DeleteItem(c *gin.Context) {
	itemID := c.Param("itemId")
	if err := h.svc.DeleteItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM行项不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}

// ExportBOM 导出BOM为Excel
func (h *BOMHandler) ExportBOM(c *gin.Context) {
	id := c.Param("id")

	f, filename, err := h.svc.Export(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		InternalError(c, "导出BOM失败: "+err.Error())
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		zap.L().Error("write excel response", zap.Error(err))
	}
}

// ImportExcel 从Excel导入BOM行项
func (h *BOMHandler) ImportExcel(c *gin.Context) {
	id := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "解析Excel失败: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.svc.ImportExcel(c.Request.Context(), id, f)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// ImportTSV 从PADS导出的TSV文件导入BOM行项
func (h *BOMHandler) ImportTSV(c *gin.Context) {
	id := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.svc.ImportTSV(c.Request.Context(), id, file)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// AttachFile 为BOM行项挂载3D文件
func (h *BOMHandler) AttachFile(c *gin.Context) {
	itemID := c.Param("itemId")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	item, err := h.svc.AttachFile(c.Request.Context(), itemID, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM行项不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, item)
}

// AnalyzeGeometry 触发行项3D文件几何分析
func (h *BOMHandler) AnalyzeGeometry(c *gin.Context) {
	itemID := c.Param("itemId")

	item, err := h.svc.AnalyzeGeometry(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "BOM行项不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, item)
}
