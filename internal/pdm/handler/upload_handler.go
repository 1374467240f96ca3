package handler

import (
	"github.com/bitfantasy/vulcan/internal/pdm/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler 文件上传处理器
type UploadHandler struct {
	storage *service.StorageService
}

func NewUploadHandler(storage *service.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// maxUploadSize 单文件上传上限 100MB
const maxUploadSize = 100 << 20

// Upload 上传文件到对象存储
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}
	if fileHeader.Size > maxUploadSize {
		BadRequest(c, "文件大小超过限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.storage.Upload(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		InternalError(c, "上传文件失败: "+err.Error())
		return
	}
	Created(c, result)
}
