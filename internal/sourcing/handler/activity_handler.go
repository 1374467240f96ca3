package handler

import (
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/gin-gonic/gin"
)

// ActivityHandler 操作日志处理器
type ActivityHandler struct {
	repo *repository.ActivityLogRepository
}

func NewActivityHandler(repo *repository.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// ListActivities 某实体的操作日志
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	entityType := c.Param("entityType")
	entityID := c.Param("entityId")
	page, pageSize := GetPagination(c)

	items, total, err := h.repo.FindByEntity(c.Request.Context(), entityType, entityID, page, pageSize)
	if err != nil {
		InternalError(c, "获取操作日志失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}
