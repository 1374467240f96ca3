package handler

import (
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 采购看板处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetNominationProgress 提名进度汇总
func (h *DashboardHandler) GetNominationProgress(c *gin.Context) {
	progress, err := h.svc.GetNominationProgress(c.Request.Context())
	if err != nil {
		InternalError(c, "获取看板数据失败: "+err.Error())
		return
	}
	Success(c, progress)
}
