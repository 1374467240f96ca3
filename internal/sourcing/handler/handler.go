package handler

import (
	"strconv"

	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-gonic/gin"
)

// Handlers 采购域处理器集合
type Handlers struct {
	Vendor     *VendorHandler
	Nomination *NominationHandler
	Evaluation *EvaluationHandler
	Matrix     *MatrixHandler
	Cost       *CostHandler
	RFQ        *RFQHandler
	Dashboard  *DashboardHandler
	Activity   *ActivityHandler
}

// NewHandlers 创建采购域处理器集合
func NewHandlers(
	vendorSvc *service.VendorService,
	nominationSvc *service.NominationService,
	evaluationSvc *service.EvaluationService,
	matrixSvc *service.MatrixService,
	costSvc *service.CostService,
	rfqSvc *service.RFQService,
	dashboardSvc *service.DashboardService,
	activityLogRepo *repository.ActivityLogRepository,
) *Handlers {
	return &Handlers{
		Vendor:     NewVendorHandler(vendorSvc),
		Nomination: NewNominationHandler(nominationSvc),
		Evaluation: NewEvaluationHandler(evaluationSvc),
		Matrix:     NewMatrixHandler(matrixSvc),
		Cost:       NewCostHandler(costSvc),
		RFQ:        NewRFQHandler(rfqSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		Activity:   NewActivityHandler(activityLogRepo),
	}
}

// === 响应辅助函数（与PDM保持一致） ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func ListSuccess(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
