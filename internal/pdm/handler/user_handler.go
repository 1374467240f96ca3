package handler

import (
	"errors"

	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/bitfantasy/vulcan/internal/pdm/service"
	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers 用户列表
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"keyword": c.Query("keyword"),
		"status":  c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取用户列表失败: "+err.Error())
		return
	}
	ListSuccess(c, items, page, pageSize, total)
}

// GetUser 用户详情
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "用户不存在")
		return
	}
	Success(c, user)
}

// UpdateUser 更新用户
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "用户不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, user)
}

// AssignRoles 分配角色
func (h *UserHandler) AssignRoles(c *gin.Context) {
	id := c.Param("id")
	var req service.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.svc.AssignRoles(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "用户不存在")
			return
		}
		InternalError(c, "分配角色失败: "+err.Error())
		return
	}
	Success(c, user)
}

// ListRoles 角色列表
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.svc.ListRoles(c.Request.Context())
	if err != nil {
		InternalError(c, "获取角色列表失败: "+err.Error())
		return
	}
	Success(c, roles)
}
