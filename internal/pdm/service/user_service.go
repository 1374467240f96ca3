package service

import (
	"context"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"github.com/bitfantasy/vulcan/internal/pdm/repository"
)

// UserService 用户服务
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Mobile    *string `json:"mobile"`
	AvatarURL *string `json:"avatar_url"`
	Status    *string `json:"status"`
}

// AssignRolesRequest 分配角色请求
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids" binding:"required"`
}

// List 获取用户列表
func (s *UserService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取用户详情，带角色权限
func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.LoadRolesAndPermissions(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 更新用户
func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Mobile != nil {
		user.Mobile = *req.Mobile
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AssignRoles 重新分配用户角色
func (s *UserService) AssignRoles(ctx context.Context, id string, req *AssignRolesRequest) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClearRoles(ctx, id); err != nil {
		return nil, err
	}
	for _, roleID := range req.RoleIDs {
		if err := s.repo.AssignRole(ctx, id, roleID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.LoadRolesAndPermissions(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListRoles 获取全部角色
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.repo.ListRoles(ctx)
}
