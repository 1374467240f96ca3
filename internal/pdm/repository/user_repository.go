package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"gorm.io/gorm"
)

// UserRepository 用户仓库
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND deleted_at IS NULL", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete 软删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}

// FindAll 获取用户列表
func (r *UserRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.User{}).Where("deleted_at IS NULL")

	if keyword := filters["keyword"]; keyword != "" {
		query = query.Where("name LIKE ? OR username LIKE ? OR email LIKE ?",
			"%"+keyword+"%", "%"+keyword+"%", "%"+keyword+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&users).Error

	return users, total, err
}

// AssignRole 分配角色给用户
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	userRole := entity.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&userRole).Error
}

// ClearRoles 清空用户角色
func (r *UserRepository) ClearRoles(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.UserRole{}).Error
}

// FindRoleByCode 根据编码查找角色
func (r *UserRepository) FindRoleByCode(ctx context.Context, code string) (*entity.Role, error) {
	var role entity.Role
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListRoles 获取所有角色
func (r *UserRepository) ListRoles(ctx context.Context) ([]entity.Role, error) {
	var roles []entity.Role
	err := r.db.WithContext(ctx).
		Order("is_system DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

// LoadRolesAndPermissions 加载用户角色和权限编码
func (r *UserRepository) LoadRolesAndPermissions(ctx context.Context, user *entity.User) error {
	var roles []entity.Role
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", user.ID).
		Find(&roles).Error
	if err != nil {
		return err
	}
	user.Roles = roles

	roleCodes := make([]string, len(roles))
	roleIDs := make([]string, len(roles))
	for i, role := range roles {
		roleCodes[i] = role.Code
		roleIDs[i] = role.ID
	}
	user.RoleCodes = roleCodes

	if len(roleIDs) > 0 {
		var permissions []entity.Permission
		err = r.db.WithContext(ctx).
			Table("permissions").
			Joins("JOIN role_permissions ON permissions.id = role_permissions.permission_id").
			Where("role_permissions.role_id IN ?", roleIDs).
			Distinct().
			Find(&permissions).Error
		if err != nil {
			return err
		}

		permCodes := make([]string, len(permissions))
		for i, perm := range permissions {
			permCodes[i] = perm.Code
		}
		user.PermissionCodes = permCodes
	}

	return nil
}
