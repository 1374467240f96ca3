package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deleteRetries 级联删除每一步的最大尝试次数
const deleteRetries = 3

// ProjectService 项目服务
type ProjectService struct {
	repo *repository.ProjectRepository
	db   *gorm.DB
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo, db: repo.DB()}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	OwnerID      string     `json:"owner_id"`
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	OwnerID      *string    `json:"owner_id"`
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`
	Progress     *int       `json:"progress"`
}

// List 获取项目列表
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取项目详情
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建项目
func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = userID
	}

	project := &entity.Project{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		Status:       entity.ProjectStatusPlanning,
		Description:  req.Description,
		OwnerID:      ownerID,
		PlannedStart: req.PlannedStart,
		PlannedEnd:   req.PlannedEnd,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, project.ID)
}

// Update 更新项目
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.ProjectStatusPlanning, entity.ProjectStatusEVT, entity.ProjectStatusDVT,
			entity.ProjectStatusPVT, entity.ProjectStatusMP,
			entity.ProjectStatusCompleted, entity.ProjectStatusCancelled:
			project.Status = *req.Status
		default:
			return nil, errors.New("无效的项目状态")
		}
		if *req.Status == entity.ProjectStatusCompleted {
			now := time.Now()
			project.ActualEnd = &now
		}
	}
	if req.OwnerID != nil {
		project.OwnerID = *req.OwnerID
	}
	if req.PlannedStart != nil {
		project.PlannedStart = req.PlannedStart
	}
	if req.PlannedEnd != nil {
		project.PlannedEnd = req.PlannedEnd
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, errors.New("进度必须在0到100之间")
		}
		project.Progress = *req.Progress
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete 删除项目及其下属数据
// 自底向上逐步删除，每一步最多重试三次，残留失败合并返回
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	// 提名和询价单的操作日志按实体ID清理，先于删除采集
	var logEntityIDs []string
	s.db.WithContext(ctx).
		Raw(`SELECT id FROM sourcing_nominations WHERE project_id = ?
			UNION SELECT id FROM sourcing_rfqs WHERE project_id = ?`, id, id).
		Scan(&logEntityIDs)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"bom items", s.execDelete(ctx, `DELETE FROM bom_items WHERE bom_id IN (SELECT id FROM project_boms WHERE project_id = ?)`, id)},
		{"boms", s.execDelete(ctx, `DELETE FROM project_boms WHERE project_id = ?`, id)},
		{"criteria scores", s.execDelete(ctx, `DELETE FROM sourcing_criteria_scores WHERE evaluation_id IN (SELECT id FROM sourcing_vendor_evaluations WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?))`, id)},
		{"evaluations", s.execDelete(ctx, `DELETE FROM sourcing_vendor_evaluations WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"capability scores", s.execDelete(ctx, `DELETE FROM sourcing_capability_scores WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"capability criteria", s.execDelete(ctx, `DELETE FROM sourcing_capability_criteria WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"rating rows", s.execDelete(ctx, `DELETE FROM sourcing_vendor_rating_rows WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"cost rows", s.execDelete(ctx, `DELETE FROM sourcing_cost_competency_rows WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"nomination criteria", s.execDelete(ctx, `DELETE FROM sourcing_nomination_criteria WHERE nomination_id IN (SELECT id FROM sourcing_nominations WHERE project_id = ?)`, id)},
		{"nominations", s.execDelete(ctx, `DELETE FROM sourcing_nominations WHERE project_id = ?`, id)},
		{"rfq quotes", s.execDelete(ctx, `DELETE FROM sourcing_rfq_quotes WHERE rfq_id IN (SELECT id FROM sourcing_rfqs WHERE project_id = ?)`, id)},
		{"rfqs", s.execDelete(ctx, `DELETE FROM sourcing_rfqs WHERE project_id = ?`, id)},
		{"activity logs", func() error {
			if len(logEntityIDs) == 0 {
				return nil
			}
			return s.db.WithContext(ctx).
				Exec(`DELETE FROM sourcing_activity_logs WHERE entity_id IN ?`, logEntityIDs).Error
		}},
		{"project", s.execDelete(ctx, `DELETE FROM projects WHERE id = ?`, id)},
	}

	var errs []error
	for _, step := range steps {
		var lastErr error
		for attempt := 1; attempt <= deleteRetries; attempt++ {
			lastErr = step.fn()
			if lastErr == nil {
				break
			}
			zap.L().Warn("project cascade delete step failed",
				zap.String("project_id", id),
				zap.String("step", step.name),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}
		if lastErr != nil {
			errs = append(errs, fmt.Errorf("删除%s失败: %w", step.name, lastErr))
		}
	}

	return errors.Join(errs...)
}

func (s *ProjectService) execDelete(ctx context.Context, sql string, args ...interface{}) func() error {
	return func() error {
		return s.db.WithContext(ctx).Exec(sql, args...).Error
	}
}
