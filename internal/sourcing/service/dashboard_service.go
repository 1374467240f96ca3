package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 看板汇总缓存时长，写操作不主动失效，靠短TTL收敛
const dashboardCacheTTL = 60 * time.Second

// DashboardService 采购看板服务
type DashboardService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client) *DashboardService {
	return &DashboardService{db: db, rdb: rdb}
}

// NominationProgress 提名进度汇总
type NominationProgress struct {
	TotalNominations      int `json:"total_nominations"`
	DraftNominations      int `json:"draft_nominations"`
	EvaluatingNominations int `json:"evaluating_nominations"`
	NominatedNominations  int `json:"nominated_nominations"`
	ActiveVendors         int `json:"active_vendors"`
	PendingVendors        int `json:"pending_vendors"`
	ActiveEvaluations     int `json:"active_evaluations"`
	OpenRFQs              int `json:"open_rfqs"`
}

// GetNominationProgress 获取提名进度汇总，短TTL缓存
func (s *DashboardService) GetNominationProgress(ctx context.Context) (*NominationProgress, error) {
	const cacheKey = "sourcing:dashboard:progress"

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var progress NominationProgress
			if err := json.Unmarshal([]byte(cached), &progress); err == nil {
				return &progress, nil
			}
		}
	}

	progress := &NominationProgress{}

	row := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN status = 'draft' THEN 1 END) as draft,
			COUNT(CASE WHEN status = 'evaluating' THEN 1 END) as evaluating,
			COUNT(CASE WHEN status = 'nominated' THEN 1 END) as nominated
		FROM sourcing_nominations
	`).Row()
	if err := row.Scan(
		&progress.TotalNominations,
		&progress.DraftNominations,
		&progress.EvaluatingNominations,
		&progress.NominatedNominations,
	); err != nil {
		return nil, err
	}

	row = s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(CASE WHEN status = 'active' THEN 1 END) as active,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending
		FROM sourcing_vendors
	`).Row()
	if err := row.Scan(&progress.ActiveVendors, &progress.PendingVendors); err != nil {
		return nil, err
	}

	var activeEvals int64
	s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM sourcing_vendor_evaluations WHERE status = 'active'`,
	).Scan(&activeEvals)
	progress.ActiveEvaluations = int(activeEvals)

	var openRFQs int64
	s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM sourcing_rfqs WHERE status IN ('draft', 'sent', 'quoted')`,
	).Scan(&openRFQs)
	progress.OpenRFQs = int(openRFQs)

	if s.rdb != nil {
		if data, err := json.Marshal(progress); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
				zap.L().Warn("cache dashboard progress failed", zap.Error(err))
			}
		}
	}

	return progress, nil
}
