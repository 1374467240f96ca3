package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/vulcan/internal/config"
	"github.com/bitfantasy/vulcan/internal/middleware"
	"github.com/bitfantasy/vulcan/internal/pdm/entity"
	"github.com/bitfantasy/vulcan/internal/pdm/handler"
	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/bitfantasy/vulcan/internal/pdm/service"
	"github.com/bitfantasy/vulcan/internal/shared/cadengine"
	sourcingentity "github.com/bitfantasy/vulcan/internal/sourcing/entity"
	sourcinghandler "github.com/bitfantasy/vulcan/internal/sourcing/handler"
	sourcingrepo "github.com/bitfantasy/vulcan/internal/sourcing/repository"
	sourcingsvc "github.com/bitfantasy/vulcan/internal/sourcing/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	zapLogger.Info("Starting vulcan service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate 产品数据域实体
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.UserRole{},
		&entity.RolePermission{},
		&entity.Project{},
		&entity.ProjectBOM{},
		&entity.BOMItem{},
	); err != nil {
		zapLogger.Warn("AutoMigrate PDM tables warning", zap.Error(err))
	}

	// AutoMigrate 采购域实体
	if err := db.AutoMigrate(
		&sourcingentity.Vendor{},
		&sourcingentity.VendorContact{},
		&sourcingentity.Nomination{},
		&sourcingentity.NominationCriterion{},
		&sourcingentity.VendorEvaluation{},
		&sourcingentity.CriteriaScoreRow{},
		&sourcingentity.CapabilityCriterion{},
		&sourcingentity.CapabilityScore{},
		&sourcingentity.VendorRatingRow{},
		&sourcingentity.CostCompetencyRow{},
		&sourcingentity.RFQ{},
		&sourcingentity.RFQQuote{},
		&sourcingentity.ActivityLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate sourcing tables warning", zap.Error(err))
	}

	// 补充索引（AutoMigrate不覆盖的复合索引）
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_sourcing_evaluations_nom_vendor ON sourcing_vendor_evaluations(nomination_id, vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_sourcing_criteria_scores_eval ON sourcing_criteria_scores(evaluation_id)",
		"CREATE INDEX IF NOT EXISTS idx_sourcing_capability_scores_nom_vendor ON sourcing_capability_scores(nomination_id, vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_sourcing_rating_rows_nom_vendor ON sourcing_vendor_rating_rows(nomination_id, vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_sourcing_cost_rows_nom ON sourcing_cost_competency_rows(nomination_id)",
		"CREATE INDEX IF NOT EXISTS idx_sourcing_activity_logs_entity ON sourcing_activity_logs(entity_type, entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_bom_items_bom ON bom_items(bom_id)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// Seed: 默认角色
	roleSeeds := []struct{ Code, Name string }{
		{"role_admin", "管理员"},
		{"role_sourcing", "采购工程师"},
		{"role_engineer", "研发工程师"},
		{"role_viewer", "访客"},
	}
	for _, rs := range roleSeeds {
		db.Exec(`INSERT INTO roles (id, code, name, status, is_system, created_at, updated_at)
			VALUES (gen_random_uuid(), ?, ?, 'active', true, NOW(), NOW())
			ON CONFLICT (code) DO NOTHING`, rs.Code, rs.Name)
	}

	// Seed: 基础权限
	permSeeds := []struct{ Code, Name, Module string }{
		{"vendor:write", "供应商管理", "sourcing"},
		{"nomination:write", "提名管理", "sourcing"},
		{"evaluation:write", "评价打分", "sourcing"},
		{"rfq:write", "询价管理", "sourcing"},
		{"project:write", "项目管理", "pdm"},
		{"bom:write", "BOM管理", "pdm"},
		{"user:admin", "用户管理", "pdm"},
	}
	for _, ps := range permSeeds {
		db.Exec(`INSERT INTO permissions (id, code, name, module, created_at)
			VALUES (gen_random_uuid(), ?, ?, ?, NOW())
			ON CONFLICT (code) DO NOTHING`, ps.Code, ps.Name, ps.Module)
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化对象存储（可选，未配置时文件功能降级）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("Failed to init MinIO client, file storage disabled", zap.Error(err))
			minioClient = nil
		}
	}

	// 产品数据域
	repos := repository.NewRepositories(db)
	authSvc := service.NewAuthService(repos.User, rdb, cfg)
	userSvc := service.NewUserService(repos.User)
	projectSvc := service.NewProjectService(repos.Project)
	storageSvc := service.NewStorageService(minioClient, cfg.MinIO.Bucket)
	if err := storageSvc.EnsureBucket(context.Background()); err != nil {
		zapLogger.Warn("Failed to ensure storage bucket", zap.Error(err))
	}
	bomSvc := service.NewBOMService(repos.BOM, repos.Project)
	bomSvc.SetStorage(storageSvc)
	if cfg.CADEngine.BaseURL != "" {
		bomSvc.SetCADClient(cadengine.NewClient(cfg.CADEngine.BaseURL, cfg.CADEngine.Timeout))
	}
	handlers := handler.NewHandlers(authSvc, userSvc, projectSvc, bomSvc, storageSvc)

	// 采购域
	sourcingRepos := sourcingrepo.NewRepositories(db)
	vendorSvc := sourcingsvc.NewVendorService(sourcingRepos.Vendor)
	nominationSvc := sourcingsvc.NewNominationService(sourcingRepos.Nomination, sourcingRepos.Vendor)
	evaluationSvc := sourcingsvc.NewEvaluationService(sourcingRepos.Evaluation, sourcingRepos.Nomination, sourcingRepos.Vendor)
	matrixSvc := sourcingsvc.NewMatrixService(sourcingRepos.Matrix, sourcingRepos.Nomination, evaluationSvc)
	costSvc := sourcingsvc.NewCostService(sourcingRepos.Cost, sourcingRepos.Nomination, evaluationSvc)
	rfqSvc := sourcingsvc.NewRFQService(sourcingRepos.RFQ, sourcingRepos.Vendor, evaluationSvc)
	dashboardSvc := sourcingsvc.NewDashboardService(db, rdb)

	// 操作日志与评价联动
	vendorSvc.SetActivityLogRepo(sourcingRepos.ActivityLog)
	nominationSvc.SetActivityLogRepo(sourcingRepos.ActivityLog)
	nominationSvc.SetEvaluationService(evaluationSvc)
	evaluationSvc.SetActivityLogRepo(sourcingRepos.ActivityLog)
	rfqSvc.SetActivityLogRepo(sourcingRepos.ActivityLog)

	sourcingHandlers := sourcinghandler.NewHandlers(
		vendorSvc, nominationSvc, evaluationSvc, matrixSvc,
		costSvc, rfqSvc, dashboardSvc, sourcingRepos.ActivityLog,
	)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, sourcingHandlers, cfg, db, rdb)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
