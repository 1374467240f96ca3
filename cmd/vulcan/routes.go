package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bitfantasy/vulcan/internal/config"
	"github.com/bitfantasy/vulcan/internal/middleware"
	"github.com/bitfantasy/vulcan/internal/pdm/handler"
	sourcinghandler "github.com/bitfantasy/vulcan/internal/sourcing/handler"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerRoutes(r *gin.Engine, h *handler.Handlers, sh *sourcinghandler.Handlers, cfg *config.Config, db *gorm.DB, rdb *redis.Client) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "database"})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录，带限流)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(5, 10))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户与角色管理
			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", middleware.RequirePermission("user:admin"), h.User.UpdateUser)
				users.PUT("/:id/roles", middleware.RequirePermission("user:admin"), h.User.AssignRoles)
			}
			authorized.GET("/roles", h.User.ListRoles)

			// 文件上传
			authorized.POST("/uploads", h.Upload.Upload)

			// 项目管理
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.POST("", h.Project.CreateProject)
				projects.GET("/:id", h.Project.GetProject)
				projects.PUT("/:id", h.Project.UpdateProject)
				projects.DELETE("/:id", h.Project.DeleteProject)
			}

			// BOM管理
			boms := authorized.Group("/boms")
			{
				boms.GET("", h.BOM.ListBOMs)
				boms.POST("", h.BOM.CreateBOM)
				boms.GET("/:id", h.BOM.GetBOM)
				boms.PUT("/:id", h.BOM.UpdateBOM)
				boms.DELETE("/:id", h.BOM.DeleteBOM)
				boms.GET("/:id/export", h.BOM.ExportBOM)
				boms.POST("/:id/import/excel", h.BOM.ImportExcel)
				boms.POST("/:id/import/tsv", h.BOM.ImportTSV)
				boms.POST("/:id/items", h.BOM.AddItem)
			}
			bomItems := authorized.Group("/bom-items")
			{
				bomItems.PUT("/:itemId", h.BOM.UpdateItem)
				bomItems.DELETE("/:itemId", h.BOM.DeleteItem)
				bomItems.POST("/:itemId/file", h.BOM.AttachFile)
				bomItems.POST("/:itemId/analyze", h.BOM.AnalyzeGeometry)
			}

			// 采购域
			sourcing := authorized.Group("/sourcing")
			{
				// 供应商
				vendors := sourcing.Group("/vendors")
				{
					vendors.GET("", sh.Vendor.ListVendors)
					vendors.POST("", sh.Vendor.CreateVendor)
					vendors.GET("/:id", sh.Vendor.GetVendor)
					vendors.PUT("/:id", sh.Vendor.UpdateVendor)
					vendors.POST("/:id/approve", sh.Vendor.ApproveVendor)
					vendors.POST("/:id/archive", sh.Vendor.ArchiveVendor)
					vendors.GET("/:id/scores", sh.Vendor.GetVendorScores)
					vendors.POST("/:id/scores/refresh", sh.Vendor.RefreshVendorScores)
				}

				// 提名
				nominations := sourcing.Group("/nominations")
				{
					nominations.GET("", sh.Nomination.ListNominations)
					nominations.POST("", sh.Nomination.CreateNomination)
					nominations.GET("/:id", sh.Nomination.GetNomination)
					nominations.PUT("/:id", sh.Nomination.UpdateNomination)

					// 权重
					nominations.GET("/:id/weights", sh.Nomination.GetWeights)
					nominations.PUT("/:id/weights", sh.Nomination.UpdateWeight)

					// 评估项
					nominations.GET("/:id/criteria", sh.Nomination.ListCriteria)
					nominations.POST("/:id/criteria", sh.Nomination.CreateCriterion)
					nominations.PUT("/:id/criteria/:criterionId", sh.Nomination.UpdateCriterion)
					nominations.DELETE("/:id/criteria/:criterionId", sh.Nomination.DeleteCriterion)

					// 定标
					nominations.POST("/:id/nominate", sh.Nomination.Nominate)
					nominations.POST("/:id/auto-nominate", sh.Nomination.AutoNominate)

					// 评价
					nominations.GET("/:id/comparison", sh.Evaluation.GetComparison)
					nominations.GET("/:id/comparison/export", sh.Evaluation.ExportComparison)
					nominations.GET("/:id/vendors/:vendorId/evaluation", sh.Evaluation.GetDetail)
					nominations.GET("/:id/vendors/:vendorId/evaluation/history", sh.Evaluation.GetHistory)
					nominations.PUT("/:id/vendors/:vendorId/scores", sh.Evaluation.BatchSaveScores)
					nominations.POST("/:id/vendors/:vendorId/compute", sh.Evaluation.Compute)

					// 能力矩阵
					nominations.GET("/:id/vendors/:vendorId/capability", sh.Matrix.GetCapabilityMatrix)
					nominations.POST("/:id/capability-criteria", sh.Matrix.AddCapabilityCriterion)
					nominations.DELETE("/:id/capability-criteria/:criterionId", sh.Matrix.RemoveCapabilityCriterion)
					nominations.PUT("/:id/vendors/:vendorId/capability", sh.Matrix.SaveCapabilityScores)
					nominations.POST("/:id/vendors/:vendorId/capability/discard", sh.Matrix.DiscardCapabilityDrafts)

					// 评级矩阵
					nominations.GET("/:id/vendors/:vendorId/rating", sh.Matrix.GetRatingMatrix)
					nominations.POST("/:id/vendors/:vendorId/rating/init", sh.Matrix.InitRatingMatrix)
					nominations.PUT("/:id/vendors/:vendorId/rating", sh.Matrix.SaveRatingRows)
					nominations.POST("/:id/vendors/:vendorId/rating/discard", sh.Matrix.DiscardRatingDrafts)

					// 成本对比表
					nominations.GET("/:id/cost-table", sh.Cost.GetCostTable)
					nominations.PUT("/:id/cost-table/rows", sh.Cost.SaveCostRow)
					nominations.DELETE("/:id/cost-table/rows/:rowId", sh.Cost.DeleteCostRow)
					nominations.POST("/:id/cost-table/commit", sh.Cost.CommitCostTable)
					nominations.POST("/:id/cost-table/discard", sh.Cost.DiscardCostDrafts)
					nominations.POST("/:id/cost-table/auto-rank", sh.Cost.AutoRank)
				}

				// 评价记录
				evaluations := sourcing.Group("/evaluations")
				{
					evaluations.GET("", sh.Evaluation.ListEvaluations)
					evaluations.GET("/:id", sh.Evaluation.GetEvaluation)
					evaluations.PUT("/:id", sh.Evaluation.UpdateEvaluation)
				}

				// 询价
				rfqs := sourcing.Group("/rfqs")
				{
					rfqs.GET("", sh.RFQ.ListRFQs)
					rfqs.POST("", sh.RFQ.CreateRFQ)
					rfqs.GET("/:id", sh.RFQ.GetRFQ)
					rfqs.PUT("/:id", sh.RFQ.UpdateRFQ)
					rfqs.POST("/:id/quotes", sh.RFQ.AddQuote)
					rfqs.PUT("/:id/quotes/:quoteId", sh.RFQ.UpdateQuote)
					rfqs.POST("/:id/quotes/:quoteId/select", sh.RFQ.SelectQuote)
					rfqs.GET("/:id/landed-cost", sh.RFQ.GetLandedCostComparison)
					rfqs.POST("/:id/convert", sh.RFQ.ConvertToNomination)
				}

				// 看板
				sourcing.GET("/dashboard/nomination-progress", sh.Dashboard.GetNominationProgress)

				// 操作日志
				sourcing.GET("/activities/:entityType/:entityId", sh.Activity.ListActivities)
			}
		}
	}
}
