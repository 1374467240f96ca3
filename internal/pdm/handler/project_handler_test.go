package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/repository"
	"github.com/bitfantasy/vulcan/internal/pdm/service"
	"github.com/bitfantasy/vulcan/internal/pdm/testutil"
	sourcingentity "github.com/bitfantasy/vulcan/internal/sourcing/entity"
)

func setupProjectTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	projectRepo := repository.NewProjectRepository(db)
	svc := service.NewProjectService(projectRepo)
	handler := NewProjectHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/projects", handler.ListProjects)
	api.POST("/projects", handler.CreateProject)
	api.GET("/projects/:id", handler.GetProject)
	api.PUT("/projects/:id", handler.UpdateProject)
	api.DELETE("/projects/:id", handler.DeleteProject)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestProjectCreateGeneratesCode 创建项目自动生成递增编号
func TestProjectCreateGeneratesCode(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", "admin@test.com")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"name": "智能音箱二代"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["code"] != "PRJ-00001" {
		t.Fatalf("expected code PRJ-00001, got %v", data["code"])
	}
	if data["status"] != "planning" {
		t.Fatalf("expected status planning, got %v", data["status"])
	}
	// 未指定负责人时默认为创建人
	if data["owner_id"] != "test-user-001" {
		t.Fatalf("expected owner test-user-001, got %v", data["owner_id"])
	}
}

// TestProjectUpdateValidation 非法状态与进度被拒绝
func TestProjectUpdateValidation(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", "admin@test.com")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"name": "状态校验项目"}, token)
	projectID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	bogus := "shipping"
	w2 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/projects/"+projectID,
		map[string]interface{}{"status": bogus}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w2.Code)
	}

	w3 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/projects/"+projectID,
		map[string]interface{}{"progress": 120}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for progress > 100, got %d", w3.Code)
	}

	w4 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/projects/"+projectID,
		map[string]interface{}{"status": "evt", "progress": 30}, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
}

// TestProjectDeleteCascades 删除项目应级联清理采购域关联数据
func TestProjectDeleteCascades(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", "admin@test.com")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"name": "级联删除项目"}, token)
	projectID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// 挂一个提名及其评分项和操作日志
	nom := &sourcingentity.Nomination{
		ID:        "nom-cascade-001",
		Code:      "NOM-90001",
		ProjectID: projectID,
		Title:     "级联提名",
		Status:    sourcingentity.NominationStatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(nom).Error; err != nil {
		t.Fatalf("Failed to seed nomination: %v", err)
	}
	criterion := &sourcingentity.NominationCriterion{
		ID:           "crit-cascade-001",
		NominationID: nom.ID,
		Name:         "单价竞争力",
		Category:     "cost",
		MaxScore:     100,
	}
	if err := env.DB.Create(criterion).Error; err != nil {
		t.Fatalf("Failed to seed criterion: %v", err)
	}
	logRow := &sourcingentity.ActivityLog{
		ID:         "log-cascade-001",
		EntityType: "nomination",
		EntityID:   nom.ID,
		Action:     "create",
		CreatedAt:  time.Now(),
	}
	if err := env.DB.Create(logRow).Error; err != nil {
		t.Fatalf("Failed to seed activity log: %v", err)
	}

	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/projects/"+projectID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var nomCount, critCount, logCount int64
	env.DB.Table("sourcing_nominations").Where("project_id = ?", projectID).Count(&nomCount)
	env.DB.Table("sourcing_nomination_criteria").Where("nomination_id = ?", nom.ID).Count(&critCount)
	env.DB.Table("sourcing_activity_logs").Where("entity_id = ?", nom.ID).Count(&logCount)
	if nomCount != 0 || critCount != 0 || logCount != 0 {
		t.Fatalf("expected cascade delete, remaining: nominations=%d criteria=%d logs=%d",
			nomCount, critCount, logCount)
	}

	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects/"+projectID, nil, token)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w3.Code)
	}
}
