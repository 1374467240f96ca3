package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/vulcan/internal/pdm/testutil"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
)

func setupNominationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	nomRepo := repository.NewNominationRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)

	evalSvc := service.NewEvaluationService(evalRepo, nomRepo, vendorRepo)
	svc := service.NewNominationService(nomRepo, vendorRepo)
	svc.SetActivityLogRepo(activityLogRepo)
	svc.SetEvaluationService(evalSvc)
	handler := NewNominationHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/sourcing")
	api.POST("/nominations", handler.CreateNomination)
	api.GET("/nominations/:id", handler.GetNomination)
	api.GET("/nominations/:id/weights", handler.GetWeights)
	api.PUT("/nominations/:id/weights", handler.UpdateWeight)
	api.GET("/nominations/:id/criteria", handler.ListCriteria)
	api.POST("/nominations/:id/criteria", handler.CreateCriterion)
	api.POST("/nominations/:id/nominate", handler.Nominate)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestNominationCreateDefaults 创建提名时应带默认权重 70/20/10
func TestNominationCreateDefaults(t *testing.T) {
	env := setupNominationTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"title":         "主板外壳提名",
		"material_name": "ABS外壳",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "draft" {
		t.Fatalf("expected status draft, got %v", data["status"])
	}
	if data["weight_cost"].(float64) != 70 {
		t.Fatalf("expected weight_cost 70, got %v", data["weight_cost"])
	}
	if data["weight_vendor_rating"].(float64) != 20 {
		t.Fatalf("expected weight_vendor_rating 20, got %v", data["weight_vendor_rating"])
	}
	if data["weight_capability"].(float64) != 10 {
		t.Fatalf("expected weight_capability 10, got %v", data["weight_capability"])
	}
	if data["code"] == "" {
		t.Fatal("expected generated code, got empty")
	}
}

// TestNominationWeightRescale 修改单维度权重后其余两项按比例重分配且总和保持100
func TestNominationWeightRescale(t *testing.T) {
	env := setupNominationTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations",
		map[string]interface{}{"title": "权重测试提名"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	nomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// 成本 70 → 40，剩余60按 20:10 分给评级/能力
	w2 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/sourcing/nominations/"+nomID+"/weights",
		map[string]interface{}{"category": "cost", "value": 40}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	weights := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if weights["cost"].(float64) != 40 {
		t.Fatalf("expected cost 40, got %v", weights["cost"])
	}
	if weights["vendor_rating"].(float64) != 40 {
		t.Fatalf("expected vendor_rating 40, got %v", weights["vendor_rating"])
	}
	if weights["capability"].(float64) != 20 {
		t.Fatalf("expected capability 20, got %v", weights["capability"])
	}

	// 非法权重被拒绝
	w3 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/sourcing/nominations/"+nomID+"/weights",
		map[string]interface{}{"category": "cost", "value": 120}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range weight, got %d", w3.Code)
	}
}

// TestNominationCriteriaWeightSum 评分项权重和偏离100只标记不阻止
func TestNominationCriteriaWeightSum(t *testing.T) {
	env := setupNominationTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations",
		map[string]interface{}{"title": "评分项测试提名"}, token)
	nomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	criteria := []map[string]interface{}{
		{"name": "单价竞争力", "category": "cost", "weight_pct": 60, "max_score": 100},
		{"name": "技术能力", "category": "capability", "weight_pct": 30, "max_score": 100},
	}
	for _, c := range criteria {
		wc := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations/"+nomID+"/criteria", c, token)
		if wc.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating criterion, got %d: %s", wc.Code, wc.Body.String())
		}
	}

	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/sourcing/nominations/"+nomID+"/criteria", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data["weight_sum"].(float64) != 90 {
		t.Fatalf("expected weight_sum 90, got %v", data["weight_sum"])
	}
	if data["weights_balanced"].(bool) {
		t.Fatal("expected weights_balanced false for sum 90")
	}

	// 无效维度被拒绝
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations/"+nomID+"/criteria",
		map[string]interface{}{"name": "未知维度", "category": "bogus", "weight_pct": 10}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid category, got %d", w3.Code)
	}
}

// TestNominationNominate 定标后提名不可再修改
func TestNominationNominate(t *testing.T) {
	env := setupNominationTest(t)
	token := testutil.DefaultTestToken()

	vendor := testutil.SeedTestVendor(t, env.DB, "vendor-nom-001", "V-00001", "定标供应商")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations",
		map[string]interface{}{"title": "定标测试提名"}, token)
	nomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations/"+nomID+"/nominate",
		map[string]interface{}{"vendor_id": vendor.ID}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data["status"] != "nominated" {
		t.Fatalf("expected status nominated, got %v", data["status"])
	}
	if data["winner_vendor_id"] != vendor.ID {
		t.Fatalf("expected winner %s, got %v", vendor.ID, data["winner_vendor_id"])
	}

	// 重复定标被拒绝
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/sourcing/nominations/"+nomID+"/nominate",
		map[string]interface{}{"vendor_id": vendor.ID}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 re-nominating, got %d", w3.Code)
	}
}
