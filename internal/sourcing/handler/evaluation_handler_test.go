package handler

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/vulcan/internal/pdm/testutil"
	"github.com/bitfantasy/vulcan/internal/sourcing/entity"
	"github.com/bitfantasy/vulcan/internal/sourcing/repository"
	"github.com/bitfantasy/vulcan/internal/sourcing/service"
)

func setupEvaluationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	nomRepo := repository.NewNominationRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)

	svc := service.NewEvaluationService(evalRepo, nomRepo, vendorRepo)
	svc.SetActivityLogRepo(activityLogRepo)
	handler := NewEvaluationHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/sourcing")
	api.PUT("/nominations/:id/vendors/:vendorId/scores", handler.BatchSaveScores)
	api.POST("/nominations/:id/vendors/:vendorId/compute", handler.Compute)
	api.GET("/nominations/:id/vendors/:vendorId/evaluation", handler.GetDetail)
	api.GET("/nominations/:id/vendors/:vendorId/evaluation/history", handler.GetHistory)
	api.GET("/nominations/:id/comparison", handler.GetComparison)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedEvaluationNomination(t *testing.T, env *testutil.TestEnv) (nomID string, criterionIDs []string) {
	t.Helper()

	nom := &entity.Nomination{
		ID:                 "nom-eval-001",
		Code:               "NOM-00001",
		Title:              "评分测试提名",
		Status:             entity.NominationStatusEvaluating,
		WeightCost:         70,
		WeightVendorRating: 20,
		WeightCapability:   10,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := env.DB.Create(nom).Error; err != nil {
		t.Fatalf("Failed to seed nomination: %v", err)
	}

	criteria := []entity.NominationCriterion{
		{ID: "crit-cost-001", NominationID: nom.ID, Name: "单价竞争力", Category: "cost", WeightPct: 40, MaxScore: 100, SortOrder: 1},
		{ID: "crit-cost-002", NominationID: nom.ID, Name: "模具报价", Category: "cost", WeightPct: 30, MaxScore: 100, SortOrder: 2},
		{ID: "crit-cap-001", NominationID: nom.ID, Name: "工艺能力", Category: "capability", WeightPct: 30, MaxScore: 100, SortOrder: 3},
	}
	ids := make([]string, 0, len(criteria))
	for i := range criteria {
		if err := env.DB.Create(&criteria[i]).Error; err != nil {
			t.Fatalf("Failed to seed criterion: %v", err)
		}
		ids = append(ids, criteria[i].ID)
	}
	return nom.ID, ids
}

// TestEvaluationBatchSaveAndCompute 批量评分后重算应生成带加权总分的新修订
func TestEvaluationBatchSaveAndCompute(t *testing.T) {
	env := setupEvaluationTest(t)
	token := testutil.DefaultTestToken()

	nomID, criterionIDs := seedEvaluationNomination(t, env)
	vendor := testutil.SeedTestVendor(t, env.DB, "vendor-eval-001", "V-00001", "评分供应商")

	// 成本维度 80、90，能力维度 60
	body := map[string]interface{}{
		"scores": []map[string]interface{}{
			{"criterion_id": criterionIDs[0], "score": 80},
			{"criterion_id": criterionIDs[1], "score": 90},
			{"criterion_id": criterionIDs[2], "score": 60},
		},
	}
	base := "/api/v1/sourcing/nominations/" + nomID + "/vendors/" + vendor.ID
	w := testutil.DoRequest(env.Router, http.MethodPut, base+"/scores", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 saving scores, got %d: %s", w.Code, w.Body.String())
	}

	// 超出满分被拒绝且不影响已保存条目
	w2 := testutil.DoRequest(env.Router, http.MethodPut, base+"/scores", map[string]interface{}{
		"scores": []map[string]interface{}{{"criterion_id": criterionIDs[0], "score": 150}},
	}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range score, got %d", w2.Code)
	}

	// 重算：成本 (80+90)/2=85%，能力 60%，评级未评
	// 总分 = 85*0.7 + 60*0.1 = 65.5
	w3 := testutil.DoRequest(env.Router, http.MethodPost, base+"/compute", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 computing, got %d: %s", w3.Code, w3.Body.String())
	}
	data := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	overall := data["overall_score"].(float64)
	if math.Abs(overall-65.5) > 0.01 {
		t.Fatalf("expected overall 65.5, got %v", overall)
	}
	if data["revision"].(float64) != 2 {
		t.Fatalf("expected revision 2, got %v", data["revision"])
	}
	if data["status"] != "active" {
		t.Fatalf("expected status active, got %v", data["status"])
	}

	// 历史里旧修订应为 superseded
	w4 := testutil.DoRequest(env.Router, http.MethodGet, base+"/evaluation/history", nil, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	history := testutil.ParseResponse(w4)["data"].([]interface{})
	if len(history) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(history))
	}
}

// TestEvaluationComparisonRanking 横向对比按加权总分降序排名
func TestEvaluationComparisonRanking(t *testing.T) {
	env := setupEvaluationTest(t)
	token := testutil.DefaultTestToken()

	nomID, criterionIDs := seedEvaluationNomination(t, env)
	vendorA := testutil.SeedTestVendor(t, env.DB, "vendor-cmp-a", "V-00001", "供应商甲")
	vendorB := testutil.SeedTestVendor(t, env.DB, "vendor-cmp-b", "V-00002", "供应商乙")

	scores := map[string]float64{vendorA.ID: 90, vendorB.ID: 70}
	for vendorID, score := range scores {
		base := "/api/v1/sourcing/nominations/" + nomID + "/vendors/" + vendorID
		body := map[string]interface{}{
			"scores": []map[string]interface{}{
				{"criterion_id": criterionIDs[0], "score": score},
			},
		}
		w := testutil.DoRequest(env.Router, http.MethodPut, base+"/scores", body, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 saving scores for %s, got %d: %s", vendorID, w.Code, w.Body.String())
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/sourcing/nominations/"+nomID+"/comparison", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	vendors := data["vendors"].([]interface{})
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendors in comparison, got %d", len(vendors))
	}

	first := vendors[0].(map[string]interface{})
	if first["vendor_id"] != vendorA.ID {
		t.Fatalf("expected vendor %s ranked first, got %v", vendorA.ID, first["vendor_id"])
	}
	if first["rank"].(float64) != 1 {
		t.Fatalf("expected rank 1, got %v", first["rank"])
	}
	// 甲：成本 90%，加权 90*0.7=63
	if math.Abs(first["overall"].(float64)-63) > 0.01 {
		t.Fatalf("expected overall 63, got %v", first["overall"])
	}
}
