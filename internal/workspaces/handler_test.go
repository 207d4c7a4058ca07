package workspaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"offer-ranker/internal/scoring"
	"offer-ranker/internal/shared/server/middleware"
)

func setupWorkspaceRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterRoutes(api.Group("", middleware.Identity()))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error.Code
}

func TestGetWorkspaceRequiresIdentity(t *testing.T) {
	r := setupWorkspaceRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspace", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestGetWorkspaceReturnsPresets(t *testing.T) {
	r := setupWorkspaceRouter(t)
	resp := doJSON(t, r, http.MethodGet, "/api/v1/workspace", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var ws workspaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ws.Dimensions) != 4 || ws.Offers == nil || ws.UpdatedAt != nil {
		t.Fatalf("unexpected workspace: %+v", ws)
	}
}

func TestOfferAndRankingFlow(t *testing.T) {
	r := setupWorkspaceRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/workspace/offers", map[string]any{
		"values": map[string]any{
			"company": "Acme",
			"salary":  map[string]any{"monthly": 30000, "months": 13},
			"growth":  "70",
		},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var offer scoring.Offer
	if err := json.NewDecoder(resp.Body).Decode(&offer); err != nil {
		t.Fatalf("decode offer: %v", err)
	}
	if offer.ID == "" || offer.Value("growth").AsNumber() != 70 {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/workspace/offers/"+offer.ID+"/bonuses/growth", map[string]any{"points": 40})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for bonus, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, r, http.MethodPut, "/api/v1/workspace/offers/"+offer.ID+"/bonuses/pua", map[string]any{"points": 40})
	if resp.Code != http.StatusUnprocessableEntity || decodeError(t, resp) != "bonus_not_allowed" {
		t.Fatalf("expected 422 bonus_not_allowed, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodPut, "/api/v1/workspace/offers/"+offer.ID+"/bonuses/growth", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without points, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/workspace/ranking", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ranking, got %d", resp.Code)
	}
	var ranking Ranking
	if err := json.NewDecoder(resp.Body).Decode(&ranking); err != nil {
		t.Fatalf("decode ranking: %v", err)
	}
	if len(ranking.Results) != 1 || ranking.Results[0].OfferID != offer.ID {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}
	if ranking.Results[0].BonusScore <= 0 {
		t.Fatalf("expected bonus to contribute, got %+v", ranking.Results[0])
	}

	resp = doJSON(t, r, http.MethodDelete, "/api/v1/workspace/offers/"+offer.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodDelete, "/api/v1/workspace/offers/"+offer.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}

func TestDimensionRoutes(t *testing.T) {
	r := setupWorkspaceRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/workspace/dimensions", map[string]any{
		"name":      "Commute",
		"type":      "select",
		"active":    true,
		"autoScore": true,
		"options": []map[string]any{
			{"value": "short", "label": "Short"},
			{"value": "mid", "label": "Medium"},
			{"value": "long", "label": "Long"},
		},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var added scoring.Dimension
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		t.Fatalf("decode dimension: %v", err)
	}
	if added.Options[0].Score != 100 || added.Options[1].Score != 50 || added.Options[2].Score != 0 {
		t.Fatalf("expected auto scores, got %+v", added.Options)
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/workspace/dimensions/"+added.ID+"/options/order", map[string]any{"from": 2, "to": 0})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for move, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/workspace/dimensions/order", map[string]any{"ids": []string{added.ID}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for reorder, got %d", resp.Code)
	}
	var ws workspaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ws.Dimensions[0].ID != added.ID || ws.Dimensions[0].Options[0].Value != "long" {
		t.Fatalf("unexpected dimensions: %+v", ws.Dimensions[0])
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/workspace/dimensions/growth/toggle", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for toggle, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodPatch, "/api/v1/workspace/dimensions/growth", map[string]any{"name": ""})
	if resp.Code != http.StatusBadRequest || decodeError(t, resp) != "validation_error" {
		t.Fatalf("expected 400 validation_error, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodDelete, "/api/v1/workspace/dimensions/company", nil)
	if resp.Code != http.StatusConflict || decodeError(t, resp) != "protected" {
		t.Fatalf("expected 409 protected, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodDelete, "/api/v1/workspace/dimensions/"+added.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodDelete, "/api/v1/workspace/dimensions/"+added.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestResetWorkspace(t *testing.T) {
	r := setupWorkspaceRouter(t)
	resp := doJSON(t, r, http.MethodDelete, "/api/v1/workspace", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestStatelessRank(t *testing.T) {
	r := setupWorkspaceRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rank", bytes.NewBufferString(`{
		"dimensions": [
			{"id": "company", "name": "Company", "type": "text", "active": true},
			{"id": "a", "name": "A", "type": "slider", "active": true},
			{"id": "b", "name": "B", "type": "slider", "active": true}
		],
		"offers": [
			{"id": "x", "values": {"a": 10, "b": 100}},
			{"id": "y", "values": {"a": 100, "b": 10}}
		]
	}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var ranking Ranking
	if err := json.NewDecoder(resp.Body).Decode(&ranking); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ranking.Results[0].OfferID != "y" {
		t.Fatalf("expected higher-priority dimension to win, got %+v", ranking.Results)
	}
	if len(ranking.Weights) != 2 {
		t.Fatalf("expected two weights, got %v", ranking.Weights)
	}
}

func TestPresetsRoute(t *testing.T) {
	r := setupWorkspaceRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Dimensions []scoring.Dimension `json:"dimensions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Dimensions) == 0 || payload.Dimensions[0].ID != scoring.IdentityDimensionID {
		t.Fatalf("unexpected presets: %+v", payload.Dimensions)
	}
}
