package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/berekarkirti/Fruit-Inventory/internal/database/models"
	"github.com/berekarkirti/Fruit-Inventory/internal/handler"
	"github.com/berekarkirti/Fruit-Inventory/internal/middleware"
	"github.com/berekarkirti/Fruit-Inventory/internal/service"
	"github.com/berekarkirti/Fruit-Inventory/internal/utils"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

const testSecret = "test-secret"

// ── In-memory FruitRepository stub ───────────────────────────────────────────

type stubFruitRepo struct {
	fruits map[uuid.UUID]*models.Fruit
	seq    int
}

func newStubFruitRepo() *stubFruitRepo {
	return &stubFruitRepo{fruits: make(map[uuid.UUID]*models.Fruit)}
}

func (r *stubFruitRepo) Create(_ context.Context, f *models.Fruit) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.seq++
	f.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.fruits[f.ID] = f
	return nil
}

func (r *stubFruitRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Fruit, error) {
	f, ok := r.fruits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFruitRepo) ListScoped(_ context.Context, identity workflow.Identity) ([]models.Fruit, error) {
	var result []models.Fruit
	for _, f := range r.fruits {
		if workflow.Visible(identity, f.AddedBy, workflow.Status(f.Status)) {
			result = append(result, *f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *stubFruitRepo) ListPending(_ context.Context) ([]models.Fruit, error) {
	var result []models.Fruit
	for _, f := range r.fruits {
		if workflow.Status(f.Status) == workflow.StatusPending {
			result = append(result, *f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *stubFruitRepo) Update(_ context.Context, f *models.Fruit) error {
	if _, ok := r.fruits[f.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *f
	r.fruits[f.ID] = &cp
	return nil
}

func (r *stubFruitRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.fruits, id)
	return nil
}

// ── Test server ──────────────────────────────────────────────────────────────

func newTestServer() *gin.Engine {
	gin.SetMode(gin.TestMode)

	fruitSvc := service.NewFruitService(newStubFruitRepo(), nil)
	fruitsH := handler.NewFruitsHandler(fruitSvc)

	r := gin.New()
	jwtMW := middleware.JWTAuth(testSecret)
	fruits := r.Group("/api/fruits", jwtMW)
	{
		managerOrOwner := middleware.RequireRole(workflow.RoleManager, workflow.RoleOwner)
		ownerOnly := middleware.RequireRole(workflow.RoleOwner)

		fruits.GET("", managerOrOwner, fruitsH.List)
		fruits.POST("", managerOrOwner, fruitsH.Create)
		fruits.GET("/stats", managerOrOwner, fruitsH.Stats)
		fruits.GET("/pending", ownerOnly, fruitsH.Pending)
		fruits.PUT("/:id", managerOrOwner, fruitsH.Update)
		fruits.DELETE("/:id", managerOrOwner, fruitsH.Delete)
		fruits.PUT("/:id/approve", ownerOnly, fruitsH.Approve)
		fruits.PUT("/:id/reject", ownerOnly, fruitsH.Reject)
	}
	return r
}

func bearer(t *testing.T, username, role string) string {
	t.Helper()
	tok, _, err := utils.GenerateToken([]byte(testSecret), username, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeFruit(t *testing.T, body []byte) models.Fruit {
	t.Helper()
	var f models.Fruit
	require.NoError(t, json.Unmarshal(body, &f))
	return f
}

// ── Scenarios ────────────────────────────────────────────────────────────────

func TestCreateApproveDeleteLifecycle(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")
	ownerAuth := bearer(t, "boss", "Owner")

	// manager submission is pending with the derived origin
	w := doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Apple", "price": 10, "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	fruit := decodeFruit(t, w.Body.Bytes())
	assert.Equal(t, "Kashmir", fruit.State)
	assert.Equal(t, "Pending", fruit.Status)
	assert.Equal(t, "alice", fruit.AddedBy)

	// owner approves
	w = doJSON(r, http.MethodPut, "/api/fruits/"+fruit.ID.String()+"/approve", ownerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fruit approved successfully")
	assert.Contains(t, w.Body.String(), `"approvedBy":"boss"`)
	assert.Contains(t, w.Body.String(), `"rejectionReason":null`)

	// the creating manager can no longer delete it
	w = doJSON(r, http.MethodDelete, "/api/fruits/"+fruit.ID.String(), aliceAuth, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete approved items")

	// but the owner can
	w = doJSON(r, http.MethodDelete, "/api/fruits/"+fruit.ID.String(), ownerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fruit deleted successfully")
}

func TestCreateValidation(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")

	// negative price
	w := doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Apple", "price": -10, "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing product name
	w = doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"price": 10, "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bad remark enum
	w = doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Apple", "price": 10, "quantity": 5, "remark": "Sold Out",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectWithAndWithoutReason(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")
	ownerAuth := bearer(t, "boss", "Owner")

	w := doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Mango", "price": 30, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	fruit := decodeFruit(t, w.Body.Bytes())

	w = doJSON(r, http.MethodPut, "/api/fruits/"+fruit.ID.String()+"/reject", ownerAuth, gin.H{
		"rejectionReason": "overripe",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fruit rejected successfully")
	assert.Contains(t, w.Body.String(), "overripe")

	// rejecting again with an empty body falls back to the default reason
	w = doJSON(r, http.MethodPut, "/api/fruits/"+fruit.ID.String()+"/reject", ownerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No reason provided")
}

func TestApproveRequiresOwnerRole(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")

	w := doJSON(r, http.MethodPut, "/api/fruits/"+uuid.NewString()+"/approve", aliceAuth, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required role: Owner")
}

func TestApproveMissingFruit(t *testing.T) {
	r := newTestServer()
	ownerAuth := bearer(t, "boss", "Owner")

	w := doJSON(r, http.MethodPut, "/api/fruits/"+uuid.NewString()+"/approve", ownerAuth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Fruit not found")
}

func TestInvalidFruitID(t *testing.T) {
	r := newTestServer()
	ownerAuth := bearer(t, "boss", "Owner")

	w := doJSON(r, http.MethodDelete, "/api/fruits/not-a-uuid", ownerAuth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid fruit id")
}

func TestListRequiresAuth(t *testing.T) {
	r := newTestServer()

	w := doJSON(r, http.MethodGet, "/api/fruits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagerUpdateForeignItem(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")
	bobAuth := bearer(t, "bob", "Manager")

	w := doJSON(r, http.MethodPost, "/api/fruits", bobAuth, gin.H{
		"productName": "Orange", "price": 5, "quantity": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	fruit := decodeFruit(t, w.Body.Bytes())

	w = doJSON(r, http.MethodPut, "/api/fruits/"+fruit.ID.String(), aliceAuth, gin.H{
		"price": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You can only update your own items")
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")
	ownerAuth := bearer(t, "boss", "Owner")

	w := doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Apple", "price": 10, "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/api/fruits", ownerAuth, gin.H{
		"productName": "Banana", "price": 3, "quantity": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/fruits/stats", ownerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats["totalFruits"])
	assert.EqualValues(t, 1, stats["approvedFruits"])
	assert.EqualValues(t, 1, stats["pendingFruits"])
	assert.Equal(t, "boss", stats["username"])
	assert.Equal(t, "Owner", stats["userRole"])
}

func TestPendingOwnerOnly(t *testing.T) {
	r := newTestServer()
	aliceAuth := bearer(t, "alice", "Manager")
	ownerAuth := bearer(t, "boss", "Owner")

	w := doJSON(r, http.MethodPost, "/api/fruits", aliceAuth, gin.H{
		"productName": "Apple", "price": 10, "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/fruits/pending", aliceAuth, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/fruits/pending", ownerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Pending"`)
}
