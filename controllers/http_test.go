package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/starlink-tech/srm-app/database"
	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/router"
	"github.com/starlink-tech/srm-app/utils"
)

// setupServer boots the full route tree against a seeded in-memory database.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Supplier{},
		&models.User{},
		&models.Material{},
		&models.Order{},
		&models.OrderLog{},
		&models.Inquiry{},
		&models.Quotation{},
		&models.Reconciliation{},
		&models.Invoice{},
		&models.Notification{},
	))
	require.NoError(t, database.Seed(db))

	return router.SetupRouter(db), db
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := dataOf(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	r, _ := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	user := dataOf(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])

	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	r, _ := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, r, "huawei", "huawei123")
	w = doRequest(t, r, http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := dataOf(t, w)
	assert.Equal(t, "huawei", profile["username"])
	assert.Equal(t, "Huawei Machinery", profile["supplier_name"])
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	r, _ := setupServer(t)
	purchaser := login(t, r, "purchaser", "purchase123")
	supplier := login(t, r, "huawei", "huawei123")

	// Suppliers cannot create orders.
	w := doRequest(t, r, http.MethodPost, "/api/v1/orders", supplier, gin.H{
		"supplier_id": 1, "material_id": 1, "quantity": 10, "unit_price": 100,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/orders", purchaser, gin.H{
		"supplier_id": 1, "material_id": 1, "quantity": 10, "unit_price": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := dataOf(t, w)
	orderID := uint(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "1000", order["total_amount"])

	base := fmt.Sprintf("/api/v1/orders/%d", orderID)

	// Receiving before shipment conflicts.
	w = doRequest(t, r, http.MethodPost, base+"/receive", purchaser, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The purchaser role is kept out of the supplier-side transitions.
	w = doRequest(t, r, http.MethodPost, base+"/confirm", purchaser, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, base+"/confirm", supplier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", dataOf(t, w)["status"])

	w = doRequest(t, r, http.MethodPost, base+"/ship", supplier, gin.H{"tracking_no": "SF123"})
	require.Equal(t, http.StatusOK, w.Code)
	shipped := dataOf(t, w)
	assert.Equal(t, "shipped", shipped["status"])
	assert.Equal(t, "SF123", shipped["tracking_no"])

	// Cancellation is off the table once goods are moving.
	w = doRequest(t, r, http.MethodPost, base+"/cancel", purchaser, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodPost, base+"/receive", purchaser, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, base+"/complete", purchaser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", dataOf(t, w)["status"])

	w = doRequest(t, r, http.MethodGet, base+"/timeline", purchaser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timeline struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &timeline))
	require.Len(t, timeline.Data, 5)
	assert.Equal(t, "created", timeline.Data[0]["action"])
	assert.Equal(t, "completed", timeline.Data[4]["action"])
}

func TestBlockedSupplierRejectsOrders(t *testing.T) {
	r, _ := setupServer(t)
	admin := login(t, r, "admin", "admin123")

	w := doRequest(t, r, http.MethodPost, "/api/v1/suppliers/3/block", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "blocked", dataOf(t, w)["status"])

	w = doRequest(t, r, http.MethodPost, "/api/v1/orders", admin, gin.H{
		"supplier_id": 3, "material_id": 1, "quantity": 5, "unit_price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/suppliers/3/activate", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/orders", admin, gin.H{
		"supplier_id": 3, "material_id": 1, "quantity": 5, "unit_price": 10,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestNotificationsFlow(t *testing.T) {
	r, _ := setupServer(t)
	purchaser := login(t, r, "purchaser", "purchase123")
	supplier := login(t, r, "huawei", "huawei123")

	w := doRequest(t, r, http.MethodPost, "/api/v1/orders", purchaser, gin.H{
		"supplier_id": 1, "material_id": 1, "quantity": 1, "unit_price": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/notifications", supplier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := dataOf(t, w)
	assert.EqualValues(t, 1, feed["unread_count"])
	items := feed["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "order_created", items[0].(map[string]interface{})["type"])

	w = doRequest(t, r, http.MethodPut, "/api/v1/notifications/read-all", supplier, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/notifications/unread-count", supplier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataOf(t, w)["unread_count"])

	// Another user's feed is untouched.
	w = doRequest(t, r, http.MethodGet, "/api/v1/notifications", purchaser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataOf(t, w)["unread_count"])
}

func TestQuotationAcceptCreatesOrder(t *testing.T) {
	r, _ := setupServer(t)
	purchaser := login(t, r, "purchaser", "purchase123")
	supplier := login(t, r, "huawei", "huawei123")

	// The seed ships with a published inquiry (id 1).
	w := doRequest(t, r, http.MethodPost, "/api/v1/quotations", supplier, gin.H{
		"inquiry_id": 1, "material_id": 1, "quantity": 500,
		"unit_price": 25.5, "delivery_days": 15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quotationID := uint(dataOf(t, w)["id"].(float64))

	// One quotation per supplier and inquiry.
	w = doRequest(t, r, http.MethodPost, "/api/v1/quotations", supplier, gin.H{
		"inquiry_id": 1, "unit_price": 30,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/v1/quotations/%d/accept", quotationID)
	w = doRequest(t, r, http.MethodPost, path, purchaser, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := dataOf(t, w)
	assert.Equal(t, "accepted", result["quotation"].(map[string]interface{})["status"])
	order := result["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "12750", order["total_amount"])

	// Accepted quotations cannot be accepted twice.
	w = doRequest(t, r, http.MethodPost, path, purchaser, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
