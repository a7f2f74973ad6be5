package main

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eshop-api/models"
)

func orderPayload(userID string, items ...map[string]any) map[string]any {
	return map[string]any{
		"orderItems":       items,
		"shippingAddress1": "1 Main Street",
		"city":             "Helsinki",
		"country":          "Finland",
		"user":             userID,
	}
}

func seedOrderViaAPI(t *testing.T, r *gin.Engine, user *models.User, items ...map[string]any) models.Order {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(user.ID, items...), tokenFor(t, user))
	require.Equal(t, http.StatusCreated, w.Code, "order creation failed: %s", w.Body.String())
	return decodeResult[models.Order](t, w)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestCreateOrderComputesTotalPrice(t *testing.T) {
	r, db := newTestApp(t)
	user := seedUser(t, db, "user@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	milk := seedProduct(t, db, "Milk", 1.25, bakery.ID)

	payload := orderPayload(user.ID,
		map[string]any{"quantity": 2, "product": bread.ID},
		map[string]any{"quantity": 4, "product": milk.ID},
	)
	// A client-supplied total must be ignored.
	payload["totalPrice"] = 9999.0

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", payload, tokenFor(t, user))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeResult[models.Order](t, w)
	assert.InDelta(t, 2*3.5+4*1.25, order.TotalPrice, 1e-9)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, int64(2), countRows(t, db, &models.OrderItem{}))
}

func TestCreateOrderRequiresAuthentication(t *testing.T) {
	r, db := newTestApp(t)
	user := seedUser(t, db, "user@example.com", "secret", false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(user.ID), "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeNotAuthenticated, decodeEnvelope(t, w).Error.Code)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	r, db := newTestApp(t)
	user := seedUser(t, db, "user@example.com", "secret", false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(user.ID), tokenFor(t, user))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidationError, decodeEnvelope(t, w).Error.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderItem{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
}

func TestCreateOrderFailurePersistsNothing(t *testing.T) {
	r, db := newTestApp(t)
	user := seedUser(t, db, "user@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)

	// The second item breaks the quantity constraint, so its persistence
	// fails after the first item was already written.
	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(user.ID,
		map[string]any{"quantity": 1, "product": bread.ID},
		map[string]any{"quantity": 500, "product": bread.ID},
	), tokenFor(t, user))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderItem{}), "partially created items must be removed")
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	r, db := newTestApp(t)
	user := seedUser(t, db, "user@example.com", "secret", false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(user.ID,
		map[string]any{"quantity": 1, "product": "53f1dcb4-5f3f-4a92-90c1-9d2b17f0a001"},
	), tokenFor(t, user))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidParams, decodeEnvelope(t, w).Error.Code)
}

func TestGetOrderOnlyOwnUnlessAdmin(t *testing.T) {
	r, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	other := seedUser(t, db, "other@example.com", "secret", false)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	order := seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 1, "product": bread.ID})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/"+order.ID, nil, tokenFor(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+order.ID, nil, tokenFor(t, other))
	require.Equal(t, http.StatusNotFound, w.Code, "a foreign order behaves like a missing one")

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+order.ID, nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/"+order.ID, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrderExpandsItemChain(t *testing.T) {
	r, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	order := seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 2, "product": bread.ID})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/"+order.ID, nil, tokenFor(t, owner))

	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeResult[models.Order](t, w)
	require.Len(t, fetched.OrderItems, 1)
	require.NotNil(t, fetched.OrderItems[0].Product)
	assert.Equal(t, "Bread", fetched.OrderItems[0].Product.Name)
	require.NotNil(t, fetched.OrderItems[0].Product.Category)
	assert.Equal(t, "Bakery", fetched.OrderItems[0].Product.Category.Name)
	require.NotNil(t, fetched.User)
	assert.Equal(t, "owner@example.com", fetched.User.Email)
}

func TestListUserOrders(t *testing.T) {
	r, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	other := seedUser(t, db, "other@example.com", "secret", false)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 1, "product": bread.ID})
	seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 2, "product": bread.ID})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/get/user/"+owner.ID, nil, tokenFor(t, owner))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResult[[]models.Order](t, w), 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/get/user/"+owner.ID, nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/get/user/"+owner.ID, nil, tokenFor(t, other))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeNotAuthorized, decodeEnvelope(t, w).Error.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/get/user/not-a-uuid", nil, tokenFor(t, owner))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetOrderStatus(t *testing.T) {
	r, db := newTestApp(t)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	order := seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 1, "product": bread.ID})

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders/"+order.ID+"/set/status/shipped", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusShipped, decodeResult[models.Order](t, w).Status)

	// An unrecognized status is rejected before any persistence call.
	w = doJSON(t, r, http.MethodPost, "/api/v1/orders/"+order.ID+"/set/status/teleported", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidParams, decodeEnvelope(t, w).Error.Code)

	// Only admins may transition status.
	w = doJSON(t, r, http.MethodPost, "/api/v1/orders/"+order.ID+"/set/status/cancelled", nil, tokenFor(t, owner))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteOrderCascadesToItems(t *testing.T) {
	r, db := newTestApp(t)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	order := seedOrderViaAPI(t, r, owner,
		map[string]any{"quantity": 1, "product": bread.ID},
		map[string]any{"quantity": 2, "product": bread.ID},
	)
	require.Equal(t, int64(2), countRows(t, db, &models.OrderItem{}))

	w := doJSON(t, r, http.MethodDelete, "/api/v1/orders/"+order.ID, nil, tokenFor(t, admin))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderItem{}))
}

func TestDeleteMissingOrderDeletesNothing(t *testing.T) {
	r, db := newTestApp(t)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 1, "product": bread.ID})

	w := doJSON(t, r, http.MethodDelete, "/api/v1/orders/0d4f3a51-73b2-4b86-9f1c-52de6bb0a999", nil, tokenFor(t, admin))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(1), countRows(t, db, &models.Order{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.OrderItem{}))
}

func TestTotalSales(t *testing.T) {
	r, db := newTestApp(t)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	owner := seedUser(t, db, "owner@example.com", "secret", false)

	// Empty collection reports an error, never zero.
	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/get/totalsales", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodePersistence, decodeEnvelope(t, w).Error.Code)

	for _, total := range []float64{10, 20, 30} {
		order := models.Order{
			ShippingAddress1: "1 Main Street",
			City:             "Helsinki",
			Country:          "Finland",
			TotalPrice:       total,
			UserID:           owner.ID,
		}
		require.NoError(t, db.Create(&order).Error)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/get/totalsales", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult[map[string]float64](t, w)
	assert.InDelta(t, 60, result["totalSales"], 1e-9)
}

func TestOrderCountRequiresAdmin(t *testing.T) {
	r, db := newTestApp(t)
	admin := seedUser(t, db, "admin@example.com", "secret", true)
	owner := seedUser(t, db, "owner@example.com", "secret", false)
	bakery := seedCategory(t, db, "Bakery")
	bread := seedProduct(t, db, "Bread", 3.5, bakery.ID)
	seedOrderViaAPI(t, r, owner, map[string]any{"quantity": 1, "product": bread.ID})

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/get/count", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decodeResult[int64](t, w))

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders/get/count", nil, tokenFor(t, owner))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
