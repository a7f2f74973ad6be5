package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eshop-api/models"
	"eshop-api/store"
)

// orderExpand resolves the user reference (contact fields only) and the
// whole order item -> product -> category chain on order reads.
var orderExpand = []store.Expand{
	{Path: "User", Selection: []string{"id", "name", "email", "phone"}},
	{Path: "OrderItems.Product.Category"},
}

type orderItemSpec struct {
	Quantity int    `json:"quantity"`
	Product  string `json:"product"`
}

// createOrderRequest deliberately has no totalPrice or status field: the
// total is always derived from product prices and new orders always start
// pending.
type createOrderRequest struct {
	OrderItems       []orderItemSpec `json:"orderItems"`
	ShippingAddress1 string          `json:"shippingAddress1"`
	ShippingAddress2 string          `json:"shippingAddress2"`
	City             string          `json:"city"`
	Zip              string          `json:"zip"`
	Country          string          `json:"country"`
	Phone            string          `json:"phone"`
	User             string          `json:"user"`
}

type orderUpdateRequest struct {
	ShippingAddress1 *string `json:"shippingAddress1"`
	ShippingAddress2 *string `json:"shippingAddress2"`
	City             *string `json:"city"`
	Zip              *string `json:"zip"`
	Country          *string `json:"country"`
	Phone            *string `json:"phone"`
	Status           *string `json:"status"`
}

func (r orderUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "shipping_address1", r.ShippingAddress1)
	setField(fields, "shipping_address2", r.ShippingAddress2)
	setField(fields, "city", r.City)
	setField(fields, "zip", r.Zip)
	setField(fields, "country", r.Country)
	setField(fields, "phone", r.Phone)
	setField(fields, "status", r.Status)
	return fields
}

func (app *application) listOrders(c *gin.Context) {
	orders, err := store.GetAll[models.Order](app.db, store.GetOptions{
		Expand: orderExpand,
		Sort:   []string{"date_ordered desc"},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, orders)
}

func (app *application) getOrder(c *gin.Context) {
	if !hasIdentity(c) {
		respondError(c, http.StatusUnauthorized, CodeNotAuthenticated, "You are not logged in.")
		return
	}
	opts := store.GetOptions{Expand: orderExpand}
	if !isAdmin(c) {
		// Non-admins only ever see their own orders; a foreign order id
		// behaves exactly like a missing one.
		opts.Filter = map[string]any{"user_id": authUserID(c)}
	}
	order, err := store.GetByID[models.Order](app.db, c.Param("id"), opts)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, order)
}

// createOrder runs the multi-step creation workflow: validate the payload,
// persist every order item, resolve product prices into a total, then
// persist the order. Any failure before the order is saved removes the
// items created so far, so no order ever references a partial item set.
func (app *application) createOrder(c *gin.Context) {
	if !hasIdentity(c) {
		respondError(c, http.StatusUnauthorized, CodeNotAuthenticated, "You are not logged in.")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if len(req.OrderItems) == 0 {
		respondError(c, http.StatusBadRequest, CodeValidationError, "No order items given")
		return
	}
	if req.User == "" {
		respondError(c, http.StatusBadRequest, CodeValidationError, "No user given")
		return
	}
	if _, ok := store.FindByID[models.User](app.db, req.User); !ok {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid user")
		return
	}

	orderID := uuid.NewString()
	itemIDs := make([]string, 0, len(req.OrderItems))
	discardItems := func() {
		for _, id := range itemIDs {
			if err := app.db.Delete(&models.OrderItem{}, "id = ?", id).Error; err != nil {
				slog.Warn("failed to discard order item", "id", id, "error", err)
			}
		}
	}

	for _, spec := range req.OrderItems {
		if _, ok := store.FindByID[models.Product](app.db, spec.Product); !ok {
			discardItems()
			respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid product")
			return
		}
		item := models.OrderItem{
			Quantity:  spec.Quantity,
			ProductID: spec.Product,
			OrderID:   orderID,
		}
		if err := app.db.Create(&item).Error; err != nil {
			discardItems()
			respondStoreError(c, err)
			return
		}
		itemIDs = append(itemIDs, item.ID)
	}

	totalPrice := 0.0
	for _, id := range itemIDs {
		item, err := store.GetByID[models.OrderItem](app.db, id, store.GetOptions{
			Expand: []store.Expand{{Path: "Product", Selection: []string{"id", "price"}}},
		})
		if err != nil || item.Product == nil {
			discardItems()
			respondError(c, http.StatusInternalServerError, CodePersistence, "Order price could not be resolved")
			return
		}
		totalPrice += item.Product.Price * float64(item.Quantity)
	}

	order := models.Order{
		ID:               orderID,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		TotalPrice:       totalPrice,
		UserID:           req.User,
	}
	saved, err := store.Save(app.db, &order, store.GetOptions{})
	if err != nil {
		discardItems()
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, saved)
}

func (app *application) setOrderStatus(c *gin.Context) {
	status := c.Param("status")
	if !models.ValidOrderStatus(status) {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid order status")
		return
	}
	order, err := store.UpdateByID[models.Order](app.db, c.Param("id"), map[string]any{"status": status}, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, order)
}

func (app *application) updateOrder(c *gin.Context) {
	var req orderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if req.Status != nil && !models.ValidOrderStatus(*req.Status) {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid order status")
		return
	}
	order, err := store.UpdateByID[models.Order](app.db, c.Param("id"), req.fields(), store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, order)
}

// deleteOrder cascades: every referenced order item is removed before the
// order itself. A failing item deletion aborts without touching the order;
// items already deleted at that point are not restored.
func (app *application) deleteOrder(c *gin.Context) {
	order, err := store.GetByID[models.Order](app.db, c.Param("id"), store.GetOptions{
		Expand: []store.Expand{{Path: "OrderItems"}},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	for _, item := range order.OrderItems {
		if _, err := store.DeleteByID[models.OrderItem](app.db, item.ID, store.GetOptions{}); err != nil {
			respondStoreError(c, err)
			return
		}
	}
	deleted, err := store.DeleteByID[models.Order](app.db, order.ID, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, deleted)
}

func (app *application) listUserOrders(c *gin.Context) {
	id := c.Param("id")
	if !store.ValidID(id) {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid user ID")
		return
	}
	if !hasIdentity(c) {
		respondError(c, http.StatusUnauthorized, CodeNotAuthenticated, "You are not logged in.")
		return
	}
	if id != authUserID(c) && !isAdmin(c) {
		respondError(c, http.StatusUnauthorized, CodeNotAuthorized, "You are not authorized.")
		return
	}
	orders, err := store.GetAll[models.Order](app.db, store.GetOptions{
		Filter: map[string]any{"user_id": id},
		Expand: orderExpand,
		Sort:   []string{"date_ordered desc"},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, orders)
}

func (app *application) countOrders(c *gin.Context) {
	count, err := store.Count[models.Order](app.db, nil)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, count)
}

func (app *application) totalSales(c *gin.Context) {
	total, err := store.Sum[models.Order](app.db, "total_price")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusInternalServerError, CodePersistence, "Order sales can not be generated")
			return
		}
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{"totalSales": total})
}
