package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
	"github.com/starlink-tech/srm-app/utils"
)

// OrderController is a thin adapter over the order lifecycle service; all
// validation, transition rules and ownership checks live in the service.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

const dateLayout = "2006-01-02"

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// GetAllOrders -> filtered, paginated order list. Suppliers only ever see
// their own orders regardless of the filters they pass.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		SupplierID: uint(queryInt(c, "supplier_id", 0)),
		StartDate:  parseDate(c.Query("start_date")),
		EndDate:    parseDate(c.Query("end_date")),
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 20),
	}

	orders, total, err := oc.Orders.ListOrders(currentActor(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of orders", orders,
		utils.NewPagination(filter.Page, filter.Limit, total))
}

// ExportOrders -> the same filtered list without pagination.
func (oc *OrderController) ExportOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		SupplierID: uint(queryInt(c, "supplier_id", 0)),
		StartDate:  parseDate(c.Query("start_date")),
		EndDate:    parseDate(c.Query("end_date")),
		Search:     c.Query("search"),
	}

	orders, err := oc.Orders.ExportOrders(currentActor(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order export", orders)
}

// GetOrderByID -> detail with the embedded log timeline.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.GetOrder(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderTimeline -> just the transition history.
func (oc *OrderController) GetOrderTimeline(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	logs, err := oc.Orders.GetTimeline(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order timeline", logs)
}

// CreateOrder -> new pending order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input struct {
		SupplierID   uint             `json:"supplier_id" binding:"required"`
		MaterialID   uint             `json:"material_id" binding:"required"`
		Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
		UnitPrice    *decimal.Decimal `json:"unit_price"`
		DeliveryDate string           `json:"delivery_date"`
		Notes        string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(currentActor(c), services.CreateOrderInput{
		SupplierID:   input.SupplierID,
		MaterialID:   input.MaterialID,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DeliveryDate: parseDate(input.DeliveryDate),
		Notes:        input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrder -> edit quantity/price/date/notes on a non-terminal order.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var input struct {
		Quantity     *decimal.Decimal `json:"quantity"`
		UnitPrice    *decimal.Decimal `json:"unit_price"`
		DeliveryDate string           `json:"delivery_date"`
		Notes        *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderFields(id, currentActor(c), services.UpdateOrderInput{
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DeliveryDate: parseDate(input.DeliveryDate),
		Notes:        input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// ConfirmOrder -> supplier accepts a pending order.
func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	oc.transition(c, "Order confirmed", func(id uint, actor services.Actor) (*models.Order, error) {
		return oc.Orders.ConfirmOrder(id, actor)
	})
}

// ShipOrder -> supplier ships a confirmed order, optionally with tracking.
func (oc *OrderController) ShipOrder(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var input struct {
		TrackingNo string `json:"tracking_no"`
	}
	// Body is optional for shipments without a tracking number.
	_ = c.ShouldBindJSON(&input)

	order, err := oc.Orders.ShipOrder(id, currentActor(c), input.TrackingNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order shipped", order)
}

// ReceiveOrder -> purchaser confirms goods arrival.
func (oc *OrderController) ReceiveOrder(c *gin.Context) {
	oc.transition(c, "Order received", func(id uint, actor services.Actor) (*models.Order, error) {
		return oc.Orders.ReceiveOrder(id, actor)
	})
}

// CompleteOrder -> purchaser closes a received order.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	oc.transition(c, "Order completed", func(id uint, actor services.Actor) (*models.Order, error) {
		return oc.Orders.CompleteOrder(id, actor)
	})
}

// CancelOrder -> purchaser cancels before shipment.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	oc.transition(c, "Order cancelled", func(id uint, actor services.Actor) (*models.Order, error) {
		return oc.Orders.CancelOrder(id, actor)
	})
}

func (oc *OrderController) transition(c *gin.Context, message string,
	op func(uint, services.Actor) (*models.Order, error)) {

	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := op(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, message, order)
}
