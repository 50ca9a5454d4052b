package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

// orderNoAttempts bounds the regenerate-and-retry loop on order number
// collisions before DuplicateOrderNumber is surfaced to the caller.
const orderNoAttempts = 5

// Actor identifies who is invoking an operation. SupplierID is set only for
// supplier-role users and is compared against order ownership inside the
// service, independent of any HTTP-layer authorization.
type Actor struct {
	UserID     uint
	Role       models.Role
	SupplierID *uint
}

func (a Actor) ownsSupplier(supplierID uint) bool {
	return a.SupplierID != nil && *a.SupplierID == supplierID
}

type CreateOrderInput struct {
	SupplierID   uint
	MaterialID   uint
	Quantity     decimal.Decimal
	UnitPrice    *decimal.Decimal
	DeliveryDate *time.Time
	Notes        string
}

type UpdateOrderInput struct {
	Quantity     *decimal.Decimal
	UnitPrice    *decimal.Decimal
	DeliveryDate *time.Time
	Notes        *string
}

type OrderFilter struct {
	Status     models.OrderStatus
	SupplierID uint
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	Page       int
	Limit      int
}

// OrderService owns the purchase order lifecycle: it creates orders, applies
// validated status transitions, derives totals and appends the audit log.
// Every transition writes the order row and exactly one order_logs row inside
// a single transaction; the status update is guarded by the expected source
// status so concurrent transitions are serialized by the store.
type OrderService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier, now: time.Now}
}

// CreateOrder validates supplier and material, computes the total and writes
// the order together with its "created" log entry. Order number collisions
// are retried with a freshly generated number.
func (s *OrderService) CreateOrder(actor Actor, in CreateOrderInput) (*models.Order, error) {
	if !actor.Role.CanManageOrders() {
		return nil, errForbidden()
	}
	if in.SupplierID == 0 || in.MaterialID == 0 {
		return nil, newError(KindValidation, "supplier and material are required")
	}
	if !in.Quantity.IsPositive() {
		return nil, newError(KindValidation, "quantity must be greater than zero")
	}

	var supplier models.Supplier
	if err := s.db.First(&supplier, in.SupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindSupplierInactive, "supplier does not exist or is blocked")
		}
		return nil, err
	}
	if supplier.Status != models.SupplierActive {
		return nil, newError(KindSupplierInactive, "supplier does not exist or is blocked")
	}

	var material models.Material
	if err := s.db.First(&material, in.MaterialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindMaterialNotFound, "material does not exist")
		}
		return nil, err
	}

	order := models.Order{
		SupplierID:   in.SupplierID,
		MaterialID:   in.MaterialID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		DeliveryDate: in.DeliveryDate,
		Status:       models.OrderPending,
		Notes:        in.Notes,
		CreatedBy:    &actor.UserID,
	}
	order.TotalAmount = order.ComputeTotal()

	var err error
	for attempt := 0; attempt < orderNoAttempts; attempt++ {
		order.OrderNo = NewDocumentNo("PO", s.now())
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			log := models.OrderLog{
				OrderID:    order.ID,
				Action:     "created",
				OldStatus:  nil,
				NewStatus:  models.OrderPending,
				OperatorID: &actor.UserID,
				Remark:     "order created",
			}
			return tx.Create(&log).Error
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			order.ID = 0
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, newError(KindDuplicateOrderNumber, "could not allocate a unique order number")
	}

	s.notifySupplier(order.SupplierID, "order_created", "New order",
		fmt.Sprintf("Order %s is waiting for your confirmation", order.OrderNo), order.ID)

	return s.reload(order.ID)
}

// ConfirmOrder moves a pending order to confirmed. Only the supplier owning
// the order may confirm it.
func (s *OrderService) ConfirmOrder(orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleSupplier || !actor.ownsSupplier(order.SupplierID) {
		return nil, errForbidden()
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}
	if order.Status != models.OrderPending {
		return nil, errInvalidTransition(order.Status, "confirm")
	}

	if err := s.applyTransition(order, models.OrderConfirmed, "confirmed", actor,
		"supplier confirmed the order", nil); err != nil {
		return nil, err
	}

	s.notifyCreator(order, "order_confirmed", "Order confirmed",
		fmt.Sprintf("Order %s was confirmed by the supplier", order.OrderNo))

	return s.reload(orderID)
}

// ShipOrder moves a confirmed order to shipped, optionally recording a
// tracking number.
func (s *OrderService) ShipOrder(orderID uint, actor Actor, trackingNo string) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleSupplier || !actor.ownsSupplier(order.SupplierID) {
		return nil, errForbidden()
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}
	if order.Status != models.OrderConfirmed {
		return nil, errInvalidTransition(order.Status, "ship")
	}

	remark := "shipped"
	if trackingNo != "" {
		remark = fmt.Sprintf("shipped, tracking no: %s", trackingNo)
	}
	if err := s.applyTransition(order, models.OrderShipped, "shipped", actor, remark,
		map[string]interface{}{"tracking_no": trackingNo}); err != nil {
		return nil, err
	}

	s.notifyCreator(order, "order_shipped", "Order shipped",
		fmt.Sprintf("Order %s has been shipped", order.OrderNo))

	return s.reload(orderID)
}

// ReceiveOrder moves a shipped order to received.
func (s *OrderService) ReceiveOrder(orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageOrders() {
		return nil, errForbidden()
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}
	if order.Status != models.OrderShipped {
		return nil, errInvalidTransition(order.Status, "receive")
	}

	if err := s.applyTransition(order, models.OrderReceived, "received", actor,
		"goods received", nil); err != nil {
		return nil, err
	}

	s.notifySupplier(order.SupplierID, "order_received", "Order received",
		fmt.Sprintf("Order %s was received by the purchaser", order.OrderNo), order.ID)

	return s.reload(orderID)
}

// CompleteOrder moves a received order to its terminal completed state.
func (s *OrderService) CompleteOrder(orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageOrders() {
		return nil, errForbidden()
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}
	if order.Status != models.OrderReceived {
		return nil, errInvalidTransition(order.Status, "complete")
	}

	if err := s.applyTransition(order, models.OrderCompleted, "completed", actor,
		"order completed", nil); err != nil {
		return nil, err
	}

	s.notifySupplier(order.SupplierID, "order_completed", "Order completed",
		fmt.Sprintf("Order %s is complete", order.OrderNo), order.ID)

	return s.reload(orderID)
}

// CancelOrder cancels a pending or confirmed order. The recorded old status
// is whatever the order was in at the time.
func (s *OrderService) CancelOrder(orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageOrders() {
		return nil, errForbidden()
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}
	if !order.Status.Cancellable() {
		return nil, errInvalidTransition(order.Status, "cancel")
	}

	if err := s.applyTransition(order, models.OrderCancelled, "cancelled", actor,
		"order cancelled", nil); err != nil {
		return nil, err
	}

	s.notifySupplier(order.SupplierID, "order_cancelled", "Order cancelled",
		fmt.Sprintf("Order %s was cancelled", order.OrderNo), order.ID)

	return s.reload(orderID)
}

// UpdateOrderFields edits quantity, unit price, delivery date or notes on a
// non-terminal order and recomputes the total in the same write. Plain field
// edits are not logged; the audit trail records transitions only.
func (s *OrderService) UpdateOrderFields(orderID uint, actor Actor, in UpdateOrderInput) (*models.Order, error) {
	if !actor.Role.CanManageOrders() {
		return nil, errForbidden()
	}
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, errOrderTerminal(order.Status)
	}

	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, newError(KindValidation, "quantity must be greater than zero")
		}
		order.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		order.UnitPrice = in.UnitPrice
	}
	if in.DeliveryDate != nil {
		order.DeliveryDate = in.DeliveryDate
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	order.TotalAmount = order.ComputeTotal()

	if err := s.applyFieldEdit(order); err != nil {
		return nil, err
	}

	return s.reload(orderID)
}

// applyFieldEdit writes the edited fields guarded on a non-terminal status,
// so a racing complete/cancel cannot be overwritten by a stale edit. When the
// guard fires the row is re-read so the error names the status that won.
func (s *OrderService) applyFieldEdit(order *models.Order) error {
	updates := map[string]interface{}{
		"quantity":      order.Quantity,
		"unit_price":    order.UnitPrice,
		"total_amount":  order.TotalAmount,
		"delivery_date": order.DeliveryDate,
		"notes":         order.Notes,
		"updated_at":    s.now(),
	}
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", order.ID,
			[]models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		current, err := s.load(order.ID)
		if err != nil {
			return err
		}
		return errOrderTerminal(current.Status)
	}
	return nil
}

// GetOrder returns one order with supplier, material, creator and the full
// log timeline. Suppliers can only read their own orders.
func (s *OrderService) GetOrder(orderID uint, actor Actor) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Supplier").
		Preload("Material").
		Preload("Creator").
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC").Preload("Operator")
		}).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("order")
		}
		return nil, err
	}
	if actor.Role == models.RoleSupplier && !actor.ownsSupplier(order.SupplierID) {
		return nil, errForbidden()
	}
	return &order, nil
}

// GetTimeline returns the ordered transition history of one order.
func (s *OrderService) GetTimeline(orderID uint, actor Actor) ([]models.OrderLog, error) {
	if _, err := s.GetOrder(orderID, actor); err != nil {
		return nil, err
	}
	var logs []models.OrderLog
	err := s.db.Preload("Operator").
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

// ListOrders returns a filtered page of orders plus the total match count.
// Supplier actors are always scoped to their own orders.
func (s *OrderService) ListOrders(actor Actor, f OrderFilter) ([]models.Order, int64, error) {
	q := s.baseQuery(actor, f)

	var total int64
	if err := q.Session(&gorm.Session{}).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	var orders []models.Order
	err := q.
		Preload("Supplier").
		Preload("Material").
		Preload("Creator").
		Order("orders.created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&orders).Error
	return orders, total, err
}

// ExportOrders returns every matching order without pagination, for the
// report download endpoint.
func (s *OrderService) ExportOrders(actor Actor, f OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.baseQuery(actor, f).
		Preload("Supplier").
		Preload("Material").
		Preload("Creator").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *OrderService) baseQuery(actor Actor, f OrderFilter) *gorm.DB {
	q := s.db.Model(&models.Order{})
	if actor.Role == models.RoleSupplier {
		supplierID := uint(0)
		if actor.SupplierID != nil {
			supplierID = *actor.SupplierID
		}
		q = q.Where("orders.supplier_id = ?", supplierID)
	}
	if f.Status != "" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.SupplierID != 0 {
		q = q.Where("orders.supplier_id = ?", f.SupplierID)
	}
	if f.StartDate != nil {
		q = q.Where("orders.delivery_date >= ?", f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("orders.delivery_date <= ?", f.EndDate)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Joins("JOIN suppliers ON suppliers.id = orders.supplier_id").
			Joins("JOIN materials ON materials.id = orders.material_id").
			Where("orders.order_no LIKE ? OR suppliers.name LIKE ? OR materials.name LIKE ?", like, like, like)
	}
	return q
}

// applyTransition writes the status change and its log entry in one
// transaction. The update is guarded by the expected source status: if a
// concurrent transition got there first, zero rows are affected, nothing is
// written and the caller gets InvalidTransition.
func (s *OrderService) applyTransition(order *models.Order, to models.OrderStatus, action string,
	actor Actor, remark string, extra map[string]interface{}) error {

	from := order.Status
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     to,
			"updated_at": s.now(),
		}
		for k, v := range extra {
			updates[k] = v
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInvalidTransition(from, action)
		}

		log := models.OrderLog{
			OrderID:    order.ID,
			Action:     action,
			OldStatus:  &from,
			NewStatus:  to,
			OperatorID: &actor.UserID,
			Remark:     remark,
		}
		return tx.Create(&log).Error
	})
}

func (s *OrderService) load(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("order")
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) reload(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Supplier").Preload("Material").First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// notifySupplier fans an event out to every user affiliated with the
// supplier. Runs after the transition has committed.
func (s *OrderService) notifySupplier(supplierID uint, event, title, content string, orderID uint) {
	if s.notifier == nil {
		return
	}
	var users []models.User
	if err := s.db.Where("supplier_id = ?", supplierID).Find(&users).Error; err != nil {
		utils.ErrorLogger.Printf("lookup supplier %d users for %s: %v", supplierID, event, err)
		return
	}
	link := fmt.Sprintf("/orders/%d", orderID)
	for _, u := range users {
		s.notifier.Notify(u.ID, event, title, content, link)
	}
}

func (s *OrderService) notifyCreator(order *models.Order, event, title, content string) {
	if s.notifier == nil || order.CreatedBy == nil {
		return
	}
	s.notifier.Notify(*order.CreatedBy, event, title, content, fmt.Sprintf("/orders/%d", order.ID))
}
