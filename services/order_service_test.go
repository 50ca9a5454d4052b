package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

type orderFixture struct {
	db              *gorm.DB
	svc             *OrderService
	purchaser       Actor
	supplierActor   Actor
	otherSupplier   Actor
	activeSupplier  models.Supplier
	blockedSupplier models.Supplier
	material        models.Material
}

func setupOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := setupTestDB(t)

	active := models.Supplier{Name: "Active Supplier", Status: models.SupplierActive, Rating: decimal.NewFromInt(5)}
	blocked := models.Supplier{Name: "Blocked Supplier", Status: models.SupplierBlocked, Rating: decimal.NewFromInt(3)}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&blocked).Error)

	purchaser := models.User{Username: "purchaser", PasswordHash: "x", Role: models.RolePurchaser}
	supplierUser := models.User{Username: "supplier", PasswordHash: "x", Role: models.RoleSupplier, SupplierID: &active.ID}
	require.NoError(t, db.Create(&purchaser).Error)
	require.NoError(t, db.Create(&supplierUser).Error)

	material := models.Material{Code: "BJ-001", Name: "Precision bearing", Unit: "pc"}
	require.NoError(t, db.Create(&material).Error)

	otherID := blocked.ID
	return &orderFixture{
		db:              db,
		svc:             NewOrderService(db, NewDBNotifier(db)),
		purchaser:       Actor{UserID: purchaser.ID, Role: models.RolePurchaser},
		supplierActor:   Actor{UserID: supplierUser.ID, Role: models.RoleSupplier, SupplierID: &active.ID},
		otherSupplier:   Actor{UserID: 99, Role: models.RoleSupplier, SupplierID: &otherID},
		activeSupplier:  active,
		blockedSupplier: blocked,
		material:        material,
	}
}

func (f *orderFixture) createOrder(t *testing.T, qty, price string) *models.Order {
	t.Helper()
	p := decimal.RequireFromString(price)
	order, err := f.svc.CreateOrder(f.purchaser, CreateOrderInput{
		SupplierID: f.activeSupplier.ID,
		MaterialID: f.material.ID,
		Quantity:   decimal.RequireFromString(qty),
		UnitPrice:  &p,
	})
	require.NoError(t, err)
	return order
}

func (f *orderFixture) logCount(t *testing.T, orderID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.OrderLog{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func TestCreateOrderComputesTotalAndWritesLog(t *testing.T) {
	f := setupOrderFixture(t)

	order := f.createOrder(t, "10", "100")

	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1000")),
		"total = %s", order.TotalAmount)
	assert.True(t, strings.HasPrefix(order.OrderNo, "PO"))
	assert.Len(t, order.OrderNo, 12)

	var logs []models.OrderLog
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "created", logs[0].Action)
	assert.Nil(t, logs[0].OldStatus)
	assert.Equal(t, models.OrderPending, logs[0].NewStatus)
	assert.Equal(t, f.purchaser.UserID, *logs[0].OperatorID)
}

func TestCreateOrderValidation(t *testing.T) {
	f := setupOrderFixture(t)
	price := decimal.NewFromInt(10)

	_, err := f.svc.CreateOrder(f.purchaser, CreateOrderInput{
		SupplierID: f.activeSupplier.ID,
		MaterialID: f.material.ID,
		Quantity:   decimal.Zero,
		UnitPrice:  &price,
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.CreateOrder(f.purchaser, CreateOrderInput{
		SupplierID: f.blockedSupplier.ID,
		MaterialID: f.material.ID,
		Quantity:   decimal.NewFromInt(1),
	})
	assert.Equal(t, KindSupplierInactive, KindOf(err))

	_, err = f.svc.CreateOrder(f.purchaser, CreateOrderInput{
		SupplierID: f.activeSupplier.ID,
		MaterialID: 9999,
		Quantity:   decimal.NewFromInt(1),
	})
	assert.Equal(t, KindMaterialNotFound, KindOf(err))

	_, err = f.svc.CreateOrder(f.supplierActor, CreateOrderInput{
		SupplierID: f.activeSupplier.ID,
		MaterialID: f.material.ID,
		Quantity:   decimal.NewFromInt(1),
	})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestOrderHappyPath(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "10", "100")

	order, err := f.svc.ConfirmOrder(order.ID, f.supplierActor)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)

	order, err = f.svc.ShipOrder(order.ID, f.supplierActor, "SF123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
	assert.Equal(t, "SF123", order.TrackingNo)

	order, err = f.svc.ReceiveOrder(order.ID, f.purchaser)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReceived, order.Status)

	order, err = f.svc.CompleteOrder(order.ID, f.purchaser)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)

	logs, err := f.svc.GetTimeline(order.ID, f.purchaser)
	require.NoError(t, err)
	require.Len(t, logs, 5)
	actions := make([]string, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	assert.Equal(t, []string{"created", "confirmed", "shipped", "received", "completed"}, actions)

	shipLog := logs[2]
	assert.Equal(t, models.OrderConfirmed, *shipLog.OldStatus)
	assert.Equal(t, models.OrderShipped, shipLog.NewStatus)
	assert.Contains(t, shipLog.Remark, "SF123")
}

func TestReceiveOnPendingFailsWithoutLog(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	_, err := f.svc.ReceiveOrder(order.ID, f.purchaser)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	assert.EqualValues(t, 1, f.logCount(t, order.ID))

	reloaded, err := f.svc.GetOrder(order.ID, f.purchaser)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, reloaded.Status)
}

func TestConfirmByWrongSupplierForbidden(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	_, err := f.svc.ConfirmOrder(order.ID, f.otherSupplier)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.svc.ConfirmOrder(order.ID, f.purchaser)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestCancelRules(t *testing.T) {
	f := setupOrderFixture(t)

	order := f.createOrder(t, "1", "10")
	order, err := f.svc.CancelOrder(order.ID, f.purchaser)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)

	_, err = f.svc.CancelOrder(order.ID, f.purchaser)
	assert.Equal(t, KindOrderTerminal, KindOf(err))

	shipped := f.createOrder(t, "1", "10")
	_, err = f.svc.ConfirmOrder(shipped.ID, f.supplierActor)
	require.NoError(t, err)
	_, err = f.svc.ShipOrder(shipped.ID, f.supplierActor, "")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(shipped.ID, f.purchaser)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestTransitionsOnTerminalOrder(t *testing.T) {
	f := setupOrderFixture(t)

	cancelled := f.createOrder(t, "1", "10")
	_, err := f.svc.CancelOrder(cancelled.ID, f.purchaser)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOrder(cancelled.ID, f.supplierActor)
	assert.Equal(t, KindOrderTerminal, KindOf(err))
	_, err = f.svc.ShipOrder(cancelled.ID, f.supplierActor, "SF123")
	assert.Equal(t, KindOrderTerminal, KindOf(err))
	_, err = f.svc.ReceiveOrder(cancelled.ID, f.purchaser)
	assert.Equal(t, KindOrderTerminal, KindOf(err))
	_, err = f.svc.CompleteOrder(cancelled.ID, f.purchaser)
	assert.Equal(t, KindOrderTerminal, KindOf(err))

	// Same from the completed side.
	done := f.createOrder(t, "1", "10")
	_, err = f.svc.ConfirmOrder(done.ID, f.supplierActor)
	require.NoError(t, err)
	_, err = f.svc.ShipOrder(done.ID, f.supplierActor, "")
	require.NoError(t, err)
	_, err = f.svc.ReceiveOrder(done.ID, f.purchaser)
	require.NoError(t, err)
	_, err = f.svc.CompleteOrder(done.ID, f.purchaser)
	require.NoError(t, err)

	_, err = f.svc.CompleteOrder(done.ID, f.purchaser)
	assert.Equal(t, KindOrderTerminal, KindOf(err))
	_, err = f.svc.ConfirmOrder(done.ID, f.supplierActor)
	assert.Equal(t, KindOrderTerminal, KindOf(err))

	// Rejected calls must not grow the audit trail.
	assert.EqualValues(t, 2, f.logCount(t, cancelled.ID))
	assert.EqualValues(t, 5, f.logCount(t, done.ID))
}

func TestConcurrentConfirmCancelOneWinner(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	// Snapshot the order as a confirm transition in flight would see it,
	// then let a cancel win the race before the guarded update runs.
	stale, err := f.svc.load(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderPending, stale.Status)

	_, err = f.svc.CancelOrder(order.ID, f.purchaser)
	require.NoError(t, err)

	err = f.svc.applyTransition(stale, models.OrderConfirmed, "confirmed",
		f.supplierActor, "supplier confirmed the order", nil)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	// Exactly one of the two transitions landed: created + cancelled.
	reloaded, err := f.svc.load(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, reloaded.Status)
	assert.EqualValues(t, 2, f.logCount(t, order.ID))
}

func TestUpdateOrderFieldsRecomputesTotal(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "10", "100")

	qty := decimal.RequireFromString("7")
	price := decimal.RequireFromString("12.50")
	updated, err := f.svc.UpdateOrderFields(order.ID, f.purchaser, UpdateOrderInput{
		Quantity:  &qty,
		UnitPrice: &price,
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("87.50")),
		"total = %s", updated.TotalAmount)

	// Field edits are not part of the audit trail.
	assert.EqualValues(t, 1, f.logCount(t, order.ID))

	_, err = f.svc.CancelOrder(order.ID, f.purchaser)
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderFields(order.ID, f.purchaser, UpdateOrderInput{Quantity: &qty})
	assert.Equal(t, KindOrderTerminal, KindOf(err))
}

func TestStaleFieldEditLosesToTerminalTransition(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	// Snapshot as an in-flight edit would, then let a cancel win the race.
	stale, err := f.svc.load(order.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(order.ID, f.purchaser)
	require.NoError(t, err)

	err = f.svc.applyFieldEdit(stale)
	assert.Equal(t, KindOrderTerminal, KindOf(err))
	// The error names the status that won the race, not the stale one.
	assert.Contains(t, err.Error(), string(models.OrderCancelled))

	reloaded, err := f.svc.load(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, reloaded.Status)
}

func TestOrderNotifications(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	var supplierNotifs []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.supplierActor.UserID).Find(&supplierNotifs).Error)
	require.Len(t, supplierNotifs, 1)
	assert.Equal(t, "order_created", supplierNotifs[0].Type)
	assert.Contains(t, supplierNotifs[0].Content, order.OrderNo)

	_, err := f.svc.ConfirmOrder(order.ID, f.supplierActor)
	require.NoError(t, err)

	var creatorNotifs []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.purchaser.UserID).Find(&creatorNotifs).Error)
	require.Len(t, creatorNotifs, 1)
	assert.Equal(t, "order_confirmed", creatorNotifs[0].Type)
}

func TestListOrdersScopingAndFilters(t *testing.T) {
	f := setupOrderFixture(t)
	first := f.createOrder(t, "1", "10")
	f.createOrder(t, "2", "20")

	_, err := f.svc.ConfirmOrder(first.ID, f.supplierActor)
	require.NoError(t, err)

	orders, total, err := f.svc.ListOrders(f.purchaser, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	orders, total, err = f.svc.ListOrders(f.purchaser, OrderFilter{Status: models.OrderConfirmed})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	// A supplier only ever sees its own orders, even with a foreign filter.
	orders, total, err = f.svc.ListOrders(f.otherSupplier, OrderFilter{SupplierID: f.activeSupplier.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, orders)

	_, total, err = f.svc.ListOrders(f.supplierActor, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestGetOrderSupplierScoping(t *testing.T) {
	f := setupOrderFixture(t)
	order := f.createOrder(t, "1", "10")

	_, err := f.svc.GetOrder(order.ID, f.otherSupplier)
	assert.Equal(t, KindForbidden, KindOf(err))

	got, err := f.svc.GetOrder(order.ID, f.supplierActor)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.NotEmpty(t, got.Logs)

	_, err = f.svc.GetOrder(9999, f.purchaser)
	assert.Equal(t, KindNotFound, KindOf(err))
}
