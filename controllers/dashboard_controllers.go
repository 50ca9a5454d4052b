package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type orderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ConfirmedOrders int64           `json:"confirmed_orders"`
	ShippedOrders   int64           `json:"shipped_orders"`
	ReceivedOrders  int64           `json:"received_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

type supplierStats struct {
	TotalSuppliers   int64           `json:"total_suppliers"`
	ActiveSuppliers  int64           `json:"active_suppliers"`
	BlockedSuppliers int64           `json:"blocked_suppliers"`
	PendingSuppliers int64           `json:"pending_suppliers"`
	AverageRating    decimal.Decimal `json:"average_rating"`
}

type inquiryStats struct {
	TotalInquiries     int64 `json:"total_inquiries"`
	DraftInquiries     int64 `json:"draft_inquiries"`
	PublishedInquiries int64 `json:"published_inquiries"`
	ClosedInquiries    int64 `json:"closed_inquiries"`
}

type pendingActions struct {
	PendingOrders        int64 `json:"pending_orders_count"`
	ShippedOrders        int64 `json:"shipped_orders_count"`
	DraftReconciliations int64 `json:"draft_reconciliations_count"`
	PendingInvoices      int64 `json:"pending_invoices_count"`
}

// GetStats aggregates the portal-wide counters the dashboard renders.
func (dc *DashboardController) GetStats(c *gin.Context) {
	var os orderStats
	dc.DB.Model(&models.Order{}).Count(&os.TotalOrders)
	dc.countOrders(models.OrderPending, &os.PendingOrders)
	dc.countOrders(models.OrderConfirmed, &os.ConfirmedOrders)
	dc.countOrders(models.OrderShipped, &os.ShippedOrders)
	dc.countOrders(models.OrderReceived, &os.ReceivedOrders)
	dc.countOrders(models.OrderCompleted, &os.CompletedOrders)
	dc.countOrders(models.OrderCancelled, &os.CancelledOrders)

	var totalAmount decimal.NullDecimal
	dc.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalAmount)
	if totalAmount.Valid {
		os.TotalAmount = totalAmount.Decimal
	}

	var ss supplierStats
	dc.DB.Model(&models.Supplier{}).Count(&ss.TotalSuppliers)
	dc.DB.Model(&models.Supplier{}).Where("status = ?", models.SupplierActive).Count(&ss.ActiveSuppliers)
	dc.DB.Model(&models.Supplier{}).Where("status = ?", models.SupplierBlocked).Count(&ss.BlockedSuppliers)
	dc.DB.Model(&models.Supplier{}).Where("status = ?", models.SupplierPending).Count(&ss.PendingSuppliers)

	var avgRating decimal.NullDecimal
	dc.DB.Model(&models.Supplier{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)
	if avgRating.Valid {
		ss.AverageRating = avgRating.Decimal
	}

	var is inquiryStats
	dc.DB.Model(&models.Inquiry{}).Count(&is.TotalInquiries)
	dc.DB.Model(&models.Inquiry{}).Where("status = ?", models.InquiryDraft).Count(&is.DraftInquiries)
	dc.DB.Model(&models.Inquiry{}).Where("status = ?", models.InquiryPublished).Count(&is.PublishedInquiries)
	dc.DB.Model(&models.Inquiry{}).Where("status = ?", models.InquiryClosed).Count(&is.ClosedInquiries)

	var recentOrders []models.Order
	if err := dc.DB.Preload("Supplier").Preload("Material").
		Order("created_at DESC").Limit(5).
		Find(&recentOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var pa pendingActions
	dc.countOrders(models.OrderPending, &pa.PendingOrders)
	dc.countOrders(models.OrderShipped, &pa.ShippedOrders)
	dc.DB.Model(&models.Reconciliation{}).Where("status = ?", models.ReconciliationDraft).Count(&pa.DraftReconciliations)
	dc.DB.Model(&models.Invoice{}).Where("status = ?", models.InvoicePending).Count(&pa.PendingInvoices)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"order_stats":     os,
		"supplier_stats":  ss,
		"inquiry_stats":   is,
		"recent_orders":   recentOrders,
		"pending_actions": pa,
	})
}

func (dc *DashboardController) countOrders(status models.OrderStatus, dst *int64) {
	dc.DB.Model(&models.Order{}).Where("status = ?", status).Count(dst)
}
