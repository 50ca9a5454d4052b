package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/controllers"
	"github.com/starlink-tech/srm-app/middlewares"
	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
)

const version = "1.0.0"

// SetupRouter wires middlewares, controllers and the /api/v1 route tree.
// Role gates here are the coarse filter; supplier ownership is re-checked
// inside the services.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	// 50 requests per second per IP across the whole API.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	notifier := services.NewDBNotifier(db)
	orderSvc := services.NewOrderService(db, notifier)
	recSvc := services.NewReconciliationService(db)

	userCtrl := controllers.NewUserController(db)
	supplierCtrl := controllers.NewSupplierController(db)
	materialCtrl := controllers.NewMaterialController(db)
	orderCtrl := controllers.NewOrderController(orderSvc)
	inquiryCtrl := controllers.NewInquiryController(db)
	quotationCtrl := controllers.NewQuotationController(db, orderSvc)
	recCtrl := controllers.NewReconciliationController(recSvc)
	invoiceCtrl := controllers.NewInvoiceController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	dashboardCtrl := controllers.NewDashboardController(db)
	aiCtrl := controllers.NewAIController(db)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
	auth.POST("/logout", middlewares.AuthMiddleware(), userCtrl.Logout)
	auth.GET("/profile", middlewares.AuthMiddleware(), userCtrl.GetProfile)
	auth.PUT("/password", middlewares.AuthMiddleware(), userCtrl.ChangePassword)

	authed := v1.Group("/")
	authed.Use(middlewares.AuthMiddleware())

	managers := middlewares.RequireRoles(models.RoleAdmin, models.RolePurchaser)
	finance := middlewares.RequireRoles(models.RoleAdmin, models.RolePurchaser, models.RoleFinance)
	suppliers := middlewares.RequireRoles(models.RoleSupplier)

	// SUPPLIERS
	authed.GET("/suppliers", supplierCtrl.GetAllSuppliers)
	authed.GET("/suppliers/:supplier_id", supplierCtrl.GetSupplierByID)
	authed.POST("/suppliers", managers, supplierCtrl.CreateSupplier)
	authed.PUT("/suppliers/:supplier_id", managers, supplierCtrl.UpdateSupplier)
	authed.POST("/suppliers/:supplier_id/block", managers, supplierCtrl.BlockSupplier)
	authed.POST("/suppliers/:supplier_id/activate", managers, supplierCtrl.ActivateSupplier)
	authed.PUT("/suppliers/:supplier_id/rating", managers, supplierCtrl.UpdateRating)

	// MATERIALS
	authed.GET("/materials", materialCtrl.GetAllMaterials)
	authed.GET("/materials/:material_id", materialCtrl.GetMaterialByID)
	authed.POST("/materials", managers, materialCtrl.CreateMaterial)
	authed.PUT("/materials/:material_id", managers, materialCtrl.UpdateMaterial)

	// ORDERS
	authed.GET("/orders", orderCtrl.GetAllOrders)
	authed.GET("/orders/export", orderCtrl.ExportOrders)
	authed.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	authed.GET("/orders/:order_id/timeline", orderCtrl.GetOrderTimeline)
	authed.POST("/orders", managers, orderCtrl.CreateOrder)
	authed.PUT("/orders/:order_id", managers, orderCtrl.UpdateOrder)
	authed.POST("/orders/:order_id/confirm", suppliers, orderCtrl.ConfirmOrder)
	authed.POST("/orders/:order_id/ship", suppliers, orderCtrl.ShipOrder)
	authed.POST("/orders/:order_id/receive", managers, orderCtrl.ReceiveOrder)
	authed.POST("/orders/:order_id/complete", managers, orderCtrl.CompleteOrder)
	authed.POST("/orders/:order_id/cancel", managers, orderCtrl.CancelOrder)

	// INQUIRIES
	authed.GET("/inquiries", inquiryCtrl.GetAllInquiries)
	authed.GET("/inquiries/:inquiry_id", inquiryCtrl.GetInquiryByID)
	authed.POST("/inquiries", managers, inquiryCtrl.CreateInquiry)
	authed.PUT("/inquiries/:inquiry_id", managers, inquiryCtrl.UpdateInquiry)
	authed.POST("/inquiries/:inquiry_id/publish", managers, inquiryCtrl.PublishInquiry)
	authed.POST("/inquiries/:inquiry_id/close", managers, inquiryCtrl.CloseInquiry)

	// QUOTATIONS
	authed.GET("/quotations/inquiry/:inquiry_id", quotationCtrl.GetQuotationsByInquiry)
	authed.GET("/quotations/my", suppliers, quotationCtrl.GetMyQuotations)
	authed.POST("/quotations", suppliers, quotationCtrl.SubmitQuotation)
	authed.POST("/quotations/:quotation_id/accept", managers, quotationCtrl.AcceptQuotation)
	authed.POST("/quotations/:quotation_id/reject", managers, quotationCtrl.RejectQuotation)

	// RECONCILIATIONS
	authed.GET("/reconciliations", recCtrl.GetAllReconciliations)
	authed.GET("/reconciliations/:reconciliation_id", recCtrl.GetReconciliationByID)
	authed.POST("/reconciliations", finance, recCtrl.CreateReconciliation)
	authed.POST("/reconciliations/:reconciliation_id/send", finance, recCtrl.SendReconciliation)
	authed.POST("/reconciliations/:reconciliation_id/confirm", suppliers, recCtrl.ConfirmReconciliation)
	authed.POST("/reconciliations/:reconciliation_id/paid", finance, recCtrl.MarkReconciliationPaid)

	// INVOICES
	authed.GET("/invoices", invoiceCtrl.GetAllInvoices)
	authed.GET("/invoices/:invoice_id", invoiceCtrl.GetInvoiceByID)
	authed.POST("/invoices", suppliers, invoiceCtrl.UploadInvoice)
	authed.POST("/invoices/:invoice_id/verify", finance, invoiceCtrl.VerifyInvoice)
	authed.POST("/invoices/:invoice_id/reject", finance, invoiceCtrl.RejectInvoice)
	authed.POST("/invoices/:invoice_id/link", finance, invoiceCtrl.LinkInvoice)

	// NOTIFICATIONS
	authed.GET("/notifications", notificationCtrl.GetNotifications)
	authed.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
	authed.PUT("/notifications/read-all", notificationCtrl.MarkAllRead)
	authed.PUT("/notifications/:notification_id/read", notificationCtrl.MarkRead)
	authed.DELETE("/notifications/:notification_id", notificationCtrl.DeleteNotification)

	// DASHBOARD
	authed.GET("/dashboard/stats", finance, dashboardCtrl.GetStats)

	// AI ASSISTANT
	authed.POST("/ai/parse-order", aiCtrl.ParseOrder)
	authed.POST("/ai/polish-inquiry", aiCtrl.PolishInquiry)
	authed.POST("/ai/audit-reconciliation", finance, aiCtrl.AuditReconciliation)
	authed.POST("/ai/ocr-invoice", aiCtrl.OCRInvoice)
	authed.GET("/ai/audit-history", aiCtrl.GetAuditHistory)

	return r
}
