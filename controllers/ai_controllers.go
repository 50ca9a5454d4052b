package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

// AIController serves the assistant endpoints. The responses are canned;
// a real deployment would put an LLM client behind the same shapes.
type AIController struct {
	DB *gorm.DB
}

func NewAIController(db *gorm.DB) *AIController {
	return &AIController{DB: db}
}

// ParseOrder extracts order fields from a free-text purchase request.
func (ac *AIController) ParseOrder(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("purchase request text is required"))
		return
	}

	tomorrow := timeNow().AddDate(0, 0, 1).Format(dateLayout)
	utils.RespondJSON(c, http.StatusOK, "Order parsed", gin.H{
		"supplier_name": "Huawei Machinery",
		"material_name": "Precision Bearing",
		"quantity":      500,
		"delivery_date": tomorrow,
		"confidence":    0.92,
		"raw_response": fmt.Sprintf(
			"Extracted from %q: supplier Huawei Machinery, material Precision Bearing, quantity 500, delivery tomorrow",
			input.Text),
	})
}

// PolishInquiry rewrites an inquiry description and suggests additions.
func (ac *AIController) PolishInquiry(c *gin.Context) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("inquiry description is required"))
		return
	}

	title := input.Title
	if title == "" {
		title = "Purchase inquiry"
	}
	utils.RespondJSON(c, http.StatusOK, "Inquiry polished", gin.H{
		"polished_title":       title,
		"polished_description": input.Description,
		"suggestions": []string{
			"Add concrete specification parameters",
			"State the delivery location",
			"Describe the payment terms",
		},
		"enhanced_description": input.Description +
			"\n\n[Specifications] State the exact technical parameters" +
			"\n[Delivery] State the delivery location and schedule" +
			"\n[Payment] Terms negotiable",
	})
}

// AuditReconciliation runs the canned audit and stores the result on the
// reconciliation so it shows up in the audit history.
func (ac *AIController) AuditReconciliation(c *gin.Context) {
	var input struct {
		ReconciliationID uint `json:"reconciliation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("reconciliation id is required"))
		return
	}

	var rec models.Reconciliation
	if err := ac.DB.First(&rec, input.ReconciliationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reconciliation not found"))
		return
	}

	var orderCount int64
	ac.DB.Model(&models.Order{}).
		Where("supplier_id = ?", rec.SupplierID).
		Where("status IN ?", []models.OrderStatus{models.OrderReceived, models.OrderCompleted}).
		Where("delivery_date BETWEEN ? AND ?", rec.PeriodStart, rec.PeriodEnd).
		Count(&orderCount)
	var invoiceCount int64
	ac.DB.Model(&models.Invoice{}).Where("reconciliation_id = ?", rec.ID).Count(&invoiceCount)

	result := gin.H{
		"reconciliation_id": rec.ID,
		"status":            "pass",
		"issues":            []string{},
		"summary":           "Reconciliation figures are consistent, no anomalies found",
		"suggestions": []string{
			"Reconcile the running account with the supplier regularly",
			"Resolve discrepancy items promptly",
		},
		"audit_details": gin.H{
			"order_count":        orderCount,
			"total_order_amount": rec.TotalAmount,
			"invoice_count":      invoiceCount,
			"difference":         0,
		},
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := ac.DB.Model(&rec).Update("ai_audit_result", string(raw)).Error; err != nil {
			utils.ErrorLogger.Printf("store audit result for reconciliation %d: %v", rec.ID, err)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Reconciliation audited", result)
}

// OCRInvoice returns the recognized fields for an invoice image.
func (ac *AIController) OCRInvoice(c *gin.Context) {
	var input struct {
		ImageURL string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invoice image url is required"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Invoice recognized", gin.H{
		"invoice_no":   "FP2024010001",
		"invoice_date": "2024-01-15",
		"amount":       10000.00,
		"tax_amount":   1300.00,
		"seller_name":  "Huawei Machinery Co., Ltd.",
		"confidence":   0.95,
		"raw_text":     "Invoice no: FP2024010001\nDate: 2024-01-15\nAmount: 10000\nTax: 1300",
	})
}

// GetAuditHistory lists reconciliations that have a stored audit result.
// Suppliers only see their own.
func (ac *AIController) GetAuditHistory(c *gin.Context) {
	actor := currentActor(c)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := ac.DB.Model(&models.Reconciliation{}).
		Where("ai_audit_result <> ''")
	if actor.Role == models.RoleSupplier {
		sid := uint(0)
		if actor.SupplierID != nil {
			sid = *actor.SupplierID
		}
		q = q.Where("supplier_id = ?", sid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var recs []models.Reconciliation
	if err := q.Preload("Supplier").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&recs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "Audit history", recs, utils.NewPagination(page, limit, total))
}
