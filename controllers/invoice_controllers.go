package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db}
}

// GetAllInvoices -> paginated list; suppliers see only their own.
func (vc *InvoiceController) GetAllInvoices(c *gin.Context) {
	actor := currentActor(c)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := vc.DB.Model(&models.Invoice{})
	if actor.Role == models.RoleSupplier {
		sid := uint(0)
		if actor.SupplierID != nil {
			sid = *actor.SupplierID
		}
		q = q.Where("supplier_id = ?", sid)
	} else if supplierID := queryInt(c, "supplier_id", 0); supplierID != 0 {
		q = q.Where("supplier_id = ?", supplierID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var invoices []models.Invoice
	if err := q.Preload("Supplier").Preload("Reconciliation").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&invoices).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of invoices", invoices, utils.NewPagination(page, limit, total))
}

// GetInvoiceByID -> invoice detail; suppliers may only read their own.
func (vc *InvoiceController) GetInvoiceByID(c *gin.Context) {
	id, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := vc.DB.Preload("Supplier").Preload("Reconciliation").First(&invoice, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("invoice not found"))
		return
	}

	actor := currentActor(c)
	if actor.Role == models.RoleSupplier &&
		(actor.SupplierID == nil || *actor.SupplierID != invoice.SupplierID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("permission denied"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Invoice detail", invoice)
}

// UploadInvoice -> supplier submits a pending invoice.
func (vc *InvoiceController) UploadInvoice(c *gin.Context) {
	actor := currentActor(c)
	if actor.SupplierID == nil {
		utils.RespondError(c, http.StatusForbidden, errors.New("no supplier affiliation"))
		return
	}

	var input struct {
		InvoiceNo   string           `json:"invoice_no" binding:"required"`
		InvoiceDate string           `json:"invoice_date"`
		Amount      decimal.Decimal  `json:"amount" binding:"required"`
		TaxAmount   *decimal.Decimal `json:"tax_amount"`
		ImageURL    string           `json:"image_url"`
		OCRResult   string           `json:"ocr_result"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !input.Amount.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be greater than zero"))
		return
	}

	invoice := models.Invoice{
		SupplierID:  *actor.SupplierID,
		InvoiceNo:   input.InvoiceNo,
		InvoiceDate: parseDate(input.InvoiceDate),
		Amount:      input.Amount,
		TaxAmount:   input.TaxAmount,
		ImageURL:    input.ImageURL,
		OCRResult:   input.OCRResult,
		Status:      models.InvoicePending,
	}
	if err := vc.DB.Create(&invoice).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Invoice uploaded", invoice)
}

// VerifyInvoice -> pending -> verified.
func (vc *InvoiceController) VerifyInvoice(c *gin.Context) {
	vc.setStatus(c, models.InvoiceVerified, "only pending invoices can be verified", "Invoice verified")
}

// RejectInvoice -> pending -> rejected.
func (vc *InvoiceController) RejectInvoice(c *gin.Context) {
	vc.setStatus(c, models.InvoiceRejected, "only pending invoices can be rejected", "Invoice rejected")
}

func (vc *InvoiceController) setStatus(c *gin.Context, to models.InvoiceStatus, badMsg, okMsg string) {
	id, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := vc.DB.First(&invoice, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("invoice not found"))
		return
	}
	if invoice.Status != models.InvoicePending {
		utils.RespondError(c, http.StatusBadRequest, errors.New(badMsg))
		return
	}

	if err := vc.DB.Model(&invoice).Update("status", to).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	invoice.Status = to

	utils.RespondJSON(c, http.StatusOK, okMsg, invoice)
}

// LinkInvoice attaches an invoice to a reconciliation of the same supplier.
func (vc *InvoiceController) LinkInvoice(c *gin.Context) {
	id, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	var input struct {
		ReconciliationID uint `json:"reconciliation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var invoice models.Invoice
	if err := vc.DB.First(&invoice, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("invoice not found"))
		return
	}

	var rec models.Reconciliation
	if err := vc.DB.First(&rec, input.ReconciliationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reconciliation not found"))
		return
	}

	if invoice.SupplierID != rec.SupplierID {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("invoice and reconciliation belong to different suppliers"))
		return
	}

	if err := vc.DB.Model(&invoice).Update("reconciliation_id", rec.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	invoice.ReconciliationID = &rec.ID

	utils.RespondJSON(c, http.StatusOK, "Invoice linked", invoice)
}
