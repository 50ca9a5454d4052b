package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
	"github.com/starlink-tech/srm-app/utils"
)

// QuotationController handles supplier quotations against published
// inquiries. Accepting a quotation hands off to the order service so the
// resulting purchase order goes through the normal creation path.
type QuotationController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewQuotationController(db *gorm.DB, orders *services.OrderService) *QuotationController {
	return &QuotationController{DB: db, Orders: orders}
}

// GetQuotationsByInquiry -> all quotations submitted for one inquiry.
func (qc *QuotationController) GetQuotationsByInquiry(c *gin.Context) {
	id, ok := paramUint(c, "inquiry_id")
	if !ok {
		return
	}

	var quotations []models.Quotation
	err := qc.DB.Preload("Supplier").Preload("Material").
		Where("inquiry_id = ?", id).
		Order("created_at DESC").
		Find(&quotations).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of quotations", quotations)
}

// GetMyQuotations -> the calling supplier's own quotations.
func (qc *QuotationController) GetMyQuotations(c *gin.Context) {
	actor := currentActor(c)
	if actor.SupplierID == nil {
		utils.RespondError(c, http.StatusForbidden, errors.New("no supplier affiliation"))
		return
	}

	var quotations []models.Quotation
	err := qc.DB.Preload("Inquiry").Preload("Material").
		Where("supplier_id = ?", *actor.SupplierID).
		Order("created_at DESC").
		Find(&quotations).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of quotations", quotations)
}

// SubmitQuotation -> supplier quotes a published inquiry, once per inquiry.
func (qc *QuotationController) SubmitQuotation(c *gin.Context) {
	actor := currentActor(c)
	if actor.SupplierID == nil {
		utils.RespondError(c, http.StatusForbidden, errors.New("no supplier affiliation"))
		return
	}

	var input struct {
		InquiryID    uint             `json:"inquiry_id" binding:"required"`
		MaterialID   *uint            `json:"material_id"`
		Quantity     *decimal.Decimal `json:"quantity"`
		UnitPrice    decimal.Decimal  `json:"unit_price" binding:"required"`
		DeliveryDays int              `json:"delivery_days"`
		ValidUntil   string           `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !input.UnitPrice.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unit price must be greater than zero"))
		return
	}

	var inquiry models.Inquiry
	if err := qc.DB.Where("id = ? AND status = ?", input.InquiryID, models.InquiryPublished).
		First(&inquiry).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("inquiry does not exist or is not published"))
		return
	}

	var existing int64
	qc.DB.Model(&models.Quotation{}).
		Where("inquiry_id = ? AND supplier_id = ?", input.InquiryID, *actor.SupplierID).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quotation already submitted for this inquiry"))
		return
	}

	quotation := models.Quotation{
		InquiryID:    input.InquiryID,
		SupplierID:   *actor.SupplierID,
		MaterialID:   input.MaterialID,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DeliveryDays: input.DeliveryDays,
		ValidUntil:   parseDate(input.ValidUntil),
		Status:       models.QuotationPending,
	}
	if err := qc.DB.Create(&quotation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Quotation submitted", quotation)
}

// AcceptQuotation marks a pending quotation accepted and creates the
// purchase order from it. The delivery date is derived from the quoted
// delivery days.
func (qc *QuotationController) AcceptQuotation(c *gin.Context) {
	id, ok := paramUint(c, "quotation_id")
	if !ok {
		return
	}

	var quotation models.Quotation
	if err := qc.DB.First(&quotation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("quotation not found"))
		return
	}
	if quotation.Status != models.QuotationPending {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only pending quotations can be accepted"))
		return
	}
	if quotation.MaterialID == nil || quotation.Quantity == nil {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("quotation has no material or quantity to order"))
		return
	}

	deliveryDate := timeNow().AddDate(0, 0, quotation.DeliveryDays).Truncate(24 * time.Hour)
	order, err := qc.Orders.CreateOrder(currentActor(c), services.CreateOrderInput{
		SupplierID:   quotation.SupplierID,
		MaterialID:   *quotation.MaterialID,
		Quantity:     *quotation.Quantity,
		UnitPrice:    &quotation.UnitPrice,
		DeliveryDate: &deliveryDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := qc.DB.Model(&quotation).Update("status", models.QuotationAccepted).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	quotation.Status = models.QuotationAccepted

	utils.RespondJSON(c, http.StatusOK, "Quotation accepted, order created", gin.H{
		"quotation": quotation,
		"order":     order,
	})
}

// RejectQuotation -> pending -> rejected.
func (qc *QuotationController) RejectQuotation(c *gin.Context) {
	id, ok := paramUint(c, "quotation_id")
	if !ok {
		return
	}

	var quotation models.Quotation
	if err := qc.DB.First(&quotation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("quotation not found"))
		return
	}
	if quotation.Status != models.QuotationPending {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only pending quotations can be rejected"))
		return
	}

	if err := qc.DB.Model(&quotation).Update("status", models.QuotationRejected).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	quotation.Status = models.QuotationRejected

	utils.RespondJSON(c, http.StatusOK, "Quotation rejected", quotation)
}
