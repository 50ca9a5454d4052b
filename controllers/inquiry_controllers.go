package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
	"github.com/starlink-tech/srm-app/utils"
)

type InquiryController struct {
	DB *gorm.DB
}

func NewInquiryController(db *gorm.DB) *InquiryController {
	return &InquiryController{DB: db}
}

// GetAllInquiries -> paginated list with status filter.
func (ic *InquiryController) GetAllInquiries(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := ic.DB.Model(&models.Inquiry{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var inquiries []models.Inquiry
	if err := q.Preload("Creator").Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).Find(&inquiries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of inquiries", inquiries, utils.NewPagination(page, limit, total))
}

// GetInquiryByID -> detail with all submitted quotations.
func (ic *InquiryController) GetInquiryByID(c *gin.Context) {
	id, ok := paramUint(c, "inquiry_id")
	if !ok {
		return
	}

	var inquiry models.Inquiry
	err := ic.DB.
		Preload("Creator").
		Preload("Quotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Preload("Supplier").Preload("Material")
		}).
		First(&inquiry, id).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("inquiry not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inquiry detail", inquiry)
}

// CreateInquiry -> new draft inquiry with a generated IQ number.
func (ic *InquiryController) CreateInquiry(c *gin.Context) {
	actor := currentActor(c)

	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Deadline    string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	inquiry := models.Inquiry{
		InquiryNo:   services.NewDocumentNo("IQ", timeNow()),
		Title:       input.Title,
		Description: input.Description,
		Status:      models.InquiryDraft,
		Deadline:    parseDate(input.Deadline),
		CreatedBy:   &actor.UserID,
	}
	if err := ic.DB.Create(&inquiry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Inquiry created", inquiry)
}

// UpdateInquiry -> edit title/description/deadline while still in draft.
func (ic *InquiryController) UpdateInquiry(c *gin.Context) {
	id, ok := paramUint(c, "inquiry_id")
	if !ok {
		return
	}

	var inquiry models.Inquiry
	if err := ic.DB.First(&inquiry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("inquiry not found"))
		return
	}
	if inquiry.Status != models.InquiryDraft {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only draft inquiries can be edited"))
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Deadline    string  `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Title != nil {
		inquiry.Title = *input.Title
	}
	if input.Description != nil {
		inquiry.Description = *input.Description
	}
	if d := parseDate(input.Deadline); d != nil {
		inquiry.Deadline = d
	}

	if err := ic.DB.Save(&inquiry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inquiry updated", inquiry)
}

// PublishInquiry -> draft -> published; suppliers can quote from here on.
func (ic *InquiryController) PublishInquiry(c *gin.Context) {
	ic.setStatus(c, models.InquiryDraft, models.InquiryPublished,
		"only draft inquiries can be published", "Inquiry published")
}

// CloseInquiry -> published -> closed; no further quotations are accepted.
func (ic *InquiryController) CloseInquiry(c *gin.Context) {
	ic.setStatus(c, models.InquiryPublished, models.InquiryClosed,
		"only published inquiries can be closed", "Inquiry closed")
}

func (ic *InquiryController) setStatus(c *gin.Context, from, to models.InquiryStatus, badMsg, okMsg string) {
	id, ok := paramUint(c, "inquiry_id")
	if !ok {
		return
	}

	var inquiry models.Inquiry
	if err := ic.DB.First(&inquiry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("inquiry not found"))
		return
	}
	if inquiry.Status != from {
		utils.RespondError(c, http.StatusBadRequest, errors.New(badMsg))
		return
	}

	if err := ic.DB.Model(&inquiry).Update("status", to).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	inquiry.Status = to

	utils.RespondJSON(c, http.StatusOK, okMsg, inquiry)
}
