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

type SupplierController struct {
	DB *gorm.DB
}

func NewSupplierController(db *gorm.DB) *SupplierController {
	return &SupplierController{DB: db}
}

// GetAllSuppliers -> paginated list with status filter and name search.
func (sc *SupplierController) GetAllSuppliers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := sc.DB.Model(&models.Supplier{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR contact_name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var suppliers []models.Supplier
	if err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&suppliers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of suppliers", suppliers, utils.NewPagination(page, limit, total))
}

// GetSupplierByID -> supplier detail plus its order stats.
func (sc *SupplierController) GetSupplierByID(c *gin.Context) {
	id, ok := paramUint(c, "supplier_id")
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("supplier not found"))
		return
	}

	var stats struct {
		TotalOrders int64 `json:"total_orders"`
		Pending     int64 `json:"pending"`
		Completed   int64 `json:"completed"`
	}
	sc.DB.Model(&models.Order{}).Where("supplier_id = ?", id).Count(&stats.TotalOrders)
	sc.DB.Model(&models.Order{}).Where("supplier_id = ? AND status = ?", id, models.OrderPending).Count(&stats.Pending)
	sc.DB.Model(&models.Order{}).Where("supplier_id = ? AND status = ?", id, models.OrderCompleted).Count(&stats.Completed)

	utils.RespondJSON(c, http.StatusOK, "Supplier detail", gin.H{
		"supplier":    supplier,
		"order_stats": stats,
	})
}

// CreateSupplier -> new active supplier; names are unique.
func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var input struct {
		Name         string `json:"name" binding:"required"`
		ContactName  string `json:"contact_name"`
		ContactPhone string `json:"contact_phone"`
		Address      string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	supplier := models.Supplier{
		Name:         input.Name,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		Address:      input.Address,
		Status:       models.SupplierActive,
		Rating:       decimal.NewFromInt(5),
	}
	if err := sc.DB.Create(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("supplier name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Supplier created", supplier)
}

// UpdateSupplier -> edit contact fields; renames keep the uniqueness check.
func (sc *SupplierController) UpdateSupplier(c *gin.Context) {
	id, ok := paramUint(c, "supplier_id")
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("supplier not found"))
		return
	}

	var input struct {
		Name         *string `json:"name"`
		ContactName  *string `json:"contact_name"`
		ContactPhone *string `json:"contact_phone"`
		Address      *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.ContactName != nil {
		supplier.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		supplier.ContactPhone = *input.ContactPhone
	}
	if input.Address != nil {
		supplier.Address = *input.Address
	}

	if err := sc.DB.Save(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("supplier name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Supplier updated", supplier)
}

// BlockSupplier -> active/pending -> blocked. Blocked suppliers cannot
// receive new orders.
func (sc *SupplierController) BlockSupplier(c *gin.Context) {
	sc.setStatus(c, models.SupplierBlocked, "supplier is already blocked", "Supplier blocked")
}

// ActivateSupplier -> blocked/pending -> active.
func (sc *SupplierController) ActivateSupplier(c *gin.Context) {
	sc.setStatus(c, models.SupplierActive, "supplier is already active", "Supplier activated")
}

func (sc *SupplierController) setStatus(c *gin.Context, to models.SupplierStatus, alreadyMsg, okMsg string) {
	id, ok := paramUint(c, "supplier_id")
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("supplier not found"))
		return
	}

	if supplier.Status == to {
		utils.RespondError(c, http.StatusBadRequest, errors.New(alreadyMsg))
		return
	}

	if err := sc.DB.Model(&supplier).Update("status", to).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	supplier.Status = to

	utils.RespondJSON(c, http.StatusOK, okMsg, supplier)
}

// UpdateRating -> set the 0-5 supplier score.
func (sc *SupplierController) UpdateRating(c *gin.Context) {
	id, ok := paramUint(c, "supplier_id")
	if !ok {
		return
	}

	var input struct {
		Rating decimal.Decimal `json:"rating"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Rating.IsNegative() || input.Rating.GreaterThan(decimal.NewFromInt(5)) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 0 and 5"))
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("supplier not found"))
		return
	}

	if err := sc.DB.Model(&supplier).Update("rating", input.Rating).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	supplier.Rating = input.Rating

	utils.RespondJSON(c, http.StatusOK, "Rating updated", supplier)
}
