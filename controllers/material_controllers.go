package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

type MaterialController struct {
	DB *gorm.DB
}

func NewMaterialController(db *gorm.DB) *MaterialController {
	return &MaterialController{DB: db}
}

func (mc *MaterialController) GetAllMaterials(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := mc.DB.Model(&models.Material{})
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var materials []models.Material
	if err := q.Order("code ASC").Limit(limit).Offset((page - 1) * limit).Find(&materials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of materials", materials, utils.NewPagination(page, limit, total))
}

func (mc *MaterialController) GetMaterialByID(c *gin.Context) {
	id, ok := paramUint(c, "material_id")
	if !ok {
		return
	}

	var material models.Material
	if err := mc.DB.First(&material, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Material detail", material)
}

func (mc *MaterialController) CreateMaterial(c *gin.Context) {
	var input struct {
		Code          string `json:"code" binding:"required"`
		Name          string `json:"name" binding:"required"`
		Specification string `json:"specification"`
		Unit          string `json:"unit"`
		Category      string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	material := models.Material{
		Code:          input.Code,
		Name:          input.Name,
		Specification: input.Specification,
		Unit:          input.Unit,
		Category:      input.Category,
	}
	if err := mc.DB.Create(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("material code already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Material created", material)
}

func (mc *MaterialController) UpdateMaterial(c *gin.Context) {
	id, ok := paramUint(c, "material_id")
	if !ok {
		return
	}

	var material models.Material
	if err := mc.DB.First(&material, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	var input struct {
		Name          *string `json:"name"`
		Specification *string `json:"specification"`
		Unit          *string `json:"unit"`
		Category      *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Name != nil {
		material.Name = *input.Name
	}
	if input.Specification != nil {
		material.Specification = *input.Specification
	}
	if input.Unit != nil {
		material.Unit = *input.Unit
	}
	if input.Category != nil {
		material.Category = *input.Category
	}

	if err := mc.DB.Save(&material).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Material updated", material)
}
