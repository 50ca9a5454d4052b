package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> verify credentials, return JWT plus the user summary the
// dashboard needs to pick its variant.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Preload("Supplier").Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user %s (role=%s)", user.Username, user.Role)

	supplierName := ""
	if user.Supplier != nil {
		supplierName = user.Supplier.Name
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"role":          user.Role,
			"supplier_id":   user.SupplierID,
			"supplier_name": supplierName,
		},
	})
}

// Logout is stateless; the client discards its token.
func (uc *UserController) Logout(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the authenticated user's own record.
func (uc *UserController) GetProfile(c *gin.Context) {
	actor := currentActor(c)

	var user models.User
	if err := uc.DB.Preload("Supplier").First(&user, actor.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	supplierName := ""
	if user.Supplier != nil {
		supplierName = user.Supplier.Name
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data", gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"role":          user.Role,
		"supplier_id":   user.SupplierID,
		"supplier_name": supplierName,
		"created_at":    user.CreatedAt,
	})
}

// ChangePassword verifies the current password before storing a new hash.
func (uc *UserController) ChangePassword(c *gin.Context) {
	actor := currentActor(c)

	var input struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, actor.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("current password is incorrect"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := uc.DB.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password changed", nil)
}
