package database

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

// Seed populates an empty database with the demo accounts, suppliers and
// materials the portal ships with. It is a no-op once users exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	utils.InfoLogger.Println("Seeding database...")

	suppliers := []models.Supplier{
		{Name: "Huawei Machinery", ContactName: "Manager Zhang", ContactPhone: "13800138001", Address: "Bao'an District, Shenzhen", Status: models.SupplierActive, Rating: decimal.RequireFromString("4.8")},
		{Name: "Luxshare Electronics", ContactName: "Director Li", ContactPhone: "13800138002", Address: "Chang'an Town, Dongguan", Status: models.SupplierActive, Rating: decimal.RequireFromString("4.5")},
		{Name: "Yueli Materials", ContactName: "Mr. Wang", ContactPhone: "13800138003", Address: "Tianhe District, Guangzhou", Status: models.SupplierActive, Rating: decimal.RequireFromString("4.2")},
		{Name: "Huaxin Hardware", ContactName: "Manager Liu", ContactPhone: "13800138004", Address: "Shunde District, Foshan", Status: models.SupplierBlocked, Rating: decimal.RequireFromString("3.5")},
	}
	if err := db.Create(&suppliers).Error; err != nil {
		return err
	}

	users := []models.User{
		{Username: "admin", PasswordHash: mustHash("admin123"), Role: models.RoleAdmin},
		{Username: "purchaser", PasswordHash: mustHash("purchase123"), Role: models.RolePurchaser},
		{Username: "finance", PasswordHash: mustHash("finance123"), Role: models.RoleFinance},
		{Username: "huawei", PasswordHash: mustHash("huawei123"), Role: models.RoleSupplier, SupplierID: &suppliers[0].ID},
		{Username: "luxshare", PasswordHash: mustHash("luxshare123"), Role: models.RoleSupplier, SupplierID: &suppliers[1].ID},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	materials := []models.Material{
		{Code: "BJ-001", Name: "Precision bearing", Specification: "P0 grade", Unit: "pc", Category: "bearings"},
		{Code: "DJ-002", Name: "Electric motor", Specification: "2.2kW three-phase async", Unit: "unit", Category: "motors"},
		{Code: "DL-003", Name: "Power cable", Specification: "3*16+1*10", Unit: "m", Category: "cables"},
		{Code: "SS-004", Name: "Stainless steel plate", Specification: "304 3mm", Unit: "sqm", Category: "sheet metal"},
		{Code: "JG-005", Name: "Fastener kit", Specification: "M3-M20", Unit: "set", Category: "hardware"},
		{Code: "KF-006", Name: "PLC controller", Specification: "programmable", Unit: "pc", Category: "electrical"},
		{Code: "DM-007", Name: "Linear guide rail", Specification: "linear", Unit: "m", Category: "transmission"},
		{Code: "CJ-008", Name: "Photoelectric sensor", Specification: "photoelectric", Unit: "pc", Category: "sensors"},
	}
	if err := db.Create(&materials).Error; err != nil {
		return err
	}

	deadline := time.Now().AddDate(0, 1, 0)
	inquiry := models.Inquiry{
		InquiryNo:   "IQ2024010001",
		Title:       "Precision bearing sourcing inquiry",
		Description: "Long-term sourcing of precision bearings, 500-1000 pcs per month, P0 grade required",
		Status:      models.InquiryPublished,
		Deadline:    &deadline,
		CreatedBy:   &users[1].ID,
	}
	if err := db.Create(&inquiry).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Database seeded successfully")
	return nil
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
