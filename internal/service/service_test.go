package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// setupServiceTestDB 打开按测试名隔离的内存库并迁移全部表
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.SellerProfile{},
		&models.AffiliateProfile{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AffiliateLink{},
		&models.FlaggedActivity{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func serviceTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "unit-test-secret", ExpireHours: 24},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
		Marketplace: config.MarketplaceConfig{
			FallbackCommissionRate: 5,
			OrderNoPrefix:          "JS",
		},
		Frontend: config.FrontendConfig{BaseURL: "https://shop.example.com/"},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Status:       "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestSeller(t *testing.T, db *gorm.DB, email string, rate float64) *models.SellerProfile {
	t.Helper()
	user := createTestUser(t, db, email, constants.RoleSeller)
	profile := &models.SellerProfile{
		UserID:                user.ID,
		BusinessName:          "测试店铺",
		DefaultCommissionRate: decimal.NewFromFloat(rate),
		Verified:              true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create seller profile failed: %v", err)
	}
	return profile
}

func createTestAffiliate(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := createTestUser(t, db, email, constants.RoleAffiliate)
	profile := &models.AffiliateProfile{UserID: user.ID}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create affiliate profile failed: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: slug, Slug: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerProfileID, categoryID uint, slug string, price float64, inventory int) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerProfileID: sellerProfileID,
		CategoryID:      categoryID,
		Name:            slug,
		Slug:            slug,
		Price:           models.NewMoneyFromFloat(price),
		InventoryCount:  inventory,
		Status:          constants.ProductStatusActive,
		IsApproved:      1,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
