//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.AffiliateLink{},
		&models.CartItem{},
		&models.Product{},
		&models.SellerProfile{},
		&models.Category{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SellerProfile{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AffiliateLink{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchAndInventory(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{Name: "Postgres 分类", Slug: "pg-category"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	seller := &models.SellerProfile{UserID: 1, BusinessName: "PG 店铺"}
	if err := db.Create(seller).Error; err != nil {
		t.Fatalf("create seller profile failed: %v", err)
	}

	productRepo := NewProductRepository(db)
	product := &models.Product{
		SellerProfileID: seller.ID,
		CategoryID:      category.ID,
		Name:            "火箭耳机",
		Slug:            "pg-product-rocket",
		Description:     "rocket booster earphones",
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		InventoryCount:  3,
		Status:          constants.ProductStatusActive,
		IsApproved:      1,
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	// ILIKE 模糊搜索（中文按原样匹配，英文不区分大小写）
	rows, total, err := productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "火箭"})
	if err != nil {
		t.Fatalf("product search zh failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search zh want 1 got total=%d len=%d", total, len(rows))
	}
	rows, total, err = productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "ROCKET"})
	if err != nil {
		t.Fatalf("product search en failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search en want 1 got total=%d len=%d", total, len(rows))
	}

	// 条件扣减库存：超量扣减不生效
	affected, err := productRepo.DecrementInventory(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement inventory failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}
	affected, err = productRepo.DecrementInventory(product.ID, 5)
	if err != nil {
		t.Fatalf("decrement inventory over limit failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("over-limit decrement affected want 0 got %d", affected)
	}

	reloaded, err := productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.InventoryCount != 1 {
		t.Fatalf("inventory want 1 got %d", reloaded.InventoryCount)
	}
}

func TestPostgresAffiliateCounters(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	link := &models.AffiliateLink{
		UserID:         7,
		ProductID:      11,
		Code:           "PGTRACK01",
		CommissionRate: decimal.NewFromInt(10),
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("create affiliate link failed: %v", err)
	}

	repo := NewAffiliateRepository(db)
	for i := 0; i < 3; i++ {
		if _, err := repo.IncrementClicks(link.ID); err != nil {
			t.Fatalf("increment clicks failed: %v", err)
		}
	}
	if _, err := repo.AccrueConversion(link.ID, decimal.NewFromFloat(12.50)); err != nil {
		t.Fatalf("accrue conversion failed: %v", err)
	}

	stats, err := repo.StatsByUser(link.UserID)
	if err != nil {
		t.Fatalf("stats by user failed: %v", err)
	}
	if stats.TotalClicks != 3 {
		t.Fatalf("total clicks want 3 got %d", stats.TotalClicks)
	}
	if stats.TotalConversions != 1 {
		t.Fatalf("total conversions want 1 got %d", stats.TotalConversions)
	}
	if !stats.TotalEarnings.Equal(decimal.NewFromFloat(12.50)) {
		t.Fatalf("total earnings want 12.50 got %s", stats.TotalEarnings.String())
	}
}
