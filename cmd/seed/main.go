package main

import (
	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 开发环境演示数据：分类、三种角色的演示账号、若干已上架商品
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Name: "电子产品", Slug: "electronics", Description: "手机、耳机与数码设备", Featured: true, SortOrder: 1},
		{Name: "生活用品", Slug: "lifestyle", Description: "家居与日常好物", Featured: true, SortOrder: 2},
		{Name: "数码配件", Slug: "accessories", Description: "线材、支架与周边配件", SortOrder: 3},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[existing.Slug] = existing.ID
		}
	}

	// 演示账号
	sellerID := seedUser(stdLog, "seller@example.com", constants.RoleSeller, "Demo", "Seller")
	affiliateID := seedUser(stdLog, "affiliate@example.com", constants.RoleAffiliate, "Demo", "Affiliate")
	seedUser(stdLog, "customer@example.com", constants.RoleCustomer, "Demo", "Customer")

	var sellerProfileID uint
	if sellerID > 0 {
		profile := models.SellerProfile{
			UserID:                sellerID,
			BusinessName:          "极市演示店铺",
			BusinessDescription:   "演示用卖家，上架若干测试商品",
			DefaultCommissionRate: decimal.NewFromInt(8),
			Verified:              true,
		}
		var existing models.SellerProfile
		if err := models.DB.Where("user_id = ?", sellerID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&profile).Error; err != nil {
				stdLog.Printf("Failed to create seller profile: %v", err)
			} else {
				sellerProfileID = profile.ID
			}
		} else {
			sellerProfileID = existing.ID
		}
	}

	if affiliateID > 0 {
		var existing models.AffiliateProfile
		if err := models.DB.Where("user_id = ?", affiliateID).First(&existing).Error; err != nil {
			profile := models.AffiliateProfile{
				UserID:  affiliateID,
				Website: "https://blog.example.com",
				Niche:   "数码测评",
			}
			if err := models.DB.Create(&profile).Error; err != nil {
				stdLog.Printf("Failed to create affiliate profile: %v", err)
			}
		}
	}

	// 商品（直接置为已上架，便于本地联调）
	if sellerProfileID > 0 {
		discount := models.NewMoneyFromFloat(79.99)
		products := []models.Product{
			{
				SellerProfileID: sellerProfileID,
				CategoryID:      categoryIDs["electronics"],
				Name:            "无线蓝牙耳机",
				Slug:            "wireless-earphones",
				Description:     "蓝牙 5.0，主动降噪，24 小时续航",
				Price:           models.NewMoneyFromFloat(99.99),
				DiscountPrice:   &discount,
				InventoryCount:  100,
				Status:          constants.ProductStatusActive,
				IsApproved:      1,
			},
			{
				SellerProfileID: sellerProfileID,
				CategoryID:      categoryIDs["electronics"],
				Name:            "智能手表",
				Slug:            "smart-watch",
				Description:     "心率监测、睡眠分析、多种运动模式",
				Price:           models.NewMoneyFromFloat(199.00),
				InventoryCount:  50,
				Status:          constants.ProductStatusActive,
				IsApproved:      1,
			},
			{
				SellerProfileID: sellerProfileID,
				CategoryID:      categoryIDs["accessories"],
				Name:            "磁吸充电线",
				Slug:            "magnetic-cable",
				Description:     "一拖三磁吸接头，100W 快充",
				Price:           models.NewMoneyFromFloat(19.90),
				InventoryCount:  500,
				Status:          constants.ProductStatusActive,
				IsApproved:      1,
			},
		}
		for _, p := range products {
			var existing models.Product
			if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
				if err := models.DB.Create(&p).Error; err != nil {
					stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
				} else {
					stdLog.Printf("Created product: %s", p.Slug)
				}
			} else {
				stdLog.Printf("Product already exists: %s", p.Slug)
			}
		}
	}

	stdLog.Printf("Seed completed")
}

func seedUser(stdLog interface{ Printf(string, ...interface{}) }, email, role, firstName, lastName string) uint {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return existing.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", email, err)
		return 0
	}
	user := models.User{
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		Status:        constants.UserStatusActive,
		EmailVerified: true,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", email, err)
		return 0
	}
	if err := models.DB.Create(&models.Profile{
		UserID:    user.ID,
		FirstName: firstName,
		LastName:  lastName,
	}).Error; err != nil {
		stdLog.Printf("Failed to create profile for %s: %v", email, err)
	}
	stdLog.Printf("Created user: %s (%s)", email, role)
	return user.ID
}
