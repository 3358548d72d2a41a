package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type affiliateServiceFixture struct {
	db        *gorm.DB
	svc       *AffiliateService
	seller    *models.SellerProfile
	affiliate *models.User
	product   *models.Product
}

func setupAffiliateServiceTest(t *testing.T) *affiliateServiceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewAffiliateService(
		serviceTestConfig(),
		repository.NewAffiliateRepository(db),
		repository.NewProductRepository(db),
		repository.NewSellerRepository(db),
	)

	seller := createTestSeller(t, db, "seller@example.com", 8)
	category := createTestCategory(t, db, "digital")
	return &affiliateServiceFixture{
		db:        db,
		svc:       svc,
		seller:    seller,
		affiliate: createTestAffiliate(t, db, "affiliate@example.com"),
		product:   createTestProduct(t, db, seller.ID, category.ID, "wireless-earphones", 100, 10),
	}
}

func TestGenerateLinkIdempotent(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	link, created, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the link")
	}
	if len(link.Code) != constants.AffiliateCodeLength {
		t.Fatalf("unexpected code length: %q", link.Code)
	}
	if !link.CommissionRate.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected seller default rate 8, got %s", link.CommissionRate)
	}

	again, created, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if created {
		t.Fatalf("expected second call to reuse the link")
	}
	if again.ID != link.ID || again.Code != link.Code {
		t.Fatalf("expected same link back, got id=%d code=%q", again.ID, again.Code)
	}
}

func TestGenerateLinkGuards(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	_, _, err := fx.svc.GenerateLink(fx.affiliate.ID+100, fx.product.ID)
	if !errors.Is(err, ErrAffiliateProfileMissing) {
		t.Fatalf("expected ErrAffiliateProfileMissing, got %v", err)
	}

	_, _, err = fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID+100)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGenerateLinkFreezesCommissionRate(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}

	// 卖家调整默认比例后，已有链接保持创建时的快照
	err = fx.db.Model(&models.SellerProfile{}).
		Where("id = ?", fx.seller.ID).
		Update("default_commission_rate", decimal.NewFromInt(20)).Error
	if err != nil {
		t.Fatalf("update seller rate failed: %v", err)
	}

	category := createTestCategory(t, fx.db, "accessories")
	second := createTestProduct(t, fx.db, fx.seller.ID, category.ID, "magnetic-cable", 20, 5)
	newLink, _, err := fx.svc.GenerateLink(fx.affiliate.ID, second.ID)
	if err != nil {
		t.Fatalf("generate second link failed: %v", err)
	}
	if !newLink.CommissionRate.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected new link to use rate 20, got %s", newLink.CommissionRate)
	}

	var reloaded models.AffiliateLink
	if err := fx.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if !reloaded.CommissionRate.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("frozen rate changed: got %s", reloaded.CommissionRate)
	}
}

func TestGenerateLinkFallbackRate(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	err := fx.db.Model(&models.SellerProfile{}).
		Where("id = ?", fx.seller.ID).
		Update("default_commission_rate", decimal.Zero).Error
	if err != nil {
		t.Fatalf("reset seller rate failed: %v", err)
	}

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}
	if !link.CommissionRate.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected fallback rate 5, got %s", link.CommissionRate)
	}
}

func TestResolveAndTrack(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}

	target, tracked, err := fx.svc.ResolveAndTrack(link.Code)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	wantTarget := fmt.Sprintf("https://shop.example.com/products/%s?ref=%s", fx.product.Slug, link.Code)
	if target != wantTarget {
		t.Fatalf("target = %q, want %q", target, wantTarget)
	}
	if tracked.ID != link.ID {
		t.Fatalf("tracked wrong link: %d", tracked.ID)
	}

	// 小写追踪码照常解析
	if _, _, err := fx.svc.ResolveAndTrack("  " + strings.ToLower(link.Code) + " "); err != nil {
		t.Fatalf("lowercase resolve failed: %v", err)
	}

	var reloaded models.AffiliateLink
	if err := fx.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if reloaded.Clicks != 2 {
		t.Fatalf("clicks = %d, want 2", reloaded.Clicks)
	}
	if reloaded.Conversions != 0 {
		t.Fatalf("clicks must not touch conversions, got %d", reloaded.Conversions)
	}

	if _, _, err := fx.svc.ResolveAndTrack("NOPE1234"); !errors.Is(err, ErrAffiliateCodeInvalid) {
		t.Fatalf("expected ErrAffiliateCodeInvalid, got %v", err)
	}
}

func TestAccrueConversion(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}

	err = fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.svc.AccrueConversion(tx, link, models.NewMoneyFromFloat(199.90))
	})
	if err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	var reloaded models.AffiliateLink
	if err := fx.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if reloaded.Conversions != 1 {
		t.Fatalf("conversions = %d, want 1", reloaded.Conversions)
	}
	// 199.90 * 8% = 15.99
	if !reloaded.Earnings.Equal(decimal.NewFromFloat(15.99)) {
		t.Fatalf("earnings = %s, want 15.99", reloaded.Earnings)
	}
}

func TestDashboardStats(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	stats, err := fx.svc.DashboardStats(fx.affiliate.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalLinks != 0 || stats.TotalClicks != 0 || stats.TotalConversions != 0 || !stats.TotalEarnings.IsZero() {
		t.Fatalf("expected zero-filled stats, got %+v", stats)
	}

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}
	if _, _, err := fx.svc.ResolveAndTrack(link.Code); err != nil {
		t.Fatalf("track failed: %v", err)
	}
	err = fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.svc.AccrueConversion(tx, link, models.NewMoneyFromFloat(100))
	})
	if err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	stats, err = fx.svc.DashboardStats(fx.affiliate.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalLinks != 1 || stats.TotalClicks != 1 || stats.TotalConversions != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.TotalEarnings.Equal(decimal.NewFromFloat(8)) {
		t.Fatalf("earnings = %s, want 8", stats.TotalEarnings)
	}

	if _, err := fx.svc.DashboardStats(fx.affiliate.ID + 100); !errors.Is(err, ErrAffiliateProfileMissing) {
		t.Fatalf("expected ErrAffiliateProfileMissing, got %v", err)
	}
}

func TestLinkPerformanceReport(t *testing.T) {
	fx := setupAffiliateServiceTest(t)

	link, _, err := fx.svc.GenerateLink(fx.affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, _, err := fx.svc.ResolveAndTrack(link.Code); err != nil {
			t.Fatalf("track failed: %v", err)
		}
	}
	err = fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.svc.AccrueConversion(tx, link, models.NewMoneyFromFloat(50))
	})
	if err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	report, total, err := fx.svc.LinkPerformanceReport(fx.affiliate.ID, 1, 10)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if total != 1 || len(report) != 1 {
		t.Fatalf("expected single link, got total=%d len=%d", total, len(report))
	}
	// 1 成交 / 4 点击 = 25%
	if !report[0].ConversionRate.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("conversion rate = %s, want 25", report[0].ConversionRate)
	}
}
