package service

import (
	"errors"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewAdminService(
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewFlaggedRepository(db),
	)
	return svc, db
}

func TestAdminDashboard(t *testing.T) {
	svc, db := setupAdminServiceTest(t)
	seller := createTestSeller(t, db, "seller@example.com", 8)
	category := createTestCategory(t, db, "digital")
	createTestUser(t, db, "customer@example.com", constants.RoleCustomer)
	createTestProduct(t, db, seller.ID, category.ID, "smart-watch", 199, 5)

	pending := createTestProduct(t, db, seller.ID, category.ID, "pending-item", 10, 1)
	err := db.Model(&models.Product{}).
		Where("id = ?", pending.ID).
		Updates(map[string]interface{}{"status": constants.ProductStatusPending, "is_approved": constants.ProductApprovalPending}).Error
	if err != nil {
		t.Fatalf("downgrade product failed: %v", err)
	}

	orders := []models.Order{
		{OrderNo: "JS1", UserID: 1, Status: constants.OrderStatusDelivered, TotalAmount: models.NewMoneyFromFloat(100)},
		{OrderNo: "JS2", UserID: 1, Status: constants.OrderStatusPending, TotalAmount: models.NewMoneyFromFloat(50)},
		{OrderNo: "JS3", UserID: 1, Status: constants.OrderStatusCanceled, TotalAmount: models.NewMoneyFromFloat(999)},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("seed orders failed: %v", err)
	}
	if _, err := svc.FlagActivity(FlagActivityInput{EntityType: "order", EntityID: 3, Reason: "金额异常"}); err != nil {
		t.Fatalf("flag failed: %v", err)
	}

	dashboard, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dashboard.TotalUsers != 2 {
		t.Fatalf("total users = %d, want 2", dashboard.TotalUsers)
	}
	if dashboard.TotalProducts != 2 || dashboard.PendingProducts != 1 {
		t.Fatalf("products = %d/%d, want 2/1", dashboard.TotalProducts, dashboard.PendingProducts)
	}
	if dashboard.TotalOrders != 3 {
		t.Fatalf("total orders = %d, want 3", dashboard.TotalOrders)
	}
	// 营收排除已取消订单
	if !dashboard.TotalRevenue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("revenue = %s, want 150", dashboard.TotalRevenue)
	}
	if dashboard.OpenFlags != 1 {
		t.Fatalf("open flags = %d, want 1", dashboard.OpenFlags)
	}
}

func TestFlagActivityLifecycle(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	flag, err := svc.FlagActivity(FlagActivityInput{EntityType: "user", EntityID: 7, Reason: "刷单嫌疑", Severity: "HIGH"})
	if err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if flag.Status != constants.FlagStatusOpen || flag.Severity != constants.FlagSeverityHigh {
		t.Fatalf("unexpected flag: %+v", flag)
	}

	if _, err := svc.FlagActivity(FlagActivityInput{EntityType: "user", EntityID: 7, Severity: "critical"}); err == nil {
		t.Fatalf("expected error for unknown severity")
	}

	if _, err := svc.ReviewFlag(flag.ID, 1, "open", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	reviewed, err := svc.ReviewFlag(flag.ID, 1, constants.FlagStatusResolved, "已人工核实")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.FlagStatusResolved || reviewed.ReviewedBy == nil || reviewed.ReviewedAt == nil {
		t.Fatalf("review fields not set: %+v", reviewed)
	}
	if _, err := svc.ReviewFlag(flag.ID, 1, constants.FlagStatusDismissed, ""); !errors.Is(err, ErrFlagClosed) {
		t.Fatalf("expected ErrFlagClosed, got %v", err)
	}
	if _, err := svc.ReviewFlag(flag.ID+100, 1, constants.FlagStatusResolved, ""); !errors.Is(err, ErrFlagNotFound) {
		t.Fatalf("expected ErrFlagNotFound, got %v", err)
	}
}
