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

func newSellerServiceForTest(db *gorm.DB) *SellerService {
	return NewSellerService(
		repository.NewSellerRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
	)
}

func createTestOrderWithItem(t *testing.T, db *gorm.DB, userID uint, orderNo string, product *models.Product, quantity int) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     orderNo,
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	productID := product.ID
	item := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   &productID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		TotalPrice:  models.NewMoneyFromDecimal(product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order
}

func TestSellerOrdersListsOwnShopOnly(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newSellerServiceForTest(db)

	sellerA := createTestSeller(t, db, "shop-a@example.com", 8)
	sellerB := createTestSeller(t, db, "shop-b@example.com", 8)
	category := createTestCategory(t, db, "digital")
	productA := createTestProduct(t, db, sellerA.ID, category.ID, "usb-hub", 50, 20)
	productB := createTestProduct(t, db, sellerB.ID, category.ID, "hdmi-cable", 30, 20)
	customer := createTestUser(t, db, "customer@example.com", constants.RoleCustomer)

	orderA := createTestOrderWithItem(t, db, customer.ID, "JS20260829001", productA, 2)
	createTestOrderWithItem(t, db, customer.ID, "JS20260829002", productB, 1)

	orders, total, err := svc.SellerOrders(sellerA.UserID, 1, 10)
	if err != nil {
		t.Fatalf("seller orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("expected exactly one order for shop A, got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != orderA.ID {
		t.Fatalf("order id = %d, want %d", orders[0].ID, orderA.ID)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].ProductName != productA.Name {
		t.Fatalf("unexpected order items: %+v", orders[0].Items)
	}
}

func TestSellerOrdersPagination(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newSellerServiceForTest(db)

	seller := createTestSeller(t, db, "shop@example.com", 8)
	category := createTestCategory(t, db, "digital")
	product := createTestProduct(t, db, seller.ID, category.ID, "power-bank", 80, 50)
	customer := createTestUser(t, db, "customer@example.com", constants.RoleCustomer)

	for i := 0; i < 3; i++ {
		createTestOrderWithItem(t, db, customer.ID, "JS2026082910"+string(rune('0'+i)), product, 1)
	}

	orders, total, err := svc.SellerOrders(seller.UserID, 1, 2)
	if err != nil {
		t.Fatalf("seller orders failed: %v", err)
	}
	if total != 3 || len(orders) != 2 {
		t.Fatalf("expected total=3 page len=2, got total=%d len=%d", total, len(orders))
	}
	orders, _, err = svc.SellerOrders(seller.UserID, 2, 2)
	if err != nil {
		t.Fatalf("seller orders page 2 failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order on page 2, got %d", len(orders))
	}
}

func TestSellerOrdersRequiresProfile(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newSellerServiceForTest(db)
	customer := createTestUser(t, db, "customer@example.com", constants.RoleCustomer)

	if _, _, err := svc.SellerOrders(customer.ID, 1, 10); !errors.Is(err, ErrSellerProfileMissing) {
		t.Fatalf("expected ErrSellerProfileMissing, got %v", err)
	}
}
