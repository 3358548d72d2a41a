package service

import (
	"errors"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"gorm.io/gorm"
)

type cartServiceFixture struct {
	db       *gorm.DB
	svc      *CartService
	customer *models.User
	product  *models.Product
}

func setupCartServiceTest(t *testing.T) *cartServiceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	seller := createTestSeller(t, db, "seller@example.com", 8)
	category := createTestCategory(t, db, "digital")
	return &cartServiceFixture{
		db:       db,
		svc:      NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)),
		customer: createTestUser(t, db, "customer@example.com", constants.RoleCustomer),
		product:  createTestProduct(t, db, seller.ID, category.ID, "wireless-earphones", 100, 5),
	}
}

func TestAddItemAccumulates(t *testing.T) {
	fx := setupCartServiceTest(t)

	item, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", item.Quantity)
	}

	// 重复添加累加数量而不是覆盖
	item, err = fx.svc.AddItem(fx.customer.ID, fx.product.ID, 1)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", item.Quantity)
	}

	items, err := fx.svc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected single cart row, got %d", len(items))
	}

	// 库存校验针对累加后的总量（已有 3，再加 3 超过库存 5）
	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock on accumulated total, got %v", err)
	}
}

func TestAddItemGuards(t *testing.T) {
	fx := setupCartServiceTest(t)

	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID+100, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 99); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	err := fx.db.Model(&models.Product{}).
		Where("id = ?", fx.product.ID).
		Update("status", constants.ProductStatusPending).Error
	if err != nil {
		t.Fatalf("downgrade product failed: %v", err)
	}
	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	fx := setupCartServiceTest(t)
	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := fx.svc.UpdateQuantity(fx.customer.ID, fx.product.ID, 4); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	items, err := fx.svc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", items[0].Quantity)
	}

	if err := fx.svc.UpdateQuantity(fx.customer.ID, fx.product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := fx.svc.UpdateQuantity(fx.customer.ID, fx.product.ID, 99); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	other := createTestUser(t, fx.db, "other@example.com", constants.RoleCustomer)
	if err := fx.svc.UpdateQuantity(other.ID, fx.product.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing cart row, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	fx := setupCartServiceTest(t)
	category := createTestCategory(t, fx.db, "accessories")
	second := createTestProduct(t, fx.db, fx.product.SellerProfileID, category.ID, "magnetic-cable", 20, 10)

	if _, err := fx.svc.AddItem(fx.customer.ID, fx.product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := fx.svc.AddItem(fx.customer.ID, second.ID, 2); err != nil {
		t.Fatalf("add second item failed: %v", err)
	}

	if err := fx.svc.RemoveItem(fx.customer.ID, fx.product.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	items, err := fx.svc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != second.ID {
		t.Fatalf("unexpected cart after remove: %+v", items)
	}

	if err := fx.svc.Clear(fx.customer.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	items, err = fx.svc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart not empty after clear")
	}
}
