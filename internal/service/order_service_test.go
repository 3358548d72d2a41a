package service

import (
	"errors"
	"testing"
	"time"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	db       *gorm.DB
	svc      *OrderService
	cartSvc  *CartService
	affSvc   *AffiliateService
	customer *models.User
	seller   *models.SellerProfile
	product  *models.Product
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	cfg := serviceTestConfig()

	affiliateRepo := repository.NewAffiliateRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	affSvc := NewAffiliateService(cfg, affiliateRepo, productRepo, repository.NewSellerRepository(db))
	svc := NewOrderService(cfg, repository.NewOrderRepository(db), cartRepo, productRepo, repository.NewUserRepository(db), affSvc, nil)

	seller := createTestSeller(t, db, "seller@example.com", 10)
	category := createTestCategory(t, db, "digital")
	return &orderServiceFixture{
		db:       db,
		svc:      svc,
		cartSvc:  NewCartService(cartRepo, productRepo),
		affSvc:   affSvc,
		customer: createTestUser(t, db, "customer@example.com", constants.RoleCustomer),
		seller:   seller,
		product:  createTestProduct(t, db, seller.ID, category.ID, "smart-watch", 199, 5),
	}
}

func (fx *orderServiceFixture) addToCart(t *testing.T, productID uint, quantity int) {
	t.Helper()
	if _, err := fx.cartSvc.AddItem(fx.customer.ID, productID, quantity); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func (fx *orderServiceFixture) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := fx.db.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return &product
}

func TestCreateOrderFromCart(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 2)

	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{
		ShippingAddress: "上海市浦东新区 1 号",
		PaymentMethod:   "alipay",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status = %q, want pending", order.Status)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order no to be generated")
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(398)) {
		t.Fatalf("total = %s, want 398", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}

	if fx.reloadProduct(t, fx.product.ID).InventoryCount != 3 {
		t.Fatalf("inventory not decremented")
	}
	items, err := fx.cartSvc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart not cleared, %d items left", len(items))
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	fx := setupOrderServiceTest(t)
	if _, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCreateOrderUsesDiscountPrice(t *testing.T) {
	fx := setupOrderServiceTest(t)
	discount := models.NewMoneyFromFloat(149.5)
	err := fx.db.Model(&models.Product{}).
		Where("id = ?", fx.product.ID).
		Update("discount_price", discount).Error
	if err != nil {
		t.Fatalf("set discount failed: %v", err)
	}
	fx.addToCart(t, fx.product.ID, 2)

	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(299)) {
		t.Fatalf("total = %s, want 299", order.TotalAmount)
	}
	if !order.Items[0].UnitPrice.Equal(discount.Decimal) {
		t.Fatalf("unit price = %s, want %s", order.Items[0].UnitPrice, discount)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	fx := setupOrderServiceTest(t)
	category := createTestCategory(t, fx.db, "accessories")
	cheap := createTestProduct(t, fx.db, fx.seller.ID, category.ID, "magnetic-cable", 20, 50)

	fx.addToCart(t, cheap.ID, 3)
	// 第二个商品库存不足，整单必须回滚
	fx.addToCart(t, fx.product.ID, 5)
	err := fx.db.Model(&models.Product{}).
		Where("id = ?", fx.product.ID).
		Update("inventory_count", 1).Error
	if err != nil {
		t.Fatalf("shrink inventory failed: %v", err)
	}

	if _, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if got := fx.reloadProduct(t, cheap.ID).InventoryCount; got != 50 {
		t.Fatalf("first product inventory = %d, want 50 after rollback", got)
	}
	items, err := fx.cartSvc.List(fx.customer.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("cart must survive failed checkout, got %d items", len(items))
	}

	var count int64
	if err := fx.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
}

func TestCreateOrderAccruesAffiliateConversion(t *testing.T) {
	fx := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, fx.db, "affiliate@example.com")
	link, _, err := fx.affSvc.GenerateLink(affiliate.ID, fx.product.ID)
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}

	fx.addToCart(t, fx.product.ID, 1)
	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{AffiliateCode: link.Code})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.AffiliateCode != link.Code {
		t.Fatalf("affiliate code not snapshotted: %q", order.AffiliateCode)
	}
	if order.Items[0].AffiliateLinkID == nil || *order.Items[0].AffiliateLinkID != link.ID {
		t.Fatalf("item not attributed to link")
	}

	var reloaded models.AffiliateLink
	if err := fx.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if reloaded.Conversions != 1 {
		t.Fatalf("conversions = %d, want 1", reloaded.Conversions)
	}
	// 199 * 10% = 19.90
	if !reloaded.Earnings.Equal(decimal.NewFromFloat(19.90)) {
		t.Fatalf("earnings = %s, want 19.90", reloaded.Earnings)
	}
}

func TestCreateOrderIgnoresUnknownAffiliateCode(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 1)

	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{AffiliateCode: "NOPE1234"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.AffiliateCode != "" {
		t.Fatalf("unknown code must not be snapshotted, got %q", order.AffiliateCode)
	}
}

func TestCreateOrderKeepsItemsAddedDuringCheckout(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 1)

	category := createTestCategory(t, fx.db, "accessories")
	late := createTestProduct(t, fx.db, fx.seller.ID, category.ID, "magnetic-cable", 20, 10)

	// 订单写入后、事务提交前往购物车插入新行，模拟结算期间的并发加购
	injected := false
	err := fx.db.Callback().Create().After("gorm:create").Register("cart_row_during_checkout", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "orders" {
			return
		}
		injected = true
		row := &models.CartItem{
			UserID:    fx.customer.ID,
			ProductID: late.ID,
			Quantity:  1,
			UpdatedAt: time.Now(),
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(row).Error; err != nil {
			tx.AddError(err)
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}

	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !injected {
		t.Fatalf("checkout did not pass through the order create path")
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected one ordered item, got %d", len(order.Items))
	}

	// 结算只清掉本次下单读到的行，晚加入的行保留
	var remaining []models.CartItem
	if err := fx.db.Where("user_id = ?", fx.customer.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ProductID != late.ID {
		t.Fatalf("late cart row must survive checkout, got %+v", remaining)
	}
}

func TestCancelOrderRestoresInventory(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 2)
	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := fx.svc.CancelOrder(fx.customer.ID+1, false, order.ID); !errors.Is(err, ErrNotOrderOwner) {
		t.Fatalf("expected ErrNotOrderOwner, got %v", err)
	}

	canceled, err := fx.svc.CancelOrder(fx.customer.ID, false, order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("status = %q, want canceled", canceled.Status)
	}
	if canceled.CanceledAt == nil {
		t.Fatalf("canceled_at not set")
	}
	if fx.reloadProduct(t, fx.product.ID).InventoryCount != 5 {
		t.Fatalf("inventory not restored")
	}

	if _, err := fx.svc.CancelOrder(fx.customer.ID, false, order.ID); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable on second cancel, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 1)
	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := fx.svc.UpdateStatus(order.ID, constants.OrderStatusShipped); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending→shipped, got %v", err)
	}

	for _, target := range []string{
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		updated, err := fx.svc.UpdateStatus(order.ID, target)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("status = %q, want %q", updated.Status, target)
		}
	}

	// 已送达的订单不可取消
	if _, err := fx.svc.CancelOrder(fx.customer.ID, false, order.ID); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable, got %v", err)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	fx := setupOrderServiceTest(t)
	fx.addToCart(t, fx.product.ID, 1)
	order, err := fx.svc.CreateOrder(fx.customer.ID, CreateOrderInput{})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := fx.svc.GetOrder(fx.customer.ID+1, false, order.ID); !errors.Is(err, ErrNotOrderOwner) {
		t.Fatalf("expected ErrNotOrderOwner, got %v", err)
	}
	if _, err := fx.svc.GetOrder(fx.customer.ID+1, true, order.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := fx.svc.GetOrder(fx.customer.ID, false, order.ID+100); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
