package service

import (
	"errors"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"gorm.io/gorm"
)

type productServiceFixture struct {
	db       *gorm.DB
	svc      *ProductService
	seller   *models.SellerProfile
	category *models.Category
}

func setupProductServiceTest(t *testing.T) *productServiceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewSellerRepository(db),
		NewUploadService(serviceTestConfig()),
	)
	return &productServiceFixture{
		db:       db,
		svc:      svc,
		seller:   createTestSeller(t, db, "seller@example.com", 8),
		category: createTestCategory(t, db, "digital"),
	}
}

func TestCreateProductStartsPending(t *testing.T) {
	fx := setupProductServiceTest(t)

	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID:     fx.category.ID,
		Name:           "无线耳机 Pro",
		Price:          models.NewMoneyFromFloat(99.9),
		InventoryCount: 10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Status != constants.ProductStatusPending || product.IsApproved != constants.ProductApprovalPending {
		t.Fatalf("new product must be pending, got status=%q approved=%d", product.Status, product.IsApproved)
	}
	if product.Slug == "" {
		t.Fatalf("slug not generated")
	}

	// 待审核商品不出现在公开列表
	if _, err := fx.svc.GetBySlug(product.Slug); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("pending product must be hidden, got %v", err)
	}
	list, total, err := fx.svc.PublicList(repository.ProductListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("pending product leaked into public list")
	}
}

func TestCreateProductValidation(t *testing.T) {
	fx := setupProductServiceTest(t)

	_, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "  ",
		Price:      models.NewMoneyFromFloat(10),
	})
	if !errors.Is(err, ErrProductNameRequired) {
		t.Fatalf("expected ErrProductNameRequired, got %v", err)
	}

	_, err = fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "零价商品",
		Price:      models.NewMoneyFromFloat(0),
	})
	if !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	_, err = fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID + 100,
		Name:       "孤儿分类",
		Price:      models.NewMoneyFromFloat(10),
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	_, err = fx.svc.Create(fx.seller.UserID+100, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "无档案卖家",
		Price:      models.NewMoneyFromFloat(10),
	})
	if !errors.Is(err, ErrSellerProfileMissing) {
		t.Fatalf("expected ErrSellerProfileMissing, got %v", err)
	}
}

func TestCreateProductSlugConflict(t *testing.T) {
	fx := setupProductServiceTest(t)

	first, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "Smart Watch",
		Price:      models.NewMoneyFromFloat(199),
	})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	second, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "Smart Watch",
		Price:      models.NewMoneyFromFloat(299),
	})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatalf("slugs must be unique, both %q", first.Slug)
	}
	if second.Slug != first.Slug+"-2" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestApproveRejectWorkflow(t *testing.T) {
	fx := setupProductServiceTest(t)
	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID:     fx.category.ID,
		Name:           "磁吸快充线",
		Price:          models.NewMoneyFromFloat(19.9),
		InventoryCount: 100,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	approved, err := fx.svc.Approve(product.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.ProductStatusActive || approved.IsApproved != constants.ProductApprovalApproved {
		t.Fatalf("unexpected state after approve: status=%q approved=%d", approved.Status, approved.IsApproved)
	}
	if _, err := fx.svc.GetBySlug(product.Slug); err != nil {
		t.Fatalf("approved product must be public: %v", err)
	}

	// 已通过的商品不能再次审核
	if _, err := fx.svc.Approve(product.ID); !errors.Is(err, ErrProductNotPending) {
		t.Fatalf("expected ErrProductNotPending, got %v", err)
	}
	if _, err := fx.svc.Reject(product.ID, "重复审核"); !errors.Is(err, ErrProductNotPending) {
		t.Fatalf("expected ErrProductNotPending, got %v", err)
	}
}

func TestRejectKeepsReason(t *testing.T) {
	fx := setupProductServiceTest(t)
	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "违规商品",
		Price:      models.NewMoneyFromFloat(10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rejected, err := fx.svc.Reject(product.ID, "描述与实物不符")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != constants.ProductStatusRejected || rejected.RejectionReason != "描述与实物不符" {
		t.Fatalf("unexpected state after reject: %+v", rejected)
	}
}

func TestUpdateResetsApproval(t *testing.T) {
	fx := setupProductServiceTest(t)
	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID:     fx.category.ID,
		Name:           "智能手表",
		Price:          models.NewMoneyFromFloat(199),
		InventoryCount: 5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Approve(product.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	newName := "智能手表 2 代"
	updated, err := fx.svc.Update(fx.seller.UserID, product.ID, UpdateProductInput{Name: &newName})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.ProductStatusPending || updated.IsApproved != constants.ProductApprovalPending {
		t.Fatalf("update must reset review state, got status=%q approved=%d", updated.Status, updated.IsApproved)
	}
	if updated.Name != newName {
		t.Fatalf("name not updated: %q", updated.Name)
	}

	pending, total, err := fx.svc.PendingList(1, 10)
	if err != nil {
		t.Fatalf("pending list failed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != product.ID {
		t.Fatalf("updated product missing from pending list")
	}
}

func TestUpdateOwnership(t *testing.T) {
	fx := setupProductServiceTest(t)
	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "别家的商品",
		Price:      models.NewMoneyFromFloat(10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	other := createTestSeller(t, fx.db, "other-seller@example.com", 5)
	name := "改名"
	if _, err := fx.svc.Update(other.UserID, product.ID, UpdateProductInput{Name: &name}); !errors.Is(err, ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}
	if err := fx.svc.Delete(other.UserID, false, product.ID); !errors.Is(err, ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner on delete, got %v", err)
	}
	// 管理员可以直接删除
	if err := fx.svc.Delete(0, true, product.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := fx.svc.GetByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestProductImages(t *testing.T) {
	fx := setupProductServiceTest(t)
	product, err := fx.svc.Create(fx.seller.UserID, CreateProductInput{
		CategoryID: fx.category.ID,
		Name:       "带图商品",
		Price:      models.NewMoneyFromFloat(10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := fx.svc.AddImage(fx.seller.UserID, product.ID, AddImageInput{URL: "/uploads/products/a.jpg", IsPrimary: true})
	if err != nil {
		t.Fatalf("add first image failed: %v", err)
	}
	second, err := fx.svc.AddImage(fx.seller.UserID, product.ID, AddImageInput{URL: "/uploads/products/b.jpg", IsPrimary: true})
	if err != nil {
		t.Fatalf("add second image failed: %v", err)
	}

	// 新主图清除旧主图标记
	var reloaded models.ProductImage
	if err := fx.db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload image failed: %v", err)
	}
	if reloaded.IsPrimary {
		t.Fatalf("old primary flag not cleared")
	}

	if err := fx.svc.RemoveImage(fx.seller.UserID, product.ID, second.ID); err != nil {
		t.Fatalf("remove image failed: %v", err)
	}
	if err := fx.svc.RemoveImage(fx.seller.UserID, product.ID, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed image, got %v", err)
	}
}
