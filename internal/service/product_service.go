package service

import (
	"fmt"
	"strings"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ProductService 商品服务（卖家维护 + 审核状态机 + 公开查询）
type ProductService struct {
	repo          repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	sellerRepo    repository.SellerRepository
	uploadService *UploadService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, sellerRepo repository.SellerRepository, uploadService *UploadService) *ProductService {
	return &ProductService{
		repo:          repo,
		categoryRepo:  categoryRepo,
		sellerRepo:    sellerRepo,
		uploadService: uploadService,
	}
}

// PublicList 公开商品列表（仅已上架且审核通过）
func (s *ProductService) PublicList(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyPurchasable = true
	filter.Status = ""
	filter.WithCategory = true
	filter.WithImages = true
	return s.repo.List(filter)
}

// GetBySlug 按 slug 获取商品（公开）
func (s *ProductService) GetBySlug(productSlug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(productSlug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Purchasable() {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 按ID获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// AffiliateCatalogItem 推广选品条目（附卖家默认佣金比例）
type AffiliateCatalogItem struct {
	Product        models.Product  `json:"product"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// ListForAffiliates 推广选品列表（展示创建链接时将冻结的比例）
func (s *ProductService) ListForAffiliates(filter repository.ProductListFilter, fallbackRate float64) ([]AffiliateCatalogItem, int64, error) {
	filter.OnlyPurchasable = true
	filter.WithSeller = true
	filter.WithImages = true
	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]AffiliateCatalogItem, 0, len(products))
	for _, product := range products {
		rate := decimal.NewFromFloat(fallbackRate).Round(2)
		if product.SellerProfile != nil && product.SellerProfile.DefaultCommissionRate.IsPositive() {
			rate = product.SellerProfile.DefaultCommissionRate.Round(2)
		}
		items = append(items, AffiliateCatalogItem{Product: product, CommissionRate: rate})
	}
	return items, total, nil
}

// CreateProductInput 创建商品入参
type CreateProductInput struct {
	CategoryID     uint
	Name           string
	Description    string
	Price          models.Money
	DiscountPrice  *models.Money
	InventoryCount int
}

// Create 卖家创建商品（初始为待审核）
func (s *ProductService) Create(sellerUserID uint, input CreateProductInput) (*models.Product, error) {
	seller, err := s.sellerRepo.GetByUserID(sellerUserID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerProfileMissing
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	if !input.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if input.InventoryCount < 0 {
		return nil, ErrInvalidQuantity
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	productSlug, err := s.uniqueSlug(name)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerProfileID: seller.ID,
		CategoryID:      category.ID,
		Name:            name,
		Slug:            productSlug,
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		DiscountPrice:   input.DiscountPrice,
		InventoryCount:  input.InventoryCount,
		Status:          constants.ProductStatusPending,
		IsApproved:      constants.ProductApprovalPending,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput 更新商品入参
type UpdateProductInput struct {
	CategoryID     *uint
	Name           *string
	Description    *string
	Price          *models.Money
	DiscountPrice  *models.Money
	InventoryCount *int
}

// Update 卖家更新商品（任何修改都会回到待审核，重新走审核流程）
func (s *ProductService) Update(sellerUserID, productID uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(sellerUserID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = category.ID
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		product.DiscountPrice = input.DiscountPrice
	}
	if input.InventoryCount != nil {
		if *input.InventoryCount < 0 {
			return nil, ErrInvalidQuantity
		}
		product.InventoryCount = *input.InventoryCount
	}

	product.Status = constants.ProductStatusPending
	product.IsApproved = constants.ProductApprovalPending
	product.RejectionReason = ""

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（本人或管理员），清理图片文件，历史订单快照保留
func (s *ProductService) Delete(actorUserID uint, isAdmin bool, productID uint) error {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !isAdmin {
		seller, err := s.sellerRepo.GetByUserID(actorUserID)
		if err != nil {
			return err
		}
		if seller == nil || seller.ID != product.SellerProfileID {
			return ErrNotProductOwner
		}
	}

	images, err := s.repo.ListImages(productID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(productID); err != nil {
		return err
	}
	for _, image := range images {
		if err := s.uploadService.RemoveFile(image.URL); err != nil {
			logger.Warnw("product_image_file_remove_failed", "product_id", productID, "url", image.URL, "error", err)
		}
	}
	return nil
}

// SellerProducts 卖家自己的商品列表（含待审核与已驳回）
func (s *ProductService) SellerProducts(sellerUserID uint, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	seller, err := s.sellerRepo.GetByUserID(sellerUserID)
	if err != nil {
		return nil, 0, err
	}
	if seller == nil {
		return nil, 0, ErrSellerProfileMissing
	}
	filter.SellerProfileID = seller.ID
	filter.WithCategory = true
	filter.WithImages = true
	return s.repo.List(filter)
}

// PendingList 待审核商品列表（后台）
func (s *ProductService) PendingList(page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Status:       constants.ProductStatusPending,
		WithCategory: true,
		WithSeller:   true,
		WithImages:   true,
		OrderBy:      "id ASC",
	})
}

// Approve 审核通过（仅待审核商品）
func (s *ProductService) Approve(productID uint) (*models.Product, error) {
	return s.review(productID, constants.ProductStatusActive, constants.ProductApprovalApproved, "")
}

// Reject 审核驳回（仅待审核商品）
func (s *ProductService) Reject(productID uint, reason string) (*models.Product, error) {
	return s.review(productID, constants.ProductStatusRejected, constants.ProductApprovalRejected, strings.TrimSpace(reason))
}

func (s *ProductService) review(productID uint, status string, approval int, reason string) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != constants.ProductStatusPending {
		return nil, ErrProductNotPending
	}
	updates := map[string]interface{}{
		"status":           status,
		"is_approved":      approval,
		"rejection_reason": reason,
	}
	if err := s.repo.UpdateFields(productID, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(productID)
}

// AddImageInput 商品图片入参
type AddImageInput struct {
	URL       string
	AltText   string
	SortOrder int
	IsPrimary bool
}

// AddImage 添加商品图片（设为主图时清除旧主图标记）
func (s *ProductService) AddImage(sellerUserID, productID uint, input AddImageInput) (*models.ProductImage, error) {
	product, err := s.ownedProduct(sellerUserID, productID)
	if err != nil {
		return nil, err
	}
	if input.IsPrimary {
		if err := s.repo.ClearPrimaryImage(product.ID); err != nil {
			return nil, err
		}
	}
	image := &models.ProductImage{
		ProductID: product.ID,
		URL:       strings.TrimSpace(input.URL),
		AltText:   strings.TrimSpace(input.AltText),
		SortOrder: input.SortOrder,
		IsPrimary: input.IsPrimary,
	}
	if err := s.repo.CreateImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

// RemoveImage 删除商品图片（同时清理文件）
func (s *ProductService) RemoveImage(sellerUserID, productID, imageID uint) error {
	if _, err := s.ownedProduct(sellerUserID, productID); err != nil {
		return err
	}
	image, err := s.repo.GetImage(imageID)
	if err != nil {
		return err
	}
	if image == nil || image.ProductID != productID {
		return ErrNotFound
	}
	if err := s.repo.DeleteImage(imageID); err != nil {
		return err
	}
	if err := s.uploadService.RemoveFile(image.URL); err != nil {
		logger.Warnw("product_image_file_remove_failed", "product_id", productID, "url", image.URL, "error", err)
	}
	return nil
}

func (s *ProductService) ownedProduct(sellerUserID, productID uint) (*models.Product, error) {
	seller, err := s.sellerRepo.GetByUserID(sellerUserID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerProfileMissing
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.SellerProfileID != seller.ID {
		return nil, ErrNotProductOwner
	}
	return product, nil
}

// uniqueSlug 生成唯一 slug，冲突时追加序号后缀
func (s *ProductService) uniqueSlug(name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
