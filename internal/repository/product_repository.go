package repository

import (
	"errors"
	"time"

	"github.com/jishi-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository

	GetByID(id uint) (*models.Product, error)
	GetByIDForUpdate(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	SlugExists(slug string) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	List(filter ProductListFilter) ([]models.Product, int64, error)
	CountByStatus(sellerProfileID uint) (map[string]int64, error)

	DecrementInventory(productID uint, quantity int) (int64, error)
	RestoreInventory(productID uint, quantity int) error

	CreateImage(image *models.ProductImage) error
	GetImage(id uint) (*models.ProductImage, error)
	ListImages(productID uint) ([]models.ProductImage, error)
	DeleteImage(id uint) error
	DeleteImagesByProduct(productID uint) error
	ClearPrimaryImage(productID uint) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	err := r.db.Preload("Category").Preload("SellerProfile").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDForUpdate 按ID获取商品并加行锁
func (r *GormProductRepository) GetByIDForUpdate(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 按 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").Preload("SellerProfile").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// SlugExists 判断 slug 是否已存在（含软删除记录，避免复用）
func (r *GormProductRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpdateFields 按字段更新商品
func (r *GormProductRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除商品（历史订单项保留快照，置空商品引用）
func (r *GormProductRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SellerProfileID != 0 {
		query = query.Where("seller_profile_id = ?", filter.SellerProfileID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyPurchasable {
		query = query.Where("status = ? AND is_approved = ?", "active", 1)
	}
	if filter.Search != "" {
		condition, count := buildSearchLikeCondition(r.db, []string{"name", "description"})
		query = query.Where(condition, likeArgs(filter.Search, count)...)
	}
	if filter.MinPrice != "" {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.WithSeller {
		query = query.Preload("SellerProfile")
	}
	if filter.WithImages {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "id DESC"
	}
	var products []models.Product
	if err := query.Order(orderBy).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountByStatus 统计商品数量（sellerProfileID 为 0 时统计全部）
func (r *GormProductRepository) CountByStatus(sellerProfileID uint) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	query := r.db.Model(&models.Product{}).Select("status, COUNT(*) AS count").Group("status")
	if sellerProfileID != 0 {
		query = query.Where("seller_profile_id = ?", sellerProfileID)
	}
	var rows []statusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// DecrementInventory 扣减库存（条件更新，RowsAffected 为 0 表示库存不足）
func (r *GormProductRepository) DecrementInventory(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND inventory_count >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"inventory_count": gorm.Expr("inventory_count - ?", quantity),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreInventory 恢复库存（订单取消时回补）
func (r *GormProductRepository) RestoreInventory(productID uint, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"inventory_count": gorm.Expr("inventory_count + ?", quantity),
			"updated_at":      time.Now(),
		}).Error
}

// CreateImage 创建商品图片
func (r *GormProductRepository) CreateImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// GetImage 按ID获取商品图片
func (r *GormProductRepository) GetImage(id uint) (*models.ProductImage, error) {
	if id == 0 {
		return nil, nil
	}
	var image models.ProductImage
	if err := r.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// ListImages 商品图片列表
func (r *GormProductRepository) ListImages(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.Where("product_id = ?", productID).Order("sort_order ASC, id ASC").Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImage 删除商品图片
func (r *GormProductRepository) DeleteImage(id uint) error {
	return r.db.Delete(&models.ProductImage{}, id).Error
}

// DeleteImagesByProduct 删除商品全部图片
func (r *GormProductRepository) DeleteImagesByProduct(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error
}

// ClearPrimaryImage 清除商品当前主图标记
func (r *GormProductRepository) ClearPrimaryImage(productID uint) error {
	return r.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Update("is_primary", false).Error
}
