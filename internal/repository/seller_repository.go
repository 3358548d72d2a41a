package repository

import (
	"errors"

	"github.com/jishi-next/internal/models"

	"gorm.io/gorm"
)

// SellerRepository 卖家档案数据访问接口
type SellerRepository interface {
	WithTx(tx *gorm.DB) SellerRepository

	GetByID(id uint) (*models.SellerProfile, error)
	GetByUserID(userID uint) (*models.SellerProfile, error)
	Create(profile *models.SellerProfile) error
	Update(profile *models.SellerProfile) error
	List(filter SellerListFilter) ([]models.SellerProfile, int64, error)
}

// GormSellerRepository GORM 实现
type GormSellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓库
func NewSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSellerRepository) WithTx(tx *gorm.DB) SellerRepository {
	if tx == nil {
		return r
	}
	return &GormSellerRepository{db: tx}
}

// GetByID 按ID获取卖家档案
func (r *GormSellerRepository) GetByID(id uint) (*models.SellerProfile, error) {
	if id == 0 {
		return nil, nil
	}
	var profile models.SellerProfile
	if err := r.db.Preload("User").First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUserID 按用户ID获取卖家档案
func (r *GormSellerRepository) GetByUserID(userID uint) (*models.SellerProfile, error) {
	if userID == 0 {
		return nil, nil
	}
	var profile models.SellerProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Create 创建卖家档案
func (r *GormSellerRepository) Create(profile *models.SellerProfile) error {
	return r.db.Create(profile).Error
}

// Update 更新卖家档案
func (r *GormSellerRepository) Update(profile *models.SellerProfile) error {
	return r.db.Save(profile).Error
}

// List 卖家列表
func (r *GormSellerRepository) List(filter SellerListFilter) ([]models.SellerProfile, int64, error) {
	query := r.db.Model(&models.SellerProfile{})

	if filter.Search != "" {
		condition, count := buildSearchLikeCondition(r.db, []string{"business_name", "business_description"})
		query = query.Where(condition, likeArgs(filter.Search, count)...)
	}
	if filter.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var profiles []models.SellerProfile
	if err := query.Order("id DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
