package repository

import (
	"errors"
	"strings"

	"github.com/jishi-next/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// AffiliateStatsAggregate 推广数据汇总
type AffiliateStatsAggregate struct {
	TotalClicks      int64           `json:"total_clicks"`
	TotalConversions int64           `json:"total_conversions"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalLinks       int64           `json:"total_links"`
}

// AffiliateProfileListFilter 查询推广档案列表的过滤条件
type AffiliateProfileListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// AffiliateRepository 推广数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetProfileByUserID(userID uint) (*models.AffiliateProfile, error)
	CreateProfile(profile *models.AffiliateProfile) error
	UpdateProfile(profile *models.AffiliateProfile) error
	ListProfiles(filter AffiliateProfileListFilter) ([]models.AffiliateProfile, int64, error)

	GetLinkByID(id uint) (*models.AffiliateLink, error)
	GetLinkByUserAndProduct(userID, productID uint) (*models.AffiliateLink, error)
	GetLinkByCode(code string) (*models.AffiliateLink, error)
	CodeExists(code string) (bool, error)
	CreateLink(link *models.AffiliateLink) error
	ListLinks(filter AffiliateLinkListFilter) ([]models.AffiliateLink, int64, error)

	IncrementClicks(linkID uint) (int64, error)
	AccrueConversion(linkID uint, amount decimal.Decimal) (int64, error)
	StatsByUser(userID uint) (AffiliateStatsAggregate, error)
}

// GormAffiliateRepository GORM 推广仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetProfileByUserID 按用户ID获取推广档案
func (r *GormAffiliateRepository) GetProfileByUserID(userID uint) (*models.AffiliateProfile, error) {
	if userID == 0 {
		return nil, nil
	}
	var profile models.AffiliateProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// CreateProfile 创建推广档案
func (r *GormAffiliateRepository) CreateProfile(profile *models.AffiliateProfile) error {
	return r.db.Create(profile).Error
}

// UpdateProfile 更新推广档案
func (r *GormAffiliateRepository) UpdateProfile(profile *models.AffiliateProfile) error {
	return r.db.Save(profile).Error
}

// ListProfiles 推广档案列表
func (r *GormAffiliateRepository) ListProfiles(filter AffiliateProfileListFilter) ([]models.AffiliateProfile, int64, error) {
	query := r.db.Model(&models.AffiliateProfile{})

	if filter.Search != "" {
		condition, count := buildSearchLikeCondition(r.db, []string{"website", "niche"})
		query = query.Where(condition, likeArgs(filter.Search, count)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var profiles []models.AffiliateProfile
	if err := query.Preload("User").Order("id DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// GetLinkByID 按ID获取推广链接
func (r *GormAffiliateRepository) GetLinkByID(id uint) (*models.AffiliateLink, error) {
	if id == 0 {
		return nil, nil
	}
	var link models.AffiliateLink
	if err := r.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetLinkByUserAndProduct 按（用户，商品）获取推广链接
func (r *GormAffiliateRepository) GetLinkByUserAndProduct(userID, productID uint) (*models.AffiliateLink, error) {
	if userID == 0 || productID == 0 {
		return nil, nil
	}
	var link models.AffiliateLink
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLinkByCode 按追踪码获取推广链接（统一大写）
func (r *GormAffiliateRepository) GetLinkByCode(code string) (*models.AffiliateLink, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var link models.AffiliateLink
	err := r.db.Preload("Product").Where("code = ?", normalized).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// CodeExists 判断追踪码是否已存在
func (r *GormAffiliateRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.AffiliateLink{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLink 创建推广链接
func (r *GormAffiliateRepository) CreateLink(link *models.AffiliateLink) error {
	return r.db.Create(link).Error
}

// ListLinks 推广链接列表
func (r *GormAffiliateRepository) ListLinks(filter AffiliateLinkListFilter) ([]models.AffiliateLink, int64, error) {
	query := r.db.Model(&models.AffiliateLink{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithProduct {
		query = query.Preload("Product")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var links []models.AffiliateLink
	if err := query.Order("id DESC").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// IncrementClicks 原子自增点击数（并发点击不丢失）
func (r *GormAffiliateRepository) IncrementClicks(linkID uint) (int64, error) {
	if linkID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.AffiliateLink{}).
		Where("id = ?", linkID).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AccrueConversion 原子累加成交数与佣金（同一订单仅在创建路径调用一次）
func (r *GormAffiliateRepository) AccrueConversion(linkID uint, amount decimal.Decimal) (int64, error) {
	if linkID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.AffiliateLink{}).
		Where("id = ?", linkID).
		Updates(map[string]interface{}{
			"conversions": gorm.Expr("conversions + 1"),
			"earnings":    gorm.Expr("earnings + ?", amount.Round(2)),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StatsByUser 汇总推广数据（无链接时各项为 0）
func (r *GormAffiliateRepository) StatsByUser(userID uint) (AffiliateStatsAggregate, error) {
	var stats AffiliateStatsAggregate
	err := r.db.Model(&models.AffiliateLink{}).
		Select("COALESCE(SUM(clicks), 0) AS total_clicks, " +
			"COALESCE(SUM(conversions), 0) AS total_conversions, " +
			"COALESCE(SUM(earnings), 0) AS total_earnings, " +
			"COUNT(*) AS total_links").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return AffiliateStatsAggregate{}, err
	}
	return stats, nil
}
