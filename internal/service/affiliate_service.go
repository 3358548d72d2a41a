package service

import (
	"fmt"
	"strings"

	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const trackingCodeMaxRetry = 8

// AffiliateService 推广服务（链接生成/点击追踪/佣金累计）
type AffiliateService struct {
	cfg         *config.Config
	repo        repository.AffiliateRepository
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
}

// NewAffiliateService 创建推广服务
func NewAffiliateService(cfg *config.Config, repo repository.AffiliateRepository, productRepo repository.ProductRepository, sellerRepo repository.SellerRepository) *AffiliateService {
	return &AffiliateService{
		cfg:         cfg,
		repo:        repo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
	}
}

// GenerateLink 生成推广链接（按（用户，商品）幂等，佣金比例创建时冻结）
// 第二个返回值表示本次是否新建
func (s *AffiliateService) GenerateLink(userID, productID uint) (*models.AffiliateLink, bool, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, false, err
	}
	if product == nil {
		return nil, false, ErrProductNotFound
	}

	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, false, err
	}
	if profile == nil {
		return nil, false, ErrAffiliateProfileMissing
	}

	existing, err := s.repo.GetLinkByUserAndProduct(userID, productID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	rate := s.resolveCommissionRate(product)

	for attempt := 0; attempt < trackingCodeMaxRetry; attempt++ {
		code := newTrackingCode()
		exists, err := s.repo.CodeExists(code)
		if err != nil {
			return nil, false, err
		}
		if exists {
			continue
		}
		link := &models.AffiliateLink{
			UserID:         userID,
			ProductID:      productID,
			Code:           code,
			CommissionRate: rate,
		}
		if err := s.repo.CreateLink(link); err != nil {
			if isUniqueViolation(err) {
				// 码冲突则换码重试；（用户，商品）并发重复则返回已有链接
				concurrent, lookupErr := s.repo.GetLinkByUserAndProduct(userID, productID)
				if lookupErr != nil {
					return nil, false, lookupErr
				}
				if concurrent != nil {
					return concurrent, false, nil
				}
				continue
			}
			return nil, false, err
		}
		return link, true, nil
	}
	return nil, false, ErrAffiliateCodeInvalid
}

// ResolveAndTrack 解析追踪码并记录点击，返回跳转目标
// 点击数通过原子自增累加，并发访问不丢失
func (s *AffiliateService) ResolveAndTrack(code string) (string, *models.AffiliateLink, error) {
	link, err := s.repo.GetLinkByCode(code)
	if err != nil {
		return "", nil, err
	}
	if link == nil {
		return "", nil, ErrAffiliateCodeInvalid
	}
	if link.Product == nil {
		return "", nil, ErrProductNotFound
	}

	affected, err := s.repo.IncrementClicks(link.ID)
	if err != nil {
		return "", nil, err
	}
	if affected == 0 {
		return "", nil, ErrAffiliateCodeInvalid
	}

	target := fmt.Sprintf("%s/products/%s?ref=%s",
		strings.TrimRight(s.cfg.Frontend.BaseURL, "/"),
		link.Product.Slug,
		link.Code,
	)
	return target, link, nil
}

// ResolveOrderAttribution 解析下单归因（码为空或无效时返回 nil，不阻断下单）
func (s *AffiliateService) ResolveOrderAttribution(code string) (*models.AffiliateLink, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil
	}
	return s.repo.GetLinkByCode(trimmed)
}

// AccrueConversion 在订单事务内累计成交与佣金（使用链接冻结比例，而非档案实时比例）
func (s *AffiliateService) AccrueConversion(tx *gorm.DB, link *models.AffiliateLink, orderTotal models.Money) error {
	if link == nil {
		return nil
	}
	commission := orderTotal.Decimal.Mul(link.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
	affected, err := s.repo.WithTx(tx).AccrueConversion(link.ID, commission)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAffiliateCodeInvalid
	}
	return nil
}

// DashboardStats 推广数据汇总（无链接时各项为 0）
func (s *AffiliateService) DashboardStats(userID uint) (repository.AffiliateStatsAggregate, error) {
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return repository.AffiliateStatsAggregate{}, err
	}
	if profile == nil {
		return repository.AffiliateStatsAggregate{}, ErrAffiliateProfileMissing
	}
	return s.repo.StatsByUser(userID)
}

// ListLinks 推广链接列表（含商品信息）
func (s *AffiliateService) ListLinks(userID uint, page, pageSize int) ([]models.AffiliateLink, int64, error) {
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if profile == nil {
		return nil, 0, ErrAffiliateProfileMissing
	}
	return s.repo.ListLinks(repository.AffiliateLinkListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		WithProduct: true,
	})
}

// LinkPerformance 单链接表现数据
type LinkPerformance struct {
	Link           models.AffiliateLink `json:"link"`
	ConversionRate decimal.Decimal      `json:"conversion_rate"` // 百分比
}

// LinkPerformanceReport 链接表现列表（读侧派生转化率）
func (s *AffiliateService) LinkPerformanceReport(userID uint, page, pageSize int) ([]LinkPerformance, int64, error) {
	links, total, err := s.ListLinks(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	report := make([]LinkPerformance, 0, len(links))
	for _, link := range links {
		perf := LinkPerformance{Link: link}
		if link.Clicks > 0 {
			perf.ConversionRate = decimal.NewFromInt(link.Conversions).
				Div(decimal.NewFromInt(link.Clicks)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		report = append(report, perf)
	}
	return report, total, nil
}

// GetProfile 获取推广档案
func (s *AffiliateService) GetProfile(userID uint) (*models.AffiliateProfile, error) {
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrAffiliateProfileMissing
	}
	return profile, nil
}

// UpdateAffiliateProfileInput 推广档案更新入参
type UpdateAffiliateProfileInput struct {
	Website        *string
	Niche          *string
	CommissionRate *decimal.Decimal
}

// UpdateProfile 更新推广档案（不影响已有链接的冻结比例）
func (s *AffiliateService) UpdateProfile(userID uint, input UpdateAffiliateProfileInput) (*models.AffiliateProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if input.Website != nil {
		profile.Website = strings.TrimSpace(*input.Website)
	}
	if input.Niche != nil {
		profile.Niche = strings.TrimSpace(*input.Niche)
	}
	if input.CommissionRate != nil && !input.CommissionRate.IsNegative() {
		profile.CommissionRate = input.CommissionRate.Round(2)
	}
	if err := s.repo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles 推广档案列表（后台）
func (s *AffiliateService) ListProfiles(filter repository.AffiliateProfileListFilter) ([]models.AffiliateProfile, int64, error) {
	return s.repo.ListProfiles(filter)
}

// resolveCommissionRate 取卖家当前默认佣金比例，缺失时使用配置兜底值
func (s *AffiliateService) resolveCommissionRate(product *models.Product) decimal.Decimal {
	if product.SellerProfile != nil && product.SellerProfile.DefaultCommissionRate.IsPositive() {
		return product.SellerProfile.DefaultCommissionRate.Round(2)
	}
	seller, err := s.sellerRepo.GetByID(product.SellerProfileID)
	if err == nil && seller != nil && seller.DefaultCommissionRate.IsPositive() {
		return seller.DefaultCommissionRate.Round(2)
	}
	fallback := s.cfg.Marketplace.FallbackCommissionRate
	if fallback <= 0 {
		fallback = 5.0
	}
	return decimal.NewFromFloat(fallback).Round(2)
}

func newTrackingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:constants.AffiliateCodeLength])
}
