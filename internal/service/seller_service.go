package service

import (
	"strings"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/shopspring/decimal"
)

// SellerService 卖家服务（店铺资料、经营面板、公开目录）
type SellerService struct {
	repo        repository.SellerRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewSellerService 创建卖家服务
func NewSellerService(repo repository.SellerRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *SellerService {
	return &SellerService{repo: repo, productRepo: productRepo, orderRepo: orderRepo}
}

// SellerDashboard 卖家经营面板
type SellerDashboard struct {
	TotalProducts    int64        `json:"total_products"`
	ActiveProducts   int64        `json:"active_products"`
	PendingProducts  int64        `json:"pending_products"`
	RejectedProducts int64        `json:"rejected_products"`
	UnitsSold        int64        `json:"units_sold"`
	TotalRevenue     models.Money `json:"total_revenue"`
}

// Dashboard 获取卖家经营面板（无数据时各项为零）
func (s *SellerService) Dashboard(userID uint) (*SellerDashboard, error) {
	profile, err := s.requireProfile(userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.productRepo.CountByStatus(profile.ID)
	if err != nil {
		return nil, err
	}
	units, revenue, err := s.orderRepo.SellerSales(profile.ID)
	if err != nil {
		return nil, err
	}

	dashboard := &SellerDashboard{
		UnitsSold:    units,
		TotalRevenue: models.NewMoneyFromDecimal(revenue),
	}
	for _, count := range counts {
		dashboard.TotalProducts += count
	}
	dashboard.ActiveProducts = counts[constants.ProductStatusActive]
	dashboard.PendingProducts = counts[constants.ProductStatusPending]
	dashboard.RejectedProducts = counts[constants.ProductStatusRejected]
	return dashboard, nil
}

// GetProfile 获取卖家资料
func (s *SellerService) GetProfile(userID uint) (*models.SellerProfile, error) {
	return s.requireProfile(userID)
}

// UpdateSellerProfileInput 卖家资料更新入参
type UpdateSellerProfileInput struct {
	BusinessName          *string
	BusinessDescription   *string
	LogoURL               *string
	Website               *string
	DefaultCommissionRate *decimal.Decimal
}

// UpdateProfile 更新卖家资料
// 调整默认佣金比例只影响之后创建的推广链接
func (s *SellerService) UpdateProfile(userID uint, input UpdateSellerProfileInput) (*models.SellerProfile, error) {
	profile, err := s.requireProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		profile.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	if input.BusinessDescription != nil {
		profile.BusinessDescription = strings.TrimSpace(*input.BusinessDescription)
	}
	if input.LogoURL != nil {
		profile.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if input.Website != nil {
		profile.Website = strings.TrimSpace(*input.Website)
	}
	if input.DefaultCommissionRate != nil {
		rate := *input.DefaultCommissionRate
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrInvalidPrice
		}
		profile.DefaultCommissionRate = rate
	}

	if err := s.repo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListPublic 公开卖家目录
func (s *SellerService) ListPublic(filter repository.SellerListFilter) ([]models.SellerProfile, int64, error) {
	return s.repo.List(filter)
}

// GetPublic 公开卖家详情
func (s *SellerService) GetPublic(sellerProfileID uint) (*models.SellerProfile, error) {
	profile, err := s.repo.GetByID(sellerProfileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Verify 管理员标记卖家已认证
func (s *SellerService) Verify(sellerProfileID uint, verified bool) (*models.SellerProfile, error) {
	profile, err := s.repo.GetByID(sellerProfileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	profile.Verified = verified
	if err := s.repo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SellerOrders 含本店商品的订单列表
func (s *SellerService) SellerOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	profile, err := s.requireProfile(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListBySellerProfile(profile.ID, repository.OrderListFilter{Page: page, PageSize: pageSize})
}

func (s *SellerService) requireProfile(userID uint) (*models.SellerProfile, error) {
	profile, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrSellerProfileMissing
	}
	return profile, nil
}
