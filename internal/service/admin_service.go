package service

import (
	"strings"
	"time"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"
)

// AdminService 平台管理服务（总览面板、风险标记处理）
type AdminService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	flaggedRepo repository.FlaggedRepository
}

// NewAdminService 创建平台管理服务
func NewAdminService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository, flaggedRepo repository.FlaggedRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		flaggedRepo: flaggedRepo,
	}
}

// AdminDashboard 平台总览
type AdminDashboard struct {
	TotalUsers      int64            `json:"total_users"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
	TotalProducts   int64            `json:"total_products"`
	PendingProducts int64            `json:"pending_products"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	TotalOrders     int64            `json:"total_orders"`
	TotalRevenue    models.Money     `json:"total_revenue"`
	OpenFlags       int64            `json:"open_flags"`
}

// Dashboard 获取平台总览（营收不含已取消订单）
func (s *AdminService) Dashboard() (*AdminDashboard, error) {
	usersByRole, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	productCounts, err := s.productRepo.CountByStatus(0)
	if err != nil {
		return nil, err
	}
	ordersByStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumRevenue([]string{constants.OrderStatusCanceled})
	if err != nil {
		return nil, err
	}
	openFlags, err := s.flaggedRepo.CountOpen()
	if err != nil {
		return nil, err
	}

	dashboard := &AdminDashboard{
		UsersByRole:    usersByRole,
		OrdersByStatus: ordersByStatus,
		TotalRevenue:   models.NewMoneyFromDecimal(revenue),
		OpenFlags:      openFlags,
	}
	for _, count := range usersByRole {
		dashboard.TotalUsers += count
	}
	for _, count := range productCounts {
		dashboard.TotalProducts += count
	}
	dashboard.PendingProducts = productCounts[constants.ProductStatusPending]
	for _, count := range ordersByStatus {
		dashboard.TotalOrders += count
	}
	return dashboard, nil
}

// FlagActivityInput 风险标记入参
type FlagActivityInput struct {
	EntityType string
	EntityID   uint
	Reason     string
	Severity   string
}

// FlagActivity 新建风险标记
func (s *AdminService) FlagActivity(input FlagActivityInput) (*models.FlaggedActivity, error) {
	severity := strings.ToLower(strings.TrimSpace(input.Severity))
	switch severity {
	case constants.FlagSeverityLow, constants.FlagSeverityMedium, constants.FlagSeverityHigh:
	case "":
		severity = constants.FlagSeverityLow
	default:
		return nil, ErrNotFound
	}

	flag := &models.FlaggedActivity{
		EntityType: strings.TrimSpace(input.EntityType),
		EntityID:   input.EntityID,
		Reason:     strings.TrimSpace(input.Reason),
		Severity:   severity,
		Status:     constants.FlagStatusOpen,
	}
	if err := s.flaggedRepo.Create(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

// ListFlags 风险标记列表
func (s *AdminService) ListFlags(filter repository.FlaggedListFilter) ([]models.FlaggedActivity, int64, error) {
	return s.flaggedRepo.List(filter)
}

// ReviewFlag 处理风险标记（resolved 或 dismissed），已关闭的不可重复处理
func (s *AdminService) ReviewFlag(flagID uint, reviewerID uint, status, note string) (*models.FlaggedActivity, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.FlagStatusResolved && status != constants.FlagStatusDismissed {
		return nil, ErrInvalidTransition
	}

	flag, err := s.flaggedRepo.GetByID(flagID)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return nil, ErrFlagNotFound
	}
	if flag.Status != constants.FlagStatusOpen {
		return nil, ErrFlagClosed
	}

	now := time.Now()
	err = s.flaggedRepo.UpdateFields(flagID, map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"review_note": strings.TrimSpace(note),
		"reviewed_at": now,
	})
	if err != nil {
		return nil, err
	}
	return s.flaggedRepo.GetByID(flagID)
}
