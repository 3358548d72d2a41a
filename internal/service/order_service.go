package service

import (
	"strings"
	"time"

	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/queue"
	"github.com/jishi-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allowedTransitions 订单状态流转表（取消走独立路径）
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusProcessing},
	constants.OrderStatusProcessing: {constants.OrderStatusShipped},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered},
}

// cancelableStatuses 允许取消的状态
var cancelableStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusProcessing: true,
}

// OrderService 订单服务（购物车结算/取消/状态流转）
type OrderService struct {
	cfg              *config.Config
	repo             repository.OrderRepository
	cartRepo         repository.CartRepository
	productRepo      repository.ProductRepository
	userRepo         repository.UserRepository
	affiliateService *AffiliateService
	queueClient      *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(cfg *config.Config, repo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, affiliateService *AffiliateService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		cfg:              cfg,
		repo:             repo,
		cartRepo:         cartRepo,
		productRepo:      productRepo,
		userRepo:         userRepo,
		affiliateService: affiliateService,
		queueClient:      queueClient,
	}
}

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	ShippingAddress string
	BillingAddress  string
	PaymentMethod   string
	AffiliateCode   string
}

// CreateOrder 从购物车创建订单
// 单事务内完成：读取购物车、校验商品、扣减库存、冻结价格快照、写入订单、佣金累计、清空购物车；
// 任一步失败则整体回滚，库存不会部分扣减，事务提交前新加入的购物车项不受影响
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	link, err := s.affiliateService.ResolveOrderAttribution(input.AffiliateCode)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:         s.generateOrderNo(),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		BillingAddress:  strings.TrimSpace(input.BillingAddress),
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
	}
	if link != nil {
		order.AffiliateCode = link.Code
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		cartItems, err := cartRepo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(cartItems))
		for _, cartItem := range cartItems {
			product, err := productRepo.GetByIDForUpdate(cartItem.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if !product.Purchasable() {
				return ErrProductUnavailable
			}
			affected, err := productRepo.DecrementInventory(product.ID, cartItem.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}

			unitPrice := product.EffectivePrice()
			lineTotal := unitPrice.Decimal.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
			total = total.Add(lineTotal)

			productID := product.ID
			item := models.OrderItem{
				ProductID:   &productID,
				ProductName: product.Name,
				UnitPrice:   unitPrice,
				Quantity:    cartItem.Quantity,
				TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
			}
			if link != nil && link.ProductID == product.ID {
				linkID := link.ID
				item.AffiliateLinkID = &linkID
			}
			items = append(items, item)
		}

		order.TotalAmount = models.NewMoneyFromDecimal(total)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orderRepo.CreateItems(items); err != nil {
			return err
		}
		order.Items = items

		// 成交归因只在创建路径累计一次，使用链接冻结比例
		if link != nil {
			if err := s.affiliateService.AccrueConversion(tx, link, order.TotalAmount); err != nil {
				return err
			}
		}

		// 只删除本次下单读到的购物车行，事务期间新增的行保留
		ids := make([]uint, 0, len(cartItems))
		for _, cartItem := range cartItems {
			ids = append(ids, cartItem.ID)
		}
		return cartRepo.DeleteByIDs(userID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueOrderCreatedEmail(userID, order)
	return order, nil
}

// CancelOrder 取消订单（仅 pending/processing，回补库存，不恢复购物车）
func (s *OrderService) CancelOrder(userID uint, isAdmin bool, orderID uint) (*models.Order, error) {
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !isAdmin && order.UserID != userID {
			return ErrNotOrderOwner
		}
		if !cancelableStatuses[order.Status] {
			return ErrOrderNotCancelable
		}

		items, err := orderRepo.ListItemsByOrder(order.ID)
		if err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := productRepo.RestoreInventory(*item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		return orderRepo.UpdateStatus(order.ID, constants.OrderStatusCanceled, map[string]interface{}{
			"canceled_at": now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(orderID)
}

// GetOrder 获取订单（本人或管理员）
func (s *OrderService) GetOrder(userID uint, isAdmin bool, orderID uint) (*models.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// ListMyOrders 我的订单列表
func (s *OrderService) ListMyOrders(userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	return s.repo.List(filter)
}

// ListOrders 订单列表（后台）
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.repo.List(filter)
}

// UpdateStatus 流转订单状态（pending→processing→shipped→delivered）
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !transitionAllowed(order.Status, target) {
			return ErrInvalidTransition
		}
		return orderRepo.UpdateStatus(order.ID, target, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(orderID)
}

func transitionAllowed(from, to string) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func (s *OrderService) generateOrderNo() string {
	prefix := strings.TrimSpace(s.cfg.Marketplace.OrderNoPrefix)
	if prefix == "" {
		prefix = "JS"
	}
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + time.Now().Format("20060102150405") + random
}

func (s *OrderService) enqueueOrderCreatedEmail(userID uint, order *models.Order) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderCreatedEmail(user.Email, order.OrderNo, order.TotalAmount.String()); err != nil {
		logger.Warnw("order_created_email_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
}
