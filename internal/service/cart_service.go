package service

import (
	"time"

	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"
)

// CartService 购物车服务
type CartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{repo: repo, productRepo: productRepo}
}

// List 获取购物车（含商品信息）
func (s *CartService) List(userID uint) ([]models.CartItem, error) {
	return s.repo.ListByUser(userID)
}

// AddItem 添加商品（同商品累加数量，(用户, 商品) 至多一条）
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.Purchasable() {
		return nil, ErrProductUnavailable
	}

	existing, err := s.repo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if product.InventoryCount < total {
		return nil, ErrInsufficientStock
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  total,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Upsert(item); err != nil {
		return nil, err
	}
	return s.repo.GetByUserAndProduct(userID, productID)
}

// UpdateQuantity 更新购物车项数量
func (s *CartService) UpdateQuantity(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.InventoryCount < quantity {
		return ErrInsufficientStock
	}
	affected, err := s.repo.UpdateQuantity(userID, productID, quantity)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(userID, productID uint) error {
	return s.repo.DeleteByUserAndProduct(userID, productID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.repo.ClearByUser(userID)
}
