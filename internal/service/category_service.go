package service

import (
	"strings"

	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"

	"github.com/gosimple/slug"
)

// CategoryService 分类服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Tree 获取分类树
func (s *CategoryService) Tree() ([]*models.CategoryNode, error) {
	categories, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	return models.BuildCategoryTree(categories), nil
}

// ListFeatured 首页推荐分类
func (s *CategoryService) ListFeatured() ([]models.Category, error) {
	return s.repo.ListFeatured()
}

// GetBySlug 按 slug 获取分类
func (s *CategoryService) GetBySlug(categorySlug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(categorySlug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// ListChildren 获取子分类
func (s *CategoryService) ListChildren(parentID uint) ([]models.Category, error) {
	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrCategoryNotFound
	}
	return s.repo.ListChildren(parentID)
}

// CreateCategoryInput 创建分类入参
type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
	Featured    bool
	SortOrder   int
}

// Create 创建分类（后台）
func (s *CategoryService) Create(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNotFound
	}
	if input.ParentID != nil {
		parent, err := s.repo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
	}
	categorySlug := slug.Make(name)
	if existing, err := s.repo.GetBySlug(categorySlug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSlugExists
	}
	category := &models.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategoryInput 更新分类入参
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Featured    *bool
	SortOrder   *int
}

// Update 更新分类（后台）
func (s *CategoryService) Update(id uint, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	if input.Featured != nil {
		category.Featured = *input.Featured
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（后台，存在商品时拒绝）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	children, err := s.repo.ListChildren(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}
