package repository

import (
	"errors"
	"time"

	"github.com/jishi-next/internal/models"

	"gorm.io/gorm"
)

// FlaggedRepository 风险标记数据访问接口
type FlaggedRepository interface {
	GetByID(id uint) (*models.FlaggedActivity, error)
	Create(flag *models.FlaggedActivity) error
	UpdateFields(id uint, updates map[string]interface{}) error
	List(filter FlaggedListFilter) ([]models.FlaggedActivity, int64, error)
	CountOpen() (int64, error)
}

// GormFlaggedRepository GORM 实现
type GormFlaggedRepository struct {
	db *gorm.DB
}

// NewFlaggedRepository 创建风险标记仓库
func NewFlaggedRepository(db *gorm.DB) *GormFlaggedRepository {
	return &GormFlaggedRepository{db: db}
}

// GetByID 按ID获取风险标记
func (r *GormFlaggedRepository) GetByID(id uint) (*models.FlaggedActivity, error) {
	if id == 0 {
		return nil, nil
	}
	var flag models.FlaggedActivity
	if err := r.db.First(&flag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flag, nil
}

// Create 创建风险标记
func (r *GormFlaggedRepository) Create(flag *models.FlaggedActivity) error {
	return r.db.Create(flag).Error
}

// UpdateFields 按字段更新风险标记
func (r *GormFlaggedRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.FlaggedActivity{}).Where("id = ?", id).Updates(updates).Error
}

// List 风险标记列表
func (r *GormFlaggedRepository) List(filter FlaggedListFilter) ([]models.FlaggedActivity, int64, error) {
	query := r.db.Model(&models.FlaggedActivity{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var flags []models.FlaggedActivity
	if err := query.Order("id DESC").Find(&flags).Error; err != nil {
		return nil, 0, err
	}
	return flags, total, nil
}

// CountOpen 统计待处理风险标记数量
func (r *GormFlaggedRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&models.FlaggedActivity{}).Where("status = ?", "open").Count(&count).Error
	return count, err
}
