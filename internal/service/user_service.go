package service

import (
	"context"
	"strings"

	"github.com/jishi-next/internal/cache"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/repository"
)

// UserService 用户服务（个人资料与后台用户管理）
type UserService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetProfile 获取当前用户的基础资料
func (s *UserService) GetProfile(userID uint) (*models.Profile, error) {
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileMissing
	}
	return profile, nil
}

// UpdateProfileInput 基础资料更新入参
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
	Address   *string
	City      *string
	Country   *string
}

// UpdateProfile 更新当前用户的基础资料
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.Profile{UserID: userID}
		if err := s.repo.CreateProfile(profile); err != nil {
			return nil, err
		}
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&profile.FirstName, input.FirstName)
	applyString(&profile.LastName, input.LastName)
	applyString(&profile.Phone, input.Phone)
	applyString(&profile.AvatarURL, input.AvatarURL)
	applyString(&profile.Address, input.Address)
	applyString(&profile.City, input.City)
	applyString(&profile.Country, input.Country)

	if err := s.repo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListUsers 后台用户列表（可按角色、状态、关键词过滤）
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// GetUser 后台查看用户详情（含各角色扩展资料）
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	user, err := s.repo.GetByIDWithProfiles(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetUserStatus 启用/禁用用户
// 禁用会提升 token_version，已签发的令牌立即失效
func (s *UserService) SetUserStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrNotFound
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Role == constants.RoleAdmin && status == constants.UserStatusDisabled {
		return nil, ErrRoleImmutable
	}

	if err := s.repo.UpdateFields(userID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	s.refreshAuthState(ctx, userID)
	logger.Infow("user_status_changed", "user_id", userID, "status", status)
	return s.repo.GetByID(userID)
}

// ChangeRole 后台调整用户角色
// 管理员角色不允许被改动，目标角色必须是可注册角色之一
func (s *UserService) ChangeRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	valid := false
	for _, candidate := range constants.RegisterableRoles {
		if candidate == role {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Role == constants.RoleAdmin {
		return nil, ErrRoleImmutable
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.repo.UpdateFields(userID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	s.refreshAuthState(ctx, userID)
	logger.Infow("user_role_changed", "user_id", userID, "from", user.Role, "to", role)
	return s.repo.GetByID(userID)
}

// DeleteUser 删除用户（软删除，级联清理各扩展资料与购物车）
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.Role == constants.RoleAdmin {
		return ErrRoleImmutable
	}
	if err := s.repo.Delete(userID); err != nil {
		return err
	}
	cache.DelUserAuthState(ctx, userID)
	logger.Infow("user_deleted", "user_id", userID)
	return nil
}

func (s *UserService) refreshAuthState(ctx context.Context, userID uint) {
	user, err := s.repo.GetByID(userID)
	if err != nil || user == nil {
		cache.DelUserAuthState(ctx, userID)
		return
	}
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("auth_state_refresh_failed", "user_id", userID, "error", err)
	}
}
