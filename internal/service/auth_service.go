package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jishi-next/internal/cache"
	"github.com/jishi-next/internal/config"
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/models"
	"github.com/jishi-next/internal/queue"
	"github.com/jishi-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 认证服务（注册/登录/令牌/邮箱验证）
type AuthService struct {
	cfg           *config.Config
	userRepo      repository.UserRepository
	sellerRepo    repository.SellerRepository
	affiliateRepo repository.AffiliateRepository
	queueClient   *queue.Client
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, sellerRepo repository.SellerRepository, affiliateRepo repository.AffiliateRepository, queueClient *queue.Client) *AuthService {
	return &AuthService{
		cfg:           cfg,
		userRepo:      userRepo,
		sellerRepo:    sellerRepo,
		affiliateRepo: affiliateRepo,
		queueClient:   queueClient,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// EmailTokenClaims 邮件令牌声明（验证邮箱/重置密码）
type EmailTokenClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成用户 JWT Token（jti 用于退出登录黑名单）
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析用户 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// RegisterInput 注册入参
type RegisterInput struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string

	// 卖家注册附加字段
	BusinessName        string
	BusinessDescription string

	// 推广注册附加字段
	Website string
	Niche   string
}

// Register 用户注册（同事务创建用户、基础资料与角色档案）
func (s *AuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = constants.RoleCustomer
	}
	if !isRegisterableRole(role) {
		return nil, "", time.Time{}, ErrInvalidRole
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Email:         normalized,
		PasswordHash:  string(hashedPassword),
		Role:          role,
		Status:        constants.UserStatusActive,
		EmailVerified: !s.cfg.Email.Enabled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		if err := userRepo.Create(user); err != nil {
			return err
		}
		profile := &models.Profile{
			UserID:    user.ID,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
		}
		if err := userRepo.CreateProfile(profile); err != nil {
			return err
		}
		switch role {
		case constants.RoleSeller:
			businessName := strings.TrimSpace(input.BusinessName)
			if businessName == "" {
				businessName = normalized
			}
			return s.sellerRepo.WithTx(tx).Create(&models.SellerProfile{
				UserID:                user.ID,
				BusinessName:          businessName,
				BusinessDescription:   strings.TrimSpace(input.BusinessDescription),
				DefaultCommissionRate: decimal.NewFromFloat(s.fallbackCommissionRate()),
			})
		case constants.RoleAffiliate:
			return s.affiliateRepo.WithTx(tx).CreateProfile(&models.AffiliateProfile{
				UserID:  user.ID,
				Website: strings.TrimSpace(input.Website),
				Niche:   strings.TrimSpace(input.Niche),
			})
		}
		return nil
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.cfg.Email.Enabled {
		if token, tokenErr := s.generateEmailToken(user, constants.EmailTokenPurposeVerify); tokenErr == nil {
			if err := s.queueClient.EnqueueVerifyEmail(user.Email, token); err != nil {
				logger.Warnw("verify_email_enqueue_failed", "user_id", user.ID, "error", err)
			}
		}
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *AuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if s.cfg.Email.Enabled && !user.EmailVerified {
		return nil, "", time.Time{}, ErrEmailNotVerified
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Logout 退出登录（令牌进入黑名单直至过期）
func (s *AuthService) Logout(claims *UserJWTClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return cache.BlockToken(context.Background(), claims.ID, ttl)
}

// VerifyEmail 通过邮件令牌验证邮箱
func (s *AuthService) VerifyEmail(token string) error {
	claims, err := s.parseEmailToken(token, constants.EmailTokenPurposeVerify)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.EmailVerified {
		return nil
	}
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{"email_verified": true})
}

// RequestPasswordReset 发起密码重置（邮箱不存在时静默成功，避免探测）
func (s *AuthService) RequestPasswordReset(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	token, err := s.generateEmailToken(user, constants.EmailTokenPurposeReset)
	if err != nil {
		return err
	}
	if err := s.queueClient.EnqueuePasswordResetEmail(user.Email, token); err != nil {
		logger.Warnw("password_reset_enqueue_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword 使用邮件令牌重置密码（重置后旧令牌全部失效）
func (s *AuthService) ResetPassword(token, newPassword string) error {
	claims, err := s.parseEmailToken(token, constants.EmailTokenPurposeReset)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// ChangePassword 登录态修改密码
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// Me 获取当前用户（含角色档案）
func (s *AuthService) Me(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithProfiles(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AuthService) generateEmailToken(user *models.User, purpose string) (string, error) {
	expireMinutes := s.cfg.Email.TokenExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	claims := EmailTokenClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

func (s *AuthService) parseEmailToken(tokenString, purpose string) (*EmailTokenClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &EmailTokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) fallbackCommissionRate() float64 {
	rate := s.cfg.Marketplace.FallbackCommissionRate
	if rate < 0 {
		return 0
	}
	return rate
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func isRegisterableRole(role string) bool {
	for _, candidate := range constants.RegisterableRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
