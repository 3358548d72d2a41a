package service

import (
	"errors"
	"testing"

	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/repository"

	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewAuthService(
		serviceTestConfig(),
		repository.NewUserRepository(db),
		repository.NewSellerRepository(db),
		repository.NewAffiliateRepository(db),
		nil,
	)
	return svc, db
}

func TestRegisterCustomer(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:     "Customer@Example.com ",
		Password:  "password123",
		FirstName: "三",
		LastName:  "张",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "customer@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("default role = %q, want customer", user.Role)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected token with expiry")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRegisterCreatesRoleProfiles(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	seller, _, _, err := svc.Register(RegisterInput{
		Email:        "seller@example.com",
		Password:     "password123",
		Role:         constants.RoleSeller,
		BusinessName: "极市小店",
	})
	if err != nil {
		t.Fatalf("register seller failed: %v", err)
	}
	sellerProfile, err := repository.NewSellerRepository(db).GetByUserID(seller.ID)
	if err != nil || sellerProfile == nil {
		t.Fatalf("seller profile missing: %v", err)
	}
	if sellerProfile.BusinessName != "极市小店" {
		t.Fatalf("business name = %q", sellerProfile.BusinessName)
	}
	// 默认佣金比例取配置兜底值
	if !sellerProfile.DefaultCommissionRate.IsPositive() {
		t.Fatalf("default commission rate not set")
	}

	affiliate, _, _, err := svc.Register(RegisterInput{
		Email:    "affiliate@example.com",
		Password: "password123",
		Role:     constants.RoleAffiliate,
		Website:  "https://blog.example.com",
	})
	if err != nil {
		t.Fatalf("register affiliate failed: %v", err)
	}
	affiliateProfile, err := repository.NewAffiliateRepository(db).GetProfileByUserID(affiliate.ID)
	if err != nil || affiliateProfile == nil {
		t.Fatalf("affiliate profile missing: %v", err)
	}
	if affiliateProfile.Website != "https://blog.example.com" {
		t.Fatalf("website = %q", affiliateProfile.Website)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "password123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "password123", Role: constants.RoleAdmin}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("admin must not be registerable, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "password123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	if _, _, _, err := svc.Register(RegisterInput{Email: "user@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("user@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	if _, _, _, err := svc.Login("user@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("ghost@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	err = db.Model(user).Update("status", constants.UserStatusDisabled).Error
	if err != nil {
		t.Fatalf("suspend user failed: %v", err)
	}
	if _, _, _, err := svc.Login("user@example.com", "password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, _, _, err := svc.Register(RegisterInput{Email: "user@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	oldVersion := user.TokenVersion

	if err := svc.ChangePassword(user.ID, "wrong", "newpassword456"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "newpassword456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, _, _, err := svc.Login("user@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	updated, _, _, err := svc.Login("user@example.com", "newpassword456")
	if err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	// 改密后旧令牌通过版本号整体失效
	if updated.TokenVersion != oldVersion+1 {
		t.Fatalf("token version = %d, want %d", updated.TokenVersion, oldVersion+1)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token invalid-before not set")
	}
}
