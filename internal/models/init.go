package models

import (
	"github.com/jishi-next/internal/constants"
	"github.com/jishi-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:         email,
		PasswordHash:  string(hash),
		Role:          constants.RoleAdmin,
		Status:        constants.UserStatusActive,
		EmailVerified: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	if err := DB.Create(&Profile{UserID: admin.ID, FirstName: "Admin"}).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}

	return nil
}
