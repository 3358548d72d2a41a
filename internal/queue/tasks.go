package queue

import (
	"encoding/json"

	"github.com/jishi-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskEmailVerify 邮箱验证邮件任务
	TaskEmailVerify = constants.TaskEmailVerify
	// TaskEmailPasswordReset 密码重置邮件任务
	TaskEmailPasswordReset = constants.TaskEmailPasswordReset
	// TaskEmailOrderCreated 下单确认邮件任务
	TaskEmailOrderCreated = constants.TaskEmailOrderCreated
)

// VerifyEmailPayload 邮箱验证邮件任务载荷
type VerifyEmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// PasswordResetEmailPayload 密码重置邮件任务载荷
type PasswordResetEmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// OrderCreatedEmailPayload 下单确认邮件任务载荷
type OrderCreatedEmailPayload struct {
	Email   string `json:"email"`
	OrderNo string `json:"order_no"`
	Amount  string `json:"amount"`
}

// NewVerifyEmailTask 创建邮箱验证邮件任务
func NewVerifyEmailTask(payload VerifyEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailVerify, body), nil
}

// NewPasswordResetEmailTask 创建密码重置邮件任务
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailPasswordReset, body), nil
}

// NewOrderCreatedEmailTask 创建下单确认邮件任务
func NewOrderCreatedEmailTask(payload OrderCreatedEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailOrderCreated, body), nil
}
