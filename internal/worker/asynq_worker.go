package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/provider"
	"github.com/jishi-next/internal/queue"
	"github.com/jishi-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskEmailVerify, c.handleVerifyEmail)
	mux.HandleFunc(queue.TaskEmailPasswordReset, c.handlePasswordResetEmail)
	mux.HandleFunc(queue.TaskEmailOrderCreated, c.handleOrderCreatedEmail)
}

func (c *Consumer) handleVerifyEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.VerifyEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verify_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Token == "" {
		logger.Debugw("worker_verify_email_skip_invalid_payload")
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_verify_email_skip_email_service_nil", "email", email)
		return nil
	}
	if err := c.EmailService.SendVerifyEmail(email, payload.Token); err != nil {
		return c.handleSendError("worker_verify_email_send_failed", email, err)
	}
	return nil
}

func (c *Consumer) handlePasswordResetEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.PasswordResetEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_password_reset_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Token == "" {
		logger.Debugw("worker_password_reset_email_skip_invalid_payload")
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_password_reset_email_skip_email_service_nil", "email", email)
		return nil
	}
	if err := c.EmailService.SendPasswordResetEmail(email, payload.Token); err != nil {
		return c.handleSendError("worker_password_reset_email_send_failed", email, err)
	}
	return nil
}

func (c *Consumer) handleOrderCreatedEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderCreatedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_created_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.OrderNo == "" {
		logger.Debugw("worker_order_created_email_skip_invalid_payload", "order_no", payload.OrderNo)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_created_email_skip_email_service_nil", "order_no", payload.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderCreatedEmail(email, payload.OrderNo, payload.Amount); err != nil {
		return c.handleSendError("worker_order_created_email_send_failed", email, err)
	}
	return nil
}

// handleSendError 邮件服务未配置时丢弃任务而不是重试
func (c *Consumer) handleSendError(event, email string, err error) error {
	if errors.Is(err, service.ErrEmailServiceNotConfigured) || errors.Is(err, service.ErrInvalidEmail) {
		logger.Debugw(event+"_skip", "email", email, "error", err)
		return nil
	}
	logger.Warnw(event, "email", email, "error", err)
	return err
}
