package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/jishi-next/internal/config"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.Config
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendVerifyEmail 发送邮箱验证邮件（带签名令牌链接）
func (s *EmailService) SendVerifyEmail(toEmail, token string) error {
	link := s.frontendLink("/verify-email", token)
	subject := "请验证你的邮箱"
	body := fmt.Sprintf("感谢注册集市。\n\n请打开以下链接完成邮箱验证：\n%s\n\n如果这不是你的操作，请忽略本邮件。", link)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendPasswordResetEmail 发送密码重置邮件
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	link := s.frontendLink("/reset-password", token)
	subject := "密码重置请求"
	body := fmt.Sprintf("我们收到了你的密码重置请求。\n\n请打开以下链接设置新密码：\n%s\n\n如果这不是你的操作，请忽略本邮件，你的密码不会被改变。", link)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendOrderCreatedEmail 发送下单确认邮件
func (s *EmailService) SendOrderCreatedEmail(toEmail, orderNo, amount string) error {
	subject := fmt.Sprintf("订单 %s 已创建", orderNo)
	body := fmt.Sprintf("你的订单已创建成功。\n\n订单号：%s\n订单金额：%s\n\n可在个人中心查看订单状态。", orderNo, amount)
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) frontendLink(path, token string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Frontend.BaseURL), "/")
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	emailCfg := &s.cfg.Email
	if !emailCfg.Enabled {
		return ErrEmailServiceNotConfigured
	}
	if emailCfg.Host == "" || emailCfg.Port == 0 || emailCfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(emailCfg.From, emailCfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", emailCfg.Host, emailCfg.Port)
	var auth smtp.Auth
	if emailCfg.Username != "" || emailCfg.Password != "" {
		auth = smtp.PlainAuth("", emailCfg.Username, emailCfg.Password, emailCfg.Host)
	}

	if emailCfg.UseSSL {
		return sendMailWithSSL(addr, auth, emailCfg.Host, emailCfg.From, []string{toEmail}, []byte(msg))
	}
	if emailCfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, emailCfg.Host, emailCfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, emailCfg.Host, emailCfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
