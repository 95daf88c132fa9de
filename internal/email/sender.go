// Package email provides email sending functionality for the application.
// It supports both development mode (log-only) and production mode (SMTP).
package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"
)

// Sender defines the interface for sending emails
type Sender interface {
	SendVerificationCode(address, code string) error
}

// Config holds email configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// NewConfig creates a new email configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	return &Config{
		Mode:     getEnvOrDefault("EMAIL_MODE", "log"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "noreply@diatrack.local"),
		FromName: getEnvOrDefault("SMTP_FROM_NAME", "Diatrack"),
	}
}

// NewSender creates a new email sender based on configuration
func NewSender(cfg *Config) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg}
	}
	return &logSender{}
}

// logSender logs emails to console (development mode)
type logSender struct{}

func (s *logSender) SendVerificationCode(address, code string) error {
	log.Printf("[DEV] Verification code for %s: %s (expires in 10 minutes)", address, code)
	return nil
}

// smtpSender sends emails via SMTP (production mode)
type smtpSender struct {
	config *Config
}

func (s *smtpSender) SendVerificationCode(address, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"<p>Your Diatrack verification code is:</p><h2>%s</h2><p>It expires in 10 minutes.</p>",
		code,
	)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From)
	message += fmt.Sprintf("To: %s\r\n", address)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{address}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Verification code sent to %s via SMTP", address)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
