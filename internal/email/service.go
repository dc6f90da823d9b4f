// Package email sends transactional mail for the auth flows.
package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type Service interface {
	SendPasswordReset(to, token string) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	ResetURL string `mapstructure:"reset_url"`
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendPasswordReset(to, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>A password reset was requested for your account.</p>
<p><a href="%s?token=%s">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>`,
		s.cfg.ResetURL, token,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// logService stands in when SMTP is unconfigured; it records the reset token
// to the log instead of sending mail.
type logService struct {
	log zerolog.Logger
}

func NewLogService(log zerolog.Logger) Service {
	return &logService{log: log}
}

func (s *logService) SendPasswordReset(to, token string) error {
	s.log.Info().Str("to", to).Str("token", token).Msg("password reset requested (smtp unconfigured)")
	return nil
}
