package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"redditclone/internal/config"

	"go.uber.org/zap"
)

// ErrMailDisabled is returned when SMTP is not configured.
var ErrMailDisabled = errors.New("mail delivery is not configured")

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Someone asked to reset the password of your account.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If this was not you, ignore this email; your password stays the same.</p>
</body>
</html>`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailService sends transactional email over SMTP. It implements Notifier.
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool
	logger   *zap.Logger
	send     sendFunc
}

func NewMailService(cfg *config.Config, logger *zap.Logger) *MailService {
	s := &MailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		enabled:  cfg.MailEnabled(),
		logger:   logger.Named("mail"),
		send:     smtp.SendMail,
	}
	if !s.enabled {
		s.logger.Warn("mail service disabled: missing SMTP settings")
	}
	return s
}

func (s *MailService) Enabled() bool { return s.enabled }

// SendPasswordReset mails the reset link and waits for the SMTP server to accept it.
func (s *MailService) SendPasswordReset(ctx context.Context, email, link string) error {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, map[string]string{"Link": link}); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return s.sendMail(ctx, []string{email}, "Reset your password", body.String())
}

func (s *MailService) sendMail(ctx context.Context, to []string, subject, body string) error {
	if !s.enabled {
		return ErrMailDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := s.host + ":" + s.port

	var msg strings.Builder
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ","))
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := s.send(addr, auth, s.from, to, []byte(msg.String())); err != nil {
		s.logger.Error("send email failed", zap.Strings("to", to), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	s.logger.Info("email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
