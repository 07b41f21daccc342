package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/gamemates/server/internal/config"
	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/store"
)

const VerificationTokenExpiry = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid verification token")
	ErrTokenExpired = errors.New("verification token expired")
)

// Email represents an email to be sent.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailProvider is the interface for sending emails.
type EmailProvider interface {
	Send(ctx context.Context, email *Email) error
}

// EmailService handles account verification mail. With AutoVerify enabled it
// skips the email round-trip and marks accounts verified on registration.
type EmailService struct {
	provider    EmailProvider
	store       store.Store
	fromAddress string
	fromName    string
	baseURL     string
	autoVerify  bool
}

func NewEmailService(cfg *config.EmailConfig, st store.Store) *EmailService {
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)

	var provider EmailProvider
	switch cfg.Provider {
	case "resend":
		provider = NewResendProvider(cfg.ResendAPIKey, from)
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, from, cfg.FromAddress)
	default:
		provider = NewConsoleProvider()
	}

	return &EmailService{
		provider:    provider,
		store:       st,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		baseURL:     cfg.BaseURL,
		autoVerify:  cfg.AutoVerify,
	}
}

// GenerateToken creates a secure random token and returns both the token and
// its hash.
func GenerateToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}
	token = hex.EncodeToString(bytes)
	return token, HashToken(token), nil
}

// HashToken creates a SHA256 hash of a token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// SendVerificationEmail issues a verification token and mails the link. In
// auto-verify mode it marks the account verified instead.
func (s *EmailService) SendVerificationEmail(ctx context.Context, userID uuid.UUID, email string) error {
	if s.autoVerify {
		if err := s.store.Users().MarkEmailVerified(ctx, userID); err != nil {
			return fmt.Errorf("auto-verifying email: %w", err)
		}
		return nil
	}

	token, tokenHash, err := GenerateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(VerificationTokenExpiry)
	if err := s.store.VerificationTokens().Create(ctx, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("storing verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/#verify-email?token=%s", s.baseURL, token)
	html, text := s.renderVerificationEmail(verifyURL)

	return s.provider.Send(ctx, &Email{
		To:      email,
		Subject: fmt.Sprintf("Verify your %s account", s.fromName),
		HTML:    html,
		Text:    text,
	})
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *EmailService) VerifyEmail(ctx context.Context, token string) error {
	tokenHash := HashToken(token)

	record, err := s.store.VerificationTokens().Get(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("looking up verification token: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrTokenExpired
	}

	if err := s.store.Users().MarkEmailVerified(ctx, record.UserID); err != nil {
		return fmt.Errorf("updating verification status: %w", err)
	}

	if err := s.store.VerificationTokens().DeleteForUser(ctx, record.UserID); err != nil {
		logging.Error("Failed to delete verification tokens", map[string]interface{}{
			"error":   err.Error(),
			"user_id": record.UserID.String(),
		})
	}

	return nil
}

func (s *EmailService) renderVerificationEmail(verifyURL string) (html, text string) {
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; font-size: 24px;">Welcome to %s!</h1>

  <p>Please verify your email address by clicking the button below:</p>

  <a href="%s"
     style="display: inline-block; background: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">
    Verify Email Address
  </a>

  <p style="color: #666; font-size: 14px;">
    This link expires in 24 hours. If you didn't create an account, you can ignore this email.
  </p>

  <p style="color: #666; font-size: 14px;">
    Or copy this link: %s
  </p>
</body>
</html>`, s.fromName, verifyURL, verifyURL)

	text = fmt.Sprintf(`Welcome to %s!

Please verify your email address by visiting:
%s

This link expires in 24 hours.

If you didn't create an account, you can ignore this email.`, s.fromName, verifyURL)

	return html, text
}

// ResendProvider sends emails using the Resend API.
type ResendProvider struct {
	client *resend.Client
	from   string
}

func NewResendProvider(apiKey, from string) *ResendProvider {
	return &ResendProvider{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	_, err := p.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("sending email via Resend: %w", err)
	}

	logging.Info("Email sent via Resend", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// SMTPProvider sends emails via SMTP (for Mailpit in local dev).
type SMTPProvider struct {
	host        string
	port        int
	from        string
	fromAddress string
}

func NewSMTPProvider(host string, port int, from, fromAddress string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, from: from, fromAddress: fromAddress}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", p.from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTML)

	err := smtp.SendMail(addr, nil, p.fromAddress, []string{email.To}, buf.Bytes())
	if err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	logging.Info("Email sent via SMTP", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// ConsoleProvider logs emails to console (for development).
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Send(ctx context.Context, email *Email) error {
	logging.Info("=== EMAIL (Console Provider) ===", map[string]interface{}{"to": email.To, "subject": email.Subject})
	fmt.Printf("\n=== EMAIL ===\n")
	fmt.Printf("To: %s\n", email.To)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("---\n")
	fmt.Printf("%s\n", email.Text)
	fmt.Printf("=============\n\n")
	return nil
}
