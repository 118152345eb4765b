// Package sender реализует доставку писем по событиям провижининга:
// приветственное письмо с одноразовым паролем после создания учетной
// записи и уведомление о закрытии после удаления.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
)

// Service отправляет письма пользователям по событиям из очередей.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
	product   string
}

// NewService создает новый экземпляр Service.
func NewService(transport smtp.TransportInterface, log *slog.Logger, product string) *Service {
	return &Service{
		transport: transport,
		log:       log,
		product:   product,
	}
}

// SendWelcome обрабатывает событие user.created: приветственное письмо,
// с одноразовым паролем, если тот был сгенерирован сервером.
func (s *Service) SendWelcome(body []byte) error {
	var event models.UserCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal user created event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := fmt.Sprintf("Welcome to %s", s.product)
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour %s account is ready. Your plan: %s.",
		event.FullName, s.product, event.Plan)
	if event.OneTimePassword != "" {
		bodyText += fmt.Sprintf("\n\nYour temporary password: %s\nPlease change it after your first login.",
			event.OneTimePassword)
	}

	return s.sendEmail(to, subject, bodyText)
}

// SendAccountClosed обрабатывает событие user.deleted.
func (s *Service) SendAccountClosed(body []byte) error {
	var event models.UserDeletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal user deleted event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := fmt.Sprintf("Your %s account has been closed", s.product)
	bodyText := fmt.Sprintf("Hello,\n\nYour %s account has been removed by an administrator.\nIf you believe this is a mistake, please contact support.",
		s.product)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
