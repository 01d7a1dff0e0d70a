package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, username string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func welcomeMessage(from, to, username string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the portal")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Hello, %s!</h2>
		<p>Your account has been created. You can now comment on news and download documents.</p>
	`, username))
	return m
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	if err := s.dialer.DialAndSend(welcomeMessage(s.from, email, username)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
