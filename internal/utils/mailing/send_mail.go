package mailing

import (
	"strconv"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(toEmail string, subject string, body string) error
	Configured() bool
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

type mailer struct {
	config MailConfig
}

func NewMailer(config MailConfig) Mailer {
	return &mailer{config: config}
}

func (m *mailer) Configured() bool {
	return m.config.SMTPHost != "" && m.config.SMTPEmail != ""
}

func (m *mailer) Send(toEmail string, subject string, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.config.SMTPEmail)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}

	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(message)
}
