// Package mailer delivers OTP codes over SMTP. Delivery is best
// effort: callers surface failures in their response message but
// never fail the request over them.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain-text mail through a single SMTP account.
type Mailer struct {
	host   string
	port   string
	sender string
	pass   string
}

// New returns a Mailer, or nil when no SMTP account is configured so
// callers can branch on a single check.
func New(host, port, sender, pass string) *Mailer {
	if host == "" || sender == "" {
		return nil
	}
	return &Mailer{host: host, port: port, sender: sender, pass: pass}
}

// SendOTP mails a verification code to the recipient.
func (m *Mailer) SendOTP(to, code string) error {
	subject := "Your AgriConnect verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.\r\n", code)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.sender, to, subject, body))

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.sender, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
