// Package notify builds the weekly task report and hands it to a sender.
package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/models"
)

// Notifier delivers a user's weekly report
type Notifier interface {
	Notify(ctx context.Context, user models.User, tasks []models.Task, weekKey string) error
}

// Sender transports a rendered message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders reports and passes them to a Sender
type Mailer struct {
	sender Sender
	log    *logrus.Entry
}

// NewMailer creates a Mailer
func NewMailer(sender Sender, log *logrus.Entry) *Mailer {
	return &Mailer{sender: sender, log: log}
}

// Notify renders and sends the report for weekKey
func (m *Mailer) Notify(ctx context.Context, user models.User, tasks []models.Task, weekKey string) error {
	const op = "notify.Mailer.Notify"
	log := m.log.WithField("operation", op)

	msg, err := BuildReport(user, tasks, weekKey)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		log.WithError(err).Errorf("%s: failed to send report to %s", op, msg.To)
		return fmt.Errorf("send report: %w", err)
	}
	log.WithField("to", msg.To).Info("weekly report sent")
	return nil
}

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	Log *logrus.Entry
}

// Send logs msg
func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}

// SMTPConfig holds SMTP connection settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers messages over SMTP with PLAIN auth
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTPSender
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

// Send delivers msg. The context is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	return s.sendMail(addr, auth, s.cfg.From, []string{msg.To}, s.encode(msg))
}

func (s *SMTPSender) encode(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerValue(s.cfg.From) + "\r\n")
	b.WriteString("To: " + headerValue(msg.To) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// headerValue drops CR and LF so a value cannot start a new header
func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
