package report

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// EmailConfig configures the SMTP digest.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailReporter mails the weekly markdown report over SMTP.
type EmailReporter struct {
	cfg  EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	log  zerolog.Logger
}

// NewEmailReporter creates the reporter. Missing host or recipients
// disables it.
func NewEmailReporter(cfg EmailConfig, log zerolog.Logger) *EmailReporter {
	return &EmailReporter{cfg: cfg, send: smtp.SendMail, log: log}
}

// Enabled reports whether the reporter has enough config to send.
func (r *EmailReporter) Enabled() bool {
	return r.cfg.Host != "" && len(r.cfg.To) > 0 && r.cfg.From != ""
}

// Deliver implements the pipeline reporter contract.
func (r *EmailReporter) Deliver(_ context.Context, trends []trend.Trend, generatedAt time.Time) error {
	return r.Send(trends, generatedAt)
}

// Send mails the report body to all configured recipients.
func (r *EmailReporter) Send(trends []trend.Trend, generatedAt time.Time) error {
	if !r.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("Food Trend Report, week %s", trend.WeekID(generatedAt))
	body := Markdown(trends, generatedAt)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", r.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(r.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port)
	var auth smtp.Auth
	if r.cfg.Username != "" {
		auth = smtp.PlainAuth("", r.cfg.Username, r.cfg.Password, r.cfg.Host)
	}

	if err := r.send(addr, auth, r.cfg.From, r.cfg.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending report mail: %w", err)
	}

	r.log.Info().Strs("to", r.cfg.To).Msg("email report sent")
	return nil
}
