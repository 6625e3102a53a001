// Package notifier sends settings-driven mail alerts.
package notifier

import (
	"bytes"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/pkg/common"
)

type Mailer struct {
	cfg config.SmtpConfig
}

func NewMailer(cfg config.SmtpConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.Host != "" && m.cfg.From != ""
}

// LowStockAlert mails a plain-text digest of the products under the
// stock threshold.
func (m *Mailer) LowStockAlert(to string, products []domain.Product) error {
	if !m.Enabled() {
		return nil
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "%d product(s) need restocking:\r\n\r\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&body, "- %s (%s): %d left, unit price %s\r\n",
			p.Name, p.Category, p.Stock, common.FormatCurrency(p.Price))
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Low stock alert: %d product(s)", len(products)))
	msg.SetBody("text/plain", body.String())

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
