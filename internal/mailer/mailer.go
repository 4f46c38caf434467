// Package mailer sends transactional notification mail. Delivery is best
// effort: registration must never fail because SMTP is down.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/surdiana/userhub/config"
	"github.com/surdiana/userhub/pkg/circuit"
	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
)

type Mailer struct {
	cfg     config.SMTPConfig
	breaker *circuit.Breaker
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg:     cfg,
		breaker: circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger()),
	}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// SendWelcome mails a greeting to a freshly registered user. Intended to be
// called from a goroutine; errors are logged and swallowed. Sends are guarded
// by a circuit breaker so a dead relay is not dialed on every registration.
func (m *Mailer) SendWelcome(nickname, email string) {
	if !m.cfg.Enabled {
		return
	}

	err := m.breaker.Execute(func() error {
		mail := mailyak.New(fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port),
			smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host))

		mail.To(email)
		mail.From(m.cfg.From)
		mail.Subject("Welcome")
		mail.Plain().Set(fmt.Sprintf("Hi %s,\n\nYour account has been created.\n", nickname))

		return mail.Send()
	})
	if err != nil {
		logger.GetLogger().Warn("Failed to send welcome mail",
			zap.String("email", email),
			zap.Error(err),
		)
		return
	}

	logger.GetLogger().Info("Welcome mail sent",
		zap.String("email", email),
	)
}
