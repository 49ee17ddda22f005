package mailer

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/mailer"
	"github.com/samirwankhede/hotel-insights/internal/reservations"
)

type MailerService struct {
	log        *zap.Logger
	sender     mailer.Sender
	recipients []string
}

func NewMailerService(log *zap.Logger, sender mailer.Sender, recipients ...string) *MailerService {
	var to []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return &MailerService{
		log:        log,
		sender:     sender,
		recipients: to,
	}
}

// Enabled reports whether a digest has anyone to go to.
func (m *MailerService) Enabled() bool {
	return m != nil && m.sender != nil && len(m.recipients) > 0
}

// SendAlertDigest mails the current alert set to the operations recipients.
func (m *MailerService) SendAlertDigest(alerts []reservations.Alert, generatedAt time.Time) error {
	if !m.Enabled() {
		return nil
	}

	var b strings.Builder
	b.WriteString("Hello,\n\nThe reservation dashboard reports the following:\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(string(a.Type)), a.Title, a.Message)
	}
	fmt.Fprintf(&b, "\nGenerated at %s.\n\nHotel Insights\n", generatedAt.UTC().Format(time.RFC1123))

	mail := mailer.Mail{
		To:      m.recipients,
		Subject: fmt.Sprintf("Reservation alerts: %s", digestHeadline(alerts)),
		Body:    b.String(),
	}

	if err := m.sender.Send(mail); err != nil {
		m.log.Error("Failed to send alert digest", zap.Error(err), zap.Strings("to", m.recipients))
		return err
	}

	m.log.Info("Alert digest sent", zap.Strings("to", m.recipients), zap.Int("alerts", len(alerts)))
	return nil
}

func digestHeadline(alerts []reservations.Alert) string {
	titles := make([]string, 0, len(alerts))
	for _, a := range alerts {
		titles = append(titles, a.Title)
	}
	return strings.Join(titles, ", ")
}
