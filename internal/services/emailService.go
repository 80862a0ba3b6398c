package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"leadgate/internal/metrics"
	"leadgate/internal/models"
)

// LeadNotifier is told about every forwarded lead. Implementations must not
// block the caller and their failures never reach the visitor.
type LeadNotifier interface {
	NotifyLead(payload models.LeadPayload)
}

// NopLeadNotifier discards notifications.
type NopLeadNotifier struct{}

func (NopLeadNotifier) NotifyLead(models.LeadPayload) {}

// Mailer sends one message. *gomail.Dialer satisfies it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailLeadNotifier struct {
	from   string
	to     string
	mailer Mailer
}

// NewEmailLeadNotifier mails a short lead summary to the sales inbox.
func NewEmailLeadNotifier(host string, port int, username, password, to string) LeadNotifier {
	return &emailLeadNotifier{
		from:   username,
		to:     to,
		mailer: gomail.NewDialer(host, port, username, password),
	}
}

func (e *emailLeadNotifier) NotifyLead(payload models.LeadPayload) {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", payload.FullName, payload.FormSource))
	m.SetBody("text/html", leadSummary(payload))

	go func() {
		if err := e.mailer.DialAndSend(m); err != nil {
			metrics.LeadAlertsFailedTotal.Inc()
			log.Error().Err(err).Str("form_source", string(payload.FormSource)).Msg("Lead alert email failed")
		}
	}()
}

func leadSummary(p models.LeadPayload) string {
	rows := [][2]string{
		{"Name", p.FullName},
		{"Phone", p.Phone},
		{"Email", p.Email},
		{"State", p.State},
		{"City", p.City},
		{"Investment", p.Investment},
		{"Timeline", p.Timeline},
		{"Form", string(p.FormSource)},
		{"IP", p.UserIP},
		{"Source", p.UTMSource},
		{"Campaign", p.UTMCampaign},
	}

	var b strings.Builder
	b.WriteString("<table>")
	for _, row := range rows {
		fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>", row[0], html.EscapeString(row[1]))
	}
	b.WriteString("</table>")
	return b.String()
}
