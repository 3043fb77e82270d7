// Package mail sends transactional email over plain SMTP. With no SMTP_HOST
// configured every send degrades to a log line, which keeps local dev and
// tests off the network.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/cogitex/rfbooking/models"
)

type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	AppName  string
}

func New(host, port, username, password, from string) *Mailer {
	return &Mailer{
		Host: host, Port: port, Username: username, Password: password,
		From: from, AppName: "RF Booking",
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.Host == "" {
		log.Printf("mail: SMTP not configured, skipping %q to %s", subject, to)
		return nil
	}
	msg := buildMIME(m.AppName, m.From, to, subject, htmlBody)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
}

func buildMIME(fromName, fromAddr, to, subject, html string) string {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", fromName, fromAddr),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + html
}

func (m *Mailer) SendMagicLink(to, link string, ttl time.Duration) error {
	body := fmt.Sprintf(`
<div style="font-family:sans-serif">
  <p>Click the link below to sign in:</p>
  <p><a href="%s">%s</a></p>
  <p style="color:#666">The link is valid for %d minutes and works once.
  If you did not request it, you can safely ignore this email.</p>
</div>
`, link, link, int(ttl.Minutes()))
	return m.send(to, "Your sign-in link", body)
}

func (m *Mailer) SendBookingReminder(to string, b *models.Booking, equipmentName string) error {
	body := fmt.Sprintf(`
<div style="font-family:sans-serif">
  <p>Reminder: your booking of <b>%s</b> starts today at %s.</p>
  <p>%s &ndash; %s, %s&ndash;%s</p>
</div>
`, equipmentName, b.StartTime,
		b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
		b.StartTime, b.EndTime)
	return m.send(to, "Booking starts today", body)
}

func (m *Mailer) SendWeeklyReport(to, html string) error {
	return m.send(to, "Weekly booking report", html)
}
