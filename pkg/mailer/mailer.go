/**
 * @description
 * This package sends renewal reminder emails over SMTP. Each reminder label
 * maps to a subject and body template filled from a subscription snapshot.
 */
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// ReminderMail is the snapshot of a subscription rendered into a reminder.
type ReminderMail struct {
	To            string
	UserName      string
	PlanName      string
	Price         string
	RenewalDate   string
	PaymentMethod string
}

type template struct {
	subject func(m ReminderMail) string
	body    func(m ReminderMail) string
}

var templates = map[string]template{
	"7-days-before": {
		subject: func(m ReminderMail) string {
			return fmt.Sprintf("Reminder: your %s subscription renews in 7 days", m.PlanName)
		},
		body: reminderBody("7 days"),
	},
	"5-days-before": {
		subject: func(m ReminderMail) string {
			return fmt.Sprintf("Reminder: your %s subscription renews in 5 days", m.PlanName)
		},
		body: reminderBody("5 days"),
	},
	"2-days-before": {
		subject: func(m ReminderMail) string {
			return fmt.Sprintf("Reminder: your %s subscription renews in 2 days", m.PlanName)
		},
		body: reminderBody("2 days"),
	},
	"1-day-before": {
		subject: func(m ReminderMail) string {
			return fmt.Sprintf("Last reminder: your %s subscription renews tomorrow", m.PlanName)
		},
		body: reminderBody("1 day"),
	},
}

func reminderBody(distance string) func(m ReminderMail) string {
	return func(m ReminderMail) string {
		var b strings.Builder
		fmt.Fprintf(&b, "Hi %s,\r\n\r\n", m.UserName)
		fmt.Fprintf(&b, "Your %s subscription renews in %s, on %s.\r\n\r\n", m.PlanName, distance, m.RenewalDate)
		fmt.Fprintf(&b, "Plan: %s\r\n", m.PlanName)
		fmt.Fprintf(&b, "Price: %s\r\n", m.Price)
		fmt.Fprintf(&b, "Payment method: %s\r\n\r\n", m.PaymentMethod)
		b.WriteString("If you'd like to cancel before then, you can do so from your dashboard.\r\n")
		return b.String()
	}
}

// Labels returns the reminder labels the mailer has templates for.
func Labels() []string {
	return []string{"7-days-before", "5-days-before", "2-days-before", "1-day-before"}
}

// Mailer sends reminder emails through a plain-auth SMTP relay.
type Mailer struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// New creates a Mailer for the given SMTP relay.
func New(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host: host,
		port: port,
		from: from,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

// SendReminder sends the reminder identified by label. An unknown label is an
// error; the set of labels is fixed by the workflow contract.
func (m *Mailer) SendReminder(label string, mail ReminderMail) error {
	tpl, ok := templates[label]
	if !ok {
		return fmt.Errorf("no reminder template for label %q", label)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, mail.To, tpl.subject(mail), tpl.body(mail))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, m.auth, m.from, []string{mail.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}
