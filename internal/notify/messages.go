package notify

import (
	"fmt"
	"html"
	"strings"
)

// Message is a rendered notification ready for a Notifier.
type Message struct {
	Subject string
	HTML    string
}

// AuditPlanned renders the notification sent when an audit is scheduled.
func AuditPlanned(auditName, startDate, endDate string) Message {
	return Message{
		Subject: fmt.Sprintf("Audit planned: %s", auditName),
		HTML: renderBody(
			fmt.Sprintf("Audit %s has been planned", html.EscapeString(auditName)),
			fmt.Sprintf("The audit is scheduled from <strong>%s</strong> to <strong>%s</strong>. Responsables should confirm installation availability before the start date.",
				html.EscapeString(startDate), html.EscapeString(endDate)),
		),
	}
}

// AuditInReview renders the notification sent when field work finishes and
// the audit enters review.
func AuditInReview(auditName string) Message {
	return Message{
		Subject: fmt.Sprintf("Audit ready for review: %s", auditName),
		HTML: renderBody(
			fmt.Sprintf("Audit %s is ready for review", html.EscapeString(auditName)),
			"All installation visits are complete. Recorded criterion values are now open for reviewer sign-off.",
		),
	}
}

// AuditClosed renders the notification sent when an audit is closed.
func AuditClosed(auditName string) Message {
	return Message{
		Subject: fmt.Sprintf("Audit closed: %s", auditName),
		HTML: renderBody(
			fmt.Sprintf("Audit %s has been closed", html.EscapeString(auditName)),
			"Results are final. No further changes to criterion values will be accepted.",
		),
	}
}

func renderBody(title, paragraph string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h2>")
	b.WriteString(title)
	b.WriteString("</h2>")
	b.WriteString("<p>")
	b.WriteString(paragraph)
	b.WriteString("</p>")
	b.WriteString("</body></html>")
	return b.String()
}
