package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"mailharvest-engine/internal/domain"
)

// Emailer mails the run summary to the operator after each batch.
type Emailer struct {
	Addr     string // host:port, STARTTLS
	Username string
	Password string
	From     string
	To       []string
}

func (e *Emailer) Send(summary domain.RunSummary) error {
	if e.Addr == "" || len(e.To) == 0 {
		return nil
	}

	subject := fmt.Sprintf("mailharvest run: %d new contacts (%d fetched, %d failed accounts)",
		summary.Inserted, summary.Fetched, summary.Failed)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Run %s .. %s\r\n\r\n", summary.StartedAt, summary.FinishedAt)
	fmt.Fprintf(&b, "Fetched:    %d\r\n", summary.Fetched)
	fmt.Fprintf(&b, "Passed:     %d\r\n", summary.Passed)
	fmt.Fprintf(&b, "Extracted:  %d\r\n", summary.Extracted)
	fmt.Fprintf(&b, "Duplicates: %d\r\n", summary.Duplicates)
	fmt.Fprintf(&b, "Inserted:   %d\r\n", summary.Inserted)
	fmt.Fprintf(&b, "Skipped:    %d\r\n\r\n", summary.Skipped)

	for _, acc := range summary.Accounts {
		fmt.Fprintf(&b, "[%s] %s: fetched=%d passed=%d junk=%d extracted=%d\r\n",
			acc.Status, acc.Account, acc.Fetched, acc.FilterStats.Passed,
			acc.FilterStats.Junk, acc.Extracted)
		if acc.Error != "" {
			fmt.Fprintf(&b, "  error: %s\r\n", acc.Error)
		}
	}

	if len(summary.Contacts) > 0 {
		b.WriteString("\r\nNew contacts:\r\n")
		for _, c := range summary.Contacts {
			fmt.Fprintf(&b, "  %s <%s> %s\r\n", c.Name, c.Email, c.Company)
		}
	}

	auth := sasl.NewPlainClient("", e.Username, e.Password)
	if err := smtp.SendMail(e.Addr, auth, e.From, e.To, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}
