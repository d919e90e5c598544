package gmail

import (
	"fmt"
	"strings"
	"time"
)

// invoiceKeywords drive the subject-line side of the inbox search.
var invoiceKeywords = []string{
	"invoice", "bill", "payment", "receipt", "statement", "balance due", "amount due",
}

// BuildQuery assembles the mailbox search for invoice-bearing messages:
// PDF attachments within the window, from a known supplier or with an
// invoice-like subject.
func BuildQuery(now time.Time, daysBack int, supplierEmails []string) string {
	after := now.AddDate(0, 0, -daysBack)

	var clauses []string
	for _, email := range supplierEmails {
		clauses = append(clauses, fmt.Sprintf("from:%s", email))
	}
	for _, kw := range invoiceKeywords {
		clauses = append(clauses, fmt.Sprintf("subject:%q", kw))
	}

	return fmt.Sprintf("has:attachment filename:pdf after:%d/%d/%d (%s)",
		after.Year(), int(after.Month()), after.Day(),
		strings.Join(clauses, " OR "))
}
