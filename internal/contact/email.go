package contact

import (
	"bytes"
	"fmt"
	"html/template"
)

// inquiryTemplate renders the internal notification for a storefront inquiry.
var inquiryTemplate = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #111; margin: 0; padding: 24px;">
    <h2 style="margin: 0 0 16px;">New Customer Inquiry</h2>
    <table style="border-collapse: collapse;">
      <tr>
        <td style="padding: 4px 12px 4px 0; font-weight: bold;">Name</td>
        <td style="padding: 4px 0;">{{.Name}}</td>
      </tr>
      <tr>
        <td style="padding: 4px 12px 4px 0; font-weight: bold;">Contact</td>
        <td style="padding: 4px 0;">{{.Contact}}</td>
      </tr>
    </table>
    <h3 style="margin: 16px 0 8px;">Message</h3>
    <p style="margin: 0; white-space: pre-wrap;">{{.Message}}</p>
  </body>
</html>`))

func renderInquiryEmail(sub Submission) (string, error) {
	var buf bytes.Buffer
	if err := inquiryTemplate.Execute(&buf, sub); err != nil {
		return "", fmt.Errorf("rendering inquiry email: %w", err)
	}
	return buf.String(), nil
}

func inquirySubject(sub Submission) string {
	return "New Customer Inquiry from " + sub.Name
}
