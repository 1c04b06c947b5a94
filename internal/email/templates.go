package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("receipt").Parse(receiptTemplate))

func init() {
	template.Must(templates.New("welcome").Parse(welcomeTemplate))
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Payment receipt</title></head>
<body>
    <h2>Payment received</h2>
    <p>Hi {{.UserName}},</p>
    <p>We received your payment for <strong>{{.PackageName}}</strong> on "{{.PropertyTitle}}".</p>
    <table cellpadding="4">
        <tr><td>Amount</td><td>{{.Currency}} {{.AmountDisplay}}</td></tr>
        <tr><td>Gateway</td><td>{{.Gateway}}</td></tr>
        <tr><td>Transaction</td><td>{{.MerchantTransactionID}}</td></tr>
        <tr><td>Paid at</td><td>{{.PaidAt.Format "02 Jan 2006 15:04 MST"}}</td></tr>
        <tr><td>Promoted until</td><td>{{.PromotedUntil.Format "02 Jan 2006"}}</td></tr>
    </table>
    {{if .SiteURL}}<p><a href="{{.SiteURL}}/my/properties">View your listings</a></p>{{end}}
</body>
</html>`

const welcomeTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Welcome</title></head>
<body>
    <h2>Welcome, {{.UserName}}!</h2>
    <p>Your {{.UserType}} account is ready.</p>
    {{if .SiteURL}}<p><a href="{{.SiteURL}}">Start browsing</a></p>{{end}}
</body>
</html>`
