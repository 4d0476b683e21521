package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateResetPassword is the template name for the reset-password email.
const TemplateResetPassword = "reset_password"

var resetPasswordHTML = template.Must(template.New(TemplateResetPassword).Parse(`
<p>Hi {{.Name}},</p>
<p>Your password has been reset. Your new password is:</p>
<p><strong>{{.Password}}</strong></p>
<p>Please sign in and change it as soon as possible.</p>
`))

// Render produces subject, text, and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateResetPassword:
		var buf bytes.Buffer
		if err := resetPasswordHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Your password has been reset"
		text = fmt.Sprintf("Hi %v, your new password is: %v. Please sign in and change it as soon as possible.",
			data["Name"], data["Password"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
