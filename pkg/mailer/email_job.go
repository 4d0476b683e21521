package mailer

// EmailJob is the JSON payload placed on the RabbitMQ queue for the email
// worker. Template selects a renderer in templates.go; Text/HTML are used
// as-is when no template is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "reset_password"
	Data     map[string]any `json:"data,omitempty"`
}
