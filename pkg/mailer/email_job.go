package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names a set of .tmpl files rendered by the worker with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"` // welcome, password_reset, premium_activated
	Data     map[string]any `json:"data,omitempty"`
}
