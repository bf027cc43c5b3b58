package templates

import "time"

const dateLayout = "02 January 2006, 15:04"

// Branding holds the fields every email shares.
type Branding struct {
	CompanyName      string
	AppName          string
	SupportURL       string
	ResetPasswordURL string
}

// Option pattern
type Option func(*EmailData)

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format(dateLayout)
	}
}

func WithPremiumUntil(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.PremiumUntil = utc
		d.PremiumUntilText = utc.Format(dateLayout)
	}
}

// NewBaseEmailData fills the shared fields, then applies opts.
func NewBaseEmailData(b Branding, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Branding, name, email, role string) map[string]any {
	return ToMap(NewBaseEmailData(b, name, email, WithRole(role)))
}

// NewPasswordResetData appends the token to the configured reset page.
func NewPasswordResetData(b Branding, name, email, token string, expires time.Time) map[string]any {
	d := NewBaseEmailData(b, name, email, WithExpiresAt(expires))
	d.ResetURL = b.ResetPasswordURL + "?token=" + token
	return ToMap(d)
}

func NewPremiumActivatedData(b Branding, name, email string, until time.Time) map[string]any {
	return ToMap(NewBaseEmailData(b, name, email, WithPremiumUntil(until)))
}
