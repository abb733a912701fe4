package email

// Template names an embedded email template.
type Template string

const (
	// TemplateWelcome corresponds to templates/welcome.html
	TemplateWelcome Template = "welcome"

	// TemplatePasswordReset corresponds to templates/password_reset.html
	TemplatePasswordReset Template = "password_reset"
)
