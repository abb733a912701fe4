package email

// SendWelcomeEmail sends the signup welcome email.
func (c *Client) SendWelcomeEmail(to, firstName string) error {
	data := map[string]string{
		"UserFirstName": firstName,
	}

	return c.SendEmail(
		to,
		"Welcome to TourBook!",
		TemplateWelcome,
		data,
	)
}

// SendPasswordResetEmail sends the password reset link. The link embeds
// the raw reset token and stops working after the token's expiry window.
func (c *Client) SendPasswordResetEmail(to, firstName, resetURL string) error {
	data := map[string]string{
		"UserFirstName": firstName,
		"ResetURL":      resetURL,
	}

	return c.SendEmail(
		to,
		"Your password reset token (valid for 10 minutes)",
		TemplatePasswordReset,
		data,
	)
}
