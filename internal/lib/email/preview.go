package email

// PreviewData contains sample template data for local preview, keyed by
// template name.
var PreviewData = map[string]map[string]string{
	"welcome": {
		"UserFirstName": "Mia",
	},
	"password_reset": {
		"UserFirstName": "Mia",
		"ResetURL":      "https://tourbook.example.com/reset-password/0123456789abcdef",
	},
}
