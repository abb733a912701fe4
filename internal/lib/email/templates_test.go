package email

import (
	"bytes"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplatesRender(t *testing.T) {
	for _, tmplName := range []Template{TemplateWelcome, TemplatePasswordReset} {
		t.Run(string(tmplName), func(t *testing.T) {
			tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", tmplName))
			require.NoError(t, err)

			data, ok := PreviewData[string(tmplName)]
			require.True(t, ok, "no preview data for template %s", tmplName)

			var body bytes.Buffer
			require.NoError(t, tmpl.Execute(&body, data))
			assert.Contains(t, body.String(), data["UserFirstName"])
		})
	}
}

func TestPasswordResetTemplateIncludesLink(t *testing.T) {
	tmpl, err := template.ParseFS(templateFS, "templates/password_reset.html")
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, tmpl.Execute(&body, PreviewData["password_reset"]))
	assert.Contains(t, body.String(), PreviewData["password_reset"]["ResetURL"])
}
