package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllTemplatesHavePreviewData(t *testing.T) {
	for name, data := range PreviewData {
		body, err := Render(name, data)
		require.NoError(t, err, "template %s", name)
		assert.NotEmpty(t, body)
	}
}

func TestRender_Welcome(t *testing.T) {
	body, err := Render(TemplateWelcome, map[string]string{"UserEmail": "<bob>@example.com"})
	require.NoError(t, err)

	assert.Contains(t, body, "Welcome to AskMate")
	assert.Contains(t, body, "&lt;bob&gt;@example.com")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}
