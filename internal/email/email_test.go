package email

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_Builtin(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{TemplateCandidateAssigned, TemplateStatusUpdate, TemplateRoleInvitation},
		tm.TemplateNames())

	html, err := tm.Render(TemplateStatusUpdate, TemplateData{
		"HRName":          "Alice",
		"ManagerName":     "Bob",
		"CandidateName":   "<script>x</script>",
		"ReferenceNumber": "REF123456789",
		"Status":          "Shortlisted",
		"Feedback":        "Strong candidate",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Dear Alice")
	assert.Contains(t, html, "Shortlisted")
	assert.Contains(t, html, "Strong candidate")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "Comments:")
}

func TestTemplateManager_UnknownAndCustom(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)

	require.NoError(t, tm.LoadFS(fstest.MapFS{
		"custom/hello.html": {Data: []byte("Hello {{.Name}}")},
		"custom/skip.txt":   {Data: []byte("ignored")},
	}, "custom"))

	out, err := tm.Render("hello", TemplateData{"Name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", out)
	assert.NotContains(t, tm.TemplateNames(), "skip")
}

func TestSMTPProvider_NotConfigured(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587}, tm)

	assert.ErrorIs(t, p.Validate(), ErrNotConfigured)
	err = p.SendTemplate(context.Background(), []string{"hr@example.com"}, "Hi",
		TemplateRoleInvitation, TemplateData{"Role": "HR"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPProvider_InvalidPort(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "h", Port: 70000, Username: "u", Password: "p"}, nil)
	assert.Error(t, p.Validate())
	assert.NotErrorIs(t, p.Validate(), ErrNotConfigured)
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{
		Host: "smtp.example.com", Port: 587,
		Username: "robot@example.com", Password: "x",
		FromName: "Hiring Portal",
	}, nil)

	msg := p.buildMessage(&Email{
		To:       []string{"manager@example.com"},
		ReplyTo:  "hr@example.com",
		Subject:  "New candidate",
		Body:     "plain",
		HTMLBody: "<p>html</p>",
	})

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "To: manager@example.com")
	assert.Contains(t, raw, "Reply-To: hr@example.com")
	assert.Contains(t, raw, "robot@example.com")
	assert.Contains(t, raw, "@example.com>")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", domainOf("a@example.com"))
	assert.Equal(t, "localhost", domainOf("broken@"))
	assert.Equal(t, "localhost", domainOf(""))
}
