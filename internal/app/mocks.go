package app

import (
	"context"

	"hiring_backend/internal/email"
)

// DisabledEmailProvider используется, когда SMTP не настроен: каждое письмо
// завершается email.ErrNotConfigured, а бизнес-операция проходит.
type DisabledEmailProvider struct{}

func (DisabledEmailProvider) Send(context.Context, *email.Email) error { return email.ErrNotConfigured }
func (DisabledEmailProvider) SendTemplate(context.Context, []string, string, string, email.TemplateData) error {
	return email.ErrNotConfigured
}
func (DisabledEmailProvider) Validate() error { return email.ErrNotConfigured }
func (DisabledEmailProvider) Close() error    { return nil }
