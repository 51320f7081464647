package testutil

import (
	"context"
	"sync"

	"hiring_backend/internal/email"
	"hiring_backend/internal/services/dto"
)

// SentEmail - одно "отправленное" письмо
type SentEmail struct {
	To       []string
	Subject  string
	Template string
	Data     email.TemplateData
}

// RecordingEmailProvider запоминает письма вместо отправки.
// Err != nil - каждая отправка завершается этой ошибкой.
type RecordingEmailProvider struct {
	mu   sync.Mutex
	Err  error
	sent []SentEmail
}

func (p *RecordingEmailProvider) Send(_ context.Context, msg *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, SentEmail{To: msg.To, Subject: msg.Subject})
	return nil
}

func (p *RecordingEmailProvider) SendTemplate(_ context.Context, to []string, subject, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, SentEmail{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}

func (p *RecordingEmailProvider) Validate() error { return nil }
func (p *RecordingEmailProvider) Close() error    { return nil }

func (p *RecordingEmailProvider) Sent() []SentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SentEmail(nil), p.sent...)
}

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu     sync.Mutex
	events []dto.WorkflowEvent
}

func (p *RecordingPublisher) Publish(event dto.WorkflowEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *RecordingPublisher) Events() []dto.WorkflowEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.WorkflowEvent(nil), p.events...)
}
