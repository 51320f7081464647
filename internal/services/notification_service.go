package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hiring_backend/internal/email"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/services/dto"
)

const (
	emailSentMessage     = "Email notification sent successfully"
	emailNotRequiredText = "No email notification required"
)

// AssignmentEmail - данные письма менеджеру о новом кандидате
type AssignmentEmail struct {
	To              string
	ManagerName     string
	HRName          string
	CandidateName   string
	CandidateEmail  string
	CandidatePhone  string
	ReferenceNumber string
	ScheduleDate    *time.Time
}

// StatusUpdateEmail - данные письма HR об изменении статуса
type StatusUpdateEmail struct {
	To              string
	HRName          string
	ManagerName     string
	CandidateName   string
	ReferenceNumber string
	Status          string
	Feedback        string
	ManagerComments string
}

// InvitationEmail - письмо с приглашением на роль
type InvitationEmail struct {
	To        string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// NotificationService отправляет письма best-effort: ошибка отправки
// превращается в dto.EmailResult и никогда не возвращается как error.
type NotificationService interface {
	SendAssignmentEmail(ctx context.Context, msg AssignmentEmail) dto.EmailResult
	SendStatusUpdateEmail(ctx context.Context, msg StatusUpdateEmail) dto.EmailResult
	SendInvitationEmail(ctx context.Context, msg InvitationEmail) dto.EmailResult
	EmailStatus() dto.EmailStatusResponse
}

// NotificationSettings - параметры писем из конфигурации
type NotificationSettings struct {
	PortalURL string
	Host      string
	Port      int
	FromEmail string
}

type NotificationServiceImpl struct {
	provider email.Provider
	settings NotificationSettings
}

func NewNotificationService(provider email.Provider, settings NotificationSettings) NotificationService {
	return &NotificationServiceImpl{
		provider: provider,
		settings: settings,
	}
}

func (s *NotificationServiceImpl) SendAssignmentEmail(ctx context.Context, msg AssignmentEmail) dto.EmailResult {
	schedule := ""
	if msg.ScheduleDate != nil {
		schedule = msg.ScheduleDate.Format("January 2, 2006 15:04")
	}
	managerName := msg.ManagerName
	if managerName == "" {
		managerName = "Manager"
	}

	data := email.TemplateData{
		"ManagerName":     managerName,
		"HRName":          msg.HRName,
		"CandidateName":   msg.CandidateName,
		"CandidateEmail":  msg.CandidateEmail,
		"CandidatePhone":  msg.CandidatePhone,
		"ReferenceNumber": msg.ReferenceNumber,
		"ScheduleDate":    schedule,
		"PortalURL":       s.settings.PortalURL,
	}

	return s.send(ctx, email.TemplateCandidateAssigned, msg.To, "New Candidate Assigned – Action Required", data)
}

func (s *NotificationServiceImpl) SendStatusUpdateEmail(ctx context.Context, msg StatusUpdateEmail) dto.EmailResult {
	data := email.TemplateData{
		"HRName":          msg.HRName,
		"ManagerName":     msg.ManagerName,
		"CandidateName":   msg.CandidateName,
		"ReferenceNumber": msg.ReferenceNumber,
		"Status":          msg.Status,
		"Feedback":        msg.Feedback,
		"ManagerComments": msg.ManagerComments,
		"PortalURL":       s.settings.PortalURL,
	}

	subject := fmt.Sprintf("Candidate Status Update - %s", msg.Status)
	return s.send(ctx, email.TemplateStatusUpdate, msg.To, subject, data)
}

func (s *NotificationServiceImpl) SendInvitationEmail(ctx context.Context, msg InvitationEmail) dto.EmailResult {
	data := email.TemplateData{
		"Email":       msg.To,
		"Role":        msg.Role,
		"ExpiresAt":   msg.ExpiresAt.Format("January 2, 2006"),
		"RegisterURL": fmt.Sprintf("%s/register?token=%s", s.settings.PortalURL, msg.Token),
	}

	subject := fmt.Sprintf("You have been designated as %s", msg.Role)
	return s.send(ctx, email.TemplateRoleInvitation, msg.To, subject, data)
}

func (s *NotificationServiceImpl) EmailStatus() dto.EmailStatusResponse {
	if err := s.provider.Validate(); err != nil {
		return dto.EmailStatusResponse{
			Configured: false,
			Message:    err.Error(),
		}
	}
	return dto.EmailStatusResponse{
		Configured: true,
		Host:       s.settings.Host,
		Port:       s.settings.Port,
		FromEmail:  s.settings.FromEmail,
		Message:    "Email service is configured",
	}
}

func (s *NotificationServiceImpl) send(ctx context.Context, kind, to, subject string, data email.TemplateData) dto.EmailResult {
	if err := s.provider.Validate(); err != nil {
		logger.EmailLog(kind, to, err)
		return dto.EmailResult{Sent: false, Message: err.Error()}
	}

	// письмо уходит после коммита; отмена запроса не должна обрывать отправку
	ctx = context.WithoutCancel(ctx)

	err := s.provider.SendTemplate(ctx, []string{to}, subject, kind, data)
	logger.EmailLog(kind, to, err)
	if err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return dto.EmailResult{Sent: false, Message: err.Error()}
		}
		return dto.EmailResult{Sent: false, Message: fmt.Sprintf("Failed to send email: %v", err)}
	}

	return dto.EmailResult{Sent: true, Message: emailSentMessage}
}
