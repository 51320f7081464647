package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hiring_backend/internal/app"
	"hiring_backend/internal/email"
	"hiring_backend/internal/services"
	"hiring_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationSettings = services.NotificationSettings{
	PortalURL: "https://portal.example",
	Host:      "smtp.example.com",
	Port:      587,
	FromEmail: "robot@example.com",
}

func TestNotification_SendsRenderedTemplateData(t *testing.T) {
	provider := &testutil.RecordingEmailProvider{}
	svc := services.NewNotificationService(provider, notificationSettings)

	schedule := time.Date(2026, time.March, 3, 14, 30, 0, 0, time.UTC)
	res := svc.SendAssignmentEmail(context.Background(), services.AssignmentEmail{
		To:            "manager@example.com",
		HRName:        "Alice",
		CandidateName: "John Doe",
		ScheduleDate:  &schedule,
	})
	assert.True(t, res.Sent)
	assert.Equal(t, "Email notification sent successfully", res.Message)

	res = svc.SendInvitationEmail(context.Background(), services.InvitationEmail{
		To: "new@example.com", Role: "Manager", Token: "tok", ExpiresAt: schedule,
	})
	assert.True(t, res.Sent)

	sent := provider.Sent()
	require.Len(t, sent, 2)

	assert.Equal(t, []string{"manager@example.com"}, sent[0].To)
	assert.Equal(t, email.TemplateCandidateAssigned, sent[0].Template)
	assert.Equal(t, "Manager", sent[0].Data["ManagerName"])
	assert.Equal(t, "March 3, 2026 14:30", sent[0].Data["ScheduleDate"])
	assert.Equal(t, "https://portal.example", sent[0].Data["PortalURL"])

	assert.Equal(t, "You have been designated as Manager", sent[1].Subject)
	assert.Equal(t, "https://portal.example/register?token=tok", sent[1].Data["RegisterURL"])
}

func TestNotification_FailuresAreReportedNotReturned(t *testing.T) {
	provider := &testutil.RecordingEmailProvider{Err: errors.New("connection refused")}
	svc := services.NewNotificationService(provider, notificationSettings)

	res := svc.SendStatusUpdateEmail(context.Background(), services.StatusUpdateEmail{
		To: "hr@example.com", Status: "Rejected",
	})
	assert.False(t, res.Sent)
	assert.Equal(t, "Failed to send email: connection refused", res.Message)
}

func TestNotification_DisabledProvider(t *testing.T) {
	svc := services.NewNotificationService(app.DisabledEmailProvider{}, notificationSettings)

	res := svc.SendStatusUpdateEmail(context.Background(), services.StatusUpdateEmail{To: "hr@example.com"})
	assert.False(t, res.Sent)
	assert.Equal(t, email.ErrNotConfigured.Error(), res.Message)

	status := svc.EmailStatus()
	assert.False(t, status.Configured)
	assert.Empty(t, status.Host)
}

func TestNotification_EmailStatusConfigured(t *testing.T) {
	status := services.NewNotificationService(&testutil.RecordingEmailProvider{}, notificationSettings).EmailStatus()

	assert.True(t, status.Configured)
	assert.Equal(t, "smtp.example.com", status.Host)
	assert.Equal(t, 587, status.Port)
	assert.Equal(t, "robot@example.com", status.FromEmail)
}
