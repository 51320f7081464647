package services_test

import (
	"errors"
	"net/http"
	"testing"

	"hiring_backend/internal/email"
	"hiring_backend/internal/models"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateAssignment_MirrorsStatusAndNotifies(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)

	resp, err := f.assignments.CreateAssignment(f.db, hr.ID, &dto.CreateAssignmentRequest{
		CandidateID:  candidate.ID,
		ManagerEmail: manager.Email,
		ScheduleDate: "2030-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusAssigned, resp.Assignment.Status)
	assert.Equal(t, manager.Name, resp.Assignment.Manager.Name)
	assert.True(t, resp.Sent)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusAssigned, stored.Status)

	var count int64
	require.NoError(t, f.db.Model(&models.Assignment{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	sent := f.emails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{manager.Email}, sent[0].To)
	assert.Equal(t, email.TemplateCandidateAssigned, sent[0].Template)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventCandidateAssigned, events[0].Type)
	assert.Equal(t, manager.ID, events[0].ManagerID)
}

func TestCreateAssignment_RejectsSecondAssignment(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)

	req := &dto.CreateAssignmentRequest{CandidateID: candidate.ID, ManagerEmail: manager.Email}
	_, err := f.assignments.CreateAssignment(f.db, hr.ID, req)
	require.NoError(t, err)

	_, err = f.assignments.CreateAssignment(f.db, hr.ID, req)
	requireHTTPCode(t, err, http.StatusBadRequest)

	var count int64
	require.NoError(t, f.db.Model(&models.Assignment{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAssignment_NotFound(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	notManager := testutil.CreateUser(t, f.db, "Board One", models.DesignationBoardMember)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)

	_, err := f.assignments.CreateAssignment(f.db, hr.ID, &dto.CreateAssignmentRequest{
		CandidateID: "00000000-0000-0000-0000-000000000000", ManagerEmail: manager.Email,
	})
	requireHTTPCode(t, err, http.StatusNotFound)

	_, err = f.assignments.CreateAssignment(f.db, hr.ID, &dto.CreateAssignmentRequest{
		CandidateID: candidate.ID, ManagerEmail: notManager.Email,
	})
	requireHTTPCode(t, err, http.StatusNotFound)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusNew, stored.Status)
}

func TestCreateAssignment_EmailFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.emails.Err = errors.New("smtp down")
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)

	resp, err := f.assignments.CreateAssignment(f.db, hr.ID, &dto.CreateAssignmentRequest{
		CandidateID: candidate.ID, ManagerEmail: manager.Email,
	})
	require.NoError(t, err)
	assert.False(t, resp.Sent)
	assert.Contains(t, resp.Message, "assigned")
	assert.Contains(t, resp.EmailResult.Message, "smtp down")
}

func TestUpdateAssignment_ShortlistedMirrorsToCandidate(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	resp, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Status: ptr(string(models.AssignmentStatusShortlisted)),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusShortlisted, resp.Assignment.Status)
	assert.True(t, resp.Assignment.FeedbackSubmitted)
	assert.NotNil(t, resp.Assignment.ReviewedAt)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusShortlisted, stored.Status)

	sent := f.emails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{hr.Email}, sent[0].To)
	assert.Equal(t, email.TemplateStatusUpdate, sent[0].Template)
}

func TestUpdateAssignment_InterviewScheduledKeepsCandidateUnderReview(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	resp, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Status:        ptr(string(models.AssignmentStatusInterviewScheduled)),
		InterviewDate: ptr("2030-02-01T10:00:00Z"),
	})
	require.NoError(t, err)
	assert.False(t, resp.Assignment.FeedbackSubmitted)
	require.NotNil(t, resp.Assignment.InterviewDate)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusUnderReview, stored.Status)
}

func TestUpdateAssignment_UnderReviewSendsNoEmail(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	resp, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Status: ptr(string(models.AssignmentStatusUnderReview)),
	})
	require.NoError(t, err)
	assert.False(t, resp.Sent)
	assert.Empty(t, f.emails.Sent())
}

func TestUpdateAssignment_FeedbackWithoutStatus(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	resp, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Feedback: ptr("  Strong system design skills  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Strong system design skills", resp.Assignment.Feedback)
	assert.True(t, resp.Assignment.FeedbackSubmitted)
	assert.Nil(t, resp.Assignment.ReviewedAt)
	assert.Equal(t, models.AssignmentStatusAssigned, resp.Assignment.Status)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusAssigned, stored.Status)
}

func TestUpdateAssignment_AnyTransitionIsAllowed(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	for _, status := range []models.AssignmentStatus{models.AssignmentStatusRejected, models.AssignmentStatusShortlisted} {
		resp, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
			Status: ptr(string(status)),
		})
		require.NoError(t, err)
		assert.Equal(t, status, resp.Assignment.Status)
	}
}

func TestUpdateAssignment_NotOwnerIsForbiddenAndUnchanged(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	owner := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	stranger := testutil.CreateUser(t, f.db, "Manager Two", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, owner)

	_, err := f.assignments.UpdateAssignment(f.db, stranger.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Status:   ptr(string(models.AssignmentStatusRejected)),
		Feedback: ptr("not mine"),
	})
	requireHTTPCode(t, err, http.StatusForbidden)

	var stored models.Assignment
	require.NoError(t, f.db.First(&stored, "id = ?", assignment.ID).Error)
	assert.Equal(t, models.AssignmentStatusAssigned, stored.Status)
	assert.Empty(t, stored.Feedback)
	assert.False(t, stored.FeedbackSubmitted)
	assert.Nil(t, stored.ReviewedAt)

	var storedCandidate models.Candidate
	require.NoError(t, f.db.First(&storedCandidate, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusAssigned, storedCandidate.Status)
	assert.Empty(t, f.emails.Sent())
}

func TestUpdateHRComments_OnlyCreator(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	otherHR := testutil.CreateUser(t, f.db, "HR Two", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, candidate, hr, manager)

	_, err := f.assignments.UpdateHRComments(f.db, otherHR.ID, assignment.ID, &dto.UpdateHRCommentsRequest{HRComments: "hi"})
	requireHTTPCode(t, err, http.StatusForbidden)

	updated, err := f.assignments.UpdateHRComments(f.db, hr.ID, assignment.ID, &dto.UpdateHRCommentsRequest{HRComments: "Please prioritise"})
	require.NoError(t, err)
	assert.Equal(t, "Please prioritise", updated.HRComments)
}

func TestAssignmentStats_ManagerScope(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	m1 := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)
	m2 := testutil.CreateUser(t, f.db, "Manager Two", models.DesignationManager)
	testutil.CreateAssignment(t, f.db, testutil.CreateCandidate(t, f.db, hr.ID), hr, m1)
	testutil.CreateAssignment(t, f.db, testutil.CreateCandidate(t, f.db, hr.ID), hr, m2)
	testutil.CreateAssignment(t, f.db, testutil.CreateCandidate(t, f.db, hr.ID), hr, m2)

	all, err := f.assignments.GetStats(f.db, hr.ID, models.DesignationHR)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, int64(3), all.ByStatus[string(models.AssignmentStatusAssigned)])
	assert.Len(t, all.ByStatus, len(models.AssignmentStatuses()))

	own, err := f.assignments.GetStats(f.db, m1.ID, models.DesignationManager)
	require.NoError(t, err)
	assert.Equal(t, int64(1), own.Total)

	list, err := f.assignments.ListAssignments(f.db, m2.ID, models.DesignationManager)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}
