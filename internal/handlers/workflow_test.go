package handlers_test

import (
	"net/http"
	"testing"

	"hiring_backend/internal/models"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateForm() map[string]string {
	return map[string]string{
		"firstName":   "Alice",
		"lastName":    "Smith",
		"phoneNumber": "+77011234567",
		"email":       "alice@example.com",
		"gender":      "Female",
		"dateOfBirth": "1996-03-14",
		"education":   "MSc Mathematics",
		"experience":  "Two years of data engineering",
	}
}

// TestHiringWorkflow - HR создает кандидата и назначает менеджеру,
// менеджер оставляет отзыв, совет видит результат, HR удаляет кандидата.
func TestHiringWorkflow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	hrToken, hr := ts.CreateAndLoginUser(t, "HR One", models.DesignationHR)
	managerToken, manager := ts.CreateAndLoginUser(t, "Manager One", models.DesignationManager)
	boardToken, _ := ts.CreateAndLoginUser(t, "Board One", models.DesignationBoardMember)

	// 1. Создание кандидата
	res, body := ts.SendMultipart(t, http.MethodPost, "/api/candidates", hrToken, candidateForm(),
		testutil.FormFile{Field: "image", Filename: "photo.png", Data: testutil.PNGBytes(t, 16, 16)},
		testutil.FormFile{Field: "resume", Filename: "cv.pdf", Data: testutil.PDFBytes()},
	)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	candidate := testutil.Decode[dto.CandidateResponse](t, body)
	assert.NotEmpty(t, candidate.ReferenceNumber)
	assert.Equal(t, hr.ID, candidate.CreatedByID)

	// файл доступен по ссылке из ответа
	res, _ = ts.SendRequest(t, http.MethodGet, candidate.ImageURL, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// 2. Назначение
	res, body = ts.SendRequest(t, http.MethodPost, "/api/assignments", hrToken, map[string]string{
		"candidateId":  candidate.ID,
		"managerEmail": manager.Email,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	created := testutil.Decode[dto.AssignmentCreatedResponse](t, body)
	assert.True(t, created.Sent)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/assignments", hrToken, map[string]string{
		"candidateId":  candidate.ID,
		"managerEmail": manager.Email,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	// менеджер видит только своего кандидата
	res, body = ts.SendRequest(t, http.MethodGet, "/api/candidates", managerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	list := testutil.Decode[dto.CandidateListResponse](t, body)
	require.Equal(t, 1, list.Total)
	require.NotNil(t, list.Candidates[0].Assignment)
	assert.Equal(t, created.Assignment.ID, list.Candidates[0].Assignment.ID)

	// 3. Отзыв менеджера
	res, body = ts.SendRequest(t, http.MethodPut, "/api/assignments/"+created.Assignment.ID, managerToken, map[string]string{
		"status":   "Shortlisted",
		"feedback": "Great fit",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	updated := testutil.Decode[dto.AssignmentUpdatedResponse](t, body)
	assert.Equal(t, models.AssignmentStatusShortlisted, updated.Assignment.Status)
	assert.True(t, updated.Assignment.FeedbackSubmitted)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/candidates/"+candidate.ID, hrToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, models.CandidateStatusShortlisted, testutil.Decode[dto.CandidateResponse](t, body).Status)

	require.Len(t, ts.Emails.Sent(), 2)

	// 4. Доска совета
	res, body = ts.SendRequest(t, http.MethodGet, "/api/board/candidates", boardToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	board := testutil.Decode[dto.BoardCandidatesResponse](t, body)
	require.Equal(t, 1, board.Total)
	assert.Equal(t, "Great fit", board.Candidates[0].ManagerFeedback)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/board/candidates", hrToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// 5. Удаление
	res, body = ts.SendRequest(t, http.MethodDelete, "/api/candidates/"+candidate.ID, hrToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	deleted := testutil.Decode[dto.CandidateDeletedResponse](t, body)
	assert.Equal(t, int64(1), deleted.DeletedAssignments)

	res, _ = ts.SendRequest(t, http.MethodGet, candidate.ImageURL, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/assignments/"+created.Assignment.ID, hrToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateAssignment_ForeignManagerGets403(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, hr := ts.CreateAndLoginUser(t, "HR One", models.DesignationHR)
	_, owner := ts.CreateAndLoginUser(t, "Manager One", models.DesignationManager)
	strangerToken, _ := ts.CreateAndLoginUser(t, "Manager Two", models.DesignationManager)

	candidate := testutil.CreateCandidate(t, ts.DB, hr.ID)
	assignment := testutil.CreateAssignment(t, ts.DB, candidate, hr, owner)

	res, body := ts.SendRequest(t, http.MethodPut, "/api/assignments/"+assignment.ID, strangerToken, map[string]string{
		"status": "Rejected",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	var stored models.Assignment
	require.NoError(t, ts.DB.First(&stored, "id = ?", assignment.ID).Error)
	assert.Equal(t, models.AssignmentStatusAssigned, stored.Status)
}

func TestCandidateEndpoints_AccessControl(t *testing.T) {
	ts := testutil.NewTestServer(t)
	hrToken, _ := ts.CreateAndLoginUser(t, "HR One", models.DesignationHR)
	managerToken, _ := ts.CreateAndLoginUser(t, "Manager One", models.DesignationManager)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/candidates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/candidates", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendMultipart(t, http.MethodPost, "/api/candidates", managerToken, candidateForm())
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	form := candidateForm()
	form["email"] = "not-an-email"
	form["gender"] = "Unknown"
	res, body := ts.SendMultipart(t, http.MethodPost, "/api/candidates", hrToken, form)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	assert.Contains(t, body, "email")
	assert.Contains(t, body, "gender")

	res, body = ts.SendMultipart(t, http.MethodPost, "/api/candidates", hrToken, candidateForm())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
}

func TestAssignmentEndpoints_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	hrToken, _ := ts.CreateAndLoginUser(t, "HR One", models.DesignationHR)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/assignments", hrToken, map[string]string{
		"candidateId": "x",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	assert.Contains(t, body, "managerEmail")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/assignments/test-email", hrToken, map[string]string{
		"email": "someone@example.com",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.True(t, testutil.Decode[dto.TestEmailResponse](t, body).Sent)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/assignments/stats/overview", hrToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Zero(t, testutil.Decode[dto.AssignmentStats](t, body).Total)
}
