package services_test

import (
	"net/http"
	"testing"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/models"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(email, token string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:            "New Person",
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		InvitationToken: token,
	}
}

func TestRegister_WithActiveInvitation(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateAdmin(t, f.db)
	email := testutil.UniqueEmail("invitee")
	ra := testutil.CreateRoleAssignment(t, f.db, admin.ID, email, models.DesignationManager)

	resp, err := f.auth.Register(f.db, registerRequest(email, ""))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.DesignationManager, resp.User.Designation)

	var stored models.RoleAssignment
	require.NoError(t, f.db.First(&stored, "id = ?", ra.ID).Error)
	assert.NotNil(t, stored.RegisteredAt)

	claims, err := f.userTokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(models.DesignationManager), claims.Designation)
}

func TestRegister_WithoutInvitationIsForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(f.db, registerRequest(testutil.UniqueEmail("nobody"), ""))
	requireHTTPCode(t, err, http.StatusForbidden)
}

func TestRegister_InvitationToken(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateAdmin(t, f.db)
	email := testutil.UniqueEmail("invitee")
	testutil.CreateRoleAssignment(t, f.db, admin.ID, email, models.DesignationBoardMember)

	token, err := f.userTokens.GenerateInvitationToken(email, string(models.DesignationBoardMember), time.Hour)
	require.NoError(t, err)

	_, err = f.auth.Register(f.db, registerRequest(testutil.UniqueEmail("other"), token))
	requireHTTPCode(t, err, http.StatusForbidden)

	_, err = f.auth.Register(f.db, registerRequest(email, "garbage"))
	requireHTTPCode(t, err, http.StatusUnauthorized)

	resp, err := f.auth.Register(f.db, registerRequest(email, token))
	require.NoError(t, err)
	assert.Equal(t, models.DesignationBoardMember, resp.User.Designation)

	_, err = f.auth.Register(f.db, registerRequest(email, token))
	requireHTTPCode(t, err, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)

	_, err := f.auth.Login(f.db, &dto.LoginRequest{Email: user.Email, Password: "wrong-pass1"})
	requireHTTPCode(t, err, http.StatusUnauthorized)

	resp, err := f.auth.Login(f.db, &dto.LoginRequest{Email: user.Email, Password: testutil.DefaultPassword})
	require.NoError(t, err)
	assert.NotNil(t, resp.User.LastLogin)

	authenticated, err := f.auth.Authenticate(f.db, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	me, err := f.auth.Me(f.db, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, auth.Permissions[string(models.DesignationHR)], me.Permissions)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = f.auth.Login(f.db, &dto.LoginRequest{Email: user.Email, Password: testutil.DefaultPassword})
	requireHTTPCode(t, err, http.StatusForbidden)

	_, err = f.auth.Authenticate(f.db, resp.Token)
	requireHTTPCode(t, err, http.StatusUnauthorized)
}
