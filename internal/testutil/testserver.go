package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"hiring_backend/internal/app"
	"hiring_backend/internal/config"
	"hiring_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - поднятое приложение поверх httptest и sqlite
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
	App    *app.Application
	Emails *RecordingEmailProvider
}

// NewTestServer собирает приложение целиком; письма складываются в Emails
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	cfg := TestConfig(t)
	db := NewTestDB(t, cfg)
	emails := &RecordingEmailProvider{}

	application, err := app.New(cfg, db, app.Overrides{EmailProvider: emails})
	require.NoError(t, err, "Не удалось собрать приложение")

	server := httptest.NewServer(application.Router)
	t.Cleanup(func() {
		server.Close()
		application.Close()
	})

	return &TestServer{
		Server: server,
		DB:     db,
		Config: cfg,
		App:    application,
		Emails: emails,
	}
}

// SendRequest отправляет JSON запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

// FormFile - файл multipart-формы
type FormFile struct {
	Field    string
	Filename string
	Data     []byte
}

// SendMultipart отправляет multipart/form-data
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, fields map[string]string, files ...FormFile) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")
	return res, string(data)
}

// CreateAndLoginUser создает пользователя и логинит его через API
func (ts *TestServer) CreateAndLoginUser(t *testing.T, name string, designation models.Designation) (string, *models.User) {
	t.Helper()
	user := CreateUser(t, ts.DB, name, designation)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token, "Токен не должен быть пустым")
	return resp.Token, user
}

// LoginAdmin создает админа и возвращает его токен
func (ts *TestServer) LoginAdmin(t *testing.T) (string, *models.Admin) {
	t.Helper()
	admin := CreateAdmin(t, ts.DB)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/admin/auth/login", "", map[string]string{
		"email":    admin.Email,
		"password": DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин админа должен быть успешным. Ответ: "+body)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Token, admin
}

// Decode разбирает JSON тело ответа
func Decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), "Не удалось распарсить JSON: "+body)
	return v
}
