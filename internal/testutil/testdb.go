package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"hiring_backend/internal/auth"
	"hiring_backend/internal/config"
	"hiring_backend/internal/database"
	"hiring_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultPassword = "password123"

var seq atomic.Int64

// TestConfig - конфиг для тестов: sqlite во временном каталоге, без SMTP и воркеров
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(dir, "hiring_test.db")
	cfg.Database.LogLevel = "silent"
	cfg.Email.SMTPUsername = ""
	cfg.Email.SMTPPassword = ""
	cfg.JWT.Secret = "test_jwt_secret_key_12345"
	cfg.Admin.JWTSecret = "test_admin_secret_key_12345"
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = filepath.Join(dir, "uploads")
	cfg.Storage.BaseURL = "/uploads"
	cfg.RateLimit.AuthPerMinute = 1000
	cfg.Workers.ReconcileIntervalMinutes = 0
	return cfg
}

// NewTestDB открывает мигрированную sqlite базу, закрывается вместе с тестом
func NewTestDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg)
	require.NoError(t, err, "Не удалось открыть тестовую БД")
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// UniqueEmail - email, который не пересекается с другими тестами
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().UnixNano(), seq.Add(1))
}

// CreateUser создает активного пользователя с паролем DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, name string, designation models.Designation) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        UniqueEmail(string(designation[:1])),
		PasswordHash: hash,
		Designation:  designation,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя")
	return user
}

// CreateAdmin создает активного админа с паролем DefaultPassword
func CreateAdmin(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()
	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	admin := &models.Admin{
		Name:         "Test Admin",
		Email:        UniqueEmail("admin"),
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, db.Create(admin).Error, "Не удалось создать админа")
	return admin
}

// CreateRoleAssignment - активное приглашение на роль
func CreateRoleAssignment(t *testing.T, db *gorm.DB, adminID, email string, role models.Designation) *models.RoleAssignment {
	t.Helper()
	ra := &models.RoleAssignment{
		Email:       email,
		Role:        role,
		Status:      models.RoleAssignmentActive,
		InvitedByID: adminID,
		InvitedAt:   time.Now(),
		IsActive:    true,
	}
	require.NoError(t, db.Create(ra).Error)
	return ra
}

// CreateCandidate пишет кандидата напрямую в БД (без загрузки файлов)
func CreateCandidate(t *testing.T, db *gorm.DB, createdByID string) *models.Candidate {
	t.Helper()
	n := seq.Add(1)
	candidate := &models.Candidate{
		FirstName:   "John",
		LastName:    fmt.Sprintf("Doe%d", n),
		PhoneNumber: "+77010000000",
		Email:       UniqueEmail("candidate"),
		Gender:      models.GenderMale,
		DateOfBirth: datatypes.Date(time.Date(1995, 5, 17, 0, 0, 0, 0, time.UTC)),
		Education:   "BSc Computer Science",
		Experience:  "3 years backend",
		Image:       fmt.Sprintf("image-%d.png", n),
		Resume:      fmt.Sprintf("resume-%d.pdf", n),
		CreatedByID: createdByID,
	}
	require.NoError(t, db.Create(candidate).Error, "Не удалось создать кандидата")
	return candidate
}

// CreateAssignment - назначение кандидата менеджеру, статус кандидата выставляется в Assigned
func CreateAssignment(t *testing.T, db *gorm.DB, candidate *models.Candidate, hr, manager *models.User) *models.Assignment {
	t.Helper()
	assignment := &models.Assignment{
		CandidateID:  candidate.ID,
		AssignedByID: hr.ID,
		AssignedToID: manager.ID,
		ManagerEmail: manager.Email,
		ManagerName:  manager.Name,
	}
	require.NoError(t, db.Create(assignment).Error)
	require.NoError(t, db.Model(&models.Candidate{}).Where("id = ?", candidate.ID).
		Update("status", models.CandidateStatusAssigned).Error)
	return assignment
}

// PNGBytes - валидная картинка w x h
func PNGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// PDFBytes - минимальный документ, который mimetype распознает как application/pdf
func PDFBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}
