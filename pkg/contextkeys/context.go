package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, под которым хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// Ключи gin.Context, которые выставляют middleware аутентификации
	UserIDKey      = "userID"
	RoleKey        = "role"
	CurrentUserKey = "currentUser"
	AdminIDKey     = "adminID"
	CurrentAdmin   = "currentAdmin"
)
