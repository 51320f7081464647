package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	CandidateHandler  *CandidateHandler
	AssignmentHandler *AssignmentHandler
	BoardHandler      *BoardHandler
	AdminHandler      *AdminHandler
	FileHandler       *FileHandler
	HealthHandler     *HealthHandler
}
