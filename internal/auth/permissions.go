package auth

// Разрешения по должностям
const (
	PermCandidatesCreate       = "candidates:create"
	PermCandidatesReadAll      = "candidates:read"
	PermCandidatesReadAssigned = "candidates:read:assigned"
	PermCandidatesUpdate       = "candidates:update"
	PermCandidatesDelete       = "candidates:delete"
	PermCandidatesDeleteOwn    = "candidates:delete:assigned"

	PermAssignmentsCreate    = "assignments:create"
	PermAssignmentsReadAll   = "assignments:read"
	PermAssignmentsReadOwn   = "assignments:read:own"
	PermAssignmentsReview    = "assignments:review"
	PermAssignmentsComment   = "assignments:comment"
	PermAssignmentsTestEmail = "assignments:test-email"

	PermBoardRead = "board:read"
)

// Permissions список разрешений (ключ - значение models.Designation)
var Permissions = map[string][]string{
	"HR": {
		PermCandidatesCreate,
		PermCandidatesReadAll,
		PermCandidatesUpdate,
		PermCandidatesDelete,
		PermAssignmentsCreate,
		PermAssignmentsReadAll,
		PermAssignmentsComment,
		PermAssignmentsTestEmail,
	},
	"Manager": {
		PermCandidatesReadAssigned,
		PermCandidatesDeleteOwn,
		PermAssignmentsReadOwn,
		PermAssignmentsReview,
	},
	"Board Member": {
		PermCandidatesReadAll,
		PermAssignmentsReadAll,
		PermBoardRead,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission - true, если есть хотя бы одно из разрешений
func HasAnyPermission(role string, permissions ...string) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}
