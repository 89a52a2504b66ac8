package domain

type Role string

const (
	// Regular account with no administrative rights.
	RoleUser Role = "user"
	// Moderator can review accounts but not manage them.
	RoleModerator Role = "moderator"
	// Admin can open the user administration screen.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleModerator) || r == string(RoleAdmin)
}

// RoleRank: bigger => higher privilege
func RoleRank(r string) int {
	switch r {
	case string(RoleUser):
		return 1
	case string(RoleModerator):
		return 2
	case string(RoleAdmin):
		return 3
	default:
		return 0
	}
}
