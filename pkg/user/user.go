package user

import "strings"

type Role string

const (
	Admin    Role = "admin"
	Employee Role = "employee"
)

// User is the signed-in identity the dashboard caches: role, display name and e-mail.
type User struct {
	Email string
	Name  string
	Role  Role
}

func (u User) IsAdmin() bool {
	return u.Role == Admin
}

// Matches reports whether a developer identity on a ticket or worklog belongs to this user.
// Tickets carry either the e-mail or the display name, compared case-insensitively.
func (u User) Matches(developer string) bool {
	developer = strings.TrimSpace(developer)
	if developer == "" {
		return false
	}
	return strings.EqualFold(developer, u.Email) || strings.EqualFold(developer, u.Name)
}

func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == Admin {
		return Admin
	}
	return Employee
}
